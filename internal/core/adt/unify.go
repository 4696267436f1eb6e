// Copyright 2026 The Steensgaard Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package adt

// This file holds the three mutually recursive unification primitives:
// join, cjoin, and settype. Every recursive call either runs inside a
// Union that strictly reduces the number of classes, or resolves a
// structural mismatch that strictly grows the set of equated tau/lambda
// pairs — both bounded, so the engine never needs a fixpoint loop.

// Join unconditionally merges the classes of e1 and e2, recursively
// unifying their structural fields.
func (c *Context) Join(e1, e2 ID) error {
	r1, err := c.Find(e1)
	if err != nil {
		return err
	}
	r2, err := c.Find(e2)
	if err != nil {
		return err
	}
	if r1 == r2 {
		return nil
	}

	rec1, rec2 := c.records[r1], c.records[r2]
	c.logf("join(%d, %d)", r1, r2)

	switch {
	case rec1.IsBottom() && rec2.IsBottom():
		return c.joinBothBottom(r1, r2, rec1, rec2)
	case rec1.IsBottom():
		return c.joinOneBottom(r2, r1, rec2, rec1)
	case rec2.IsBottom():
		return c.joinOneBottom(r1, r2, rec1, rec2)
	default:
		return c.joinBothKnown(r1, r2, rec1, rec2)
	}
}

// joinBothBottom merges two still-bottom records: the result stays
// bottom, and its pending set is the union of both inputs'.
func (c *Context) joinBothBottom(r1, r2 ID, rec1, rec2 *Record) error {
	merged := newBottomRecord()
	for p := range rec1.Pending {
		merged.addPending(p)
	}
	for p := range rec2.Pending {
		merged.addPending(p)
	}
	rep := c.uf.Union(r1, r2)
	c.records[rep] = merged
	return nil
}

// joinOneBottom merges a known record (rep/rec) with a bottom one
// (other/otherRec). The merged record takes the known fields; anything
// the bottom side had deferred in its pending set must now be joined
// against the winner, since the winner is (and remains) non-bottom.
func (c *Context) joinOneBottom(rep, other ID, rec, otherRec *Record) error {
	newRep := c.uf.Union(rep, other)
	c.records[newRep] = rec

	pending := otherRec.Pending
	for p := range pending {
		if err := c.Join(newRep, p); err != nil {
			return err
		}
	}
	return nil
}

// joinBothKnown merges two non-bottom records: install one's fields as
// the merged record, then structurally unify tau/lambda/arg/ret slots.
//
// The structural unification below may itself trigger further Joins
// that fold rep's own class into one of the classes it references (a
// cyclic pointer such as p := &p does exactly this). Those recursive
// Joins mutate c.uf, so rep may no longer be the live representative by
// the time unification finishes; the final write goes through Find
// again rather than trusting rep directly.
func (c *Context) joinBothKnown(r1, r2 ID, rec1, rec2 *Record) error {
	rep := c.uf.Union(r1, r2)
	winner, loser := rec1, rec2
	if rep == r2 {
		winner, loser = rec2, rec1
	}

	if err := c.unifyStructural(winner, loser); err != nil {
		return err
	}

	final, err := c.Find(rep)
	if err != nil {
		return err
	}
	c.records[final] = winner
	return nil
}

// unifyStructural equates the tau and lambda axes of two records that
// are both known, joining mismatched pointees/signatures element-wise.
func (c *Context) unifyStructural(winner, loser *Record) error {
	switch {
	case winner.Tau == NoID:
		winner.Tau = loser.Tau
	case loser.Tau != NoID:
		if err := c.Join(winner.Tau, loser.Tau); err != nil {
			return err
		}
	}

	switch {
	case winner.Lam == NoID:
		winner.Lam = loser.Lam
		winner.LamArgs = loser.LamArgs
		winner.LamRets = loser.LamRets
	case loser.Lam != NoID:
		if err := c.Join(winner.Lam, loser.Lam); err != nil {
			return err
		}
		if err := c.unifySlots("parameters", winner.LamArgs, loser.LamArgs); err != nil {
			return err
		}
		if err := c.unifySlots("returns", winner.LamRets, loser.LamRets); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) unifySlots(kind string, a, b []ID) error {
	if len(a) != len(b) {
		return &ArityMismatchError{Kind: kind, Want: len(a), Got: len(b)}
	}
	for i := range a {
		if err := c.Join(a[i], b[i]); err != nil {
			return err
		}
	}
	return nil
}

// CJoin is the conditional join: join e1 with e2 only once e2's record
// becomes non-bottom. If e2 is still bottom, e1 is recorded in e2's
// pending set (keyed by e2's *current* representative) and the call
// returns immediately without merging anything.
func (c *Context) CJoin(e1, e2 ID) error {
	r2, err := c.Find(e2)
	if err != nil {
		return err
	}
	rec2 := c.records[r2]
	if rec2.IsBottom() {
		c.logf("cjoin(%d, %d) deferred (pending on %d)", e1, e2, r2)
		rec2.addPending(e1)
		return nil
	}
	return c.Join(e1, e2)
}

// SetType installs src's class as e's class: e's record, which must
// currently be bottom, is replaced by the merged result of unioning e
// with src. The deref/store handlers call this when the cell they are
// reading or writing through has never been given structure, so e and
// src become the same equivalence class rather than e merely copying
// src's (equally empty) fields. This is Join restricted to its
// bottom-side cases, named separately because the dispatcher table
// invokes it under a distinct precondition (e is known ⊥) and because
// that precondition is what makes "copy in place" and "union" coincide:
// whichever side's record survives, its structural fields are exactly
// what the merged representative carries forward.
func (c *Context) SetType(e, src ID) error {
	return c.Join(e, src)
}

// CJoinIterative is the CJoin counterpart to JoinIterative.
func (c *Context) CJoinIterative(e1, e2 ID) error {
	r2, err := c.Find(e2)
	if err != nil {
		return err
	}
	rec2 := c.records[r2]
	if rec2.IsBottom() {
		rec2.addPending(e1)
		return nil
	}
	return c.JoinIterative(e1, e2)
}

// GetTau returns the tau field of e's record, lazily minting a fresh
// pointee ID and draining e's pending set if the record was bottom on
// entry.
func (c *Context) GetTau(e ID) (ID, error) {
	r, err := c.Find(e)
	if err != nil {
		return NoID, err
	}
	rec := c.records[r]
	if rec.Tau != NoID {
		return rec.Tau, nil
	}
	wasBottom := rec.IsBottom()
	rec.Tau = c.Fresh()
	if wasBottom {
		if err := c.drain(r, rec); err != nil {
			return NoID, err
		}
	}
	return rec.Tau, nil
}

// GetLam returns the lambda field of e's record, lazily minting a fresh
// function-handle ID (with no parameter/return slots of its own — those
// are installed by the fun_def/fun_app handlers) if the record was
// bottom on that axis.
func (c *Context) GetLam(e ID) (ID, error) {
	r, err := c.Find(e)
	if err != nil {
		return NoID, err
	}
	rec := c.records[r]
	if rec.Lam != NoID {
		return rec.Lam, nil
	}
	wasBottom := rec.IsBottom()
	rec.Lam = c.Fresh()
	if wasBottom {
		if err := c.drain(r, rec); err != nil {
			return NoID, err
		}
	}
	return rec.Lam, nil
}

// JoinIterative is functionally equivalent to Join but drains its
// recursive work through an explicit queue instead of the Go call
// stack, avoiding stack exhaustion on pathological inputs (spec §5/§9's
// recommended worklist reformulation). Selected by the CLI's
// --iterative flag; see solve/worklist.go.
func (c *Context) JoinIterative(e1, e2 ID) error {
	queue := [][2]ID{{e1, e2}}
	for len(queue) > 0 {
		pair := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		r1, err := c.Find(pair[0])
		if err != nil {
			return err
		}
		r2, err := c.Find(pair[1])
		if err != nil {
			return err
		}
		if r1 == r2 {
			continue
		}

		rec1, rec2 := c.records[r1], c.records[r2]
		c.logf("join(%d, %d) [iterative]", r1, r2)

		switch {
		case rec1.IsBottom() && rec2.IsBottom():
			if err := c.joinBothBottom(r1, r2, rec1, rec2); err != nil {
				return err
			}
		case rec1.IsBottom():
			rep := c.uf.Union(r2, r1)
			c.records[rep] = rec2
			for p := range rec1.Pending {
				queue = append(queue, [2]ID{rep, p})
			}
		case rec2.IsBottom():
			rep := c.uf.Union(r1, r2)
			c.records[rep] = rec1
			for p := range rec2.Pending {
				queue = append(queue, [2]ID{rep, p})
			}
		default:
			rep := c.uf.Union(r1, r2)
			winner, loser := rec1, rec2
			if rep == r2 {
				winner, loser = rec2, rec1
			}
			c.records[rep] = winner

			if winner.Tau == NoID {
				winner.Tau = loser.Tau
			} else if loser.Tau != NoID {
				queue = append(queue, [2]ID{winner.Tau, loser.Tau})
			}

			if winner.Lam == NoID {
				winner.Lam = loser.Lam
				winner.LamArgs = loser.LamArgs
				winner.LamRets = loser.LamRets
			} else if loser.Lam != NoID {
				queue = append(queue, [2]ID{winner.Lam, loser.Lam})
				if len(winner.LamArgs) != len(loser.LamArgs) {
					return &ArityMismatchError{Kind: "parameters", Want: len(winner.LamArgs), Got: len(loser.LamArgs)}
				}
				if len(winner.LamRets) != len(loser.LamRets) {
					return &ArityMismatchError{Kind: "returns", Want: len(winner.LamRets), Got: len(loser.LamRets)}
				}
				for i := range winner.LamArgs {
					queue = append(queue, [2]ID{winner.LamArgs[i], loser.LamArgs[i]})
				}
				for i := range winner.LamRets {
					queue = append(queue, [2]ID{winner.LamRets[i], loser.LamRets[i]})
				}
			}
		}
	}
	return nil
}

// drain joins r against every ID deferred in rec's pending set, then
// clears it. Called whenever a record transitions from bottom to
// non-bottom outside of SetType (namely from GetTau/GetLam).
func (c *Context) drain(r ID, rec *Record) error {
	pending := rec.Pending
	rec.Pending = nil
	for p := range pending {
		if err := c.Join(r, p); err != nil {
			return err
		}
	}
	return nil
}
