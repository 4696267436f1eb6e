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

// Package solve wires the constraint dispatcher (one handler per
// constraint kind) to the unification engine in internal/core/adt, and
// exposes the query/shape-graph export a caller runs once the
// constraint stream is exhausted.
package solve

import (
	"fmt"
	"io"

	"steensgaard.dev/go/constraint"
	"steensgaard.dev/go/errors"
	"steensgaard.dev/go/internal/core/adt"
)

// Solver owns a single analysis run: a type arena plus the name
// registry the frontend populated it through. Per spec §5, a Solver is
// not safe for concurrent use and is never shared across programs.
type Solver struct {
	ctx        *adt.Context
	iterative  bool
	onSnapshot func(step int, snap adt.Snapshot)
}

// Option configures a Solver at construction time.
type Option func(*Solver)

// WithIterative selects the worklist-based Join/CJoin reformulation
// (solve/worklist.go) instead of the recursive one, trading a small
// constant overhead for bounded stack depth on pathological inputs.
func WithIterative(iterative bool) Option {
	return func(s *Solver) { s.iterative = iterative }
}

// WithSnapshotHook installs a callback invoked after every processed
// constraint with a 1-based step counter and the arena's current
// snapshot. Used by the CLI's --snapshot-every flag; nil by default.
func WithSnapshotHook(fn func(step int, snap adt.Snapshot)) Option {
	return func(s *Solver) { s.onSnapshot = fn }
}

// WithVerbose turns on the arena's join/unify trace output, written to
// w. Used by the CLI's -v flag.
func WithVerbose(w io.Writer) Option {
	return func(s *Solver) {
		s.ctx.Verbose = true
		s.ctx.Trace = w
	}
}

// New returns a Solver with a fresh, empty type arena.
func New(opts ...Option) *Solver {
	s := &Solver{ctx: adt.NewContext()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Context returns the underlying type arena, for callers that need
// direct access (queries, debug dumps) after a run completes.
func (s *Solver) Context() *adt.Context { return s.ctx }

// Run pre-registers every variable named anywhere in cs (including
// inside fun_def bodies) and then dispatches each top-level constraint
// in order. Per §4.5's ordering note, the final relation on variables
// does not depend on the order constraints are supplied in, only on
// every referenced variable having been registered first — which this
// does unconditionally before dispatching any constraint.
func (s *Solver) Run(cs []constraint.Constraint) error {
	constraint.Walk(cs, func(c constraint.Constraint) {
		for _, name := range c.Names() {
			s.ctx.FreshFor(name)
		}
	})

	step := 0
	var dispatch func([]constraint.Constraint) error
	dispatch = func(cs []constraint.Constraint) error {
		for _, c := range cs {
			if err := s.dispatchOne(c); err != nil {
				return annotate(err, c)
			}
			step++
			if s.onSnapshot != nil {
				s.onSnapshot(step, s.ctx.Snapshot())
			}
			if c.Kind == constraint.FunDef {
				if err := dispatch(c.Body); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return dispatch(cs)
}

func annotate(err error, c constraint.Constraint) error {
	if c.Pos.IsValid() {
		return errors.Wrapf(err, c.Pos, "%s", c.String())
	}
	return err
}

func (s *Solver) dispatchOne(c constraint.Constraint) error {
	switch c.Kind {
	case constraint.Assign:
		return s.assign(c)
	case constraint.AddrOf:
		return s.addrOf(c)
	case constraint.Deref:
		return s.deref(c)
	case constraint.Store:
		return s.store(c)
	case constraint.Op:
		return s.op(c)
	case constraint.Allocate:
		return s.allocate(c)
	case constraint.FunDef:
		return s.funDef(c)
	case constraint.FunApp:
		return s.funApp(c)
	default:
		return fmt.Errorf("solve: unhandled constraint kind %q", c.Kind)
	}
}

// assign implements `x := y`: a single cjoin between the two variables
// themselves. See DESIGN.md's dispatcher-semantics note for why this,
// rather than a literal cjoin of their tau/lambda fields, is what
// reproduces spec.md §8's worked scenarios.
func (s *Solver) assign(c constraint.Constraint) error {
	x := s.ctx.FreshFor(c.Lhs)
	y := s.ctx.FreshFor(c.Rhs)
	return s.cjoin(x, y)
}

// addrOf implements `x := &y`: join(tau(x), find(y)).
func (s *Solver) addrOf(c constraint.Constraint) error {
	x := s.ctx.FreshFor(c.Lhs)
	y := s.ctx.FreshFor(c.Rhs)
	tx, err := s.ctx.GetTau(x)
	if err != nil {
		return err
	}
	return s.join(tx, y)
}

// deref implements `x := *y`. If y's pointee has never been given
// structure, x and the pointee become the same ECR (settype); otherwise
// x's fields are conditionally joined against the pointee's.
func (s *Solver) deref(c constraint.Constraint) error {
	x := s.ctx.FreshFor(c.Lhs)
	y := s.ctx.FreshFor(c.Rhs)
	ty, err := s.ctx.GetTau(y)
	if err != nil {
		return err
	}
	tyRec, err := s.ctx.RecordOf(ty)
	if err != nil {
		return err
	}
	if tyRec.IsBottom() {
		return s.ctx.SetType(ty, x)
	}
	tx, err := s.ctx.GetTau(x)
	if err != nil {
		return err
	}
	tty, err := s.ctx.GetTau(ty)
	if err != nil {
		return err
	}
	if err := s.cjoin(tx, tty); err != nil {
		return err
	}
	lx, err := s.ctx.GetLam(x)
	if err != nil {
		return err
	}
	lty, err := s.ctx.GetLam(ty)
	if err != nil {
		return err
	}
	return s.cjoin(lx, lty)
}

// store implements `*x := y`, the mirror image of deref.
func (s *Solver) store(c constraint.Constraint) error {
	x := s.ctx.FreshFor(c.Lhs)
	y := s.ctx.FreshFor(c.Rhs)
	tx, err := s.ctx.GetTau(x)
	if err != nil {
		return err
	}
	txRec, err := s.ctx.RecordOf(tx)
	if err != nil {
		return err
	}
	if txRec.IsBottom() {
		return s.ctx.SetType(tx, y)
	}
	ttx, err := s.ctx.GetTau(tx)
	if err != nil {
		return err
	}
	ty, err := s.ctx.GetTau(y)
	if err != nil {
		return err
	}
	if err := s.cjoin(ttx, ty); err != nil {
		return err
	}
	ltx, err := s.ctx.GetLam(tx)
	if err != nil {
		return err
	}
	ly, err := s.ctx.GetLam(y)
	if err != nil {
		return err
	}
	return s.cjoin(ltx, ly)
}

// op implements `x := op(y1, y2, ...)`: x is not aliased to any single
// operand (unlike assign), only made pointee- and signature-compatible
// with each of them in turn.
func (s *Solver) op(c constraint.Constraint) error {
	x := s.ctx.FreshFor(c.Lhs)
	tx, err := s.ctx.GetTau(x)
	if err != nil {
		return err
	}
	lx, err := s.ctx.GetLam(x)
	if err != nil {
		return err
	}
	for _, name := range c.OperandVariables {
		y := s.ctx.FreshFor(name)
		ty, err := s.ctx.GetTau(y)
		if err != nil {
			return err
		}
		if err := s.cjoin(tx, ty); err != nil {
			return err
		}
		ly, err := s.ctx.GetLam(y)
		if err != nil {
			return err
		}
		if err := s.cjoin(lx, ly); err != nil {
			return err
		}
	}
	return nil
}

// allocate implements `x := allocate()`: materialise tau(x) if it is
// not already set, synthesising exactly one fresh cell.
func (s *Solver) allocate(c constraint.Constraint) error {
	x := s.ctx.FreshFor(c.Lhs)
	_, err := s.ctx.GetTau(x)
	return err
}

// funDef implements `f := fun(p1...) -> (r1...) { body }`. Body
// constraints are dispatched separately by Run once this returns; this
// handler only installs or unifies f's signature.
func (s *Solver) funDef(c constraint.Constraint) error {
	f := s.ctx.FreshFor(c.Lhs)
	fRec, err := s.ctx.RecordOf(f)
	if err != nil {
		return err
	}

	params := freshSlots(s.ctx, c.Params)
	rets := freshSlots(s.ctx, c.Returns)

	if fRec.Lam == adt.NoID {
		if _, err := s.ctx.GetLam(f); err != nil {
			return err
		}
		fRec, err = s.ctx.RecordOf(f)
		if err != nil {
			return err
		}
		fRec.LamArgs = params
		fRec.LamRets = rets
		return nil
	}

	if len(fRec.LamArgs) != len(params) {
		return &adt.ArityMismatchError{Kind: "parameters", Want: len(fRec.LamArgs), Got: len(params)}
	}
	if len(fRec.LamRets) != len(rets) {
		return &adt.ArityMismatchError{Kind: "returns", Want: len(fRec.LamRets), Got: len(rets)}
	}
	for i := range params {
		if err := s.join(fRec.LamArgs[i], params[i]); err != nil {
			return err
		}
	}
	for i := range rets {
		if err := s.join(fRec.LamRets[i], rets[i]); err != nil {
			return err
		}
	}
	return nil
}

// funApp implements `x := p(y1, y2, ...)`. If p has no known signature
// yet, slots matching this call site's arity are synthesised so a
// fun_def encountered later in the stream still unifies correctly.
func (s *Solver) funApp(c constraint.Constraint) error {
	x := s.ctx.FreshFor(c.Lhs)
	p := s.ctx.FreshFor(c.FunName)
	pRec, err := s.ctx.RecordOf(p)
	if err != nil {
		return err
	}

	if pRec.Lam == adt.NoID {
		if _, err := s.ctx.GetLam(p); err != nil {
			return err
		}
		pRec, err = s.ctx.RecordOf(p)
		if err != nil {
			return err
		}
		args := make([]adt.ID, len(c.ArgVariables))
		for i := range args {
			args[i] = s.ctx.Fresh()
		}
		pRec.LamArgs = args
		pRec.LamRets = []adt.ID{s.ctx.Fresh()}
	}

	if len(pRec.LamArgs) != len(c.ArgVariables) {
		return &adt.ArityMismatchError{Kind: "parameters", Want: len(pRec.LamArgs), Got: len(c.ArgVariables)}
	}
	if len(pRec.LamRets) != 1 {
		return &adt.ArityMismatchError{Kind: "returns", Want: len(pRec.LamRets), Got: 1}
	}

	for i, name := range c.ArgVariables {
		actual := s.ctx.FreshFor(name)
		if err := s.cjoin(pRec.LamArgs[i], actual); err != nil {
			return err
		}
	}
	return s.cjoin(x, pRec.LamRets[0])
}

func freshSlots(ctx *adt.Context, names []string) []adt.ID {
	ids := make([]adt.ID, len(names))
	for i, name := range names {
		ids[i] = ctx.FreshFor(name)
	}
	return ids
}
