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

package solve_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"steensgaard.dev/go/constraint"
	"steensgaard.dev/go/internal/core/adt"
	"steensgaard.dev/go/solve"
)

func addrOf(lhs, rhs string) constraint.Constraint {
	return constraint.Constraint{Kind: constraint.AddrOf, Lhs: lhs, Rhs: rhs}
}
func assign(lhs, rhs string) constraint.Constraint {
	return constraint.Constraint{Kind: constraint.Assign, Lhs: lhs, Rhs: rhs}
}
func deref(lhs, rhs string) constraint.Constraint {
	return constraint.Constraint{Kind: constraint.Deref, Lhs: lhs, Rhs: rhs}
}
func store(lhs, rhs string) constraint.Constraint {
	return constraint.Constraint{Kind: constraint.Store, Lhs: lhs, Rhs: rhs}
}
func allocate(lhs string) constraint.Constraint {
	return constraint.Constraint{Kind: constraint.Allocate, Lhs: lhs}
}

func sameRep(t *testing.T, s *solve.Solver, names ...string) {
	t.Helper()
	want, ok := s.Representative(names[0])
	qt.Assert(t, qt.IsTrue(ok))
	for _, n := range names[1:] {
		got, ok := s.Representative(n)
		qt.Assert(t, qt.IsTrue(ok))
		qt.Assert(t, qt.Equals(got, want))
	}
}

// Scenario A — chained address-of.
func TestSolverChainedAddrOf(t *testing.T) {
	s := solve.New()
	err := s.Run([]constraint.Constraint{
		addrOf("p", "x"),
		addrOf("q", "y"),
		assign("p", "q"),
	})
	qt.Assert(t, qt.IsNil(err))

	sameRep(t, s, "p", "q")
	pp, ok := s.PointsTo("p")
	qt.Assert(t, qt.IsTrue(ok))
	qp, ok := s.PointsTo("q")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(pp, qp))
	xr, _ := s.Representative("x")
	qt.Assert(t, qt.Equals(pp, xr))
}

// Scenario B — allocation and load.
func TestSolverAllocationAndLoad(t *testing.T) {
	s := solve.New()
	err := s.Run([]constraint.Constraint{
		allocate("p"),
		allocate("q"),
		assign("p", "q"),
		deref("x", "p"),
	})
	qt.Assert(t, qt.IsNil(err))

	sameRep(t, s, "p", "q")
	pp, ok := s.PointsTo("p")
	qt.Assert(t, qt.IsTrue(ok))
	xr, ok := s.Representative("x")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(pp, xr))
}

// Scenario D — store through pointer.
func TestSolverStoreThroughPointer(t *testing.T) {
	s := solve.New()
	err := s.Run([]constraint.Constraint{
		addrOf("p", "x"),
		addrOf("q", "y"),
		store("p", "q"),
	})
	qt.Assert(t, qt.IsNil(err))

	sameRep(t, s, "x", "q")
	xp, ok := s.PointsTo("x")
	qt.Assert(t, qt.IsTrue(ok))
	yr, ok := s.Representative("y")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(xp, yr))
}

func TestSolverFunDefFunAppArity(t *testing.T) {
	s := solve.New()
	err := s.Run([]constraint.Constraint{
		{Kind: constraint.FunDef, Lhs: "f", Params: []string{"f_p"}, Returns: []string{"f_r"},
			Body: []constraint.Constraint{deref("f_r", "f_p")}},
		allocate("x"),
		{Kind: constraint.FunApp, Lhs: "y", FunName: "f", ArgVariables: []string{"x"}},
	})
	qt.Assert(t, qt.IsNil(err))
	sameRep(t, s, "x", "f_p")
}

// Scenario E — first-class function. The arg slot aliases a pointer
// (x := &u), and the body assigns the return slot from the param slot
// (r := a), so the pointee must propagate all the way back out through
// the call: find(τ(y)) = find(τ(x)) = find(u).
func TestSolverFirstClassFunctionPropagatesPointee(t *testing.T) {
	s := solve.New()
	err := s.Run([]constraint.Constraint{
		{Kind: constraint.FunDef, Lhs: "f", Params: []string{"f_a"}, Returns: []string{"f_r"},
			Body: []constraint.Constraint{assign("f_r", "f_a")}},
		addrOf("x", "u"),
		{Kind: constraint.FunApp, Lhs: "y", FunName: "f", ArgVariables: []string{"x"}},
	})
	qt.Assert(t, qt.IsNil(err))

	sameRep(t, s, "x", "f_a")

	xPointee, ok := s.PointsTo("x")
	qt.Assert(t, qt.IsTrue(ok))
	yPointee, ok := s.PointsTo("y")
	qt.Assert(t, qt.IsTrue(ok))
	uRep, ok := s.Representative("u")
	qt.Assert(t, qt.IsTrue(ok))

	qt.Assert(t, qt.Equals(xPointee, uRep))
	qt.Assert(t, qt.Equals(yPointee, uRep))
}

func TestSolverFunDefArityMismatch(t *testing.T) {
	s := solve.New()
	err := s.Run([]constraint.Constraint{
		{Kind: constraint.FunDef, Lhs: "f", Params: []string{"f_p1", "f_p2"}, Returns: []string{"f_r"}},
		{Kind: constraint.FunApp, Lhs: "y", FunName: "f", ArgVariables: []string{"x"}},
	})
	qt.Assert(t, qt.IsNotNil(err))
	var arityErr *adt.ArityMismatchError
	qt.Assert(t, qt.ErrorAs(err, &arityErr))
}

// partitionOf reduces a solver's exported shape graph to a form that is
// comparable across two runs whose numeric ECR IDs need not agree: each
// node becomes its sorted member list plus, if it has one, the member
// list of its pointee's node, joined into a single string. The whole
// list is then sorted so member order and node order never matter.
func partitionOf(t *testing.T, s *solve.Solver) []string {
	t.Helper()
	g, err := s.Export()
	qt.Assert(t, qt.IsNil(err))

	keyOf := make(map[adt.ID]string, len(g.Nodes))
	for _, n := range g.Nodes {
		keyOf[n.Rep] = strings.Join(n.Members, ",")
	}

	var rows []string
	for _, n := range g.Nodes {
		row := keyOf[n.Rep]
		if n.PointsTo != nil {
			row += "->" + keyOf[*n.PointsTo]
		}
		rows = append(rows, row)
	}
	sort.Strings(rows)
	return rows
}

// representativeConstraintSet combines scenario A (chained address-of,
// p/q/x/y) and scenario D (store through pointer, r/s/z/w) into one
// constraint multiset, used to check spec.md §8 Property 1: the
// resulting partition must not depend on the order these six
// constraints are supplied in.
func representativeConstraintSet() []constraint.Constraint {
	return []constraint.Constraint{
		addrOf("p", "x"),
		addrOf("q", "y"),
		assign("p", "q"),
		addrOf("r", "z"),
		addrOf("s", "w"),
		store("r", "s"),
	}
}

// TestSolverOrderIndependence checks spec.md §8 Property 1: running the
// same constraint multiset through Solver.Run in different orders must
// produce the same partition of variables into ECRs and the same
// points-to edges between them, even though the numeric ECR IDs
// assigned along the way may differ run to run.
func TestSolverOrderIndependence(t *testing.T) {
	orders := [][]constraint.Constraint{
		representativeConstraintSet(),
		reversed(representativeConstraintSet()),
		{
			representativeConstraintSet()[2], // p := q
			representativeConstraintSet()[5], // *r := s
			representativeConstraintSet()[0], // p := &x
			representativeConstraintSet()[4], // s := &w
			representativeConstraintSet()[1], // q := &y
			representativeConstraintSet()[3], // r := &z
		},
	}

	var partitions [][]string
	for _, cs := range orders {
		s := solve.New()
		qt.Assert(t, qt.IsNil(s.Run(cs)))
		partitions = append(partitions, partitionOf(t, s))
	}

	for i := 1; i < len(partitions); i++ {
		qt.Assert(t, qt.DeepEquals(partitions[i], partitions[0]))
	}
}

func reversed(cs []constraint.Constraint) []constraint.Constraint {
	out := make([]constraint.Constraint, len(cs))
	for i, c := range cs {
		out[len(cs)-1-i] = c
	}
	return out
}

func TestSolverIterativeMatchesRecursive(t *testing.T) {
	cs := []constraint.Constraint{
		addrOf("p", "x"),
		addrOf("q", "y"),
		assign("p", "q"),
	}
	recursive := solve.New()
	qt.Assert(t, qt.IsNil(recursive.Run(cs)))
	iterative := solve.New(solve.WithIterative(true))
	qt.Assert(t, qt.IsNil(iterative.Run(cs)))

	rg, err := recursive.Export()
	qt.Assert(t, qt.IsNil(err))
	ig, err := iterative.Export()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(rg.Nodes), len(ig.Nodes)))
}
