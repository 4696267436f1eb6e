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

package compile_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"steensgaard.dev/go/constraint"
	"steensgaard.dev/go/internal/compile"
)

func kindsOf(cs []constraint.Constraint) []constraint.Kind {
	ks := make([]constraint.Kind, len(cs))
	for i, c := range cs {
		ks[i] = c.Kind
	}
	return ks
}

func TestSourceStripsControlFlowAndLiteralRHS(t *testing.T) {
	src := `
x := allocate(10);
y := &x;
z := *y;
a := 5;
*x := 6;
if (x) then {
	w := &z;
} else {
	skip;
};
while (x) {
	w := negate(x);
};
`
	cs, err := compile.Source("test", []byte(src))
	qt.Assert(t, qt.IsNil(err))

	// a := 5 and *x := 6 are dropped: literal right-hand sides carry
	// no points-to information.
	qt.Assert(t, qt.DeepEquals(kindsOf(cs), []constraint.Kind{
		constraint.Allocate, constraint.AddrOf, constraint.Deref,
		constraint.AddrOf, constraint.Op,
	}))
}

func TestSourceFlattensFunctionScope(t *testing.T) {
	src := `
f := fun(p) -> (r) {
	r := *p;
	g := fun(q) -> (s) {
		s := &q;
	};
};
`
	cs, err := compile.Source("test", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(cs, 1))

	f := cs[0]
	qt.Assert(t, qt.Equals(f.Kind, constraint.FunDef))
	qt.Assert(t, qt.DeepEquals(f.Params, []string{"f_p"}))
	qt.Assert(t, qt.DeepEquals(f.Returns, []string{"f_r"}))
	qt.Assert(t, qt.HasLen(f.Body, 2))

	deref := f.Body[0]
	qt.Assert(t, qt.Equals(deref.Kind, constraint.Deref))
	qt.Assert(t, qt.Equals(deref.Lhs, "f_r"))
	qt.Assert(t, qt.Equals(deref.Rhs, "f_p"))

	g := f.Body[1]
	qt.Assert(t, qt.Equals(g.Kind, constraint.FunDef))
	qt.Assert(t, qt.Equals(g.Lhs, "f_g"))
	// g's own params/returns are scoped only to g's own name: the outer
	// f_ prefix is not folded into them, matching the reference
	// frontend's rescoping pass.
	qt.Assert(t, qt.DeepEquals(g.Params, []string{"g_q"}))
	qt.Assert(t, qt.DeepEquals(g.Returns, []string{"g_s"}))
	qt.Assert(t, qt.HasLen(g.Body, 1))
	qt.Assert(t, qt.Equals(g.Body[0].Lhs, "f_g_s"))
	qt.Assert(t, qt.Equals(g.Body[0].Rhs, "f_g_q"))
}

func TestSourceKeepsOperandVariablesOnly(t *testing.T) {
	src := `
x := allocate(1);
y := allocate(1);
w := add(x, y, 7);
`
	cs, err := compile.Source("test", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	op := cs[len(cs)-1]
	qt.Assert(t, qt.Equals(op.Kind, constraint.Op))
	qt.Assert(t, qt.DeepEquals(op.OperandVariables, []string{"x", "y"}))
}
