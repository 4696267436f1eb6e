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

package parser_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"steensgaard.dev/go/internal/parser"
)

func TestParseAssignmentLikeStatements(t *testing.T) {
	src := `
x := allocate(10);
y := &x;
z := *y;
a := b;
*x := z;
w := add(x, y, 3);
`
	stmts, err := parser.ParseProgram("test", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(stmts, 6))

	qt.Assert(t, qt.Equals(stmts[0].Kind, parser.StmtAllocate))
	qt.Assert(t, qt.Equals(stmts[0].Lhs, "x"))

	qt.Assert(t, qt.Equals(stmts[1].Kind, parser.StmtAddrOf))
	qt.Assert(t, qt.Equals(stmts[1].Rhs.Name, "x"))

	qt.Assert(t, qt.Equals(stmts[2].Kind, parser.StmtDeref))
	qt.Assert(t, qt.Equals(stmts[3].Kind, parser.StmtAssign))
	qt.Assert(t, qt.Equals(stmts[4].Kind, parser.StmtStore))
	qt.Assert(t, qt.Equals(stmts[4].Lhs, "x"))

	qt.Assert(t, qt.Equals(stmts[5].Kind, parser.StmtOp))
	qt.Assert(t, qt.HasLen(stmts[5].Operands, 3))
	qt.Assert(t, qt.Equals(stmts[5].Operands[0].Name, "x"))
	qt.Assert(t, qt.IsTrue(stmts[5].Operands[0].IsIdent))
	qt.Assert(t, qt.Equals(stmts[5].Operands[1].Name, "y"))
	qt.Assert(t, qt.IsTrue(stmts[5].Operands[1].IsIdent))
	qt.Assert(t, qt.IsFalse(stmts[5].Operands[2].IsIdent))
	qt.Assert(t, qt.Equals(stmts[5].Operands[2].Number.String(), "3"))
}

func TestParseFunDefAndFunApp(t *testing.T) {
	src := `
f := fun(p) -> (r) {
	r := *p;
};
x := allocate(1);
y := f(x);
`
	stmts, err := parser.ParseProgram("test", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(stmts, 3))

	fd := stmts[0]
	qt.Assert(t, qt.Equals(fd.Kind, parser.StmtFunDef))
	qt.Assert(t, qt.Equals(fd.Lhs, "f"))
	qt.Assert(t, qt.DeepEquals(fd.Params, []string{"p"}))
	qt.Assert(t, qt.DeepEquals(fd.Returns, []string{"r"}))
	qt.Assert(t, qt.HasLen(fd.Body, 1))
	qt.Assert(t, qt.Equals(fd.Body[0].Kind, parser.StmtDeref))

	app := stmts[2]
	qt.Assert(t, qt.Equals(app.Kind, parser.StmtFunApp))
	qt.Assert(t, qt.Equals(app.Lhs, "y"))
	qt.Assert(t, qt.Equals(app.FunName, "f"))
	qt.Assert(t, qt.HasLen(app.Args, 1))
	qt.Assert(t, qt.Equals(app.Args[0].Name, "x"))
	qt.Assert(t, qt.IsTrue(app.Args[0].IsIdent))
}

func TestParseControlFlow(t *testing.T) {
	src := `
if (x) then {
	x := &z;
} else {
	x := allocate(20);
	skip;
};
while (x) {
	x := negate(x);
};
`
	stmts, err := parser.ParseProgram("test", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(stmts, 2))
	qt.Assert(t, qt.Equals(stmts[0].Kind, parser.StmtIf))
	qt.Assert(t, qt.HasLen(stmts[0].Then, 1))
	qt.Assert(t, qt.HasLen(stmts[0].Else, 2))
	qt.Assert(t, qt.Equals(stmts[1].Kind, parser.StmtWhile))
	qt.Assert(t, qt.HasLen(stmts[1].Body, 1))
}

func TestParseRejectsTrailingSemicolonless(t *testing.T) {
	_, err := parser.ParseProgram("test", []byte("x := y"))
	qt.Assert(t, qt.IsNotNil(err))
}
