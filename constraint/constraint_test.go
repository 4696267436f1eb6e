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

package constraint_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"steensgaard.dev/go/constraint"
	"steensgaard.dev/go/internal/compile"
)

func scenarioE() []constraint.Constraint {
	return []constraint.Constraint{
		{
			Kind:    constraint.FunDef,
			Lhs:     "f",
			Params:  []string{"a"},
			Returns: []string{"r"},
			Body: []constraint.Constraint{
				{Kind: constraint.Assign, Lhs: "r", Rhs: "a"},
			},
		},
		{Kind: constraint.AddrOf, Lhs: "x", Rhs: "u"},
		{Kind: constraint.FunApp, Lhs: "y", FunName: "f", ArgVariables: []string{"x"}},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	cs := scenarioE()
	var buf bytes.Buffer
	qt.Assert(t, qt.IsNil(constraint.EncodeJSON(&buf, cs)))

	got, err := constraint.DecodeJSON(&buf)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, cs))
}

func TestYAMLRoundTrip(t *testing.T) {
	cs := scenarioE()
	var buf bytes.Buffer
	qt.Assert(t, qt.IsNil(constraint.EncodeYAML(&buf, cs)))

	got, err := constraint.DecodeYAML(&buf)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, cs))
}

// TestJSONRoundTripKeepsPosition checks that a constraint compiled from
// source, not authored directly, keeps its filename and byte offset
// across an EncodeJSON/DecodeJSON round trip (line/column are not recoverable
// from a PortablePosition alone, per FromPortable's doc comment).
func TestJSONRoundTripKeepsPosition(t *testing.T) {
	cs, err := compile.Source("prog.sil", []byte("x := allocate(1);\np := &x;\n"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(cs, 2))
	qt.Assert(t, qt.IsTrue(cs[1].Pos.IsValid()))

	var buf bytes.Buffer
	qt.Assert(t, qt.IsNil(constraint.EncodeJSON(&buf, cs)))
	qt.Assert(t, qt.IsTrue(strings.Contains(buf.String(), `"pos"`)))

	got, err := constraint.DecodeJSON(&buf)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(got, 2))
	qt.Assert(t, qt.IsTrue(got[1].Pos.IsValid()))
	qt.Assert(t, qt.Equals(got[1].Pos.Filename(), cs[1].Pos.Filename()))
	qt.Assert(t, qt.Equals(got[1].Pos.Offset(), cs[1].Pos.Offset()))
}

func TestWalkVisitsNestedBody(t *testing.T) {
	cs := scenarioE()
	var kinds []constraint.Kind
	constraint.Walk(cs, func(c constraint.Constraint) {
		kinds = append(kinds, c.Kind)
	})
	qt.Assert(t, qt.DeepEquals(kinds, []constraint.Kind{
		constraint.FunDef, constraint.Assign, constraint.AddrOf, constraint.FunApp,
	}))
}

func TestNames(t *testing.T) {
	c := constraint.Constraint{Kind: constraint.Op, Lhs: "x", OperandVariables: []string{"y", "z"}}
	qt.Assert(t, qt.DeepEquals(c.Names(), []string{"x", "y", "z"}))
}

func TestString(t *testing.T) {
	c := constraint.Constraint{Kind: constraint.AddrOf, Lhs: "p", Rhs: "x"}
	qt.Assert(t, qt.Equals(c.String(), "p := &x"))
}
