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

// Package constraint defines the tagged-union wire format the solver
// consumes: one record per pointer-relevant statement in the source
// program, plus JSON and YAML codecs so constraint sets can be authored
// or inspected independently of the internal/compile frontend.
package constraint

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"steensgaard.dev/go/token"
)

// Kind identifies the shape of a Constraint.
type Kind string

// The eight constraint kinds the solver dispatches on.
const (
	Assign  Kind = "assign"
	AddrOf  Kind = "addr_of"
	Deref   Kind = "deref"
	Store   Kind = "store"
	Op      Kind = "op"
	Allocate Kind = "allocate"
	FunDef  Kind = "fun_def"
	FunApp  Kind = "fun_app"
)

// Constraint is a single pointer-relevant statement extracted from the
// source program. Which fields are meaningful depends on Kind; see the
// field comments and the dispatcher in package solve.
type Constraint struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Pos carries file:line:column provenance when the constraint was
	// compiled from source rather than authored directly; it is opaque
	// to encoding/json and gopkg.in/yaml.v3 (see MarshalJSON/MarshalYAML),
	// which encode and recover it through its token.PortablePosition
	// form, so encoded output and a later decode of it keep the filename
	// and byte offset; line and column are not preserved.
	Pos token.Pos `json:"-" yaml:"-"`

	// Lhs is the assigned-to variable for every kind except fun_app's
	// argument list, which has no single lhs meaning beyond its own Lhs.
	Lhs string `json:"lhs,omitempty" yaml:"lhs,omitempty"`

	// Rhs is used by assign (x := y), addr_of (x := &y), deref
	// (x := *y), and store (*x := y).
	Rhs string `json:"rhs,omitempty" yaml:"rhs,omitempty"`

	// OperandVariables is used by op (x := op(y1, y2, ...)).
	OperandVariables []string `json:"operand_variables,omitempty" yaml:"operand_variables,omitempty"`

	// Params and Returns are used by fun_def.
	Params  []string `json:"params,omitempty" yaml:"params,omitempty"`
	Returns []string `json:"returns,omitempty" yaml:"returns,omitempty"`

	// Body is used by fun_def: the constraints extracted from the
	// function body, already flattened by internal/compile's fname_var
	// rule.
	Body []Constraint `json:"body,omitempty" yaml:"body,omitempty"`

	// FunName and ArgVariables are used by fun_app (x := p(y1, y2, ...)).
	FunName      string   `json:"fun_name,omitempty" yaml:"fun_name,omitempty"`
	ArgVariables []string `json:"arg_variables,omitempty" yaml:"arg_variables,omitempty"`
}

// String renders c in roughly the surface syntax it was derived from,
// for diagnostics and golden-file tests.
func (c Constraint) String() string {
	switch c.Kind {
	case Assign:
		return fmt.Sprintf("%s := %s", c.Lhs, c.Rhs)
	case AddrOf:
		return fmt.Sprintf("%s := &%s", c.Lhs, c.Rhs)
	case Deref:
		return fmt.Sprintf("%s := *%s", c.Lhs, c.Rhs)
	case Store:
		return fmt.Sprintf("*%s := %s", c.Lhs, c.Rhs)
	case Op:
		return fmt.Sprintf("%s := op(%v)", c.Lhs, c.OperandVariables)
	case Allocate:
		return fmt.Sprintf("%s := allocate()", c.Lhs)
	case FunDef:
		return fmt.Sprintf("%s := fun(%v) -> (%v) { ... }", c.Lhs, c.Params, c.Returns)
	case FunApp:
		return fmt.Sprintf("%s := %s(%v)", c.Lhs, c.FunName, c.ArgVariables)
	default:
		return fmt.Sprintf("<unknown constraint kind %q>", c.Kind)
	}
}

// wireConstraint mirrors Constraint field-for-field except that Pos is
// replaced by its portable form, so the standard encoding/json and
// gopkg.in/yaml.v3 struct codecs can be used directly once a Constraint
// has been converted to and from this shape.
type wireConstraint struct {
	Kind Kind                    `json:"kind" yaml:"kind"`
	Pos  *token.PortablePosition `json:"pos,omitempty" yaml:"pos,omitempty"`
	Lhs  string                  `json:"lhs,omitempty" yaml:"lhs,omitempty"`
	Rhs  string                  `json:"rhs,omitempty" yaml:"rhs,omitempty"`

	OperandVariables []string `json:"operand_variables,omitempty" yaml:"operand_variables,omitempty"`

	Params  []string `json:"params,omitempty" yaml:"params,omitempty"`
	Returns []string `json:"returns,omitempty" yaml:"returns,omitempty"`

	Body []Constraint `json:"body,omitempty" yaml:"body,omitempty"`

	FunName      string   `json:"fun_name,omitempty" yaml:"fun_name,omitempty"`
	ArgVariables []string `json:"arg_variables,omitempty" yaml:"arg_variables,omitempty"`
}

func (c Constraint) toWire() wireConstraint {
	w := wireConstraint{
		Kind:             c.Kind,
		Lhs:              c.Lhs,
		Rhs:              c.Rhs,
		OperandVariables: c.OperandVariables,
		Params:           c.Params,
		Returns:          c.Returns,
		Body:             c.Body,
		FunName:          c.FunName,
		ArgVariables:     c.ArgVariables,
	}
	if c.Pos.IsValid() {
		pp := c.Pos.ToPortable()
		w.Pos = &pp
	}
	return w
}

func (c *Constraint) fromWire(w wireConstraint) {
	c.Kind = w.Kind
	c.Lhs = w.Lhs
	c.Rhs = w.Rhs
	c.OperandVariables = w.OperandVariables
	c.Params = w.Params
	c.Returns = w.Returns
	c.Body = w.Body
	c.FunName = w.FunName
	c.ArgVariables = w.ArgVariables
	if w.Pos != nil {
		c.Pos = token.FromPortable(*w.Pos)
	} else {
		c.Pos = token.NoPos
	}
}

// MarshalJSON encodes c with its Pos reduced to a token.PortablePosition,
// so filename and byte-offset provenance survives an EncodeJSON/DecodeJSON
// round trip.
func (c Constraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toWire())
}

// UnmarshalJSON is MarshalJSON's inverse.
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var w wireConstraint
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.fromWire(w)
	return nil
}

// MarshalYAML is MarshalJSON's YAML counterpart, used by gopkg.in/yaml.v3.
func (c Constraint) MarshalYAML() (interface{}, error) {
	return c.toWire(), nil
}

// UnmarshalYAML is MarshalYAML's inverse.
func (c *Constraint) UnmarshalYAML(value *yaml.Node) error {
	var w wireConstraint
	if err := value.Decode(&w); err != nil {
		return err
	}
	c.fromWire(w)
	return nil
}

// Names returns every variable name a single constraint references,
// not recursing into fun_def's Body (the frontend's pre-pass walks the
// whole tree; Walk below does that).
func (c Constraint) Names() []string {
	var names []string
	add := func(n string) {
		if n != "" {
			names = append(names, n)
		}
	}
	add(c.Lhs)
	add(c.Rhs)
	add(c.FunName)
	names = append(names, c.OperandVariables...)
	names = append(names, c.Params...)
	names = append(names, c.Returns...)
	names = append(names, c.ArgVariables...)
	return names
}

// Walk calls fn for c and, if c is a fun_def, recursively for every
// constraint in its body. Solver.Run's name-registration pass uses it to
// visit a flat constraint stream that may still carry nested function
// bodies; the dispatcher recurses into bodies on its own.
func Walk(cs []Constraint, fn func(Constraint)) {
	for _, c := range cs {
		fn(c)
		if c.Kind == FunDef {
			Walk(c.Body, fn)
		}
	}
}
