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

import (
	"fmt"

	"steensgaard.dev/go/errors"
	"steensgaard.dev/go/internal/core/uf"
	"steensgaard.dev/go/token"
)

// UnknownIDError is returned when a constraint references a Type ID
// that was never registered via Fresh/FreshFor. This is always a bug in
// the caller (typically the frontend failing to pre-register a
// variable) — it is never recoverable mid-analysis.
type UnknownIDError = uf.UnknownIDError

// ArityMismatchError is returned when two lambda records being unified
// have a different number of parameter or return slots. The analysis
// run that produced it cannot be completed; the caller should surface
// it as "program not analysable".
type ArityMismatchError struct {
	// Kind is "parameters" or "returns", identifying which slot list
	// mismatched.
	Kind string
	Want int
	Got  int

	pos  token.Pos
	path []string
}

func (e *ArityMismatchError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "arguments"
	}
	return fmt.Sprintf("arity mismatch: %d %s expected, got %d", e.Want, kind, e.Got)
}

func (e *ArityMismatchError) Position() token.Pos         { return e.pos }
func (e *ArityMismatchError) InputPositions() []token.Pos { return nil }
func (e *ArityMismatchError) Path() []string              { return e.path }
func (e *ArityMismatchError) Msg() (string, []interface{}) {
	kind := e.Kind
	if kind == "" {
		kind = "arguments"
	}
	return "arity mismatch: %d %s expected, got %d", []interface{}{e.Want, kind, e.Got}
}

var _ errors.Error = &ArityMismatchError{}

// WithPosition returns a copy of e annotated with a source position and
// path, for use by callers (internal/compile, solve) that know where in
// the source the mismatching fun_def/fun_app constraint came from.
func (e *ArityMismatchError) WithPosition(pos token.Pos, path ...string) *ArityMismatchError {
	cp := *e
	cp.pos = pos
	cp.path = path
	return &cp
}
