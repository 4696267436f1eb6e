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

// Package parser builds an AST from a token stream for the toy
// imperative language: assignment-style statements plus the
// control-flow shells (skip, if/then/else, while) that carry no
// constraints of their own but must still be parsed so their bodies
// can be recovered.
package parser

import (
	"github.com/cockroachdb/apd/v3"

	"steensgaard.dev/go/internal/lexer"
	"steensgaard.dev/go/token"
)

// StmtKind identifies the shape of a Stmt.
type StmtKind string

// The statement kinds the grammar recognizes. The eight assignment-like
// kinds mirror constraint.Kind one-for-one; skip/if/while exist only to
// be stripped by package compile.
const (
	StmtAssign   StmtKind = "assign"
	StmtAddrOf   StmtKind = "addr_of"
	StmtDeref    StmtKind = "deref"
	StmtStore    StmtKind = "store"
	StmtOp       StmtKind = "op"
	StmtAllocate StmtKind = "allocate"
	StmtFunDef   StmtKind = "fun_def"
	StmtFunApp   StmtKind = "fun_app"
	StmtSkip     StmtKind = "skip"
	StmtIf       StmtKind = "if"
	StmtWhile    StmtKind = "while"
)

// Operand is the right-hand side of an assignment-like statement, an
// op's argument, or a fun_app's argument: either a variable reference
// or a numeric literal. Only identifiers ever contribute to a
// constraint; is_identifier in the reference grammar is IsIdent here.
type Operand struct {
	Name    string      // set when IsIdent
	Number  apd.Decimal // parsed literal value, set otherwise
	IsIdent bool
}

// Stmt is one parsed statement. Which fields are meaningful depends on
// Kind.
type Stmt struct {
	Kind StmtKind
	Pos  token.Pos

	Lhs string  // every kind except skip/if/while
	Rhs Operand // assign, addr_of, deref, store

	Operation lexer.Kind // op: ADD, NEGATE, or MULTIPLY
	Operands  []Operand  // op

	Params  []string // fun_def
	Returns []string // fun_def

	FunName string    // fun_app
	Args    []Operand // fun_app

	Body []Stmt // fun_def, while
	Then []Stmt // if
	Else []Stmt // if
}
