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

// Package compile turns a parsed program into the flat constraint
// stream package solve consumes: control flow (if/while/skip) is
// stripped down to the constraints its branches and bodies still
// contain, assignment-like statements whose right-hand side is a
// numeric literal rather than a variable are dropped outright, and
// every function body's variables are flattened into the enclosing
// program's single namespace by prefixing them with their function's
// name.
package compile

import (
	"steensgaard.dev/go/constraint"
	"steensgaard.dev/go/internal/parser"
)

// Source lexes, parses, and compiles src in one step.
func Source(name string, src []byte) ([]constraint.Constraint, error) {
	prog, err := parser.ParseProgram(name, src)
	if err != nil {
		return nil, err
	}
	return Program(prog), nil
}

// Program compiles an already-parsed statement list.
func Program(stmts []parser.Stmt) []constraint.Constraint {
	return compileStmts(stmts)
}

func compileStmts(stmts []parser.Stmt) []constraint.Constraint {
	var out []constraint.Constraint
	for _, s := range stmts {
		out = append(out, compileStmt(s)...)
	}
	return out
}

func compileStmt(s parser.Stmt) []constraint.Constraint {
	switch s.Kind {
	case parser.StmtSkip:
		return nil

	case parser.StmtIf:
		cs := compileStmts(s.Then)
		return append(cs, compileStmts(s.Else)...)

	case parser.StmtWhile:
		return compileStmts(s.Body)

	case parser.StmtFunDef:
		body := scope(compileStmts(s.Body), s.Lhs)
		return []constraint.Constraint{{
			Kind:    constraint.FunDef,
			Pos:     s.Pos,
			Lhs:     s.Lhs,
			Params:  prefixAll(s.Params, s.Lhs),
			Returns: prefixAll(s.Returns, s.Lhs),
			Body:    body,
		}}

	case parser.StmtAssign, parser.StmtAddrOf, parser.StmtDeref, parser.StmtStore:
		if !s.Rhs.IsIdent {
			// A literal right-hand side (x := 10, *x := 10, ...)
			// carries no points-to information; dropped rather than
			// given a constraint, matching the reference frontend.
			return nil
		}
		return []constraint.Constraint{assignLikeConstraint(s)}

	case parser.StmtOp:
		return []constraint.Constraint{{
			Kind:             constraint.Op,
			Pos:              s.Pos,
			Lhs:              s.Lhs,
			OperandVariables: identOperands(s.Operands),
		}}

	case parser.StmtAllocate:
		return []constraint.Constraint{{
			Kind: constraint.Allocate,
			Pos:  s.Pos,
			Lhs:  s.Lhs,
		}}

	case parser.StmtFunApp:
		return []constraint.Constraint{{
			Kind:         constraint.FunApp,
			Pos:          s.Pos,
			Lhs:          s.Lhs,
			FunName:      s.FunName,
			ArgVariables: identOperands(s.Args),
		}}

	default:
		return nil
	}
}

func assignLikeConstraint(s parser.Stmt) constraint.Constraint {
	kind := constraint.Assign
	switch s.Kind {
	case parser.StmtAddrOf:
		kind = constraint.AddrOf
	case parser.StmtDeref:
		kind = constraint.Deref
	case parser.StmtStore:
		kind = constraint.Store
	}
	return constraint.Constraint{Kind: kind, Pos: s.Pos, Lhs: s.Lhs, Rhs: s.Rhs.Name}
}

// identOperands keeps only the identifier operands of an op's argument
// list or a fun_app's argument list; numeric literals never contribute
// to a constraint.
func identOperands(ops []parser.Operand) []string {
	var names []string
	for _, op := range ops {
		if op.IsIdent {
			names = append(names, op.Name)
		}
	}
	return names
}

func prefixAll(names []string, prefix string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = prefix + "_" + n
	}
	return out
}

// scope rescopes every variable reference in cs by prefixing it with
// prefix + "_", recursing into nested fun_def bodies. It is the
// fname_var flattening rule: a function's own name (params, returns)
// has already been folded in by the caller before scope ever sees a
// fun_def's constraint, so scope only needs to touch Lhs, Rhs,
// OperandVariables, and recurse into Body — the same four fields the
// reference frontend's own recursive rescoping pass touches. A nested
// fun_def's Params/Returns, already scoped to its own name, and a
// fun_app's ArgVariables/FunName are deliberately left alone, matching
// that pass exactly.
func scope(cs []constraint.Constraint, prefix string) []constraint.Constraint {
	out := make([]constraint.Constraint, len(cs))
	for i, c := range cs {
		if c.Lhs != "" {
			c.Lhs = prefix + "_" + c.Lhs
		}
		if c.Rhs != "" {
			c.Rhs = prefix + "_" + c.Rhs
		}
		if len(c.OperandVariables) > 0 {
			c.OperandVariables = prefixAll(c.OperandVariables, prefix)
		}
		if len(c.Body) > 0 {
			c.Body = scope(c.Body, prefix)
		}
		out[i] = c
	}
	return out
}
