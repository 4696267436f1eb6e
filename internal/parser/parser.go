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

package parser

import (
	"github.com/cockroachdb/apd/v3"

	"steensgaard.dev/go/errors"
	"steensgaard.dev/go/internal/lexer"
	"steensgaard.dev/go/token"
)

// parser is a recursive-descent parser over a Scanner's token stream,
// buffering tokens for the lookahead the grammar's assignment-statement
// ambiguity needs (e.g. `x := y` vs `x := p(...)` both start
// IDENT ASSIGN IDENT). Shaped after cue/parser's next()/expect() token
// cursor, simplified to this language's much smaller grammar.
type parser struct {
	sc   *lexer.Scanner
	buf  []lexer.Token
	file *token.File
}

// ParseProgram tokenizes and parses src, returning the top-level
// statement list. name is used only for position reporting.
func ParseProgram(name string, src []byte) ([]Stmt, error) {
	clean, err := lexer.StripBOM(src)
	if err != nil {
		return nil, err
	}
	file := token.NewFile(name, len(clean))
	p := &parser{sc: lexer.NewScanner(file, clean), file: file}
	return p.parseStatements(nil)
}

func (p *parser) ensure(n int) error {
	for len(p.buf) <= n {
		tok, err := p.sc.Scan()
		if err != nil {
			return err
		}
		p.buf = append(p.buf, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	return nil
}

func (p *parser) peekN(n int) (lexer.Token, error) {
	if err := p.ensure(n); err != nil {
		return lexer.Token{}, err
	}
	if n >= len(p.buf) {
		return p.buf[len(p.buf)-1], nil // EOF
	}
	return p.buf[n], nil
}

func (p *parser) peek() (lexer.Token, error) { return p.peekN(0) }

func (p *parser) next() (lexer.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return lexer.Token{}, err
	}
	if len(p.buf) > 0 {
		p.buf = p.buf[1:]
	}
	return tok, nil
}

func (p *parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return lexer.Token{}, err
	}
	if tok.Kind != kind {
		return lexer.Token{}, errors.Newf(tok.Pos, "expected %v, found %v", kind, tok)
	}
	return tok, nil
}

// parseOperand accepts an identifier or a numeric literal, the
// `operand` production of the reference grammar.
func (p *parser) parseOperand() (Operand, error) {
	tok, err := p.next()
	if err != nil {
		return Operand{}, err
	}
	switch tok.Kind {
	case lexer.IDENT:
		return Operand{Name: tok.Lit, IsIdent: true}, nil
	case lexer.NUMBER:
		var d apd.Decimal
		if _, _, err := d.SetString(tok.Lit); err != nil {
			return Operand{}, errors.Newf(tok.Pos, "invalid numeric literal %q: %v", tok.Lit, err)
		}
		return Operand{Number: d}, nil
	default:
		return Operand{}, errors.Newf(tok.Pos, "expected identifier or number, found %v", tok)
	}
}

// parseOperandList parses a comma-delimited list of operands up to (not
// including) the closing token, mirroring pyparsing's delimitedList.
func (p *parser) parseOperandList() ([]Operand, error) {
	var ops []Operand
	for {
		op, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != lexer.COMMA {
			return ops, nil
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseIdentList() ([]string, error) {
	var names []string
	for {
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lit)
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.Kind != lexer.COMMA {
			return names, nil
		}
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}
}

// parseStatements parses statements until EOF (top level, stop == nil)
// or until the lookahead token is in stop (a block's closing brace).
func (p *parser) parseStatements(stop func(lexer.Kind) bool) ([]Stmt, error) {
	var stmts []Stmt
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.EOF || (stop != nil && stop(tok.Kind)) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func stopAtRBrace(k lexer.Kind) bool { return k == lexer.RBRACE }

func (p *parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(stopAtRBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

// skipParenthesized consumes a balanced '(' ... ')' group without
// interpreting its contents, used for the condition expressions of if
// and while: the reference grammar only needs to skip past them, since
// conditionals contribute no constraints.
func (p *parser) skipParenthesized() error {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
		case lexer.EOF:
			return errors.Newf(tok.Pos, "unterminated condition: missing ')'")
		}
	}
	return nil
}

func (p *parser) parseStatement() (Stmt, error) {
	tok, err := p.peek()
	if err != nil {
		return Stmt{}, err
	}

	switch tok.Kind {
	case lexer.SKIP:
		if _, err := p.next(); err != nil {
			return Stmt{}, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return Stmt{}, err
		}
		return Stmt{Kind: StmtSkip, Pos: tok.Pos}, nil

	case lexer.IF:
		return p.parseIf(tok.Pos)

	case lexer.WHILE:
		return p.parseWhile(tok.Pos)

	case lexer.STAR:
		return p.parseStore(tok.Pos)

	case lexer.IDENT:
		stmt, err := p.parseAssignmentLike(tok.Pos)
		if err != nil {
			return Stmt{}, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return Stmt{}, err
		}
		return stmt, nil

	default:
		return Stmt{}, errors.Newf(tok.Pos, "unexpected token %v at start of statement", tok)
	}
}

func (p *parser) parseIf(pos token.Pos) (Stmt, error) {
	if _, err := p.expect(lexer.IF); err != nil {
		return Stmt{}, err
	}
	if err := p.skipParenthesized(); err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return Stmt{}, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.ELSE); err != nil {
		return Stmt{}, err
	}
	els, err := p.parseBlock()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: StmtIf, Pos: pos, Then: then, Else: els}, nil
}

func (p *parser) parseWhile(pos token.Pos) (Stmt, error) {
	if _, err := p.expect(lexer.WHILE); err != nil {
		return Stmt{}, err
	}
	if err := p.skipParenthesized(); err != nil {
		return Stmt{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: StmtWhile, Pos: pos, Body: body}, nil
}

// parseStore parses `*x := y;`, including the trailing semicolon.
func (p *parser) parseStore(pos token.Pos) (Stmt, error) {
	if _, err := p.expect(lexer.STAR); err != nil {
		return Stmt{}, err
	}
	lhs, err := p.expect(lexer.IDENT)
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return Stmt{}, err
	}
	rhs, err := p.parseOperand()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: StmtStore, Pos: pos, Lhs: lhs.Lit, Rhs: rhs}, nil
}

// parseAssignmentLike parses every statement that starts
// `identifier :=`: assign, addr_of, deref, op, allocate, fun_def, and
// fun_app. The semicolon is left for the caller to consume.
func (p *parser) parseAssignmentLike(pos token.Pos) (Stmt, error) {
	lhs, err := p.expect(lexer.IDENT)
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return Stmt{}, err
	}

	tok, err := p.peek()
	if err != nil {
		return Stmt{}, err
	}

	switch {
	case tok.Kind == lexer.AMP:
		if _, err := p.next(); err != nil {
			return Stmt{}, err
		}
		rhs, err := p.parseOperand()
		if err != nil {
			return Stmt{}, err
		}
		return Stmt{Kind: StmtAddrOf, Pos: pos, Lhs: lhs.Lit, Rhs: rhs}, nil

	case tok.Kind == lexer.STAR:
		if _, err := p.next(); err != nil {
			return Stmt{}, err
		}
		rhs, err := p.parseOperand()
		if err != nil {
			return Stmt{}, err
		}
		return Stmt{Kind: StmtDeref, Pos: pos, Lhs: lhs.Lit, Rhs: rhs}, nil

	case tok.Kind.IsOperator():
		return p.parseOp(pos, lhs.Lit)

	case tok.Kind == lexer.ALLOCATE:
		return p.parseAllocate(pos, lhs.Lit)

	case tok.Kind == lexer.FUN:
		return p.parseFunDef(pos, lhs.Lit)

	case tok.Kind == lexer.IDENT:
		// Two IDENT+LPAREN lookahead decides fun_app vs plain assign.
		next, err := p.peekN(1)
		if err != nil {
			return Stmt{}, err
		}
		if next.Kind == lexer.LPAREN {
			return p.parseFunApp(pos, lhs.Lit)
		}
		rhs, err := p.parseOperand()
		if err != nil {
			return Stmt{}, err
		}
		return Stmt{Kind: StmtAssign, Pos: pos, Lhs: lhs.Lit, Rhs: rhs}, nil

	case tok.Kind == lexer.NUMBER:
		rhs, err := p.parseOperand()
		if err != nil {
			return Stmt{}, err
		}
		return Stmt{Kind: StmtAssign, Pos: pos, Lhs: lhs.Lit, Rhs: rhs}, nil

	default:
		return Stmt{}, errors.Newf(tok.Pos, "unexpected token %v after ':='", tok)
	}
}

func (p *parser) parseOp(pos token.Pos, lhs string) (Stmt, error) {
	opTok, err := p.next()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return Stmt{}, err
	}
	operands, err := p.parseOperandList()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: StmtOp, Pos: pos, Lhs: lhs, Operation: opTok.Kind, Operands: operands}, nil
}

func (p *parser) parseAllocate(pos token.Pos, lhs string) (Stmt, error) {
	if _, err := p.expect(lexer.ALLOCATE); err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return Stmt{}, err
	}
	if _, err := p.parseOperand(); err != nil { // size argument, not tracked
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: StmtAllocate, Pos: pos, Lhs: lhs}, nil
}

func (p *parser) parseFunDef(pos token.Pos, lhs string) (Stmt, error) {
	if _, err := p.expect(lexer.FUN); err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return Stmt{}, err
	}
	params, err := p.parseIdentList()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.ARROW); err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return Stmt{}, err
	}
	returns, err := p.parseIdentList()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return Stmt{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: StmtFunDef, Pos: pos, Lhs: lhs, Params: params, Returns: returns, Body: body}, nil
}

func (p *parser) parseFunApp(pos token.Pos, lhs string) (Stmt, error) {
	fn, err := p.expect(lexer.IDENT)
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return Stmt{}, err
	}
	args, err := p.parseOperandList()
	if err != nil {
		return Stmt{}, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return Stmt{}, err
	}
	return Stmt{Kind: StmtFunApp, Pos: pos, Lhs: lhs, FunName: fn.Lit, Args: args}, nil
}
