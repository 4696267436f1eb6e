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

package lexer

import (
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"

	"steensgaard.dev/go/errors"
	"steensgaard.dev/go/token"
)

// bom is the Unicode byte order mark, tolerated only as the very first
// character of a file.
const bom = 0xFEFF

// Scanner turns source text into a stream of Tokens. Unlike cue/scanner
// it reports errors through a plain (Token, error) return from Scan
// rather than an error-handler callback: this language has no recovery
// mode worth continuing past a bad character for.
type Scanner struct {
	file *token.File
	src  []byte

	ch       rune
	offset   int
	rdOffset int
}

// NewScanner returns a Scanner positioned at the start of src. file must
// have been created with a size matching len(src); the caller is
// expected to have already stripped any UTF-16 BOM via StripBOM.
func NewScanner(file *token.File, src []byte) *Scanner {
	s := &Scanner{file: file, src: src, ch: ' '}
	s.next()
	if s.ch == bom {
		s.next()
	}
	return s
}

// StripBOM removes a leading UTF-8 or UTF-16 byte order mark from src,
// decoding UTF-16 input to UTF-8 in the process. Source files for this
// language are plain ASCII in practice, but editors on Windows routinely
// prepend a BOM, and a naive scan would otherwise report the first
// identifier as illegal.
func StripBOM(src []byte) ([]byte, error) {
	if len(src) >= 2 && (src[0] == 0xFF || src[0] == 0xFE) {
		dec := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
		out, err := dec.Bytes(src)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return bytesTrimUTF8BOM(src), nil
}

func bytesTrimUTF8BOM(src []byte) []byte {
	const utf8BOM = "\xef\xbb\xbf"
	if len(src) >= len(utf8BOM) && string(src[:len(utf8BOM)]) == utf8BOM {
		return src[len(utf8BOM):]
	}
	return src
}

func (s *Scanner) next() {
	if s.ch == '\n' {
		s.file.AddLine(s.offset + 1)
	}
	if s.rdOffset < len(s.src) {
		s.offset = s.rdOffset
		r, w := rune(s.src[s.rdOffset]), 1
		if r >= utf8.RuneSelf {
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
		}
		s.rdOffset += w
		s.ch = r
	} else {
		s.offset = len(s.src)
		s.ch = -1
	}
}

func (s *Scanner) pos(offset int) token.Pos {
	return s.file.Pos(offset)
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		for s.ch == ' ' || s.ch == '\t' || s.ch == '\n' || s.ch == '\r' {
			s.next()
		}
		if s.ch == '#' {
			for s.ch != '\n' && s.ch >= 0 {
				s.next()
			}
			continue
		}
		return
	}
}

func (s *Scanner) scanIdentifier() string {
	offs := s.offset
	for isLetter(s.ch) || isDigit(s.ch) {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanNumber() string {
	offs := s.offset
	for isDigit(s.ch) {
		s.next()
	}
	if s.ch == '.' {
		s.next()
		for isDigit(s.ch) {
			s.next()
		}
	}
	return string(s.src[offs:s.offset])
}

// Scan returns the next Token, or an error if the current character
// does not begin any valid token.
func (s *Scanner) Scan() (Token, error) {
	s.skipWhitespaceAndComments()

	offs := s.offset
	pos := s.pos(offs)

	if s.ch < 0 {
		return Token{Kind: EOF, Pos: pos}, nil
	}

	switch ch := s.ch; {
	case isLetter(ch):
		lit := s.scanIdentifier()
		return Token{Kind: Lookup(lit), Lit: lit, Pos: pos}, nil
	case isDigit(ch):
		lit := s.scanNumber()
		return Token{Kind: NUMBER, Lit: lit, Pos: pos}, nil
	}

	s.next()
	switch r := s.src[offs]; r {
	case ':':
		if s.ch == '=' {
			s.next()
			return Token{Kind: ASSIGN, Lit: ":=", Pos: pos}, nil
		}
		return Token{}, errors.Newf(pos, "expected '=' after ':'")
	case '-':
		if s.ch == '>' {
			s.next()
			return Token{Kind: ARROW, Lit: "->", Pos: pos}, nil
		}
		return Token{}, errors.Newf(pos, "expected '>' after '-'")
	case '&':
		return Token{Kind: AMP, Lit: "&", Pos: pos}, nil
	case '*':
		return Token{Kind: STAR, Lit: "*", Pos: pos}, nil
	case '(':
		return Token{Kind: LPAREN, Lit: "(", Pos: pos}, nil
	case ')':
		return Token{Kind: RPAREN, Lit: ")", Pos: pos}, nil
	case '{':
		return Token{Kind: LBRACE, Lit: "{", Pos: pos}, nil
	case '}':
		return Token{Kind: RBRACE, Lit: "}", Pos: pos}, nil
	case ',':
		return Token{Kind: COMMA, Lit: ",", Pos: pos}, nil
	case ';':
		return Token{Kind: SEMICOLON, Lit: ";", Pos: pos}, nil
	default:
		return Token{}, errors.Newf(pos, "illegal character %#U", r)
	}
}
