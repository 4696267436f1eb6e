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

// Package token defines source positions used to tag constraints and AST
// nodes with file:line:column provenance.
package token

import (
	"cmp"
	"fmt"
	"sort"
	"sync"
)

// Position describes an arbitrary and printable source position within a
// file, including offset, line, and column location, which can be
// rendered in a human-friendly text form.
//
// A Position is valid if the line number is > 0.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position is valid.
func (pos *Position) IsValid() bool { return pos.Line > 0 }

// String returns a human-readable form of a position in one of several
// forms:
//
//	file:line:column    valid position with file name
//	line:column         valid position without file name
//	file                invalid position with file name
//	-                   invalid position without file name
func (pos Position) String() string {
	s := pos.Filename
	if pos.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// Pos is a compact encoding of a source position: a file plus a byte
// offset into it.
type Pos struct {
	file   *File
	offset int
}

// File returns the file that contains p, or nil for [NoPos].
func (p Pos) File() *File {
	if p.file == nil {
		return nil
	}
	return p.file
}

// Filename returns the name of the file that this position belongs to.
func (p Pos) Filename() string {
	if p.file == nil {
		return ""
	}
	return p.file.name
}

// Position unpacks the position information into a flat struct.
func (p Pos) Position() Position {
	if p.file == nil {
		return Position{}
	}
	return p.file.Position(p)
}

// String returns a human-readable form of a printable position.
func (p Pos) String() string {
	return p.Position().String()
}

// Offset reports the byte offset relative to the file.
func (p Pos) Offset() int {
	if p.file == nil {
		return 0
	}
	return p.offset
}

// Compare returns an integer comparing two positions: 0 if p == p2, -1 if
// p < p2, +1 if p > p2. [NoPos] always compares greater than any valid
// position.
func (p Pos) Compare(p2 Pos) int {
	if p == p2 {
		return 0
	} else if p == NoPos {
		return +1
	} else if p2 == NoPos {
		return -1
	}
	if c := cmp.Compare(p.Filename(), p2.Filename()); c != 0 {
		return c
	}
	return cmp.Compare(p.offset, p2.offset)
}

// NoPos is the zero value for [Pos]. It carries no file or line
// information, and [Pos.IsValid] reports false for it.
var NoPos = Pos{}

// IsValid reports whether p carries a real file position.
func (p Pos) IsValid() bool {
	return p != NoPos
}

// -----------------------------------------------------------------------------
// File

// A File has a name, size, and line offset table, used to translate byte
// offsets into line:column positions.
type File struct {
	mutex sync.RWMutex
	name  string
	size  int
	lines []int // offset of the first byte of each line; lines[0] == 0
}

// NewFile returns a new file with the given name and size.
func NewFile(filename string, size int) *File {
	return &File{
		name:  filename,
		size:  size,
		lines: []int{0},
	}
}

func (f *File) fixOffset(offset int) int {
	switch {
	case offset < 0:
		return 0
	case offset > f.size:
		return f.size
	default:
		return offset
	}
}

// Name returns the file name of f as passed to [NewFile].
func (f *File) Name() string { return f.name }

// Size returns the size of f as passed to [NewFile].
func (f *File) Size() int { return f.size }

// LineCount returns the number of lines seen so far in f.
func (f *File) LineCount() int {
	f.mutex.RLock()
	n := len(f.lines)
	f.mutex.RUnlock()
	return n
}

// AddLine records the offset of the start of a new line. The offset must
// be larger than that of the previous line and smaller than the file
// size, otherwise the call is ignored.
func (f *File) AddLine(offset int) {
	f.mutex.Lock()
	if i := len(f.lines); (i == 0 || f.lines[i-1] < offset) && offset < f.size {
		f.lines = append(f.lines, offset)
	}
	f.mutex.Unlock()
}

// Pos returns the Pos value for the given byte offset in f.
func (f *File) Pos(offset int) Pos {
	return Pos{f, f.fixOffset(offset)}
}

// Offset returns the byte offset for the given position p, which must
// belong to f or be [NoPos].
func (f *File) Offset(p Pos) int {
	return f.fixOffset(p.offset)
}

func (f *File) unpack(offset int) (filename string, line, column int) {
	filename = f.name
	if i := searchInts(f.lines, offset); i >= 0 {
		line, column = i+1, offset-f.lines[i]+1
	}
	return
}

// Position returns the Position value for the given file position p.
func (f *File) Position(p Pos) (pos Position) {
	offset := f.Offset(p)
	pos.Offset = offset
	pos.Filename, pos.Line, pos.Column = f.unpack(offset)
	return
}

func searchInts(a []int, x int) int {
	i := sort.Search(len(a), func(i int) bool { return a[i] > x }) - 1
	return i
}
