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

package token

import (
	"fmt"
	"testing"
)

func checkPos(t *testing.T, msg string, got, want Position) {
	t.Helper()
	if got.Filename != want.Filename {
		t.Errorf("%s: got filename = %q; want %q", msg, got.Filename, want.Filename)
	}
	if got.Offset != want.Offset {
		t.Errorf("%s: got offset = %d; want %d", msg, got.Offset, want.Offset)
	}
	if got.Line != want.Line {
		t.Errorf("%s: got line = %d; want %d", msg, got.Line, want.Line)
	}
	if got.Column != want.Column {
		t.Errorf("%s: got column = %d; want %d", msg, got.Column, want.Column)
	}
}

func TestNoPos(t *testing.T) {
	if NoPos.IsValid() {
		t.Errorf("NoPos should not be valid")
	}
	checkPos(t, "nil NoPos", NoPos.Position(), Position{})
}

var tests = []struct {
	filename string
	size     int
	lines    []int
}{
	{"a", 0, nil},
	{"b", 5, nil},
	{"c", 9, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
	{"d", 100, []int{0, 5, 10, 20, 30, 70, 71, 72, 80, 85, 90, 99}},
	{"f", 23, []int{0, 10, 11}},
}

func linecol(lines []int, offs int) (int, int) {
	prevLineOffs := 0
	for line, lineOffs := range lines {
		if offs < lineOffs {
			return line, offs - prevLineOffs + 1
		}
		prevLineOffs = lineOffs
	}
	return len(lines), offs - prevLineOffs + 1
}

func verifyPositions(t *testing.T, f *File, lines []int) {
	t.Helper()
	for offs := 0; offs < f.Size(); offs++ {
		p := f.Pos(offs)
		offs2 := f.Offset(p)
		if offs2 != offs {
			t.Errorf("%s, Offset: got offset %d; want %d", f.Name(), offs2, offs)
		}
		line, col := linecol(lines, offs)
		msg := fmt.Sprintf("%s (offs = %d)", f.Name(), offs)
		checkPos(t, msg, p.Position(), Position{f.Name(), offs, line, col})
	}
}

func TestPositions(t *testing.T) {
	for _, test := range tests {
		f := NewFile(test.filename, test.size)
		if f.Name() != test.filename {
			t.Errorf("got filename %q; want %q", f.Name(), test.filename)
		}
		if f.Size() != test.size {
			t.Errorf("%s: got file size %d; want %d", f.Name(), f.Size(), test.size)
		}
		wantLines := test.lines
		if len(wantLines) == 0 {
			wantLines = []int{0} // line 1 always starts at offset 0
		}
		for _, offset := range wantLines {
			if offset == 0 {
				continue // already present as the implicit first line
			}
			f.AddLine(offset)
			// adding the same offset again must be a no-op
			f.AddLine(offset)
		}
		if got, want := f.LineCount(), len(wantLines); got != want {
			t.Errorf("%s: got line count %d; want %d", f.Name(), got, want)
		}
		verifyPositions(t, f, wantLines)
	}
}

func TestPosCompare(t *testing.T) {
	f := NewFile("x", 10)
	p0, p5 := f.Pos(0), f.Pos(5)
	if p0.Compare(p5) >= 0 {
		t.Errorf("expected p0 < p5")
	}
	if p5.Compare(p0) <= 0 {
		t.Errorf("expected p5 > p0")
	}
	if p0.Compare(p0) != 0 {
		t.Errorf("expected p0 == p0")
	}
	if NoPos.Compare(p0) <= 0 {
		t.Errorf("expected NoPos > any valid position")
	}
}
