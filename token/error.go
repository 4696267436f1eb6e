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

// PortablePosition is the JSON-safe encoding of a Pos, used by package
// constraint's JSON and YAML codecs to carry a constraint's position.
type PortablePosition struct {
	Filename string `json:"filename" yaml:"filename"`
	Offset   int    `json:"offset" yaml:"offset"`
}

// ToPortable converts p to its JSON-safe form.
func (p Pos) ToPortable() PortablePosition {
	if p == NoPos {
		return PortablePosition{}
	}
	return PortablePosition{
		Filename: p.file.name,
		Offset:   p.offset,
	}
}

// FromPortable reconstructs a Pos from its JSON-safe form. The resulting
// Pos carries a synthetic single-line file, sufficient to recover the
// filename and offset but not the original line/column.
func FromPortable(p PortablePosition) Pos {
	if p.Filename == "" && p.Offset == 0 {
		return NoPos
	}
	f := NewFile(p.Filename, p.Offset+1)
	return f.Pos(p.Offset)
}
