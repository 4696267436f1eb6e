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
	"sort"

	"github.com/kr/pretty"
)

// Snapshot is a point-in-time dump of every live equivalence class,
// suitable for --snapshot-every debug output and for kr/pretty-based
// test failure diagnostics.
type Snapshot struct {
	Classes []ClassSnapshot
}

// ClassSnapshot describes one equivalence class as of the snapshot.
type ClassSnapshot struct {
	Rep     ID
	Members []ID
	Record  Record
}

// Dump returns a human-readable, deterministic rendering of the
// Context's current state, sorted by representative ID. Intended for
// debugging and test failure messages, not for the shape-graph export
// (see package solve for that).
func (c *Context) Dump() string {
	return pretty.Sprint(c.Snapshot())
}

// Snapshot captures every equivalence class and its record.
func (c *Context) Snapshot() Snapshot {
	classes := c.uf.Classes()
	out := make([]ClassSnapshot, 0, len(classes))
	for _, cl := range classes {
		out = append(out, ClassSnapshot{
			Rep:     cl.Rep,
			Members: cl.Members,
			Record:  *c.records[cl.Rep],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rep < out[j].Rep })
	return Snapshot{Classes: out}
}
