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

package solve

import (
	"sort"

	"github.com/mpvl/unique"

	"steensgaard.dev/go/internal/core/adt"
)

// sortedStrings adapts []string to mpvl/unique's Interface (sort.Interface
// plus Truncate), so a member list can be sorted and deduplicated in one
// pass instead of a separate sort.Strings + manual compaction loop.
type sortedStrings struct{ ss *[]string }

func (s sortedStrings) Len() int           { return len(*s.ss) }
func (s sortedStrings) Less(i, j int) bool { return (*s.ss)[i] < (*s.ss)[j] }
func (s sortedStrings) Swap(i, j int)      { (*s.ss)[i], (*s.ss)[j] = (*s.ss)[j], (*s.ss)[i] }
func (s sortedStrings) Truncate(n int)     { *s.ss = (*s.ss)[:n] }

// Representative returns the ECR representative of the named variable,
// per §4.6's first query bullet.
func (s *Solver) Representative(name string) (adt.ID, bool) {
	id, ok := s.ctx.Lookup(name)
	if !ok {
		return adt.NoID, false
	}
	r, err := s.ctx.Find(id)
	if err != nil {
		return adt.NoID, false
	}
	return r, true
}

// PointsTo returns the representative of v's pointee ECR, and whether v
// has one at all (its record's tau field is non-bottom).
func (s *Solver) PointsTo(name string) (adt.ID, bool) {
	r, ok := s.Representative(name)
	if !ok {
		return adt.NoID, false
	}
	rec, err := s.ctx.RecordOf(r)
	if err != nil || rec.Tau == adt.NoID {
		return adt.NoID, false
	}
	t, err := s.ctx.Find(rec.Tau)
	if err != nil {
		return adt.NoID, false
	}
	return t, true
}

// Node is one ECR in the exported shape graph: its representative ID,
// the sorted, deduplicated set of variable names mapped to it, and the
// representative of its pointee ECR, if any.
type Node struct {
	Rep      adt.ID   `json:"rep" yaml:"rep"`
	Members  []string `json:"members" yaml:"members"`
	PointsTo *adt.ID  `json:"points_to,omitempty" yaml:"points_to,omitempty"`
}

// ShapeGraph is the storage shape graph of §4.6: one node per live ECR
// that owns at least one named member, plus the points-to edges between
// them.
type ShapeGraph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Export builds the storage shape graph over every variable name
// registered during the run. Member lists are deduplicated and sorted
// with mpvl/unique so the export is deterministic regardless of name
// registration order.
func (s *Solver) Export() (ShapeGraph, error) {
	byRep := make(map[adt.ID][]string)
	for _, name := range s.ctx.Names() {
		id, _ := s.ctx.Lookup(name)
		r, err := s.ctx.Find(id)
		if err != nil {
			return ShapeGraph{}, err
		}
		byRep[r] = append(byRep[r], name)
	}

	reps := make([]adt.ID, 0, len(byRep))
	for r := range byRep {
		reps = append(reps, r)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i] < reps[j] })

	var graph ShapeGraph
	for _, r := range reps {
		members := byRep[r]
		unique.Sort(sortedStrings{&members})

		rec, err := s.ctx.RecordOf(r)
		if err != nil {
			return ShapeGraph{}, err
		}
		node := Node{Rep: r, Members: members}
		if rec.Tau != adt.NoID {
			t, err := s.ctx.Find(rec.Tau)
			if err != nil {
				return ShapeGraph{}, err
			}
			node.PointsTo = &t
		}
		graph.Nodes = append(graph.Nodes, node)
	}
	return graph, nil
}
