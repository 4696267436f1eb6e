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

// Package uf implements a disjoint-set (union-find) store over opaque
// integer IDs, with path compression and union by rank.
package uf

import "fmt"

// ID identifies a member of the store. IDs are minted by callers (the
// type arena in internal/core/adt) and registered with Add before any
// other operation may reference them.
type ID int

// UnknownIDError is returned when an operation references an ID that
// was never registered with Add.
type UnknownIDError struct {
	ID ID
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("uf: unknown id %d", e.ID)
}

// Store is a disjoint-set forest. The zero value is ready to use.
type Store struct {
	parent []ID
	rank   []int
}

// Add registers id as a singleton class. It is idempotent: re-adding an
// already-registered id is a no-op. IDs must be added in increasing,
// contiguous order starting at 0, matching how the type arena mints
// them via a monotonic counter.
func (s *Store) Add(id ID) {
	for ID(len(s.parent)) <= id {
		next := ID(len(s.parent))
		s.parent = append(s.parent, next)
		s.rank = append(s.rank, 0)
	}
}

func (s *Store) valid(id ID) bool {
	return id >= 0 && int(id) < len(s.parent)
}

// Find returns the representative of id's class, applying path
// compression along the way. It panics with an *UnknownIDError wrapped
// in a runtime panic if id was never added; callers that can surface
// this as a solver-fatal condition should use FindErr instead.
func (s *Store) Find(id ID) ID {
	r, err := s.FindErr(id)
	if err != nil {
		panic(err)
	}
	return r
}

// FindErr is the error-returning form of Find.
func (s *Store) FindErr(id ID) (ID, error) {
	if !s.valid(id) {
		return 0, &UnknownIDError{ID: id}
	}

	// Iterative path compression: first walk to the root, then walk
	// again pointing every visited node directly at it.
	root := id
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for id != root {
		next := s.parent[id]
		s.parent[id] = root
		id = next
	}
	return root, nil
}

// Union merges the classes containing a and b and returns the new
// representative. Union(a, a) is a no-op that returns Find(a). The
// smaller-rank root is attached under the larger-rank root to keep tree
// depth within O(log n); equal ranks promote the first root and bump
// its rank.
func (s *Store) Union(a, b ID) ID {
	ra, rb := s.Find(a), s.Find(b)
	if ra == rb {
		return ra
	}
	switch {
	case s.rank[ra] < s.rank[rb]:
		ra, rb = rb, ra
	case s.rank[ra] == s.rank[rb]:
		s.rank[ra]++
	}
	s.parent[rb] = ra
	return ra
}

// Len reports the number of IDs ever added to the store.
func (s *Store) Len() int {
	return len(s.parent)
}

// Classes returns every equivalence class as (representative, members),
// ordered by each class's smallest member ID (which need not be its
// representative); members are listed in increasing ID order.
func (s *Store) Classes() []Class {
	byRoot := make(map[ID][]ID)
	var roots []ID
	for i := 0; i < len(s.parent); i++ {
		id := ID(i)
		r := s.Find(id)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], id)
	}
	classes := make([]Class, 0, len(roots))
	for _, r := range roots {
		classes = append(classes, Class{Rep: r, Members: byRoot[r]})
	}
	return classes
}

// Class is one equivalence class: its representative and every member
// ID currently assigned to it.
type Class struct {
	Rep     ID
	Members []ID
}
