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

package uf_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"steensgaard.dev/go/internal/core/uf"
)

func TestAddIdempotent(t *testing.T) {
	var s uf.Store
	s.Add(0)
	s.Add(0)
	s.Add(1)
	qt.Assert(t, qt.Equals(s.Len(), 2))
}

func TestFindUnknownID(t *testing.T) {
	var s uf.Store
	s.Add(0)
	_, err := s.FindErr(5)
	qt.Assert(t, qt.IsNotNil(err))
	var uErr *uf.UnknownIDError
	qt.Assert(t, qt.ErrorAs(err, &uErr))
	qt.Assert(t, qt.Equals(uErr.ID, uf.ID(5)))
}

func TestUnionSelfNoop(t *testing.T) {
	var s uf.Store
	s.Add(0)
	r := s.Find(0)
	qt.Assert(t, qt.Equals(s.Union(0, 0), r))
}

func TestUnionMerges(t *testing.T) {
	var s uf.Store
	for i := uf.ID(0); i < 5; i++ {
		s.Add(i)
	}
	s.Union(0, 1)
	s.Union(2, 3)
	s.Union(1, 3)

	r := s.Find(0)
	for _, id := range []uf.ID{1, 2, 3} {
		qt.Assert(t, qt.Equals(s.Find(id), r))
	}
	qt.Assert(t, qt.Not(qt.Equals(s.Find(4), r)))
}

func TestClasses(t *testing.T) {
	var s uf.Store
	for i := uf.ID(0); i < 4; i++ {
		s.Add(i)
	}
	s.Union(0, 1)
	s.Union(2, 3)

	classes := s.Classes()
	qt.Assert(t, qt.HasLen(classes, 2))

	total := 0
	for _, c := range classes {
		total += len(c.Members)
		found := false
		for _, m := range c.Members {
			if m == c.Rep {
				found = true
			}
		}
		qt.Assert(t, qt.IsTrue(found))
	}
	qt.Assert(t, qt.Equals(total, 4))
}

func TestPathCompression(t *testing.T) {
	var s uf.Store
	n := uf.ID(20)
	for i := uf.ID(0); i < n; i++ {
		s.Add(i)
	}
	// Chain everything together one pair at a time.
	for i := uf.ID(1); i < n; i++ {
		s.Union(i-1, i)
	}
	r := s.Find(0)
	for i := uf.ID(0); i < n; i++ {
		qt.Assert(t, qt.Equals(s.Find(i), r))
	}
}
