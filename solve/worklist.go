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

import "steensgaard.dev/go/internal/core/adt"

// join dispatches to the recursive or worklist-based Join depending on
// how the Solver was constructed. The dispatcher handlers in dispatch.go
// route their own join/cjoin calls through this and cjoin. The SetType
// call in deref/store and the pending drains run by GetTau/GetLam still
// use the recursive ctx.Join, whichever mode is selected.
func (s *Solver) join(e1, e2 adt.ID) error {
	if s.iterative {
		return s.ctx.JoinIterative(e1, e2)
	}
	return s.ctx.Join(e1, e2)
}

// cjoin is the CJoin counterpart to join.
func (s *Solver) cjoin(e1, e2 adt.ID) error {
	if s.iterative {
		return s.ctx.CJoinIterative(e1, e2)
	}
	return s.ctx.CJoin(e1, e2)
}
