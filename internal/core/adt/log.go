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

import "fmt"

// logf writes a trace line when c.Verbose is set. It is a no-op
// otherwise, and callers should not build the formatted string eagerly
// in code paths that run regardless of Verbose: Join, JoinIterative and
// CJoin pass the format and raw arguments, so formatting only happens
// here, once tracing is on.
func (c *Context) logf(format string, args ...interface{}) {
	if !c.Verbose || c.Trace == nil {
		return
	}
	fmt.Fprintf(c.Trace, format+"\n", args...)
}
