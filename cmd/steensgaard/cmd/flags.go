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

package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Common flags
const (
	flagOut         flagName = "out"
	flagFormat      flagName = "format"
	flagIterative   flagName = "iterative"
	flagSnapshot    flagName = "snapshot-every"
	flagVerbose     flagName = "verbose"
	flagDebug       flagName = "debug"
	flagConstraints flagName = "constraints"

	// Hidden flags.
	flagCPUProfile flagName = "cpuprofile"
	flagMemProfile flagName = "memprofile"
)

func addOutFlags(f *pflag.FlagSet) {
	f.StringP(string(flagOut), "o", "", "output file, or - for stdout")
}

func addGlobalFlags(f *pflag.FlagSet) {
	f.BoolP(string(flagVerbose), "v", false, "print information about progress")

	f.String(string(flagCPUProfile), "", "write a CPU profile to the specified file before exiting")
	f.MarkHidden(string(flagCPUProfile))
	f.String(string(flagMemProfile), "", "write an allocation profile to the specified file before exiting")
	f.MarkHidden(string(flagMemProfile))
}

func addSolverFlags(f *pflag.FlagSet) {
	f.Bool(string(flagIterative), false,
		"solve constraints with the worklist solver instead of the recursive one")
	f.Int(string(flagSnapshot), 0,
		"with --debug, print an arena snapshot to stderr every N processed constraints (analyze only; 0 disables snapshots)")
	f.Bool(string(flagDebug), false,
		"pretty-print the shape graph instead of encoding it (graph), or print --snapshot-every snapshots (analyze)")
	f.Bool(string(flagConstraints), false,
		"treat the input as an already-compiled constraint list instead of SIL source, encoded per --format")
	f.String(string(flagFormat), "json", "constraint/graph encoding (json|yaml)")
}

type flagName string

// ensureAdded detects if a flag is being used without it first being
// added to the flagSet. Because flagNames are global, it is quite
// easy to accidentally use a flag in a command without adding it to
// the flagSet.
func (f flagName) ensureAdded(cmd *Command) {
	if cmd.Flags().Lookup(string(f)) == nil {
		panic(fmt.Sprintf("Cmd %q uses flag %q without adding it", cmd.Name(), f))
	}
}

func (f flagName) Bool(cmd *Command) bool {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetString(string(f))
	return v
}

func (f flagName) Int(cmd *Command) int {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetInt(string(f))
	return v
}

func (f flagName) StringArray(cmd *Command) []string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetStringArray(string(f))
	return v
}
