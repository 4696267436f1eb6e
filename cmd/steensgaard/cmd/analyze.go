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

	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"steensgaard.dev/go/internal/core/adt"
	"steensgaard.dev/go/solve"
)

func newAnalyzeCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "run the points-to analysis and answer representative/points-to queries",
		Long: `analyze lexes, parses, and compiles a SIL program into constraints,
runs Steensgaard's analysis over them, and reports the resulting
equivalence class and pointee for each variable named on the command
line, or for every variable seen in the program if none is given.`,
		RunE: mkRunE(c, runAnalyze),
	}
	addSolverFlags(cmd.Flags())
	cmd.Flags().StringArray(string(flagQuery), nil, "variable name to query (repeatable); if omitted, queries every variable")
	return cmd
}

const flagQuery flagName = "query"

func runAnalyze(cmd *Command, args []string) error {
	var file string
	var names []string
	if len(args) > 0 {
		file = args[0]
		names = args[1:]
	}
	cs, err := loadConstraints(cmd, argsOrEmpty(file))
	if err != nil {
		return err
	}

	runID := uuid.New()
	if flagVerbose.Bool(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "analysis run %s: %d constraints\n", runID, len(cs))
	}

	opts := []solve.Option{solve.WithIterative(flagIterative.Bool(cmd))}
	if flagVerbose.Bool(cmd) {
		opts = append(opts, solve.WithVerbose(cmd.ErrOrStderr()))
	}
	if every := flagSnapshot.Int(cmd); every > 0 {
		opts = append(opts, solve.WithSnapshotHook(func(step int, snap adt.Snapshot) {
			if step%every != 0 {
				return
			}
			if flagDebug.Bool(cmd) {
				fmt.Fprintf(cmd.ErrOrStderr(), "step %d:\n%s\n", step, pretty.Sprint(snap))
			}
		}))
	}

	s := solve.New(opts...)
	if err := s.Run(cs); err != nil {
		return err
	}

	queried := flagQuery.StringArray(cmd)
	queried = append(queried, names...)
	if len(queried) == 0 {
		queried = s.Context().Names()
	}

	w := cmd.OutOrStdout()
	for _, name := range queried {
		rep, ok := s.Representative(name)
		if !ok {
			fmt.Fprintf(w, "%s: unknown\n", name)
			continue
		}
		if pointee, ok := s.PointsTo(name); ok {
			fmt.Fprintf(w, "%s: rep=%d points_to=%d\n", name, rep, pointee)
		} else {
			fmt.Fprintf(w, "%s: rep=%d points_to=<none>\n", name, rep)
		}
	}
	return nil
}

func argsOrEmpty(file string) []string {
	if file == "" {
		return nil
	}
	return []string{file}
}
