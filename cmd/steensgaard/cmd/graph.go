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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"steensgaard.dev/go/solve"
)

func newGraphCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "export the storage shape graph produced by the analysis",
		Long: `graph runs the points-to analysis and writes out the resulting
storage shape graph: one node per live equivalence class with its
member variables and, if any, the node it points to.`,
		RunE: mkRunE(c, runGraph),
	}
	addOutFlags(cmd.Flags())
	addSolverFlags(cmd.Flags())
	return cmd
}

func runGraph(cmd *Command, args []string) error {
	var file string
	if len(args) > 0 {
		file = args[0]
	}
	cs, err := loadConstraints(cmd, argsOrEmpty(file))
	if err != nil {
		return err
	}

	opts := []solve.Option{solve.WithIterative(flagIterative.Bool(cmd))}
	if flagVerbose.Bool(cmd) {
		opts = append(opts, solve.WithVerbose(cmd.ErrOrStderr()))
	}
	s := solve.New(opts...)
	if err := s.Run(cs); err != nil {
		return err
	}

	graph, err := s.Export()
	if err != nil {
		return err
	}

	if flagDebug.Bool(cmd) {
		fmt.Fprintln(cmd.OutOrStdout(), pretty.Sprint(graph))
		return nil
	}

	out, err := graphWriter(cmd)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format := flagFormat.String(cmd); format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(graph)
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(graph)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func graphWriter(cmd *Command) (io.WriteCloser, error) {
	switch name := flagOut.String(cmd); name {
	case "", "-":
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	default:
		return os.Create(name)
	}
}
