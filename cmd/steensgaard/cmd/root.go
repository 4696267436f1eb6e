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

// Package cmd implements the steensgaard command-line tool: lex, parse,
// and compile a source program into constraints, run Steensgaard's
// points-to analysis over them, and report the result either as a flat
// query answer or as an exported shape graph.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"steensgaard.dev/go/errors"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd

		if cpuprofile := flagCPUProfile.String(c); cpuprofile != "" {
			pf, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer pf.Close()
			if err := pprof.StartCPUProfile(pf); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		err := f(c, args)

		if memprofile := flagMemProfile.String(c); memprofile != "" {
			pf, ferr := os.Create(memprofile)
			if ferr != nil {
				return fmt.Errorf("could not create memory profile: %v", ferr)
			}
			defer pf.Close()
			runtime.GC()
			if werr := pprof.WriteHeapProfile(pf); werr != nil {
				return fmt.Errorf("could not write memory profile: %v", werr)
			}
		}
		return err
	}
}

// New creates the top-level command.
func New(args []string) *Command {
	root := &cobra.Command{
		Use:   "steensgaard",
		Short: "run Steensgaard's points-to analysis over a source program",

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	c := &Command{Command: root, root: root}

	addGlobalFlags(root.PersistentFlags())

	root.InitDefaultHelpFlag()
	root.Flag("help").Hidden = true

	for _, sub := range []*cobra.Command{
		newAnalyzeCmd(c),
		newGraphCmd(c),
		newVersionCmd(c),
	} {
		root.AddCommand(sub)
	}

	root.SetArgs(args)
	return c
}

// rootWorkingDir avoids repeated calls to os.Getwd for error reporting.
var rootWorkingDir = func() string {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot get current directory: %v\n", err)
		os.Exit(1)
	}
	return wd
}()

// Main runs the tool and returns the code to pass to os.Exit.
func Main() int {
	cmd := New(os.Args[1:])
	if err := cmd.Run(context.Background()); err != nil {
		if err != ErrPrintedError {
			printError(cmd, err)
		}
		return 1
	}
	return 0
}

// Command wraps a cobra.Command with the error-exit-code bookkeeping
// every subcommand's RunE shares.
type Command struct {
	*cobra.Command

	root   *cobra.Command
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = len(b) > 0
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages.
// Writing to it results in the command's exit code being 1.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

func (c *Command) SetOutput(w io.Writer) { c.root.SetOut(w) }
func (c *Command) SetInput(r io.Reader)  { c.root.SetIn(r) }

// ErrPrintedError indicates error messages have already been printed
// directly to stderr, so the caller should not print err itself again.
var ErrPrintedError = errors.New("terminating because of errors")

func printError(cmd *Command, err error) {
	if err == nil {
		return
	}
	p := message.NewPrinter(getLang())
	format := func(w io.Writer, format string, args ...interface{}) {
		p.Fprintf(w, format, args...)
	}
	errors.Print(cmd.Stderr(), err, &errors.Config{
		Format: format,
		Cwd:    rootWorkingDir,
	})
}

func (c *Command) Run(ctx context.Context) error {
	if err := c.root.Execute(); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}
