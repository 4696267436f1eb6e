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
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"

	"steensgaard.dev/go/constraint"
	"steensgaard.dev/go/internal/compile"
)

func getLang() language.Tag {
	loc := os.Getenv("LC_ALL")
	if loc == "" {
		loc = os.Getenv("LANG")
	}
	loc = strings.Split(loc, ".")[0]
	return language.Make(loc)
}

// readSource reads the program to analyze from a file named in args, or
// from stdin if args is empty or the lone argument is "-".
func readSource(cmd *Command, args []string) (name string, src []byte, err error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return "stdin", b, err
	}
	b, err := os.ReadFile(args[0])
	return args[0], b, err
}

// loadConstraints reads the file named in args (or stdin), and either
// lexes/parses/compiles it as SIL source or, if --constraints is set,
// decodes it directly as a JSON or YAML constraint list per --format.
func loadConstraints(cmd *Command, args []string) ([]constraint.Constraint, error) {
	name, src, err := readSource(cmd, args)
	if err != nil {
		return nil, err
	}
	if !flagConstraints.Bool(cmd) {
		return compile.Source(name, src)
	}
	switch format := flagFormat.String(cmd); format {
	case "yaml":
		return constraint.DecodeYAML(bytes.NewReader(src))
	case "json", "":
		return constraint.DecodeJSON(bytes.NewReader(src))
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}
