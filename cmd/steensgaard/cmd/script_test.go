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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/shlex"
	"github.com/rogpeppe/go-internal/testscript"

	"steensgaard.dev/go/errors"
)

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		RequireUniqueNames:  true,
	})
}

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"steensgaard": Main,
	}))
}

// TestScriptDebug runs a single testscript file in-process, for
// debugging a failing script without the testscript harness.
//
// Usage: comment out t.Skip() and set path to the script to debug.
func TestScriptDebug(t *testing.T) {
	t.Skip()
	const path = "./testdata/script/analyze_query.txtar"

	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		t.Fatal(err)
	}

	for s := bufio.NewScanner(bytes.NewReader(data)); s.Scan(); {
		line := s.Text()
		line = strings.TrimPrefix(line, "exec ")
		if !strings.HasPrefix(line, "steensgaard ") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			t.Fatal(err)
		}
		c := New(args[1:])
		var buf bytes.Buffer
		c.SetOutput(&buf)
		err = c.Run(context.Background())
		fmt.Println(buf.String())
		if err != nil && err != ErrPrintedError {
			errors.Print(os.Stdout, err, nil)
		}
		return
	}
	t.Fatal("no steensgaard command found in script")
}
