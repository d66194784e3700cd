// Copyright 2025 The gitpkg Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmdutil

import (
	"fmt"
	"os"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/gitpkgdev/gitpkg/internal/errors/resolver"
)

const (
	// StackTraceOnErrors is the environment variable that forces stack
	// traces on failure.
	StackTraceOnErrors = "GITPKG_STACK_TRACE_ON_ERRORS"
	trueString         = "true"
)

// StackOnError if true, will print a stack trace on failure.
var StackOnError bool

// ExitOnError if true, will cause commands to call os.Exit instead of
// returning an error. Used for skipping printing usage on failure.
var ExitOnError bool

// FixDocs replaces instances of old with new in the docs for c
func FixDocs(old, new string, c *cobra.Command) {
	c.Use = strings.ReplaceAll(c.Use, old, new)
	c.Short = strings.ReplaceAll(c.Short, old, new)
	c.Long = strings.ReplaceAll(c.Long, old, new)
	c.Example = strings.ReplaceAll(c.Example, old, new)
}

func PrintErrorStacktrace() bool {
	e := os.Getenv(StackTraceOnErrors)
	if StackOnError || e == trueString || e == "1" {
		return true
	}
	return false
}

// HandleError prints err in the most user-friendly form available and, when
// ExitOnError is set, exits with the resolved exit code.
func HandleError(c *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	if PrintErrorStacktrace() {
		ge, ok := err.(*goerrors.Error)
		if !ok {
			ge = goerrors.Wrap(err, 1)
		}
		fmt.Fprintf(os.Stderr, "%s", ge.ErrorStack())
	}

	if rr, found := resolver.ResolveError(err); found {
		fmt.Fprintf(c.ErrOrStderr(), "%s\n", rr.Message)
		if ExitOnError {
			os.Exit(rr.ExitCode)
		}
		return err
	}

	fmt.Fprintf(c.ErrOrStderr(), "Error: %v\n", err)
	if ExitOnError {
		os.Exit(1)
	}
	return err
}
