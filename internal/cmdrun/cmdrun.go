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

// Package cmdrun contains the run command.
package cmdrun

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitpkgdev/gitpkg/internal/docs"
	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/util/script"
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:     "run SCRIPT [ARGS...]",
		Args:    cobra.MinimumNArgs(1),
		Short:   docs.RunShort,
		Long:    docs.RunShort + "\n" + docs.RunLong,
		Example: docs.RunExamples,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	// everything after the script name belongs to the script
	c.Flags().SetInterspersed(false)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function.
type Runner struct {
	ctx     context.Context
	Script  script.Command
	Command *cobra.Command
}

func (r *Runner) preRunE(_ *cobra.Command, args []string) error {
	const op errors.Op = "cmdrun.preRunE"

	cwd, err := os.Getwd()
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	r.Script.Dir = cwd
	r.Script.Name = args[0]
	r.Script.Args = args[1:]
	return nil
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdrun.runE"
	if err := r.Script.Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}
