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

// Package cmdinstall contains the install command.
package cmdinstall

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitpkgdev/gitpkg/internal/docs"
	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/util/install"
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:     "install [DIR]",
		Args:    cobra.MaximumNArgs(1),
		Short:   docs.InstallShort,
		Long:    docs.InstallShort + "\n" + docs.InstallLong,
		Example: docs.InstallExamples,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	c.Flags().BoolVar(&r.Install.Production, "production", false,
		"skip devDependencies of the root package.")
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function.
type Runner struct {
	ctx     context.Context
	Install install.Command
	Command *cobra.Command
}

func (r *Runner) preRunE(_ *cobra.Command, args []string) error {
	const op errors.Op = "cmdinstall.preRunE"

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return errors.E(op, err)
	}
	if _, err := os.Stat(absDir); err != nil {
		return errors.E(op, errors.IO, err)
	}
	r.Install.Dir = absDir
	return nil
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdinstall.runE"
	if err := r.Install.Run(r.ctx); err != nil {
		return errors.E(op, err)
	}
	return nil
}
