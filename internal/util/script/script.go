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

// Package script runs scripts declared in a package manifest.
package script

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"

	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/manifest"
	"github.com/gitpkgdev/gitpkg/internal/types"
	"github.com/gitpkgdev/gitpkg/pkg/printer"
)

// Command runs a named script from the nearest manifest.
type Command struct {
	// Dir is where the manifest search starts. The search walks upward.
	Dir string

	// Name is the script to run.
	Name string

	// Args are appended to the script's command line.
	Args []string
}

// Run runs the Command. The script's working directory is the directory the
// manifest was found in.
func (c Command) Run(ctx context.Context) error {
	const op errors.Op = "script.Run"
	pr := printer.FromContextOrDie(ctx)

	root, mf, err := manifest.Locate(c.Dir, true)
	if err != nil {
		return errors.E(op, err)
	}
	if mf == nil {
		return errors.E(op, errors.UnknownPackage, types.UniquePath(c.Dir),
			fmt.Errorf("no %s found", manifest.FileName))
	}

	line, found := mf.Scripts[c.Name]
	if !found {
		return errors.E(op, errors.UnknownScript, types.UniquePath(root),
			fmt.Errorf("script %q is not declared in %s", c.Name, manifest.FileName))
	}

	argv, err := shlex.Split(line)
	if err != nil {
		return errors.E(op, errors.InvalidParam, types.UniquePath(root),
			fmt.Errorf("script %q must be a valid command line: %w", c.Name, err))
	}
	if len(argv) == 0 {
		return errors.E(op, errors.InvalidParam, types.UniquePath(root),
			fmt.Errorf("script %q is empty", c.Name))
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], c.Args...)...)
	cmd.Dir = root
	cmd.Env = os.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = pr.OutStream()
	cmd.Stderr = pr.ErrStream()
	if err := cmd.Run(); err != nil {
		return errors.E(op, types.UniquePath(root),
			fmt.Errorf("script %q: %w", c.Name, err))
	}
	return nil
}
