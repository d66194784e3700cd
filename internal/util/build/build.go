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

// Package build triggers the external native-code build tool for packages
// that declare a build descriptor.
package build

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/types"
	"github.com/gitpkgdev/gitpkg/pkg/printer"
)

// FileName is the fixed name of the native build descriptor at a package
// root. Its content is opaque to gitpkg.
const FileName = "build.yaml"

// BuilderExec is the name of the external build tool looked up on the PATH.
const BuilderExec = "gitpkg-build"

// Command invokes the external native build tool against a package
// directory.
type Command struct{}

// Build runs the builder executable with dir as its argument and working
// directory.
func (c *Command) Build(ctx context.Context, dir string) error {
	const op errors.Op = "build.Build"
	pr := printer.FromContextOrDie(ctx)

	p, err := exec.LookPath(BuilderExec)
	if err != nil {
		return errors.E(op, types.UniquePath(dir),
			fmt.Errorf("no %q program on path: %w", BuilderExec, err))
	}

	pr.OptPrintf(printer.NewOpt().Pkg(types.UniquePath(dir)), "running native build\n")

	cmd := exec.CommandContext(ctx, p, dir)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmdOutput := &bytes.Buffer{}
	cmd.Stdout = cmdOutput
	cmd.Stderr = cmdOutput
	if err := cmd.Run(); err != nil {
		return errors.E(op, types.UniquePath(dir),
			fmt.Errorf("native build failed: %w\n%s", err, cmdOutput.String()))
	}
	return nil
}
