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

// Package cmdtree contains the tree command.
package cmdtree

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/gitpkgdev/gitpkg/internal/docs"
	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/manifest"
	"github.com/gitpkgdev/gitpkg/internal/types"
	"github.com/gitpkgdev/gitpkg/internal/util/install"
	"github.com/gitpkgdev/gitpkg/pkg/printer"
)

// NewRunner returns a command runner.
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:     "tree [DIR]",
		Args:    cobra.MaximumNArgs(1),
		Short:   docs.TreeShort,
		Long:    docs.TreeShort + "\n" + docs.TreeLong,
		Example: docs.TreeExamples,
		RunE:    r.runE,
		PreRunE: r.preRunE,
	}
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function.
type Runner struct {
	ctx     context.Context
	dir     string
	Command *cobra.Command
}

func (r *Runner) preRunE(_ *cobra.Command, args []string) error {
	const op errors.Op = "cmdtree.preRunE"

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return errors.E(op, err)
	}
	r.dir = absDir
	return nil
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	const op errors.Op = "cmdtree.runE"
	pr := printer.FromContextOrDie(r.ctx)

	root, mf, err := manifest.Locate(r.dir, true)
	if err != nil {
		return errors.E(op, err)
	}
	if mf == nil {
		return errors.E(op, errors.UnknownPackage, types.UniquePath(r.dir),
			fmt.Errorf("no %s found", manifest.FileName))
	}

	tree := treeprint.New()
	tree.SetValue(label(mf, filepath.Base(root)))
	if err := addDeps(tree, root, root, mf, map[string]bool{}); err != nil {
		return errors.E(op, err)
	}
	fmt.Fprintln(pr.OutStream(), tree.String())
	return nil
}

// addDeps adds one branch per installed dependency of mf. Dependencies are
// resolved the way the installer lays them out: nested under the declaring
// package first, then flat under any ancestor up to the tree root. Missing
// packages are marked rather than treated as errors.
func addDeps(branch treeprint.Tree, rootDir, dir string, mf *manifest.Manifest, seen map[string]bool) error {
	for _, dep := range mf.Dependencies {
		depDir, depMf, err := resolveDep(rootDir, dir, dep.Name)
		if err != nil {
			return err
		}
		if depMf == nil {
			branch.AddNode(fmt.Sprintf("%s (missing)", dep.Name))
			continue
		}
		if seen[depDir] {
			branch.AddNode(fmt.Sprintf("%s (cycle)", label(depMf, dep.Name)))
			continue
		}
		seen[depDir] = true
		child := branch.AddBranch(label(depMf, dep.Name))
		if err := addDeps(child, rootDir, depDir, depMf, seen); err != nil {
			return err
		}
		delete(seen, depDir)
	}
	return nil
}

// resolveDep finds the installed package satisfying a dependency of the
// package at dir. A nil manifest means the package is not installed.
func resolveDep(rootDir, dir, name string) (string, *manifest.Manifest, error) {
	for d := dir; ; d = filepath.Dir(d) {
		cand := filepath.Join(d, install.InstallDirName, name)
		m, err := manifest.Read(cand)
		if err == nil {
			return cand, m, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, err
		}
		if d == rootDir || filepath.Dir(d) == d {
			return "", nil, nil
		}
	}
}

func label(mf *manifest.Manifest, fallback string) string {
	name := mf.Name
	if name == "" {
		name = fallback
	}
	if mf.Version == "" {
		return name
	}
	return fmt.Sprintf("%s@%s", name, mf.Version)
}
