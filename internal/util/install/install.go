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

// Package install contains the recursive dependency installer.
package install

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/otiai10/copy"

	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/gitutil"
	"github.com/gitpkgdev/gitpkg/internal/manifest"
	"github.com/gitpkgdev/gitpkg/internal/types"
	"github.com/gitpkgdev/gitpkg/internal/util/build"
	"github.com/gitpkgdev/gitpkg/internal/util/parse"
	"github.com/gitpkgdev/gitpkg/internal/util/tagmatch"
	"github.com/gitpkgdev/gitpkg/pkg/printer"
)

// InstallDirName is the directory under a package root that holds its
// installed dependencies.
const InstallDirName = "deps"

// Engine is the capability interface to git operations. It is satisfied by
// gitutil.Engine and substituted with fakes in tests.
type Engine interface {
	ListTags(ctx context.Context, url string) (map[string]gitutil.TagRecord, error)
	Clone(ctx context.Context, ref, url, dest string) error
	Verify(ctx context.Context, tag, commit, dir string) error
}

// Builder triggers the external native-code build tool for a package.
type Builder interface {
	Build(ctx context.Context, dir string) error
}

// Command installs the dependencies declared in the manifest at Dir,
// placing them flat under Prefix when possible and recursing into every
// newly installed package.
type Command struct {
	// Dir is the directory of the package to install.
	Dir string

	// Prefix is the root of the installation tree. Defaults to the
	// directory the manifest was found in.
	Prefix string

	// Production skips devDependencies.
	Production bool

	// Engine performs the git operations. Defaults to the local git
	// executable.
	Engine Engine

	// Builder runs the native build tool. Defaults to the external
	// builder executable.
	Builder Builder
}

// Run runs the Command.
func (c Command) Run(ctx context.Context) error {
	const op errors.Op = "install.Run"
	pr := printer.FromContextOrDie(ctx)
	if c.Engine == nil {
		c.Engine = gitutil.NewEngine()
	}
	if c.Builder == nil {
		c.Builder = &build.Command{}
	}

	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return errors.E(op, errors.Internal, err)
	}
	root, mf, err := manifest.Locate(dir, false)
	if err != nil {
		return errors.E(op, err)
	}
	if mf == nil {
		return errors.E(op, errors.UnknownPackage, types.UniquePath(dir),
			fmt.Errorf("no %s found", manifest.FileName))
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = root
	}

	// Worklist of packages whose dependencies still need processing,
	// replacing nested recursion with an explicit stack. A package is
	// pushed back with buildPending set before its newly installed
	// dependencies, so the walk stays depth-first and the native build
	// for a package runs only after everything below it is in place.
	type target struct {
		dir          string
		buildPending bool
	}
	fetched := 0
	worklist := []target{{dir: root}}
	for len(worklist) > 0 {
		t := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if t.buildPending {
			if err := c.maybeBuild(ctx, t.dir); err != nil {
				return errors.E(op, err)
			}
			continue
		}

		installed, hasDeps, err := c.installDeps(ctx, t.dir, prefix)
		if err != nil {
			return errors.E(op, err)
		}
		if !hasDeps {
			continue
		}
		fetched += len(installed)
		worklist = append(worklist, target{dir: t.dir, buildPending: true})
		for i := len(installed) - 1; i >= 0; i-- {
			worklist = append(worklist, target{dir: installed[i]})
		}
	}

	pr.Printf("\nInstalled %d package(s).\n", fetched)
	return nil
}

// installDeps processes the dependencies of the manifest at dir in
// insertion order and returns the paths that were newly installed. The
// second return value is false when the manifest declares no dependencies
// at all, which makes the whole package a no-op.
func (c Command) installDeps(ctx context.Context, dir, prefix string) ([]string, bool, error) {
	const op errors.Op = "install.installDeps"
	pr := printer.FromContextOrDie(ctx)

	root, mf, err := manifest.Locate(dir, false)
	if err != nil {
		return nil, false, err
	}
	if mf == nil {
		return nil, false, errors.E(op, errors.UnknownPackage, types.UniquePath(dir),
			fmt.Errorf("no %s found", manifest.FileName))
	}
	if mf.Dependencies == nil {
		return nil, false, nil
	}

	deps := mf.Dependencies
	if !c.Production {
		deps = manifest.MergeDev(deps, mf.DevDependencies)
	}

	var installed []string
	for _, dep := range deps {
		spec, err := parse.Expand(prefix, mf.Remotes, dep.Name, dep.Source)
		if err != nil {
			return nil, true, err
		}

		flat := filepath.Join(prefix, InstallDirName, dep.Name)
		state, err := flatState(flat, spec.VersionRange)
		if err != nil {
			return nil, true, err
		}

		target := flat
		switch state {
		case depSatisfied:
			pr.OptPrintf(printer.NewOpt().Pkg(types.UniquePath(root)),
				"dependency %q already satisfied\n", dep.Name)
			continue
		case depConflicting:
			// isolate the incompatible version under this package
			target = filepath.Join(root, InstallDirName, dep.Name)
		}

		if len(spec.Candidates) == 0 {
			return nil, true, errors.E(op, errors.UnresolvableRemotes,
				fmt.Errorf("no candidate hosts for dependency %q", dep.Name))
		}

		if err := c.fetchDep(ctx, dep.Name, spec, target); err != nil {
			return nil, true, err
		}
		installed = append(installed, target)
	}
	return installed, true, nil
}

// fetchDep tries the candidate hosts in order until one yields a verified
// clone at target. A host that cannot be queried or has no qualifying tag
// is skipped; clone and verification failures for a matched tag abort.
func (c Command) fetchDep(ctx context.Context, name string, spec parse.ResolvedSpecifier, target string) error {
	const op errors.Op = "install.fetchDep"
	pr := printer.FromContextOrDie(ctx)

	for _, url := range spec.Candidates {
		if spec.Branch != "" {
			pr.Printf("Fetching %s@%s\n", url, spec.Branch)
			if err := c.cloneAndExport(ctx, spec.Branch, gitutil.TagRecord{}, url, target); err != nil {
				continue
			}
			return nil
		}

		tags, err := c.Engine.ListTags(ctx, url)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(tags))
		for n := range tags {
			names = append(names, n)
		}
		tag, err := tagmatch.Match(names, spec.VersionRange)
		if err != nil {
			return errors.E(op, err)
		}
		if tag == "" {
			continue
		}

		pr.Printf("Fetching %s@%s\n", url, tag)
		if err := c.cloneAndExport(ctx, tag, tags[tag], url, target); err != nil {
			return errors.E(op, err)
		}
		return nil
	}

	if spec.Branch != "" {
		return errors.E(op, errors.TagNotFound, types.UniquePath(target),
			fmt.Errorf("branch %q for dependency %q is not available from any candidate host", spec.Branch, name))
	}
	return errors.E(op, errors.TagNotFound, types.UniquePath(target),
		fmt.Errorf("no candidate host has a tag satisfying %q for dependency %q", spec.VersionRange, name))
}

// cloneAndExport fetches ref into a staging directory, verifies the clone,
// and exports the content into dest without the .git directory.
func (c Command) cloneAndExport(ctx context.Context, ref string, rec gitutil.TagRecord, url, dest string) error {
	const op errors.Op = "install.cloneAndExport"

	staging, err := os.MkdirTemp("", "gitpkg-get-")
	if err != nil {
		return errors.E(op, errors.Internal, fmt.Errorf("error creating temp directory: %w", err))
	}
	defer os.RemoveAll(staging)

	repoDir := filepath.Join(staging, "repo")
	if err := c.Engine.Clone(ctx, ref, url, repoDir); err != nil {
		return errors.E(op, err)
	}

	var verifyErr error
	switch {
	case rec.Annotated:
		verifyErr = c.Engine.Verify(ctx, ref, "", repoDir)
	case rec.Commit != "":
		verifyErr = c.Engine.Verify(ctx, "", rec.Commit, repoDir)
	}
	if verifyErr != nil {
		return errors.E(op, errors.Verification, types.UniquePath(dest), verifyErr)
	}

	if err := copyDir(repoDir, dest); err != nil {
		return errors.E(op, errors.IO, types.UniquePath(dest), err)
	}
	return nil
}

// maybeBuild triggers the native build tool when dir declares a build
// descriptor. A missing descriptor is a normal negative result, any other
// access failure is not.
func (c Command) maybeBuild(ctx context.Context, dir string) error {
	const op errors.Op = "install.maybeBuild"
	_, err := os.Stat(filepath.Join(dir, build.FileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.E(op, errors.IO, types.UniquePath(dir), err)
	}
	return c.Builder.Build(ctx, dir)
}

type depState int

const (
	depAbsent depState = iota
	depSatisfied
	depConflicting
)

// flatState probes the flat installation path for an existing package and
// compares its manifest version against the requested range. The probe has
// three outcomes: absent, present and compatible, present and conflicting.
func flatState(path, versionRange string) (depState, error) {
	const op errors.Op = "install.flatState"
	m, err := manifest.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return depAbsent, nil
		}
		return depAbsent, errors.E(op, errors.IO, err)
	}
	if versionRange == "" {
		// a branch pin is never satisfied by an installed version
		return depConflicting, nil
	}
	constraint, err := semver.NewConstraint(versionRange)
	if err != nil {
		return depAbsent, errors.E(op, errors.InvalidParam,
			fmt.Errorf("invalid version range %q: %w", versionRange, err))
	}
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return depConflicting, nil
	}
	if constraint.Check(v) {
		return depSatisfied, nil
	}
	return depConflicting, nil
}

// copyDir copies a cloned package into its installation path.
// It skips the .git directory and ignores symlinks.
func copyDir(srcDir, dstDir string) error {
	opts := copy.Options{
		Skip: func(info os.FileInfo, src, dest string) (bool, error) {
			return strings.HasSuffix(src, ".git"), nil
		},
		OnSymlink: func(src string) copy.SymlinkAction {
			return copy.Skip
		},
	}
	return copy.Copy(srcDir, dstDir, opts)
}
