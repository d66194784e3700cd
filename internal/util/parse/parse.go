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

// Package parse expands dependency source specifiers into candidate git
// URLs and a version constraint or branch pin.
package parse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/manifest"
)

// AnyVersion is the range used when a specifier carries no fragment.
const AnyVersion = "*"

// semverPrefix marks a fragment as a version constraint rather than a
// branch name.
const semverPrefix = "semver:"

// gitSchemes are the direct git URL prefixes of the specifier grammar.
var gitSchemes = []string{"git+ssh://", "git+https://", "git://"}

// ResolvedSpecifier is the expansion of one dependency source string.
// Exactly one of VersionRange and Branch is set: a specifier either
// constrains a version or pins a branch, never both.
type ResolvedSpecifier struct {
	// Candidates are the git URLs to try, in fetch-attempt order.
	Candidates []string

	// VersionRange is the semver constraint the selected tag must satisfy.
	VersionRange string

	// Branch is a literal branch name to clone instead of a tag.
	Branch string
}

// Expand resolves a dependency source specifier against the remotes table.
//
// The specifier is one of:
//   - a direct git URL: git(+ssh|+https)://host/path[#fragment]
//   - a bare version range, only legal when remotes is nil
//   - <remoteAlias>[:<repoName>][#fragment] resolved against remotes
//
// A fragment is either `semver:<range>` or a literal branch name. The repo
// name defaults to the dependency name. `file:`-prefixed host templates are
// resolved relative to root when not absolute.
func Expand(root string, remotes manifest.Remotes, name, src string) (ResolvedSpecifier, error) {
	const op errors.Op = "parse.Expand"

	for _, scheme := range gitSchemes {
		if strings.HasPrefix(src, scheme) {
			url, fragment := splitFirst(src, "#")
			rng, branch := resolveFragment(fragment)
			return ResolvedSpecifier{
				Candidates:   []string{strings.TrimPrefix(url, "git+")},
				VersionRange: rng,
				Branch:       branch,
			}, nil
		}
	}

	// Without a remotes table the specifier is a bare version range and
	// the caller must already know the host.
	if remotes == nil {
		return ResolvedSpecifier{VersionRange: src}, nil
	}

	base, fragment := splitFirst(src, "#")
	alias, repo := splitFirst(base, ":")
	if repo == "" {
		repo = name
	}
	rng, branch := resolveFragment(fragment)

	hosts, found := remotes[alias]
	if !found {
		return ResolvedSpecifier{}, errors.E(op, errors.UnknownRemote,
			fmt.Errorf("remote %q for dependency %q is not declared in the remotes table", alias, name))
	}
	if len(hosts) == 0 {
		return ResolvedSpecifier{}, errors.E(op, errors.InvalidRemotes,
			fmt.Errorf("remote %q resolves to an empty host list", alias))
	}

	candidates := make([]string, 0, len(hosts))
	for _, host := range hosts {
		if local, ok := strings.CutPrefix(host, "file:"); ok {
			if !filepath.IsAbs(local) {
				local = filepath.Join(root, local)
			}
			candidates = append(candidates, filepath.Join(local, repo, ".git"))
			continue
		}
		candidates = append(candidates, strings.TrimSuffix(host, "/")+"/"+repo+".git")
	}

	return ResolvedSpecifier{
		Candidates:   candidates,
		VersionRange: rng,
		Branch:       branch,
	}, nil
}

// resolveFragment splits a URL fragment into a version range or a branch
// name. An empty fragment constrains to any released version.
func resolveFragment(fragment string) (rng, branch string) {
	if fragment == "" {
		return AnyVersion, ""
	}
	if r, ok := strings.CutPrefix(fragment, semverPrefix); ok {
		return r, ""
	}
	return "", fragment
}

// splitFirst splits s on the first occurrence of sep.
func splitFirst(s, sep string) (string, string) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):]
	}
	return s, ""
}
