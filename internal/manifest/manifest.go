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

// Package manifest reads and locates gitpkg package manifests.
package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/types"
	"gopkg.in/yaml.v3"
)

// FileName is the conventional name of the manifest file at a package root.
const FileName = "gitpkg.yaml"

// Manifest describes a package: its identity, its dependencies and the
// remotes they resolve against, and any declared scripts.
type Manifest struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`

	// Dependencies maps dependency name to source specifier. Insertion
	// order is significant, it determines processing order.
	Dependencies DependencyList `yaml:"dependencies,omitempty"`

	// DevDependencies are merged into Dependencies for non-production
	// installs. A dev entry never overrides a direct dependency.
	DevDependencies DependencyList `yaml:"devDependencies,omitempty"`

	// Remotes maps a remote alias to an ordered list of host templates.
	Remotes Remotes `yaml:"remotes,omitempty"`

	// Scripts maps script name to a shell command line.
	Scripts map[string]string `yaml:"scripts,omitempty"`
}

// Dependency is a single name/specifier pair from the dependencies mapping.
type Dependency struct {
	Name   string
	Source string
}

// DependencyList holds dependencies in manifest insertion order.
type DependencyList []Dependency

// UnmarshalYAML decodes a YAML mapping while preserving key order, which
// the plain map type would lose.
func (l *DependencyList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("dependencies must be a mapping of name to source specifier")
	}
	deps := make(DependencyList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var d Dependency
		if err := value.Content[i].Decode(&d.Name); err != nil {
			return err
		}
		if err := value.Content[i+1].Decode(&d.Source); err != nil {
			return err
		}
		deps = append(deps, d)
	}
	*l = deps
	return nil
}

// Has returns true if the list contains a dependency with the given name.
func (l DependencyList) Has(name string) bool {
	for _, d := range l {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Lookup returns the source specifier for name.
func (l DependencyList) Lookup(name string) (string, bool) {
	for _, d := range l {
		if d.Name == name {
			return d.Source, true
		}
	}
	return "", false
}

// Remotes maps a remote alias to its candidate host templates, tried in
// listed order.
type Remotes map[string]HostList

// HostList is an ordered list of host templates. Each template is either a
// URL prefix or a `file:`-prefixed local filesystem prefix.
type HostList []string

// UnmarshalYAML rejects remotes entries that are not ordered lists.
func (h *HostList) UnmarshalYAML(value *yaml.Node) error {
	const op errors.Op = "manifest.HostList.UnmarshalYAML"
	if value.Kind != yaml.SequenceNode {
		return errors.E(op, errors.InvalidRemotes,
			fmt.Errorf("remotes entry must be an ordered list of host templates, got %s on line %d", nodeKind(value), value.Line))
	}
	var hosts []string
	if err := value.Decode(&hosts); err != nil {
		return errors.E(op, errors.InvalidRemotes, err)
	}
	*h = hosts
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a sequence"
	}
	return "an unknown node"
}

// Read reads and parses the manifest in dir. A missing manifest is reported
// with an error satisfying errors.Is(err, fs.ErrNotExist) so callers can
// treat it as a normal negative result.
func Read(dir string) (*Manifest, error) {
	const op errors.Op = "manifest.Read"
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, errors.E(op, types.UniquePath(dir), err)
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(b, m); err != nil {
		return nil, errors.E(op, types.UniquePath(dir), err)
	}
	return m, nil
}

// Locate attempts to read a manifest at startDir. On a "file not found"
// condition, if walkUp is true and startDir is not the filesystem root, it
// retries at the parent directory; otherwise it stops and returns a nil
// manifest. Any other read failure propagates as an IO error. The directory
// where the manifest was found is returned as root.
func Locate(startDir string, walkUp bool) (root string, m *Manifest, err error) {
	const op errors.Op = "manifest.Locate"
	dir := filepath.Clean(startDir)
	for {
		m, err := Read(dir)
		if err == nil {
			return dir, m, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, errors.E(op, errors.IO, err)
		}
		if !walkUp {
			return "", nil, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// MergeDev returns a new list with every dev entry appended to deps unless
// the name is already present. Neither input is mutated.
func MergeDev(deps, dev DependencyList) DependencyList {
	merged := make(DependencyList, len(deps), len(deps)+len(dev))
	copy(merged, deps)
	for _, d := range dev {
		if !merged.Has(d.Name) {
			merged = append(merged, d)
		}
	}
	return merged
}
