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

package manifest

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gitpkgdev/gitpkg/internal/errors"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
name: app
version: 1.2.3
dependencies:
  zlib: origin
  alpha: origin#semver:^1.0.0
  middle: git+https://example.com/middle.git
devDependencies:
  linter: tools
remotes:
  origin:
    - https://h.example/org
  tools:
    - file:vendor
    - https://h.example/tools
scripts:
  test: go test ./...
`)

	m, err := Read(dir)
	require.NoError(t, err)

	assert.Equal(t, "app", m.Name)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, DependencyList{
		{Name: "zlib", Source: "origin"},
		{Name: "alpha", Source: "origin#semver:^1.0.0"},
		{Name: "middle", Source: "git+https://example.com/middle.git"},
	}, m.Dependencies)
	assert.Equal(t, DependencyList{
		{Name: "linter", Source: "tools"},
	}, m.DevDependencies)
	assert.Equal(t, Remotes{
		"origin": {"https://h.example/org"},
		"tools":  {"file:vendor", "https://h.example/tools"},
	}, m.Remotes)
	assert.Equal(t, map[string]string{"test": "go test ./..."}, m.Scripts)
}

func TestRead_NotExist(t *testing.T) {
	_, err := Read(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRead_InvalidRemotes(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
name: app
remotes:
  origin: https://h.example/org
`)
	_, err := Read(dir)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.InvalidRemotes))
}

func TestDependencyList_RejectsSequence(t *testing.T) {
	var m Manifest
	err := yaml.Unmarshal([]byte("dependencies:\n  - foo\n"), &m)
	require.Error(t, err)
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "name: app\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))

	t.Run("walk up finds the manifest", func(t *testing.T) {
		found, m, err := Locate(nested, true)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, root, found)
		assert.Equal(t, "app", m.Name)
	})

	t.Run("no walk up returns nil manifest", func(t *testing.T) {
		found, m, err := Locate(nested, false)
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Empty(t, found)
	})

	t.Run("nothing found at the filesystem root lineage", func(t *testing.T) {
		_, m, err := Locate(t.TempDir(), true)
		require.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestMergeDev(t *testing.T) {
	deps := DependencyList{
		{Name: "a", Source: "origin#semver:^1.0.0"},
		{Name: "b", Source: "origin"},
	}
	dev := DependencyList{
		{Name: "a", Source: "origin#semver:^2.0.0"},
		{Name: "c", Source: "tools"},
	}

	merged := MergeDev(deps, dev)
	assert.Equal(t, DependencyList{
		{Name: "a", Source: "origin#semver:^1.0.0"},
		{Name: "b", Source: "origin"},
		{Name: "c", Source: "tools"},
	}, merged)

	// inputs are untouched
	assert.Len(t, deps, 2)
	assert.Len(t, dev, 2)
}

func TestDependencyList_Lookup(t *testing.T) {
	l := DependencyList{{Name: "a", Source: "origin"}}
	src, found := l.Lookup("a")
	assert.True(t, found)
	assert.Equal(t, "origin", src)
	_, found = l.Lookup("b")
	assert.False(t, found)
}
