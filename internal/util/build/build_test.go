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

package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpkgdev/gitpkg/pkg/printer/fake"
)

// installBuilder puts a stub gitpkg-build on the PATH that records its
// argument into a file.
func installBuilder(t *testing.T, script string) {
	t.Helper()
	binDir := t.TempDir()
	exe := filepath.Join(binDir, BuilderExec)
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"+script), 0o700))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestBuild(t *testing.T) {
	record := filepath.Join(t.TempDir(), "record")
	installBuilder(t, `printf '%s' "$1" > `+record+"\n")

	pkgDir := t.TempDir()
	c := &Command{}
	require.NoError(t, c.Build(fake.CtxWithDefaultPrinter(), pkgDir))

	b, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, pkgDir, string(b))
}

func TestBuild_Failure(t *testing.T) {
	installBuilder(t, "echo boom\nexit 3\n")

	c := &Command{}
	err := c.Build(fake.CtxWithDefaultPrinter(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "native build failed")
	assert.Contains(t, err.Error(), "boom")
}

func TestBuild_MissingBuilder(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	c := &Command{}
	err := c.Build(fake.CtxWithDefaultPrinter(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), BuilderExec)
}
