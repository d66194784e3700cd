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

package gitutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpkgdev/gitpkg/internal/errors"
)

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

// initRepo creates a repository with one commit, a lightweight tag v0.1.0
// and an annotated tag v1.0.0. It returns the repo path and the head commit.
func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o600))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial commit")
	runGit(t, dir, "tag", "v0.1.0")
	runGit(t, dir, "tag", "-a", "v1.0.0", "-m", "release v1.0.0")
	head := runGit(t, dir, "rev-parse", "HEAD")
	return dir, head
}

func TestLocalGitRunner(t *testing.T) {
	dir, head := initRepo(t)
	runner, err := NewLocalGitRunner(dir)
	require.NoError(t, err)

	rr, err := runner.Run(context.Background(), "rev-parse", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, head, strings.TrimSpace(rr.Stdout))

	_, err = runner.Run(context.Background(), "rev-parse", "no-such-ref")
	require.Error(t, err)
	var gitExecErr *GitExecError
	require.True(t, errors.As(err, &gitExecErr))
	assert.Equal(t, "rev-parse", gitExecErr.Command)
}

func TestListTags(t *testing.T) {
	dir, head := initRepo(t)
	engine := NewEngine()

	tags, err := engine.ListTags(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// the lightweight tag points straight at the commit
	assert.Equal(t, TagRecord{Annotated: false, Commit: head}, tags["v0.1.0"])

	// the annotated tag resolves to the peeled commit, not the tag object
	assert.Equal(t, TagRecord{Annotated: true, Commit: head}, tags["v1.0.0"])
}

func TestListTags_NoRepo(t *testing.T) {
	engine := NewEngine()
	_, err := engine.ListTags(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestClone(t *testing.T) {
	dir, _ := initRepo(t)
	engine := NewEngine()
	dest := filepath.Join(t.TempDir(), "clone")

	err := engine.Clone(context.Background(), "v1.0.0", dir, dest)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "README.md"))
}

func TestClone_UnknownRef(t *testing.T) {
	dir, _ := initRepo(t)
	engine := NewEngine()
	dest := filepath.Join(t.TempDir(), "clone")

	err := engine.Clone(context.Background(), "v9.9.9", dir, dest)
	require.Error(t, err)
	var gitExecErr *GitExecError
	require.True(t, errors.As(err, &gitExecErr))
	assert.Equal(t, dir, gitExecErr.Repo)
	assert.Equal(t, "v9.9.9", gitExecErr.Ref)
}

func TestVerify(t *testing.T) {
	dir, head := initRepo(t)
	engine := NewEngine()
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "clone")
	require.NoError(t, engine.Clone(ctx, "v1.0.0", dir, dest))

	t.Run("annotated tag peels to HEAD", func(t *testing.T) {
		assert.NoError(t, engine.Verify(ctx, "v1.0.0", "", dest))
	})

	t.Run("expected commit matches HEAD", func(t *testing.T) {
		assert.NoError(t, engine.Verify(ctx, "", head, dest))
	})

	t.Run("wrong commit fails", func(t *testing.T) {
		err := engine.Verify(ctx, "", strings.Repeat("0", 40), dest)
		require.Error(t, err)
	})

	t.Run("nothing to check", func(t *testing.T) {
		assert.NoError(t, engine.Verify(ctx, "", "", dest))
	})
}

func TestVerify_LightweightTagIsNotAnnotated(t *testing.T) {
	dir, _ := initRepo(t)
	engine := NewEngine()
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "clone")
	require.NoError(t, engine.Clone(ctx, "v0.1.0", dir, dest))

	err := engine.Verify(ctx, "v0.1.0", "", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected an annotated tag")
}
