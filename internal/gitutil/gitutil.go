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

// Package gitutil runs git commands and implements the git operations the
// installer depends on: listing remote tags, cloning a ref, and verifying
// a clone against an annotated tag or an expected commit.
package gitutil

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/gitpkgdev/gitpkg/internal/errors"
)

// NewLocalGitRunner returns a new GitLocalRunner for a local directory.
func NewLocalGitRunner(dir string) (*GitLocalRunner, error) {
	const op errors.Op = "gitutil.NewLocalGitRunner"
	p, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.E(op, errors.Git,
			fmt.Errorf("no 'git' program on path: %w", err))
	}

	return &GitLocalRunner{
		gitPath: p,
		Dir:     dir,
	}, nil
}

// GitLocalRunner runs git commands in a local directory.
type GitLocalRunner struct {
	// Path to the git executable.
	gitPath string

	// Dir is the directory the commands are run in.
	Dir string
}

type RunResult struct {
	Stdout string
	Stderr string
}

// Run runs a git command.
// Omit the 'git' part of the command.
// The first return value contains the output to Stdout and Stderr when
// running the command.
func (g *GitLocalRunner) Run(ctx context.Context, command string, args ...string) (RunResult, error) {
	const op errors.Op = "gitutil.Run"

	cmd := exec.CommandContext(ctx, g.gitPath, append([]string{command}, args...)...)
	cmd.Dir = g.Dir
	cmd.Env = os.Environ()

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	cmd.Stdout = cmdStdout
	cmd.Stderr = cmdStderr

	err := cmd.Run()
	if err != nil {
		return RunResult{}, errors.E(op, errors.Git, &GitExecError{
			Type:    determineErrorType(cmdStderr.String()),
			Command: command,
			Args:    args,
			Err:     err,
			StdOut:  cmdStdout.String(),
			StdErr:  cmdStderr.String(),
		})
	}
	return RunResult{
		Stdout: cmdStdout.String(),
		Stderr: cmdStderr.String(),
	}, nil
}

// TagRecord describes a single tag in a remote repository.
type TagRecord struct {
	// Annotated is true when the tag is a tag object rather than a plain
	// ref to a commit.
	Annotated bool

	// Commit is the commit the tag resolves to. For annotated tags this is
	// the peeled commit, not the hash of the tag object.
	Commit string
}

// Engine performs git operations against remote repositories using a local
// git install, as opposed to say, some remote API.
type Engine struct{}

// NewEngine returns an Engine backed by the git executable on the PATH.
func NewEngine() *Engine {
	return &Engine{}
}

var lsRemoteTagRegexp = regexp.MustCompile(`^([a-f0-9]+)\s+refs/tags/(.+)$`)

// ListTags fetches the tag refs of the remote at url. The result is built
// fresh on every call, nothing is cached between queries.
func (e *Engine) ListTags(ctx context.Context, url string) (map[string]TagRecord, error) {
	const op errors.Op = "gitutil.ListTags"
	runner, err := NewLocalGitRunner(".")
	if err != nil {
		return nil, errors.E(op, err)
	}

	rr, err := runner.Run(ctx, "ls-remote", "--tags", url)
	if err != nil {
		AmendGitExecError(err, func(e *GitExecError) {
			e.Repo = url
		})
		return nil, errors.E(op, err)
	}

	// ls-remote prints the tag ref itself and, for annotated tags, a
	// peeled ^{} entry pointing at the underlying commit.
	refs := make(map[string]string)
	peeled := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(rr.Stdout))
	for scanner.Scan() {
		res := lsRemoteTagRegexp.FindStringSubmatch(scanner.Text())
		if len(res) == 0 {
			continue
		}
		if name, ok := strings.CutSuffix(res[2], "^{}"); ok {
			peeled[name] = res[1]
			continue
		}
		refs[res[2]] = res[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(op, errors.Git,
			fmt.Errorf("error parsing response from git: %w", err))
	}

	tags := make(map[string]TagRecord, len(refs))
	for name, hash := range refs {
		if commit, found := peeled[name]; found {
			tags[name] = TagRecord{Annotated: true, Commit: commit}
			continue
		}
		tags[name] = TagRecord{Commit: hash}
	}
	return tags, nil
}

// Clone performs a shallow clone of the given ref (tag or branch) of the
// remote at url into dest.
func (e *Engine) Clone(ctx context.Context, ref, url, dest string) error {
	const op errors.Op = "gitutil.Clone"
	runner, err := NewLocalGitRunner(".")
	if err != nil {
		return errors.E(op, err)
	}

	_, err = runner.Run(ctx, "clone", "--quiet", "--depth", "1", "--branch", ref, "--", url, dest)
	if err != nil {
		AmendGitExecError(err, func(e *GitExecError) {
			e.Repo = url
			e.Ref = ref
		})
		return errors.E(op, err)
	}
	return nil
}

// Verify checks the clone in dir against its upstream expectation: for an
// annotated tag the tag object must exist and peel to HEAD, otherwise HEAD
// must equal the expected commit. With neither a tag nor a commit there is
// nothing to check.
func (e *Engine) Verify(ctx context.Context, tag, commit, dir string) error {
	const op errors.Op = "gitutil.Verify"
	runner, err := NewLocalGitRunner(dir)
	if err != nil {
		return errors.E(op, err)
	}

	head, err := runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return errors.E(op, err)
	}
	headCommit := strings.TrimSpace(head.Stdout)

	if tag != "" {
		objType, err := runner.Run(ctx, "cat-file", "-t", "refs/tags/"+tag)
		if err != nil {
			return errors.E(op, err)
		}
		if t := strings.TrimSpace(objType.Stdout); t != "tag" {
			return errors.E(op,
				fmt.Errorf("tag %q is a %s object, expected an annotated tag", tag, t))
		}
		peeled, err := runner.Run(ctx, "rev-parse", "refs/tags/"+tag+"^{commit}")
		if err != nil {
			return errors.E(op, err)
		}
		if p := strings.TrimSpace(peeled.Stdout); p != headCommit {
			return errors.E(op,
				fmt.Errorf("annotated tag %q points at %s, but HEAD is %s", tag, p, headCommit))
		}
		return nil
	}

	if commit != "" {
		if headCommit != commit {
			return errors.E(op,
				fmt.Errorf("HEAD is %s, expected commit %s", headCommit, commit))
		}
	}
	return nil
}
