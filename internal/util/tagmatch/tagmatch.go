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

// Package tagmatch selects the git tag that best satisfies a version range.
package tagmatch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gitpkgdev/gitpkg/internal/errors"
)

// tagPrefix is the conventional prefix of release tags.
const tagPrefix = "v"

// Match returns the name of the highest tag whose version satisfies the
// range, or the empty string when no tag qualifies.
//
// Tags without the leading "v" are discarded, as are tags whose stripped
// value does not parse as a semantic version. The remaining tags are
// scanned in descending version order.
func Match(tags []string, versionRange string) (string, error) {
	const op errors.Op = "tagmatch.Match"
	c, err := semver.NewConstraint(versionRange)
	if err != nil {
		return "", errors.E(op, errors.InvalidParam,
			fmt.Errorf("invalid version range %q: %w", versionRange, err))
	}

	type candidate struct {
		name    string
		version *semver.Version
	}
	var candidates []candidate
	for _, tag := range tags {
		if !strings.HasPrefix(tag, tagPrefix) {
			continue
		}
		v, err := semver.NewVersion(strings.TrimPrefix(tag, tagPrefix))
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: tag, version: v})
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		// descending order
		return b.version.Compare(a.version)
	})

	for _, cand := range candidates {
		if c.Check(cand.version) {
			return cand.name, nil
		}
	}
	return "", nil
}
