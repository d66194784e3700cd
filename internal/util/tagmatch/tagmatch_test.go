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

package tagmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpkgdev/gitpkg/internal/errors"
)

func TestMatch(t *testing.T) {
	testCases := map[string]struct {
		tags     []string
		rng      string
		expected string
	}{
		"picks highest satisfying tag": {
			tags:     []string{"v1.0.0", "v1.5.0", "v2.0.0"},
			rng:      ">=1.0.0 <2.0.0",
			expected: "v1.5.0",
		},
		"caret range": {
			tags:     []string{"v1.2.0", "v1.2.3", "v1.3.0", "v2.0.0"},
			rng:      "^1.2.0",
			expected: "v1.3.0",
		},
		"numeric not lexicographic ordering": {
			tags:     []string{"v2.0.0", "v10.0.0", "v9.0.0"},
			rng:      "*",
			expected: "v10.0.0",
		},
		"tags without v prefix are ignored": {
			tags:     []string{"1.9.0", "v1.2.0", "release-1.4"},
			rng:      "*",
			expected: "v1.2.0",
		},
		"non-semver tags are ignored": {
			tags:     []string{"vNext", "v1.0.0", "v1.x"},
			rng:      "*",
			expected: "v1.0.0",
		},
		"no qualifying tag": {
			tags:     []string{"v1.0.0", "v1.5.0"},
			rng:      ">=2.0.0",
			expected: "",
		},
		"no tags at all": {
			tags:     nil,
			rng:      "*",
			expected: "",
		},
		"exact pin": {
			tags:     []string{"v1.0.0", "v1.0.1"},
			rng:      "1.0.0",
			expected: "v1.0.0",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			tag, err := Match(tc.tags, tc.rng)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tag)
		})
	}
}

func TestMatch_InvalidRange(t *testing.T) {
	_, err := Match([]string{"v1.0.0"}, "not a range")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.InvalidParam))
}
