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

package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitpkgdev/gitpkg/internal/types"
)

func TestErrorMessage(t *testing.T) {
	err := E(Op("install.Run"), types.UniquePath("/work/app"), TagNotFound,
		fmt.Errorf("no tag satisfies %q", "^1.0.0"))
	assert.Equal(t,
		`install.Run: pkg /work/app: no matching tag: no tag satisfies "^1.0.0"`,
		err.Error())
}

func TestErrorMessage_DedupsWrapped(t *testing.T) {
	inner := E(Op("manifest.Read"), types.UniquePath("/work/app"), IO,
		fmt.Errorf("read failed"))
	outer := E(Op("install.Run"), types.UniquePath("/work/app"), inner)

	// path repeated by the wrapping error is only printed once
	assert.Equal(t,
		"install.Run: pkg /work/app:\n\tmanifest.Read: I/O error: read failed",
		outer.Error())
}

func TestIsKind(t *testing.T) {
	err := E(Op("install.Run"), E(Op("parse.Expand"), UnknownRemote,
		fmt.Errorf("remote %q is not declared", "upstream")))
	assert.True(t, IsKind(err, UnknownRemote))
	assert.False(t, IsKind(err, TagNotFound))
	assert.False(t, IsKind(nil, UnknownRemote))
}

func TestUnwrapKind(t *testing.T) {
	err := E(Op("install.Run"), E(Op("install.fetchDep"), Verification,
		fmt.Errorf("bad tag")))
	assert.Equal(t, Verification, UnwrapKind(err))
	assert.Equal(t, Other, UnwrapKind(fmt.Errorf("plain")))
}

func TestIs_StdChain(t *testing.T) {
	err := E(Op("manifest.Read"), fs.ErrNotExist)
	assert.True(t, Is(err, fs.ErrNotExist))
}
