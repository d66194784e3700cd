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

package resolver

import (
	"fmt"

	"github.com/gitpkgdev/gitpkg/internal/errors"
	"github.com/gitpkgdev/gitpkg/internal/manifest"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&installErrorResolver{})
}

// installErrorResolver produces user-facing messages for the error kinds of
// the resolution and installation pipeline.
type installErrorResolver struct{}

func (*installErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var e *errors.Error
	if !errors.As(err, &e) {
		return ResolvedResult{}, false
	}

	var msg string
	switch errors.UnwrapKind(err) {
	case errors.UnknownRemote:
		msg = fmt.Sprintf("Error: %v\nDeclare the alias in the remotes table of %s.", e, manifest.FileName)
	case errors.InvalidRemotes:
		msg = fmt.Sprintf("Error: %v\nEvery remotes entry must be an ordered list of host templates.", e)
	case errors.UnknownPackage:
		msg = fmt.Sprintf("Error: %v\nRun the command from a directory containing %s.", e, manifest.FileName)
	case errors.UnresolvableRemotes:
		msg = fmt.Sprintf("Error: %v\nThe specifier produced no candidate hosts to fetch from.", e)
	case errors.TagNotFound:
		msg = fmt.Sprintf("Error: %v", e)
	case errors.Verification:
		msg = fmt.Sprintf("Error: %v\nThe clone was left in place for inspection.", e)
	case errors.UnknownScript:
		msg = fmt.Sprintf("Error: %v", e)
	default:
		return ResolvedResult{}, false
	}
	return ResolvedResult{Message: msg}, true
}
