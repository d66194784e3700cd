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

package main

import (
	"context"
	"os"

	"github.com/gitpkgdev/gitpkg/internal/util/cmdutil"
	"github.com/gitpkgdev/gitpkg/run"
)

func main() {
	ctx := context.Background()
	cmd := run.GetMain(ctx)

	// errors are printed by HandleError, cobra is silenced
	cmdutil.ExitOnError = true
	if err := cmd.Execute(); err != nil {
		_ = cmdutil.HandleError(cmd, err)
		os.Exit(1)
	}
}
