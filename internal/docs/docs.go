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

// Package docs holds the help text for the gitpkg commands.
package docs

var InstallShort = `Install the dependencies declared in gitpkg.yaml.`
var InstallLong = `
  gitpkg install [DIR] [flags]

Args:

  DIR:
    Directory containing the package manifest. Defaults to the current
    working directory.

Flags:

  --production
    Skip the devDependencies of the root package. Transitive
    devDependencies are never installed.
`
var InstallExamples = `
  # install the dependencies of the package in the current directory
  $ gitpkg install

  # install production dependencies of a package in another directory
  $ gitpkg install path/to/pkg --production
`

var RunShort = `Run a script declared in gitpkg.yaml.`
var RunLong = `
  gitpkg run SCRIPT [ARGS...]

Args:

  SCRIPT:
    Name of the script as declared under the scripts table of the
    manifest. The manifest is located by walking up from the current
    working directory.

  ARGS:
    Additional arguments appended to the script's command line.
`
var RunExamples = `
  # run the test script of the enclosing package
  $ gitpkg run test

  # pass extra arguments to the script
  $ gitpkg run lint --fix
`

var TreeShort = `Display the dependency tree of an installed package.`
var TreeLong = `
  gitpkg tree [DIR]

Args:

  DIR:
    Directory containing the package manifest. Defaults to the current
    working directory. The manifest is located by walking up.
`
var TreeExamples = `
  # print the dependency tree of the package in the current directory
  $ gitpkg tree
`
