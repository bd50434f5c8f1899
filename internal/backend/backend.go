// Copyright 2025 The reprotoc Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package backend defines the emitter contract spec.md §4.11 describes: a
// Backend consumes a flavor.Translated model and renders it into an
// fsout.Filesystem. It narrows the teacher's internal/language/client.go
// (GenerateClientRequest: API + Codec + OutDir, iterate Codec's
// GeneratedFiles, render each through a mustache.PartialProvider) down to
// "iterate files/decls, ask for an output handle" — target-language
// specifics (the Codec, the template set) are a collaborator's concern,
// out of scope here.
package backend

import (
	"github.com/reprotoc/reprotoc/internal/flavor"
	"github.com/reprotoc/reprotoc/internal/fsout"
)

// Backend renders a translated model into files.
type Backend interface {
	Generate(t *flavor.Translated, out fsout.Filesystem) error
}
