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

// Package manifest is the pre-parsed build-manifest shape of spec.md §4.10:
// path roots, the packages to compile, and a small set of ecosystem presets
// that expand into extra paths. Parsing a manifest file's own
// on-disk format is explicitly out of scope (spec.md Non-goals); callers
// construct a Manifest directly.
package manifest

// Preset names one ecosystem convention ApplyPresets expands into concrete
// Paths entries.
type Preset int

const (
	// PresetMaven mirrors a Maven-style `src/main/reproto` source layout:
	// the convention the original implementation's `core/src/manifest.rs`
	// calls `Preset::Maven`.
	PresetMaven Preset = iota
)

// Manifest is one compilation unit's configuration: the filesystem roots a
// PathResolver should search, the packages to compile, and presets to
// expand before resolution begins.
type Manifest struct {
	Paths    []string
	Packages []string
	Presets  []Preset
}

// ApplyPresets expands m.Presets into additional Paths entries and returns
// the resulting Manifest, leaving m unmodified. This is a near-verbatim port
// of the original implementation's `maven_apply_to`: for every existing path
// root, the Maven preset appends root+"/src/main/reproto" after the existing
// Paths; Packages are copied unchanged.
func ApplyPresets(m Manifest) Manifest {
	out := Manifest{
		Paths:    append([]string{}, m.Paths...),
		Packages: append([]string{}, m.Packages...),
	}
	for _, p := range m.Presets {
		switch p {
		case PresetMaven:
			out.Paths = append(out.Paths, mavenPaths(m.Paths)...)
		}
	}
	return out
}

func mavenPaths(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		out = append(out, r+"/src/main/reproto")
	}
	return out
}
