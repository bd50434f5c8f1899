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

package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyPresetsWithoutPresetsIsUnchanged(t *testing.T) {
	m := Manifest{Paths: []string{"schemas"}, Packages: []string{"foo"}}
	out := ApplyPresets(m)
	require.Equal(t, []string{"schemas"}, out.Paths)
	require.Equal(t, []string{"foo"}, out.Packages)
}

func TestApplyPresetsMavenAppendsSourceLayoutPaths(t *testing.T) {
	m := Manifest{
		Paths:    []string{"repo-a", "repo-b"},
		Packages: []string{"foo"},
		Presets:  []Preset{PresetMaven},
	}
	out := ApplyPresets(m)
	require.Equal(t, []string{
		"repo-a", "repo-b",
		"repo-a/src/main/reproto", "repo-b/src/main/reproto",
	}, out.Paths)
}

func TestApplyPresetsDoesNotMutateInput(t *testing.T) {
	m := Manifest{Paths: []string{"repo"}, Presets: []Preset{PresetMaven}}
	_ = ApplyPresets(m)
	require.Equal(t, []string{"repo"}, m.Paths)
}
