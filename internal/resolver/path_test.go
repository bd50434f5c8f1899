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

package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reprotoc/reprotoc/internal/version"
)

func writeSchema(t *testing.T, root string, pkg []string, contents string) {
	t.Helper()
	full := filepath.Join(append([]string{root}, pkg...)...) + SchemaExtension
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestPathResolverResolve(t *testing.T) {
	root := t.TempDir()
	writeSchema(t, root, []string{"foo", "bar"}, "type Baz {}\n")

	r := NewPathResolver(root)
	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)

	got, err := r.Resolve(RequiredPackage{Package: []string{"foo", "bar"}, Range: anyRange})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "type Baz {}\n", string(got[0].Source.Read()))
}

func TestPathResolverResolveMissing(t *testing.T) {
	root := t.TempDir()
	r := NewPathResolver(root)
	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)

	got, err := r.Resolve(RequiredPackage{Package: []string{"missing"}, Range: anyRange})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestPathResolverResolveByPrefix(t *testing.T) {
	root := t.TempDir()
	writeSchema(t, root, []string{"foo", "bar"}, "")
	writeSchema(t, root, []string{"foo", "baz"}, "")

	r := NewPathResolver(root)
	got, err := r.ResolveByPrefix([]string{"foo"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	var names []string
	for _, c := range got {
		names = append(names, c.Package[len(c.Package)-1])
	}
	require.ElementsMatch(t, []string{"bar", "baz"}, names)
}

func TestPathResolverMultipleRootsOrdersCandidates(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeSchema(t, first, []string{"foo"}, "first")
	writeSchema(t, second, []string{"foo"}, "second")

	r := NewPathResolver(first, second)
	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)

	got, err := r.Resolve(RequiredPackage{Package: []string{"foo"}, Range: anyRange})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "first", string(got[0].Source.Read()))
	require.Equal(t, "second", string(got[1].Source.Read()))
}
