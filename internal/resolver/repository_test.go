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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reprotoc/reprotoc/internal/version"
)

func writeCachedArchive(t *testing.T, baseDir string, pkg []string, ver, contents string) {
	t.Helper()
	dir := filepath.Join(append(append([]string{baseDir}, pkg...), ver)...)
	file := filepath.Join(dir, filepath.Join(pkg...)+SchemaExtension)
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o644))
}

func TestParseIndexAndVersions(t *testing.T) {
	idx, err := ParseIndex([]byte(`
[packages]
"foo.bar" = ["1.0.0", "1.1.0", "0.9.0"]
`))
	require.NoError(t, err)

	versions, err := idx.versions([]string{"foo", "bar"})
	require.NoError(t, err)
	require.Len(t, versions, 3)
	// latest-first
	require.Equal(t, "1.1.0", versions[0].String())
	require.Equal(t, "1.0.0", versions[1].String())
	require.Equal(t, "0.9.0", versions[2].String())

	none, err := idx.versions([]string{"unknown"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRepositoryResolverResolveOrdersLatestFirstAndUsesCache(t *testing.T) {
	idx := &Index{Packages: map[string][]string{"foo.bar": {"1.0.0", "1.1.0"}}}
	baseDir := t.TempDir()
	writeCachedArchive(t, baseDir, []string{"foo", "bar"}, "1.0.0", "old")
	writeCachedArchive(t, baseDir, []string{"foo", "bar"}, "1.1.0", "new")

	store := NewObjectStore("https://example.invalid/archives", baseDir)
	r := NewRepositoryResolver(idx, store)

	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)

	got, err := r.Resolve(RequiredPackage{Package: []string{"foo", "bar"}, Range: anyRange})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "1.1.0", got[0].Version.String())
	require.Equal(t, "new", string(got[0].Source.Read()))
	require.Equal(t, "1.0.0", got[1].Version.String())
	require.Equal(t, "old", string(got[1].Source.Read()))
}

func TestRepositoryResolverResolveFiltersByRange(t *testing.T) {
	idx := &Index{Packages: map[string][]string{"foo.bar": {"1.0.0", "2.0.0"}}}
	baseDir := t.TempDir()
	writeCachedArchive(t, baseDir, []string{"foo", "bar"}, "1.0.0", "v1")
	writeCachedArchive(t, baseDir, []string{"foo", "bar"}, "2.0.0", "v2")

	store := NewObjectStore("https://example.invalid/archives", baseDir)
	r := NewRepositoryResolver(idx, store)

	r1Range, err := version.ParseRange("^1.0.0")
	require.NoError(t, err)

	got, err := r.Resolve(RequiredPackage{Package: []string{"foo", "bar"}, Range: r1Range})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "1.0.0", got[0].Version.String())
}

func TestRepositoryResolverResolveByPrefix(t *testing.T) {
	idx := &Index{Packages: map[string][]string{
		"foo.bar": {"1.0.0"},
		"foo.baz": {"1.0.0"},
		"other":   {"1.0.0"},
	}}
	baseDir := t.TempDir()
	writeCachedArchive(t, baseDir, []string{"foo", "bar"}, "1.0.0", "bar")
	writeCachedArchive(t, baseDir, []string{"foo", "baz"}, "1.0.0", "baz")
	writeCachedArchive(t, baseDir, []string{"other"}, "1.0.0", "other")

	store := NewObjectStore("https://example.invalid/archives", baseDir)
	r := NewRepositoryResolver(idx, store)

	got, err := r.ResolveByPrefix([]string{"foo"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	var names []string
	for _, c := range got {
		names = append(names, strings.Join(c.Package, "."))
	}
	require.ElementsMatch(t, []string{"foo.bar", "foo.baz"}, names)
}
