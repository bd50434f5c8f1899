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

package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reprotoc/reprotoc/internal/diag"
	"github.com/reprotoc/reprotoc/internal/flavor"
	"github.com/reprotoc/reprotoc/internal/parser"
	"github.com/reprotoc/reprotoc/internal/resolver"
	"github.com/reprotoc/reprotoc/internal/scope"
	"github.com/reprotoc/reprotoc/internal/semantic"
	"github.com/reprotoc/reprotoc/internal/source"
	"github.com/reprotoc/reprotoc/internal/version"
)

func writeFixture(t *testing.T, root, relPath, contents string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestEnvironmentImportAcrossPackages(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "common.reprotoc", `
type Greeting {
	message: string;
}
`)
	writeFixture(t, root, "app.reprotoc", `
use common;

type Request {
	greeting: common::Greeting;
}
`)

	r := resolver.NewPathResolver(root)
	e := New(r, nil)

	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)

	vp, err := e.Import(resolver.RequiredPackage{Package: []string{"app"}, Range: anyRange})
	require.NoError(t, err)
	require.NotNil(t, vp)
	require.False(t, e.DiagCtx.HasErrors(), e.DiagCtx.String())

	greeting, ok := e.Lookup("common.Greeting")
	require.True(t, ok)
	require.Equal(t, "Greeting", greeting.Decl.Name.Parts[0])

	request, ok := e.Lookup("app.Request")
	require.True(t, ok)
	require.Len(t, request.Decl.Fields, 1)
	require.Equal(t, []string{"common"}, request.Decl.Fields[0].Type.Name.Package)
	require.Equal(t, []string{"Greeting"}, request.Decl.Fields[0].Type.Name.Parts)

	packages := e.Packages()
	require.ElementsMatch(t, []string{"app", "common"}, allPackageKeys(packages))
}

func TestEnvironmentImportMissingPackage(t *testing.T) {
	root := t.TempDir()
	r := resolver.NewPathResolver(root)
	e := New(r, nil)

	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)

	vp, err := e.Import(resolver.RequiredPackage{Package: []string{"missing"}, Range: anyRange})
	require.NoError(t, err)
	require.Nil(t, vp)
}

func TestEnvironmentImportIsMemoized(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "solo.reprotoc", `
type Empty {
}
`)
	r := resolver.NewPathResolver(root)
	e := New(r, nil)

	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)
	required := resolver.RequiredPackage{Package: []string{"solo"}, Range: anyRange}

	first, err := e.Import(required)
	require.NoError(t, err)
	second, err := e.Import(required)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestEnvironmentTranslateWithCoreFlavor(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "shapes.reprotoc", `
/// A simple point.
type Point {
	x: double;
	y: double;
}
`)
	r := resolver.NewPathResolver(root)
	e := New(r, nil)

	anyRange, err := version.ParseRange("*")
	require.NoError(t, err)
	_, err = e.Import(resolver.RequiredPackage{Package: []string{"shapes"}, Range: anyRange})
	require.NoError(t, err)
	require.False(t, e.DiagCtx.HasErrors(), e.DiagCtx.String())

	translated := e.Translate(flavor.CoreFlavor{})
	require.Contains(t, translated.Files, "shapes")
	require.Len(t, translated.Files["shapes"].Decls, 1)
	require.Equal(t, "Point", translated.Files["shapes"].Decls[0].Name.Parts[0])
}

// lowerInto lowers src as a file of pkg, used to build two independent
// *semantic.File values that share a package so processFile's collision
// handling can be exercised directly, without routing through a resolver
// that only ever hands one file to a given package.
func lowerInto(t *testing.T, pkg []string, src string) (*semantic.File, *diag.Diagnostics) {
	t.Helper()
	s := source.New("test", "fixture.reprotoc", []byte(src))
	d := diag.New(s)
	f := parser.Parse(s, d)
	require.False(t, d.HasErrors(), d.String())
	sc := scope.New(pkg, &scope.RootConfig{})
	return semantic.Lower(f, sc, d), d
}

func TestEnvironmentProcessFileReportsDuplicateRegistration(t *testing.T) {
	r := resolver.NewPathResolver(t.TempDir())
	e := New(r, nil)

	vp := VersionedPackage{Package: []string{"dup"}}

	first, d := lowerInto(t, []string{"dup"}, `
type Foo {
	a: string;
}
`)
	e.processFile(vp, first, d)
	require.False(t, d.HasErrors(), d.String())

	second, d := lowerInto(t, []string{"dup"}, `
type Foo {
	b: string;
}
`)
	e.processFile(vp, second, d)
	require.True(t, d.HasErrors())
	require.Contains(t, d.String(), "already defined")

	reg, ok := e.Lookup("dup.Foo")
	require.True(t, ok)
	require.Same(t, first.Decls[0], reg.Decl)
}

func allPackageKeys(packages map[string][]string) []string {
	var out []string
	for _, pkg := range packages {
		out = append(out, pkg[len(pkg)-1])
	}
	return out
}

