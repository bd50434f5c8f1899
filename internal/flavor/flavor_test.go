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

package flavor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reprotoc/reprotoc/internal/scope"
	"github.com/reprotoc/reprotoc/internal/semantic"
)

func pointDecl() *semantic.Decl {
	return &semantic.Decl{
		Kind:    semantic.KindTypeBody,
		Name:    semantic.Name{Package: []string{"shapes"}, Parts: []string{"Point"}},
		Ident:   "Point",
		Comment: []string{"A simple point."},
		Fields: []*semantic.Field{
			{Ident: "x", Required: true, Type: semantic.Type{Kind: semantic.Double}},
			{Ident: "type", Required: true, Type: semantic.Type{Kind: semantic.String}},
			{
				Ident:    "origin",
				Required: false,
				Type: semantic.Type{
					Kind: semantic.Named,
					Name: semantic.Name{Package: []string{"shapes"}, Parts: []string{"Point"}},
				},
			},
		},
	}
}

func inputWithPoint() Input {
	decl := pointDecl()
	return Input{
		FileOrder:    []string{"shapes@*"},
		Files:        map[string]*semantic.File{"shapes@*": {Package: []string{"shapes"}, Decls: []*semantic.Decl{decl}}},
		FilePackages: map[string][]string{"shapes@*": {"shapes"}},
		TypeOrder:    []string{"shapes.Point"},
		Types:        map[string]*semantic.Decl{"shapes.Point": decl},
	}
}

func TestTranslateWithCoreFlavorIsIdentityOnPackages(t *testing.T) {
	out := Translate(inputWithPoint(), CoreFlavor{})

	require.Len(t, out.FileOrder, 1)
	require.Contains(t, out.Files, "shapes")
	require.Equal(t, []string{"shapes"}, out.Files["shapes"].Package)

	decl := out.Decls["shapes.Point"]
	require.NotNil(t, decl)
	require.Equal(t, []string{"A simple point."}, decl.Comment)
	require.Equal(t, "shapes", decl.Fields[2].Type.Name.Package[0])
}

func TestTranslateWithPrefixedTranslatorRewritesPackagesAndKeywords(t *testing.T) {
	upper := scope.UpperCamel
	tr := &PrefixedTranslator{
		Prefix:      []string{"com", "example"},
		PackageCase: &upper,
		Keywords:    map[string]string{"type": "type_"},
	}

	out := Translate(inputWithPoint(), tr)

	require.Len(t, out.FileOrder, 1)
	wantPkg := "com.example.Shapes"
	require.Contains(t, out.Files, wantPkg)
	require.Equal(t, []string{"com", "example", "Shapes"}, out.Files[wantPkg].Package)

	decl := out.Decls[out.DeclOrder[0]]
	require.Equal(t, []string{"com", "example", "Shapes"}, decl.Name.Package)

	// Fields are passed through untouched by the generic walk: only Package
	// and Name.Package are Translator-mapped; per-field keyword-safety is a
	// backend concern applied against Field.Ident/SafeIdent directly, not
	// part of this walk.
	require.Equal(t, "type", decl.Fields[1].Ident)
}

func TestTranslateWithPrefixedSafePackagesLeavesPackagesVerbatim(t *testing.T) {
	tr := &PrefixedTranslator{
		Prefix:       []string{"ignored"},
		SafePackages: true,
	}

	out := Translate(inputWithPoint(), tr)

	require.Contains(t, out.Files, "shapes")
	require.Equal(t, []string{"shapes"}, out.Files["shapes"].Package)
}

func TestPrefixedTranslatorKeyword(t *testing.T) {
	tr := &PrefixedTranslator{Keywords: map[string]string{"type": "type_"}}

	safe, ok := tr.Keyword("type")
	require.True(t, ok)
	require.Equal(t, "type_", safe)

	_, ok = tr.Keyword("other")
	require.False(t, ok)
}
