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

package semantic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/reprotoc/reprotoc/internal/diag"
	"github.com/reprotoc/reprotoc/internal/parser"
	"github.com/reprotoc/reprotoc/internal/scope"
	"github.com/reprotoc/reprotoc/internal/source"
)

const idempotenceFixture = `
/// A shape with a kind tag.
interface Shape {
	#[type_info(tag="kind")]
	area: double;

	Circle {
		radius: double;
	}
	Square {
		side: double;
	}
}

enum Suit as string {
	Spades as "spades";
	Hearts as "hearts";
}

service Shapes {
	list_shapes() -> [Shape];
}
`

func lowerFixture(t *testing.T) *File {
	t.Helper()
	src := source.New("test", "shapes.reprotoc", []byte(idempotenceFixture))
	d := diag.New(src)
	f := parser.Parse(src, d)
	require.False(t, d.HasErrors(), d.String())

	sc := scope.New([]string{"shapes"}, &scope.RootConfig{})
	return Lower(f, sc, d)
}

// Running the same AST through Lower twice, from two independently
// constructed scopes, must yield byte-equal semantic models: lowering
// consults no mutable state beyond the RootConfig each Scope owns, so
// there is nothing for a second run to see differently.
func TestLowerIsIdempotent(t *testing.T) {
	first := lowerFixture(t)
	second := lowerFixture(t)

	require.Empty(t, cmp.Diff(first, second, cmpopts.IgnoreFields(source.Span{}, "Source")))
}

func TestLowerInterfaceTagCollisionIsDeterministic(t *testing.T) {
	const src = `
interface Shape {
	#[type_info(tag="kind")]
	kind: string;

	Circle {
		kind: string;
		radius: double;
	}
}
`
	parseOne := func() *diag.Diagnostics {
		s := source.New("test", "dup.reprotoc", []byte(src))
		d := diag.New(s)
		f := parser.Parse(s, d)
		sc := scope.New([]string{"dup"}, &scope.RootConfig{})
		Lower(f, sc, d)
		return d
	}

	first := parseOne()
	second := parseOne()
	require.Equal(t, first.HasErrors(), second.HasErrors())
	require.True(t, first.HasErrors())
}

// #[field_naming] is an IDL attribute: per the original implementation's
// build_item_name, it converts the raw ident into the candidate *wire*
// name, leaving the in-model Ident untouched (there is no IDL-settable way
// to convert Ident itself).
func TestLowerFieldNamingConvertsWireNameNotIdent(t *testing.T) {
	const src = `
type Foo {
	my_count: u32;
}

#[field_naming(upper_camel)]
`
	s := source.New("test", "foo.reprotoc", []byte(src))
	d := diag.New(s)
	f := parser.Parse(s, d)
	require.False(t, d.HasErrors(), d.String())

	sc := scope.New([]string{"foo"}, &scope.RootConfig{})
	model := Lower(f, sc, d)
	require.False(t, d.HasErrors(), d.String())

	require.Len(t, model.Decls, 1)
	field := model.Decls[0].Fields[0]
	require.Equal(t, "my_count", field.Ident)
	require.Equal(t, "MyCount", field.Name)
	require.Equal(t, "MyCount", field.WireName())
}

func TestLowerEndpointNamingConvertsWireNameNotIdent(t *testing.T) {
	const src = `
service Api {
	get_item() -> string;
}

#[endpoint_naming(upper_camel)]
`
	s := source.New("test", "api.reprotoc", []byte(src))
	d := diag.New(s)
	f := parser.Parse(s, d)
	require.False(t, d.HasErrors(), d.String())

	sc := scope.New([]string{"api"}, &scope.RootConfig{})
	model := Lower(f, sc, d)
	require.False(t, d.HasErrors(), d.String())

	require.Len(t, model.Decls, 1)
	ep := model.Decls[0].Service.Endpoints[0]
	require.Equal(t, "get_item", ep.Ident)
	require.Equal(t, "GetItem", ep.Name)
}
