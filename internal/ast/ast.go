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

// Package ast defines the tagged-union syntax tree the parser produces.
// Every node that corresponds to concrete syntax carries a source.Span;
// IntoModel lowering (internal/semantic) consumes this tree and never
// mutates it.
package ast

import (
	"github.com/reprotoc/reprotoc/internal/source"
	"github.com/reprotoc/reprotoc/internal/token"
)

// Name is a (possibly prefixed, possibly relative) identifier path as
// written in source, before scope resolution.
type Name struct {
	Prefix *string // `o` in `o::Bar`; nil for a relative or local name.
	Parts  []string
	Span   source.Span
}

// Type is the closed sum of spec.md §3's type grammar.
type Type struct {
	Kind  TypeKind
	Bits  int    // for Signed/Unsigned
	Name  *Name  // for Name
	Elem  *Type  // for Array
	Key   *Type  // for Map
	Value *Type  // for Map
	Error []token.Token // populated when Kind == TypeError: the raw token run
	Span  source.Span
}

type TypeKind int

const (
	TypeDouble TypeKind = iota
	TypeFloat
	TypeSigned
	TypeUnsigned
	TypeBoolean
	TypeString
	TypeBytes
	TypeAny
	TypeDateTime
	TypeName
	TypeArray
	TypeMap
	// TypeError is the parser's sentinel for a type position that failed to
	// parse; it retains the offending token run for completion tooling per
	// spec.md §4.2's error-recovery invariant.
	TypeError
)

// Value is a literal value as written in an attribute argument.
type Value struct {
	Kind   ValueKind
	String string
	Number token.Numeric
	Ident  *Name
	Span   source.Span
}

type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueIdentifier
)

// Word is a bare attribute argument, e.g. the `legacy_id` in
// `#[reserved(legacy_id)]`.
type Word = Value

// Selection is the parenthesized argument list of an attribute, e.g.
// `(strategy = "tagged", tag = "kind")`.
type Selection struct {
	Words  []source.Located[Word]
	Values []NamedValue
	Span   source.Span
}

// NamedValue is one `key = value` pair inside a Selection.
type NamedValue struct {
	Key   Name
	Value source.Located[Value]
}

// Attribute is one `#[...]` annotation attached to the following item.
type Attribute struct {
	Name      string
	Selection *Selection // nil for a bare `#[name]`; `#[name(word, word)]` yields a Selection holding Words
	Span      source.Span
}

// Field is a record/sub-type field.
type Field struct {
	Required   bool
	Ident      string
	Alias      *string // the `as "n"` wire-name override, if present
	Type       Type
	Comment    []string
	Attributes []Attribute
	Span       source.Span
}

// Variant is one member of an EnumBody.
type Variant struct {
	Ident   string
	Ordinal *Value // nil => Generated
	Comment []string
	Span    source.Span
}

// SubType is one tagged-interface variant body.
type SubType struct {
	Ident       string
	Alias       *string
	Fields      []Field
	Comment     []string
	Attributes  []Attribute
	NestedDecls []Decl
	Span        source.Span
}

// Argument is one endpoint parameter.
type Argument struct {
	Ident string
	Type  Type
	Span  source.Span
}

// Channel is the unary-or-streaming payload of an endpoint's request or
// response.
type Channel struct {
	Streaming bool
	Type      Type
	Span      source.Span
}

// Endpoint is one RPC method inside a ServiceBody.
type Endpoint struct {
	Ident      string
	Alias      *string
	Arguments  []Argument
	Response   *Channel
	Comment    []string
	Attributes []Attribute
	Span       source.Span
}

// UseDecl is one `use P [version V] [as A];` declaration.
type UseDecl struct {
	Package Name
	Version *string // the raw range text, if present
	Alias   *string
	Span    source.Span
}

// DeclKind discriminates the closed sum of top-level/nested declarations.
type DeclKind int

const (
	DeclType DeclKind = iota
	DeclTuple
	DeclInterface
	DeclEnum
	DeclService
)

// Decl is one declaration: a record (TypeBody), a TupleBody, a tagged-union
// InterfaceBody, an EnumBody, or a ServiceBody. Body-specific data lives in
// the field matching Kind; nested Decls are declarations lexically contained
// in this one.
type Decl struct {
	Kind       DeclKind
	Ident      string
	Comment    []string
	Attributes []Attribute
	Decls      []Decl
	Span       source.Span

	// TypeBody / TupleBody
	Fields []Field

	// InterfaceBody
	SubTypes []SubType

	// EnumBody
	EnumType string // "string" or "u32", as written
	Variants []Variant

	// ServiceBody
	Endpoints []Endpoint
}

// File is one parsed source file: its package declaration (if any), its
// uses, and its top-level declarations.
type File struct {
	Package    *Name
	Uses       []UseDecl
	Attributes []Attribute // file-root attributes, e.g. #[field_naming(...)]
	Decls      []Decl
	Comment    []string // package-level doc comment
}
