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

// Package semantic defines the neutral semantic model produced by lowering
// (IntoModel, spec.md §4.4) and consumed by translation (internal/flavor).
//
// The struct shapes here generalize the teacher's internal/api/model.go
// (Message/Field/Enum/EnumValue/OneOf, a closed protobuf-field-type enum)
// from a single wire format (protobuf) to the IDL's richer Type sum and
// tagged-union interfaces; cross-references are by Name, never by pointer,
// for the same reason spec.md §9 gives: it keeps translation a single pass
// with no ownership cycles.
package semantic

import "github.com/reprotoc/reprotoc/internal/source"

// Name is a fully-qualified identifier: the package it resolved into and
// the (possibly nested) parts within that package.
type Name struct {
	Package []string
	Parts   []string
}

func (n Name) String() string {
	s := ""
	for i, p := range n.Package {
		if i > 0 {
			s += "."
		}
		s += p
	}
	for _, p := range n.Parts {
		s += "." + p
	}
	return s
}

// TypeKind is the closed sum of field/argument/response types.
type TypeKind int

const (
	Double TypeKind = iota
	Float
	Signed
	Unsigned
	Boolean
	String
	Bytes
	Any
	DateTime
	Named
	Array
	Map
	// Invalid marks a type position that failed to parse (ast.TypeError);
	// the parser has already recorded the diagnostic, so consumers just treat
	// it as absent rather than re-reporting it.
	Invalid
)

// Type is one instance of the Type sum described in spec.md §3.
type Type struct {
	Kind  TypeKind
	Bits  int // for Signed/Unsigned
	Name  Name
	Elem  *Type // Array element type
	Key   *Type // Map key type
	Value *Type // Map value type
}

// DeclKind discriminates the closed sum of declaration bodies.
type DeclKind int

const (
	KindTypeBody DeclKind = iota
	KindTupleBody
	KindInterfaceBody
	KindEnumBody
	KindServiceBody
)

// Decl is one declaration: a record (TypeBody), tuple, tagged-union
// interface, enum, or service. Nested declarations live in Decls.
type Decl struct {
	Kind    DeclKind
	Name    Name
	Ident   string
	Comment []string
	Decls   []*Decl
	Span    source.Span

	Fields   []*Field        // TypeBody / TupleBody
	Iface    *InterfaceBody  // InterfaceBody
	Enum     *EnumBody       // EnumBody
	Service  *ServiceBody    // ServiceBody
	Reserved map[string]source.Span // #[reserved(...)] wire names, TypeBody/TupleBody/InterfaceBody
}

// Field is one record/sub-type field.
type Field struct {
	Required  bool
	Ident     string
	SafeIdent string // "" if Ident does not collide with a target keyword
	Name      string // "" if the wire name is the same as Ident
	Type      Type
	Comment   []string
	Span      source.Span
}

// WireName returns the wire-level name used for uniqueness checks and
// serialization: Name (an explicit alias or a #[field_naming]-derived name)
// if set, else Ident.
func (f *Field) WireName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Ident
}

// EnumType is the declared scalar type backing an enum.
type EnumType int

const (
	EnumString EnumType = iota
	EnumNumber32
)

// EnumBody is spec.md §3's enum: a declared backing type and its variants.
type EnumBody struct {
	EnumType EnumType
	Variants []*Variant
}

// OrdinalKind discriminates a Variant's ordinal.
type OrdinalKind int

const (
	OrdinalGenerated OrdinalKind = iota
	OrdinalString
	OrdinalNumber
)

// Variant is one enum member.
type Variant struct {
	Ident        string
	OrdinalKind  OrdinalKind
	OrdinalStr   string
	OrdinalNum   int32
	Comment      []string
	Span         source.Span
}

// SubTypeStrategyKind discriminates InterfaceBody's dispatch strategy.
// Tagged is the only variant defined today, per spec.md §3.
type SubTypeStrategyKind int

const (
	StrategyTagged SubTypeStrategyKind = iota
)

// SubTypeStrategy selects how sub-types are distinguished on the wire.
type SubTypeStrategy struct {
	Kind SubTypeStrategyKind
	Tag  string // discriminator field name, for Tagged
}

// InterfaceBody is a tagged union of SubTypes sharing a common field set.
type InterfaceBody struct {
	Fields   []*Field
	Strategy *SubTypeStrategy // nil until #[type_info(...)] is processed
	SubTypes []*SubType
}

// SubType is one tagged-interface variant.
type SubType struct {
	Ident       string
	Name        string // wire-level sub_type_name; defaults to Ident
	Fields      []*Field
	Comment     []string
	Span        source.Span
}

// AllFields returns the sub-type's own fields layered on top of the
// interface's shared fields, per spec.md §4.4.3 (sub-type field masking:
// the uniqueness check uses the union).
func (st *SubType) AllFields(iface *InterfaceBody) []*Field {
	return append(append([]*Field{}, iface.Fields...), st.Fields...)
}

// ServiceBody is spec.md §3's RPC service.
type ServiceBody struct {
	Endpoints   []*Endpoint
	EndpointOrd []string // insertion order of Endpoints' idents
	HTTPBaseURL string
}

// ChannelKind discriminates a unary response from a streaming one.
type ChannelKind int

const (
	Unary ChannelKind = iota
	Streaming
)

// Channel is an endpoint response's payload shape.
type Channel struct {
	Kind ChannelKind
	Type Type
}

// HTTPMethod is one of the recognized HTTP verbs for #[http(method=...)].
type HTTPMethod int

const (
	MethodUnset HTTPMethod = iota
	MethodGET
	MethodPOST
	MethodPUT
	MethodUPDATE
	MethodDELETE
	MethodPATCH
	MethodHEAD
)

// Accept is the negotiated response media type for #[http(accept=...)].
type Accept int

const (
	AcceptJSON Accept = iota
	AcceptText
)

// PathPart is one piece of a PathStep: a literal segment or a reference to
// one of the endpoint's arguments.
type PathPart struct {
	Segment  string
	Variable *Argument // non-nil iff this part names an endpoint argument
}

// PathStep is one `/`-delimited step of a PathSpec.
type PathStep []PathPart

// PathSpec is a parsed #[http(path=...)] value.
type PathSpec []PathStep

// EndpointHTTP is the HTTP binding attached to one Endpoint.
type EndpointHTTP struct {
	Path   PathSpec
	Body   *Argument
	Method HTTPMethod
	Accept Accept
}

// Argument is one endpoint parameter.
type Argument struct {
	Ident string
	Type  Type
	Span  source.Span
}

// Endpoint is one RPC method.
type Endpoint struct {
	Ident       string
	SafeIdent   string
	Name        string
	ArgumentOrd []string // insertion order of Arguments' idents
	Arguments   map[string]*Argument
	Response    *Channel
	HTTP        EndpointHTTP
	Comment     []string
	Span        source.Span
}

// WireName returns the wire-level name used for endpoint uniqueness checks.
func (e *Endpoint) WireName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Ident
}

// File is one lowered source file: its resolved package, the declarations
// it defines, and nothing else — imports have already been resolved into
// the environment's global `types` table by the time a File exists.
type File struct {
	Package []string
	Decls   []*Decl
}
