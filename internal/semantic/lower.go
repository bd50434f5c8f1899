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
	"math"

	"github.com/reprotoc/reprotoc/internal/ast"
	"github.com/reprotoc/reprotoc/internal/attr"
	"github.com/reprotoc/reprotoc/internal/diag"
	"github.com/reprotoc/reprotoc/internal/scope"
	"github.com/reprotoc/reprotoc/internal/source"
	"github.com/reprotoc/reprotoc/internal/token"
)

// Lower converts a parsed ast.File into a File, enforcing the invariants
// listed in spec.md §4.4. Diagnostics go to d, and file-level
// #[field_naming]/#[endpoint_naming] conventions are installed into sc's
// RootConfig. The caller is responsible for having already run process_uses
// over sc so that relative and prefixed names resolve.
func Lower(f *ast.File, sc *scope.Scope, d *diag.Diagnostics) *File {
	fileAttrs := attr.New(f.Attributes)
	if sel, ok := fileAttrs.TakeSelection("field_naming"); ok {
		installConvention(sel, d, &sc.Root().FieldNaming)
	}
	if sel, ok := fileAttrs.TakeSelection("endpoint_naming"); ok {
		installConvention(sel, d, &sc.Root().EndpointNaming)
	}
	fileAttrs.CheckResidue(d, fallbackSpan(f))

	model := &File{Package: sc.Package()}
	for _, decl := range f.Decls {
		if lowered := lowerDecl(decl, sc, d); lowered != nil {
			model.Decls = append(model.Decls, lowered)
		}
	}
	return model
}

func fallbackSpan(f *ast.File) source.Span {
	if len(f.Decls) > 0 {
		return f.Decls[0].Span
	}
	return source.Span{}
}

func installConvention(sel *attr.Selection, d *diag.Diagnostics, dst **scope.Convention) {
	words := sel.TakeWords()
	sel.CheckResidue(d)
	if len(words) != 1 {
		return
	}
	w := words[0]
	ident, ok := attr.AsIdentifier(d, source.Loc(ast.Value(w.Value), w.Span))
	if !ok {
		return
	}
	c, ok := scope.ParseConvention(ident)
	if !ok {
		d.Errf(w.Span, "unrecognized naming convention %q", ident)
		return
	}
	*dst = &c
}

func lowerDecl(decl ast.Decl, sc *scope.Scope, d *diag.Diagnostics) *Decl {
	name := Name{Package: sc.Package(), Parts: append(sc.RelativePath(), decl.Ident)}
	out := &Decl{
		Ident:   decl.Ident,
		Name:    name,
		Comment: decl.Comment,
		Span:    decl.Span,
	}
	attrs := attr.New(decl.Attributes)
	child := sc.Child(decl.Ident)

	switch decl.Kind {
	case ast.DeclType:
		out.Kind = KindTypeBody
		out.Fields, out.Reserved = lowerFields(decl.Fields, attrs, child, d)
	case ast.DeclTuple:
		out.Kind = KindTupleBody
		out.Fields, out.Reserved = lowerFields(decl.Fields, attrs, child, d)
	case ast.DeclInterface:
		out.Kind = KindInterfaceBody
		out.Iface, out.Reserved = lowerInterface(decl, attrs, child, d)
	case ast.DeclEnum:
		out.Kind = KindEnumBody
		out.Enum = lowerEnum(decl, d)
	case ast.DeclService:
		out.Kind = KindServiceBody
		out.Service = lowerService(decl, attrs, child, d)
	}

	for _, nested := range decl.Decls {
		if ld := lowerDecl(nested, child, d); ld != nil {
			out.Decls = append(out.Decls, ld)
		}
	}

	attrs.CheckResidue(d, decl.Span)
	return out
}

// lowerFields lowers a TypeBody/TupleBody's fields, enforcing ident/wire-name
// uniqueness (spec.md §4.4 invariants 1-2) and #[reserved(...)] (invariant 7).
func lowerFields(fields []ast.Field, attrs *attr.Attributes, sc *scope.Scope, d *diag.Diagnostics) ([]*Field, map[string]source.Span) {
	reserved := takeReserved(attrs, d)
	idents := map[string]source.Span{}
	wires := map[string]source.Span{}
	out := make([]*Field, 0, len(fields))
	for _, raw := range fields {
		f := lowerField(raw, sc, d)
		checkFieldUniqueness(f, raw.Span, idents, wires, reserved, d)
		out = append(out, f)
	}
	return out, reserved
}

func takeReserved(attrs *attr.Attributes, d *diag.Diagnostics) map[string]source.Span {
	reserved := map[string]source.Span{}
	sel, ok := attrs.TakeSelection("reserved")
	if !ok {
		return reserved
	}
	for _, w := range sel.TakeWords() {
		name, ok := attr.AsIdentifier(d, source.Loc(ast.Value(w.Value), w.Span))
		if !ok {
			continue
		}
		reserved[name] = w.Span
	}
	sel.CheckResidue(d)
	return reserved
}

func checkFieldUniqueness(f *Field, span source.Span, idents, wires, reserved map[string]source.Span, d *diag.Diagnostics) {
	if prev, exists := idents[f.Ident]; exists {
		d.Errf(span, "field %q is already defined", f.Ident)
		d.Info(prev, "previous definition")
	} else {
		idents[f.Ident] = span
	}
	wire := f.WireName()
	if prev, exists := wires[wire]; exists {
		d.Errf(span, "field wire name %q is already defined", wire)
		d.Info(prev, "previous definition")
	} else {
		wires[wire] = span
	}
	if rspan, reservedHit := reserved[wire]; reservedHit {
		d.Errf(span, "field %q uses a reserved name", wire)
		d.Info(rspan, "reserved here")
	}
}

func lowerField(raw ast.Field, sc *scope.Scope, d *diag.Diagnostics) *Field {
	naming, _ := fieldNamingFor(sc)
	convertedIdent, safeIdent, name := buildItemName(sc, raw.Ident, raw.Alias, naming, nil)
	return &Field{
		Required:  raw.Required,
		Ident:     convertedIdent,
		SafeIdent: safeIdent,
		Name:      name,
		Type:      lowerType(raw.Type, sc, d),
		Comment:   raw.Comment,
		Span:      raw.Span,
	}
}

func fieldNamingFor(sc *scope.Scope) (*scope.Convention, bool) {
	c, ok := sc.FieldNaming()
	if !ok {
		return nil, false
	}
	return &c, true
}

// lowerInterface lowers a tagged-union interface: the shared fields, the
// #[type_info(...)] strategy (which may be attached to any one of the
// shared fields, per spec.md §4.3's example), and the sub-types.
func lowerInterface(decl ast.Decl, attrs *attr.Attributes, sc *scope.Scope, d *diag.Diagnostics) (*InterfaceBody, map[string]source.Span) {
	reserved := takeReserved(attrs, d)
	iface := &InterfaceBody{}

	idents := map[string]source.Span{}
	wires := map[string]source.Span{}
	for _, raw := range decl.Fields {
		fieldAttrs := attr.New(raw.Attributes)
		if sel, ok := fieldAttrs.TakeSelection("type_info"); ok {
			strategy := lowerTypeInfo(sel, raw.Span, d)
			if iface.Strategy != nil {
				d.Err(raw.Span, "type_info strategy is already set for this interface")
			} else {
				iface.Strategy = strategy
			}
		}
		f := lowerField(raw, sc, d)
		checkFieldUniqueness(f, raw.Span, idents, wires, reserved, d)
		iface.Fields = append(iface.Fields, f)
		fieldAttrs.CheckResidue(d, raw.Span)
	}

	if iface.Strategy != nil {
		for name, span := range wires {
			if name == iface.Strategy.Tag {
				d.Errf(span, "field name %q is the same as tag used in type_info", name)
			}
		}
	}

	subIdents := map[string]source.Span{}
	subWires := map[string]source.Span{}
	for _, raw := range decl.SubTypes {
		st := lowerSubType(raw, iface, sc, d)
		if prev, exists := subIdents[st.Ident]; exists {
			d.Errf(raw.Span, "sub-type %q is already defined", st.Ident)
			d.Info(prev, "previous definition")
		} else {
			subIdents[st.Ident] = raw.Span
		}
		if prev, exists := subWires[st.Name]; exists {
			d.Errf(raw.Span, "sub-type name %q is already defined", st.Name)
			d.Info(prev, "previous definition")
		} else {
			subWires[st.Name] = raw.Span
		}
		// The tag must not collide with any field of this sub-type either,
		// checked against the union of interface + sub-type fields
		// (spec.md §4.4 invariant 3, "sub-type field masking").
		if iface.Strategy != nil {
			for _, f := range st.AllFields(iface) {
				if f.WireName() == iface.Strategy.Tag {
					d.Errf(f.Span, "field name %q is the same as tag used in type_info", f.WireName())
				}
			}
		}
		iface.SubTypes = append(iface.SubTypes, st)
	}

	attrs.CheckResidue(d, decl.Span)
	return iface, reserved
}

func lowerTypeInfo(sel *attr.Selection, fallback source.Span, d *diag.Diagnostics) *SubTypeStrategy {
	strategyVal, ok := sel.Take("strategy")
	strategy := &SubTypeStrategy{Kind: StrategyTagged}
	if ok {
		s, ok := attr.AsString(d, strategyVal.Value)
		if ok && s != "tagged" {
			d.Errf(strategyVal.Value.Span, "unrecognized type_info strategy %q", s)
		}
	}
	tagVal, ok := sel.Take("tag")
	if ok {
		tag, ok := attr.AsString(d, tagVal.Value)
		if ok {
			strategy.Tag = tag
		}
	} else {
		d.Err(fallback, "type_info requires a tag")
	}
	sel.CheckResidue(d)
	return strategy
}

func lowerSubType(raw ast.SubType, iface *InterfaceBody, sc *scope.Scope, d *diag.Diagnostics) *SubType {
	child := sc.Child(raw.Ident)
	attrs := attr.New(raw.Attributes)
	reserved := takeReserved(attrs, d)

	naming, _ := fieldNamingFor(sc)
	_, _, name := buildItemName(sc, raw.Ident, raw.Alias, naming, nil)
	if name == "" {
		name = raw.Ident
	}

	st := &SubType{Ident: raw.Ident, Name: name, Comment: raw.Comment, Span: raw.Span}
	idents := map[string]source.Span{}
	wires := map[string]source.Span{}
	// Masking: seed uniqueness maps with the interface's own fields so a
	// sub-type field colliding with an inherited one is caught too.
	for _, f := range iface.Fields {
		idents[f.Ident] = f.Span
		wires[f.WireName()] = f.Span
	}
	for _, rf := range raw.Fields {
		f := lowerField(rf, child, d)
		checkFieldUniqueness(f, rf.Span, idents, wires, reserved, d)
		st.Fields = append(st.Fields, f)
	}
	attrs.CheckResidue(d, raw.Span)
	return st
}

func lowerEnum(decl ast.Decl, d *diag.Diagnostics) *EnumBody {
	body := &EnumBody{}
	switch decl.EnumType {
	case "string":
		body.EnumType = EnumString
	case "u32":
		body.EnumType = EnumNumber32
	default:
		d.Errf(decl.Span, "invalid enum backing type %q", decl.EnumType)
		body.EnumType = EnumString
	}

	idents := map[string]source.Span{}
	ordinals := map[any]source.Span{}
	for _, raw := range decl.Variants {
		v := &Variant{Ident: raw.Ident, Comment: raw.Comment, Span: raw.Span}
		switch {
		case raw.Ordinal == nil:
			v.OrdinalKind = OrdinalGenerated
		case raw.Ordinal.Kind == ast.ValueString:
			if body.EnumType != EnumString {
				d.Errf(raw.Span, "variant %q has a string ordinal but the enum type is not string", raw.Ident)
			}
			v.OrdinalKind = OrdinalString
			v.OrdinalStr = raw.Ordinal.String
		case raw.Ordinal.Kind == ast.ValueNumber:
			if body.EnumType != EnumNumber32 {
				d.Errf(raw.Span, "variant %q has a numeric ordinal but the enum type is not u32", raw.Ident)
			}
			n, ok := numberToInt32(raw.Ordinal.Number)
			if !ok {
				d.Errf(raw.Span, "variant %q ordinal must be an integer", raw.Ident)
			}
			v.OrdinalKind = OrdinalNumber
			v.OrdinalNum = n
		default:
			d.Errf(raw.Span, "variant %q ordinal must be a string or number", raw.Ident)
		}

		if prev, exists := idents[v.Ident]; exists {
			d.Errf(raw.Span, "variant %q is already defined", v.Ident)
			d.Info(prev, "previous definition")
		} else {
			idents[v.Ident] = raw.Span
		}

		var ordKey any
		switch v.OrdinalKind {
		case OrdinalString:
			ordKey = v.OrdinalStr
		case OrdinalNumber:
			ordKey = v.OrdinalNum
		}
		if ordKey != nil {
			if prev, exists := ordinals[ordKey]; exists {
				d.Errf(raw.Span, "variant ordinal %v is already used", ordKey)
				d.Info(prev, "previous definition")
			} else {
				ordinals[ordKey] = raw.Span
			}
		}

		body.Variants = append(body.Variants, v)
	}
	return body
}

func numberToInt32(n token.Numeric) (int32, bool) {
	if n.Decimal != 0 || n.Digits == nil || !n.Digits.IsInt64() {
		return 0, false
	}
	v := n.Digits.Int64()
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

func lowerService(decl ast.Decl, attrs *attr.Attributes, sc *scope.Scope, d *diag.Diagnostics) *ServiceBody {
	svc := &ServiceBody{}
	if sel, ok := attrs.TakeSelection("http"); ok {
		if urlVal, ok := sel.Take("url"); ok {
			if u, ok := attr.AsString(d, urlVal.Value); ok {
				svc.HTTPBaseURL = u
			}
		}
		sel.CheckResidue(d)
	}

	idents := map[string]source.Span{}
	wires := map[string]source.Span{}
	for _, raw := range decl.Endpoints {
		ep := lowerEndpoint(raw, sc, d)
		if prev, exists := idents[ep.Ident]; exists {
			d.Errf(raw.Span, "endpoint %q is already defined", ep.Ident)
			d.Info(prev, "previous definition")
		} else {
			idents[ep.Ident] = raw.Span
		}
		wire := ep.WireName()
		if prev, exists := wires[wire]; exists {
			d.Errf(raw.Span, "endpoint wire name %q is already defined", wire)
			d.Info(prev, "previous definition")
		} else {
			wires[wire] = raw.Span
		}
		svc.Endpoints = append(svc.Endpoints, ep)
		svc.EndpointOrd = append(svc.EndpointOrd, ep.Ident)
	}
	return svc
}

func lowerEndpoint(raw ast.Endpoint, sc *scope.Scope, d *diag.Diagnostics) *Endpoint {
	naming, _ := endpointNamingFor(sc)
	convertedIdent, safeIdent, name := buildItemName(sc, raw.Ident, raw.Alias, naming, nil)

	ep := &Endpoint{
		Ident:     convertedIdent,
		SafeIdent: safeIdent,
		Name:      name,
		Arguments: map[string]*Argument{},
		Comment:   raw.Comment,
		Span:      raw.Span,
	}
	for _, a := range raw.Arguments {
		ep.Arguments[a.Ident] = &Argument{Ident: a.Ident, Type: lowerType(a.Type, sc, d), Span: a.Span}
		ep.ArgumentOrd = append(ep.ArgumentOrd, a.Ident)
	}
	if raw.Response != nil {
		kind := Unary
		if raw.Response.Streaming {
			kind = Streaming
		}
		ep.Response = &Channel{Kind: kind, Type: lowerType(raw.Response.Type, sc, d)}
	}

	attrs := attr.New(raw.Attributes)
	if sel, ok := attrs.TakeSelection("http"); ok {
		ep.HTTP = lowerEndpointHTTP(sel, ep, d)
	}
	attrs.CheckResidue(d, raw.Span)
	return ep
}

func endpointNamingFor(sc *scope.Scope) (*scope.Convention, bool) {
	c, ok := sc.EndpointNaming()
	if !ok {
		return nil, false
	}
	return &c, true
}

// lowerEndpointHTTP implements the original implementation's exact
// consumption order for #[http(...)] on an endpoint: path, then body, then
// method, then accept, tracking which arguments have been referenced so any
// leftover argument is reported as unused (spec.md §4.3, §8 scenario 6).
func lowerEndpointHTTP(sel *attr.Selection, ep *Endpoint, d *diag.Diagnostics) EndpointHTTP {
	http := EndpointHTTP{Accept: AcceptJSON}
	unused := map[string]bool{}
	for ident := range ep.Arguments {
		unused[ident] = true
	}

	if pathVal, ok := sel.Take("path"); ok {
		if raw, ok := attr.AsString(d, pathVal.Value); ok {
			steps, err := attr.ParsePath(raw)
			if err != nil {
				d.Err(pathVal.Value.Span, err.Error())
			} else {
				for _, rawStep := range steps {
					var step PathStep
					for _, part := range rawStep {
						if part.Variable == "" {
							step = append(step, PathPart{Segment: part.Literal})
							continue
						}
						arg, ok := ep.Arguments[part.Variable]
						if !ok {
							d.Errf(pathVal.Value.Span, "path references undefined argument %q", part.Variable)
							continue
						}
						delete(unused, part.Variable)
						step = append(step, PathPart{Variable: arg})
					}
					http.Path = append(http.Path, step)
				}
			}
		}
	}

	if bodyVal, ok := sel.Take("body"); ok {
		if ident, ok := attr.AsIdentifier(d, bodyVal.Value); ok {
			arg, ok := ep.Arguments[ident]
			if !ok {
				d.Errf(bodyVal.Value.Span, "body references undefined argument %q", ident)
			} else {
				delete(unused, ident)
				http.Body = arg
			}
		}
	}

	if methodVal, ok := sel.Take("method"); ok {
		if m, ok := attr.AsString(d, methodVal.Value); ok {
			method, ok := parseHTTPMethod(m)
			if !ok {
				d.Errf(methodVal.Value.Span, "unrecognized HTTP method %q", m)
			}
			http.Method = method
		}
	}

	if acceptVal, ok := sel.Take("accept"); ok {
		if a, ok := attr.AsString(d, acceptVal.Value); ok {
			switch a {
			case "application/json":
				http.Accept = AcceptJSON
			case "text/plain":
				http.Accept = AcceptText
				if ep.Response == nil || ep.Response.Type.Kind != String {
					d.Err(acceptVal.Value.Span, "accept = text/plain requires the response type to be string")
				}
			default:
				d.Errf(acceptVal.Value.Span, "unrecognized accept media type %q", a)
			}
		}
	}

	sel.CheckResidue(d)
	for ident := range unused {
		span := ep.Arguments[ident].Span
		d.Errf(span, "Argument not used in #[http(...)] attribute")
	}
	return http
}

func parseHTTPMethod(m string) (HTTPMethod, bool) {
	switch m {
	case "GET":
		return MethodGET, true
	case "POST":
		return MethodPOST, true
	case "PUT":
		return MethodPUT, true
	case "UPDATE":
		return MethodUPDATE, true
	case "DELETE":
		return MethodDELETE, true
	case "PATCH":
		return MethodPATCH, true
	case "HEAD":
		return MethodHEAD, true
	default:
		return MethodUnset, false
	}
}

// lowerType converts a parsed ast.Type into its semantic Type, resolving
// Name references against sc (spec.md §4.4 invariant 6). A TypeError
// sentinel (parser recovery) lowers to a zero Type; the parser has already
// recorded the underlying diagnostic.
func lowerType(t ast.Type, sc *scope.Scope, d *diag.Diagnostics) Type {
	switch t.Kind {
	case ast.TypeDouble:
		return Type{Kind: Double}
	case ast.TypeFloat:
		return Type{Kind: Float}
	case ast.TypeSigned:
		return Type{Kind: Signed, Bits: t.Bits}
	case ast.TypeUnsigned:
		return Type{Kind: Unsigned, Bits: t.Bits}
	case ast.TypeBoolean:
		return Type{Kind: Boolean}
	case ast.TypeString:
		return Type{Kind: String}
	case ast.TypeBytes:
		return Type{Kind: Bytes}
	case ast.TypeAny:
		return Type{Kind: Any}
	case ast.TypeDateTime:
		return Type{Kind: DateTime}
	case ast.TypeArray:
		elem := lowerType(*t.Elem, sc, d)
		return Type{Kind: Array, Elem: &elem}
	case ast.TypeMap:
		key := lowerType(*t.Key, sc, d)
		val := lowerType(*t.Value, sc, d)
		return Type{Kind: Map, Key: &key, Value: &val}
	case ast.TypeName:
		return Type{Kind: Named, Name: resolveName(*t.Name, sc, d)}
	case ast.TypeError:
		return Type{Kind: Invalid}
	default:
		return Type{Kind: Invalid}
	}
}

// resolveName implements spec.md §4.4 invariant 6: a relative name extends
// the current package; an absolute (prefixed) name looks its prefix up in
// the scope's use table.
func resolveName(n ast.Name, sc *scope.Scope, d *diag.Diagnostics) Name {
	if n.Prefix == nil {
		return Name{Package: sc.Package(), Parts: n.Parts}
	}
	use, ok := sc.Lookup(*n.Prefix)
	if !ok {
		d.Errf(n.Span, "unresolved package prefix %q", *n.Prefix)
		return Name{Package: []string{*n.Prefix}, Parts: n.Parts}
	}
	return Name{Package: use.Package, Parts: n.Parts}
}
