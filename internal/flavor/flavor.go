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

// Package flavor maps the neutral semantic model into a target-flavor
// model: the generic walk sends every package path (each file's package and
// the package of every Name) through a FlavorTranslator's Package mapping and
// leaves declaration, field, variant and endpoint idents unchanged, per
// spec.md §4.7 and design note "Polymorphism over flavors" (§9).
//
// This generalizes the teacher's internal/language/codec.go (a `Codec any`
// escape hatch plus per-language codec interfaces implemented separately by
// golang.go and rust.go) into one typed Translator interface and a single
// shared Translate walk — the two teacher codecs are "one neutral walk, two
// sets of leaves," exactly the shape this package reproduces.
package flavor

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/reprotoc/reprotoc/internal/scope"
	"github.com/reprotoc/reprotoc/internal/semantic"
)

// Translator provides the per-axis leaf mappings a concrete target flavor
// installs; Translate delegates to it and handles the recursive walk.
type Translator interface {
	// Package maps a neutral package path to the flavor's package path
	// (e.g. applying a configured prefix and a package-naming convention).
	Package(pkg []string) []string
	// Keyword returns the flavor-specific keyword-safe rewrite for ident,
	// if ident collides with a flavor keyword. SafePackages callers may
	// choose to never call this for package segments.
	Keyword(ident string) (string, bool)
}

// CoreFlavor is the identity FlavorTranslator: CoreFlavor → CoreFlavor maps
// packages and idents unchanged, per spec.md §4.7.
type CoreFlavor struct{}

func (CoreFlavor) Package(pkg []string) []string { return append([]string{}, pkg...) }
func (CoreFlavor) Keyword(string) (string, bool)  { return "", false }

// PrefixedTranslator is a configurable non-identity translator: it prefixes
// packages, applies a package-naming convention, and substitutes keyword
// collisions from a provided table — unless SafePackages is set, in which
// case packages are emitted verbatim (spec.md §4.7).
type PrefixedTranslator struct {
	Prefix       []string
	PackageCase  *scope.Convention
	Keywords     map[string]string
	SafePackages bool
}

func (t *PrefixedTranslator) Package(pkg []string) []string {
	if t.SafePackages {
		return append([]string{}, pkg...)
	}
	out := append([]string{}, t.Prefix...)
	for _, p := range pkg {
		if t.PackageCase != nil {
			p = convert(*t.PackageCase, p)
		}
		if safe, ok := t.Keywords[p]; ok {
			p = safe
		}
		out = append(out, p)
	}
	return out
}

func (t *PrefixedTranslator) Keyword(ident string) (string, bool) {
	safe, ok := t.Keywords[ident]
	return safe, ok
}

// convert applies a naming convention to a package segment, mirroring
// internal/semantic's identically-purposed helper.
func convert(c scope.Convention, ident string) string {
	switch c {
	case scope.UpperCamel:
		return strcase.ToCamel(ident)
	case scope.LowerCamel:
		return strcase.ToLowerCamel(ident)
	case scope.UpperSnake:
		return strcase.ToScreamingSnake(ident)
	case scope.LowerSnake:
		return strcase.ToSnake(ident)
	default:
		return ident
	}
}

// Translated is the flavor-specific output of a translation pass: an
// ordered map of declarations keyed by their translated Name, and an
// ordered map of files keyed by their translated Package, per spec.md
// §4.6's Translate contract.
type Translated struct {
	Decls     map[string]*semantic.Decl
	DeclOrder []string
	Files     map[string]*semantic.File
	FileOrder []string
}

// Input is the subset of Environment state Translate needs: ordered file
// entries and the global type registry, both keyed the same way the
// Environment keys them internally.
type Input struct {
	FileOrder    []string
	Files        map[string]*semantic.File
	FilePackages map[string][]string
	TypeOrder    []string
	Types        map[string]*semantic.Decl
}

// Translate performs the generic walk spec.md §4.6 describes, delegating
// only Package decisions to t; the walk never calls t.Keyword.
func Translate(in Input, t Translator) *Translated {
	out := &Translated{Decls: map[string]*semantic.Decl{}, Files: map[string]*semantic.File{}}

	for _, key := range in.TypeOrder {
		decl := in.Types[key]
		translated := translateDecl(decl, t)
		nameKey := translated.Name.String()
		out.Decls[nameKey] = translated
		out.DeclOrder = append(out.DeclOrder, nameKey)
	}

	for _, key := range in.FileOrder {
		f := in.Files[key]
		pkg := t.Package(in.FilePackages[key])
		nf := &semantic.File{Package: pkg}
		for _, d := range f.Decls {
			nf.Decls = append(nf.Decls, translateDecl(d, t))
		}
		pkgKey := strings.Join(pkg, ".")
		out.Files[pkgKey] = nf
		out.FileOrder = append(out.FileOrder, pkgKey)
	}
	return out
}

func translateDecl(d *semantic.Decl, t Translator) *semantic.Decl {
	nd := *d
	nd.Name = translateName(d.Name, t)
	nd.Comment = semantic.RenderComment(d.Comment)
	nd.Fields = translateFields(d.Fields, t)
	if d.Iface != nil {
		iface := *d.Iface
		iface.Fields = translateFields(d.Iface.Fields, t)
		iface.SubTypes = nil
		for _, st := range d.Iface.SubTypes {
			nst := *st
			nst.Comment = semantic.RenderComment(st.Comment)
			nst.Fields = translateFields(st.Fields, t)
			iface.SubTypes = append(iface.SubTypes, &nst)
		}
		nd.Iface = &iface
	}
	if d.Enum != nil {
		enum := *d.Enum
		enum.Variants = nil
		for _, v := range d.Enum.Variants {
			nv := *v
			nv.Comment = semantic.RenderComment(v.Comment)
			enum.Variants = append(enum.Variants, &nv)
		}
		nd.Enum = &enum
	}
	if d.Service != nil {
		svc := *d.Service
		svc.Endpoints = nil
		for _, ep := range d.Service.Endpoints {
			nep := *ep
			nep.Comment = semantic.RenderComment(ep.Comment)
			args := map[string]*semantic.Argument{}
			for ident, a := range ep.Arguments {
				na := *a
				na.Type = translateType(a.Type, t)
				args[ident] = &na
			}
			nep.Arguments = args
			if ep.Response != nil {
				nr := *ep.Response
				nr.Type = translateType(ep.Response.Type, t)
				nep.Response = &nr
			}
			svc.Endpoints = append(svc.Endpoints, &nep)
		}
		nd.Service = &svc
	}
	nd.Decls = nil
	for _, nested := range d.Decls {
		nd.Decls = append(nd.Decls, translateDecl(nested, t))
	}
	return &nd
}

func translateFields(fields []*semantic.Field, t Translator) []*semantic.Field {
	out := make([]*semantic.Field, len(fields))
	for i, f := range fields {
		nf := *f
		nf.Type = translateType(f.Type, t)
		nf.Comment = semantic.RenderComment(f.Comment)
		out[i] = &nf
	}
	return out
}

func translateType(ty semantic.Type, t Translator) semantic.Type {
	switch ty.Kind {
	case semantic.Named:
		ty.Name = translateName(ty.Name, t)
	case semantic.Array:
		elem := translateType(*ty.Elem, t)
		ty.Elem = &elem
	case semantic.Map:
		key := translateType(*ty.Key, t)
		val := translateType(*ty.Value, t)
		ty.Key, ty.Value = &key, &val
	}
	return ty
}

func translateName(n semantic.Name, t Translator) semantic.Name {
	return semantic.Name{Package: t.Package(n.Package), Parts: n.Parts}
}
