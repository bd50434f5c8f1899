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

// Package demo is a mustache-template-driven reference backend that
// exercises the backend.Backend contract end-to-end: not a shipped
// target-language emitter (those are external collaborators per spec.md),
// but the concrete proof that a flavor.Translated model plus fsout.Handle
// is sufficient for a template-driven emitter to consume — the same shape
// the teacher's real Rust backend (internal/language/rusttemplate.go)
// consumes from its own Codec.
package demo

import (
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"

	"github.com/reprotoc/reprotoc/internal/flavor"
	"github.com/reprotoc/reprotoc/internal/fsout"
	"github.com/reprotoc/reprotoc/internal/semantic"
)

const fileTemplate = `// Code generated by the demo backend. DO NOT EDIT.
package {{Package}}
{{#Decls}}
{{#Comment}}
// {{.}}
{{/Comment}}
type {{Name}} struct {
{{#Fields}}
	{{Ident}} {{Type}}
{{/Fields}}
}
{{/Decls}}
`

type templateField struct {
	Ident string
	Type  string
}

type templateDecl struct {
	Name    string
	Comment []string
	Fields  []templateField
}

type templateFile struct {
	Package string
	Decls   []templateDecl
}

// Backend renders every package in a Translated model as one file,
// containing one struct per declaration's field set (sub-types, enum
// variants and endpoints are omitted from this reference rendering — a
// real target-language backend would cover every Decl kind).
type Backend struct{}

func (Backend) Generate(t *flavor.Translated, out fsout.Filesystem) error {
	for _, key := range t.FileOrder {
		f := t.Files[key]
		data := templateFile{Package: key}
		for _, d := range f.Decls {
			data.Decls = append(data.Decls, toTemplateDecl(d))
		}

		rendered, err := mustache.Render(fileTemplate, data)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", key, err)
		}

		w, err := out.Create(fsout.Handle{Path: strings.ReplaceAll(key, ".", "/") + ".demo"})
		if err != nil {
			return fmt.Errorf("opening output for %s: %w", key, err)
		}
		if _, err := w.Write([]byte(rendered)); err != nil {
			w.Close()
			return fmt.Errorf("writing output for %s: %w", key, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("closing output for %s: %w", key, err)
		}
	}
	return nil
}

func toTemplateDecl(d *semantic.Decl) templateDecl {
	td := templateDecl{Name: strings.Join(d.Name.Parts, "."), Comment: d.Comment}
	for _, f := range d.Fields {
		td.Fields = append(td.Fields, templateField{Ident: f.Ident, Type: typeString(f.Type)})
	}
	return td
}

func typeString(ty semantic.Type) string {
	switch ty.Kind {
	case semantic.Double:
		return "float64"
	case semantic.Float:
		return "float32"
	case semantic.Signed:
		return fmt.Sprintf("int%d", ty.Bits)
	case semantic.Unsigned:
		return fmt.Sprintf("uint%d", ty.Bits)
	case semantic.Boolean:
		return "bool"
	case semantic.String:
		return "string"
	case semantic.Bytes:
		return "bytes"
	case semantic.Any:
		return "any"
	case semantic.DateTime:
		return "datetime"
	case semantic.Named:
		return strings.Join(append(append([]string{}, ty.Name.Package...), ty.Name.Parts...), ".")
	case semantic.Array:
		return "[]" + typeString(*ty.Elem)
	case semantic.Map:
		return "map[" + typeString(*ty.Key) + "]" + typeString(*ty.Value)
	default:
		return "invalid"
	}
}
