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

// Package attr implements the attribute selection/word model: consumers
// take ownership of keys by name, and a residue sweep reports whatever is
// left over as an "unknown attribute" error. The take-then-sweep pattern
// is grounded on the original implementation's lib/trans/attributes.rs; the
// consumers themselves, including the #[http(...)] consumption order (path,
// body, method, accept), live in internal/semantic's lowering.
package attr

import (
	"fmt"

	"github.com/reprotoc/reprotoc/internal/ast"
	"github.com/reprotoc/reprotoc/internal/diag"
	"github.com/reprotoc/reprotoc/internal/source"
)

// Selection wraps one ast.Selection, destructively consumed by `Take`/
// `TakeWords`.
type Selection struct {
	words  []source.Located[ast.Word]
	values map[string]ast.NamedValue
	span   source.Span
}

func newSelection(s *ast.Selection) *Selection {
	sel := &Selection{values: map[string]ast.NamedValue{}}
	if s == nil {
		return sel
	}
	sel.span = s.Span
	sel.words = append(sel.words, s.Words...)
	for _, v := range s.Values {
		sel.values[lastPart(v.Key)] = v
	}
	return sel
}

func lastPart(n ast.Name) string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[len(n.Parts)-1]
}

// TakeWords drains and returns all bare words, leaving none behind.
func (s *Selection) TakeWords() []source.Located[ast.Word] {
	out := s.words
	s.words = nil
	return out
}

// Take removes and returns the named key/value pair, if present.
func (s *Selection) Take(key string) (ast.NamedValue, bool) {
	v, ok := s.values[key]
	if ok {
		delete(s.values, key)
	}
	return v, ok
}

// CheckResidue reports every key still present as "unknown option".
func (s *Selection) CheckResidue(d *diag.Diagnostics) {
	for _, w := range s.words {
		d.Err(w.Span, fmt.Sprintf("unknown option: %s", describeWord(w.Value)))
	}
	for key, v := range s.values {
		d.Err(v.Value.Span, fmt.Sprintf("unknown option %q", key))
	}
}

func describeWord(w ast.Word) string {
	switch w.Kind {
	case ast.ValueString:
		return fmt.Sprintf("%q", w.String)
	case ast.ValueIdentifier:
		if w.Ident != nil {
			return fmt.Sprintf("%v", w.Ident.Parts)
		}
		return "<identifier>"
	default:
		return "<word>"
	}
}

// Attributes wraps the `#[...]` annotations attached to one AST item,
// consumed by name.
type Attributes struct {
	bare       map[string]source.Span // #[name] with no parenthesized argument list
	selections map[string]*Selection
	order      []string
}

// New builds an Attributes set from the attributes attached to an AST node.
func New(attrs []ast.Attribute) *Attributes {
	a := &Attributes{
		bare:       map[string]source.Span{},
		selections: map[string]*Selection{},
	}
	for _, raw := range attrs {
		a.order = append(a.order, raw.Name)
		if raw.Selection == nil {
			a.bare[raw.Name] = raw.Span
			continue
		}
		a.selections[raw.Name] = newSelection(raw.Selection)
	}
	return a
}

// TakeSelection removes and returns the named attribute's selection. An
// attribute written bare (`#[name]`, no parens) yields an empty selection.
func (a *Attributes) TakeSelection(name string) (*Selection, bool) {
	if sel, ok := a.selections[name]; ok {
		delete(a.selections, name)
		return sel, true
	}
	if _, ok := a.bare[name]; ok {
		delete(a.bare, name)
		return newSelection(nil), true
	}
	return nil, false
}

// CheckResidue reports every attribute name that was never taken as
// "unknown attribute".
func (a *Attributes) CheckResidue(d *diag.Diagnostics, fallback source.Span) {
	for name, span := range a.bare {
		d.Err(span, fmt.Sprintf("unknown attribute: #[%s]", name))
	}
	for name, sel := range a.selections {
		span := sel.span
		if span.Source == nil {
			span = fallback
		}
		d.Err(span, fmt.Sprintf("unknown attribute: #[%s]", name))
	}
}

// AsString extracts a word/value as a string, reporting a type-mismatch
// error otherwise.
func AsString(d *diag.Diagnostics, v source.Located[ast.Value]) (string, bool) {
	if v.Value.Kind != ast.ValueString {
		d.Err(v.Span, "expected a string")
		return "", false
	}
	return v.Value.String, true
}

// AsIdentifier extracts a word/value as a bare identifier.
func AsIdentifier(d *diag.Diagnostics, v source.Located[ast.Value]) (string, bool) {
	if v.Value.Kind != ast.ValueIdentifier || v.Value.Ident == nil || len(v.Value.Ident.Parts) != 1 {
		d.Err(v.Span, "expected an identifier")
		return "", false
	}
	return v.Value.Ident.Parts[0], true
}
