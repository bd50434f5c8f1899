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

// Package diag accumulates per-source diagnostics (errors and infos) with
// source positions, per spec.md §4.8.
package diag

import (
	"fmt"
	"strings"

	"github.com/reprotoc/reprotoc/internal/source"
)

// ItemKind discriminates an Error item from an Info item.
type ItemKind int

const (
	KindError ItemKind = iota
	KindInfo
)

// Item is one diagnostic entry.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Message string
}

// Diagnostics accumulates diagnostics for a single Source.
type Diagnostics struct {
	Source *source.Source
	Items  []Item
}

// New creates an empty Diagnostics accumulator for src.
func New(src *source.Source) *Diagnostics {
	return &Diagnostics{Source: src}
}

// Err appends an error item.
func (d *Diagnostics) Err(span source.Span, message string) {
	d.Items = append(d.Items, Item{Kind: KindError, Span: span, Message: message})
}

// Errf appends a formatted error item.
func (d *Diagnostics) Errf(span source.Span, format string, args ...any) {
	d.Err(span, fmt.Sprintf(format, args...))
}

// Info appends an informational item, typically used to point at a
// previous definition alongside a duplicate-definition error.
func (d *Diagnostics) Info(span source.Span, message string) {
	d.Items = append(d.Items, Item{Kind: KindInfo, Span: span, Message: message})
}

// HasErrors reports whether any Error item has been recorded.
func (d *Diagnostics) HasErrors() bool {
	for _, it := range d.Items {
		if it.Kind == KindError {
			return true
		}
	}
	return false
}

// Render formats one diagnostic item as
// "(file, line_start:col_start-line_end:col_end)  message".
func Render(it Item) string {
	return fmt.Sprintf("(%s)  %s", it.Span.String(), it.Message)
}

// String renders every item, one per line.
func (d *Diagnostics) String() string {
	var sb strings.Builder
	for _, it := range d.Items {
		sb.WriteString(Render(it))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Context collects completed Diagnostics objects across a compilation for
// final rendering, mirroring the teacher's "submit diagnostics to the
// context" step in the import algorithm (spec.md §4.6 step 5).
type Context struct {
	All []*Diagnostics
}

// Submit records d in the context.
func (c *Context) Submit(d *Diagnostics) {
	c.All = append(c.All, d)
}

// HasErrors reports whether any submitted Diagnostics contains an error.
func (c *Context) HasErrors() bool {
	for _, d := range c.All {
		if d.HasErrors() {
			return true
		}
	}
	return false
}

// String renders every submitted Diagnostics object in submission order.
func (c *Context) String() string {
	var sb strings.Builder
	for _, d := range c.All {
		sb.WriteString(d.String())
	}
	return sb.String()
}
