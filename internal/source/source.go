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

// Package source provides the opaque content handle the rest of the
// compiler reads bytes and positions from.
package source

import (
	"fmt"

	"github.com/google/uuid"
)

// Source is an opaque, cloneable content handle with an optional path and a
// canonical display name used in diagnostics.
type Source struct {
	id      string
	display string
	path    string
	bytes   []byte
}

// New wraps raw bytes as a Source. display is the canonical name used in
// diagnostics (e.g. "other.pkg/Bar.reproto"); path, if non-empty, is the
// on-disk or remote location the bytes were read from.
func New(display, path string, bytes []byte) *Source {
	return &Source{
		id:      uuid.NewString(),
		display: display,
		path:    path,
		bytes:   bytes,
	}
}

// ID is a stable, opaque identifier distinct from Display/Path: two
// resolver candidates for different versions of the same package share a
// display name, but never an ID.
func (s *Source) ID() string { return s.id }

// Display is the canonical name used in diagnostics.
func (s *Source) Display() string { return s.display }

// Path is the on-disk or remote location, if any.
func (s *Source) Path() (string, bool) {
	if s.path == "" {
		return "", false
	}
	return s.path, true
}

// Read returns the source's bytes. The returned slice must not be mutated.
func (s *Source) Read() []byte { return s.bytes }

// LineCol converts a byte offset into a 1-based (line, column) pair by
// scanning the source bytes. Offsets past the end of the content clamp to
// the final position.
func (s *Source) LineCol(offset int) (line, col int) {
	if offset > len(s.bytes) {
		offset = len(s.bytes)
	}
	line, col = 1, 1
	for i := 0; i < offset; i++ {
		if s.bytes[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Span is a byte half-open range [Start, End) into a Source.
type Span struct {
	Start  int
	End    int
	Source *Source
}

// NewSpan builds a Span over [start, end) in src.
func NewSpan(src *Source, start, end int) Span {
	return Span{Start: start, End: end, Source: src}
}

// String renders "display, line_start:col_start-line_end:col_end" for
// diagnostics rendering, per the Diagnostics contract.
func (sp Span) String() string {
	if sp.Source == nil {
		return fmt.Sprintf("%d:%d", sp.Start, sp.End)
	}
	ls, cs := sp.Source.LineCol(sp.Start)
	le, ce := sp.Source.LineCol(sp.End)
	return fmt.Sprintf("%s, %d:%d-%d:%d", sp.Source.Display(), ls, cs, le, ce)
}

// Located pairs a value with the span of concrete syntax it was parsed
// from.
type Located[T any] struct {
	Value T
	Span  Span
}

// Loc is a convenience constructor for Located[T].
func Loc[T any](v T, span Span) Located[T] {
	return Located[T]{Value: v, Span: span}
}
