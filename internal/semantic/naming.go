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
	"github.com/iancoleman/strcase"

	"github.com/reprotoc/reprotoc/internal/scope"
)

// convert applies one of the four recognized naming conventions to ident,
// using strcase the same way the teacher's golang/rust codecs derive
// target-language identifier casing from a neutral name.
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

// buildItemName derives (ident, safeIdent, name) for a field or endpoint,
// per spec.md §4.4.5. Ported from the original implementation's
// `build_item_name` (lib/trans/into_model.rs):
//
//  1. apply identNaming (if any) to the raw ident to derive convertedIdent;
//     this axis is environment/backend configuration, never IDL-settable —
//     no attribute installs it, so every caller currently passes nil and
//     convertedIdent equals ident;
//  2. if convertedIdent collides with a target keyword, derive safeIdent;
//  3. name (the wire representation) is the explicit alias if present,
//     else wireNaming (the `#[field_naming]`/`#[endpoint_naming]` IDL
//     attribute) applied to the raw ident, dropped back to absent if that
//     candidate matches convertedIdent, else the raw ident itself if it
//     differs from convertedIdent, else absent.
func buildItemName(s *scope.Scope, ident string, alias *string, wireNaming, identNaming *scope.Convention) (convertedIdent, safeIdent, name string) {
	convertedIdent = ident
	if identNaming != nil {
		convertedIdent = convert(*identNaming, ident)
	}

	if safe, ok := s.Keyword(convertedIdent); ok {
		safeIdent = safe
	}

	var candidate *string
	switch {
	case alias != nil:
		candidate = alias
	case wireNaming != nil:
		c := convert(*wireNaming, ident)
		candidate = &c
	}

	switch {
	case candidate != nil && *candidate == convertedIdent:
		name = ""
	case candidate != nil:
		name = *candidate
	case ident != convertedIdent:
		name = ident
	default:
		name = ""
	}
	return convertedIdent, safeIdent, name
}
