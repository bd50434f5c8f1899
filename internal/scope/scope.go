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

// Package scope implements the nested lexical context lowering consults:
// the current package path, `use` aliases to versioned packages, the
// keyword-avoidance table, and the field/endpoint naming policies. Mutable
// root configuration (the keyword table, naming policies) is shared by
// every child scope, matching the original implementation's Scope role in
// lib/trans/into_model.rs.
package scope

// RootConfig holds the configuration that is set once per file and shared,
// by reference, across every child Scope derived from it.
type RootConfig struct {
	// Keywords maps a target-language keyword to its safe rewrite (e.g.
	// "type" -> "_type"); applied to converted identifiers that would
	// otherwise collide with a keyword.
	Keywords map[string]string
	// FieldNaming / EndpointNaming are the naming
	// conventions installed by #[field_naming(...)]/#[endpoint_naming(...)]
	// at file scope, if any.
	FieldNaming    *Convention
	EndpointNaming *Convention
}

// Convention is one of the four recognized naming conventions from
// spec.md §4.3.
type Convention int

const (
	UpperCamel Convention = iota
	LowerCamel
	UpperSnake
	LowerSnake
)

// ParseConvention maps the attribute-argument spelling to a Convention.
func ParseConvention(s string) (Convention, bool) {
	switch s {
	case "upper_camel":
		return UpperCamel, true
	case "lower_camel":
		return LowerCamel, true
	case "upper_snake":
		return UpperSnake, true
	case "lower_snake":
		return LowerSnake, true
	default:
		return 0, false
	}
}

// Use is one resolved `use` alias: the package path segments and an
// optional concrete version it resolved to.
type Use struct {
	Package []string
	Version *string // formatted version, set once resolution concludes
}

// Scope is a nested lexical context. Child() derives a scope for a nested
// declaration (e.g. a sub-type inside an interface) that inherits the
// parent's package and uses but can extend the relative name path.
type Scope struct {
	root    *RootConfig
	pkg     []string      // current package path
	relpath []string      // path segments accumulated from nested declarations
	uses    map[string]Use // alias -> resolved package
}

// New creates a root Scope for a file in package pkg.
func New(pkg []string, root *RootConfig) *Scope {
	if root == nil {
		root = &RootConfig{Keywords: map[string]string{}}
	}
	return &Scope{root: root, pkg: pkg, uses: map[string]Use{}}
}

// Package returns the current package path.
func (s *Scope) Package() []string { return s.pkg }

// Root returns the shared mutable root configuration.
func (s *Scope) Root() *RootConfig { return s.root }

// AddUse registers an alias -> resolved package. Returns false if the alias
// is already registered (a duplicate-alias error, per spec.md §4.6).
func (s *Scope) AddUse(alias string, u Use) bool {
	if _, exists := s.uses[alias]; exists {
		return false
	}
	s.uses[alias] = u
	return true
}

// Lookup resolves a `use` alias to its package path.
func (s *Scope) Lookup(alias string) (Use, bool) {
	u, ok := s.uses[alias]
	return u, ok
}

// Child derives a scope for a declaration nested under the current one,
// extending the relative path with ident. The package, uses, and root
// configuration are shared with the parent.
func (s *Scope) Child(ident string) *Scope {
	child := &Scope{
		root:    s.root,
		pkg:     s.pkg,
		relpath: append(append([]string{}, s.relpath...), ident),
		uses:    s.uses,
	}
	return child
}

// RelativePath returns the nested-declaration path segments accumulated so
// far (e.g. ["Shape", "Circle"] inside a sub-type).
func (s *Scope) RelativePath() []string { return append([]string{}, s.relpath...) }

// AsName builds the fully-qualified path for a new local ident: the current
// package, the relative path, and ident.
func (s *Scope) AsName(ident string) []string {
	out := append([]string{}, s.pkg...)
	out = append(out, s.relpath...)
	out = append(out, ident)
	return out
}

// Keyword returns the keyword-safe rewrite for ident, if ident collides
// with a target-language keyword in the root's table.
func (s *Scope) Keyword(ident string) (string, bool) {
	safe, ok := s.root.Keywords[ident]
	return safe, ok
}

// FieldNaming returns the installed #[field_naming(...)] convention for
// this file, if any.
func (s *Scope) FieldNaming() (Convention, bool) {
	if s.root.FieldNaming == nil {
		return 0, false
	}
	return *s.root.FieldNaming, true
}

// EndpointNaming returns the installed #[endpoint_naming(...)] convention
// for this file, if any.
func (s *Scope) EndpointNaming() (Convention, bool) {
	if s.root.EndpointNaming == nil {
		return 0, false
	}
	return *s.root.EndpointNaming, true
}
