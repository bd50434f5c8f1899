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

// Package env implements the compilation orchestrator of spec.md §4.6: the
// memoized Import algorithm, the global declaration registry, package-name
// canonicalization, and the flavor-translation entry point.
//
// This generalizes the teacher's internal/sidekick command-loop shape
// (resolve inputs once, cache results, render diagnostics, emit output) into
// the Environment's visited/files/types state, with the dependency-fetch
// half delegated to internal/resolver instead of the teacher's single
// googleapis-archive fetch.
package env

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/reprotoc/reprotoc/internal/ast"
	"github.com/reprotoc/reprotoc/internal/diag"
	"github.com/reprotoc/reprotoc/internal/flavor"
	"github.com/reprotoc/reprotoc/internal/parser"
	"github.com/reprotoc/reprotoc/internal/resolver"
	"github.com/reprotoc/reprotoc/internal/scope"
	"github.com/reprotoc/reprotoc/internal/semantic"
	"github.com/reprotoc/reprotoc/internal/version"
)

// VersionedPackage is a package path resolved to a concrete version (nil
// Version for an unversioned, path-resolved package).
type VersionedPackage struct {
	Package []string
	Version *version.Version
}

func (vp VersionedPackage) key() string {
	v := "*"
	if vp.Version != nil {
		v = vp.Version.String()
	}
	return strings.Join(vp.Package, ".") + "@" + v
}

// DeclRegistration pairs a lowered declaration with the package it was
// declared in, the global `types` table's value type (spec.md §4.6).
type DeclRegistration struct {
	Decl    *semantic.Decl
	Package VersionedPackage
}

type fileEntry struct {
	Package VersionedPackage
	File    *semantic.File
}

// Environment is the orchestrator spec.md §4.6 describes: it drives
// resolution, parsing and lowering, and accumulates the global file/type
// tables every later pass (canonicalization, translation) reads from.
type Environment struct {
	Resolver resolver.Resolver
	Keywords map[string]string // target-keyword table installed into every Scope's RootConfig

	DiagCtx *diag.Context

	visited   map[string]*VersionedPackage // RequiredPackage key -> resolution (nil entry = "resolved to nothing")
	fileIndex map[string]int               // VersionedPackage key -> index into files
	files     []fileEntry

	types     map[string]*DeclRegistration // Name.String() -> registration
	typeOrder []string
}

// New creates an empty Environment backed by r.
func New(r resolver.Resolver, keywords map[string]string) *Environment {
	if keywords == nil {
		keywords = map[string]string{}
	}
	return &Environment{
		Resolver:  r,
		Keywords:  keywords,
		DiagCtx:   &diag.Context{},
		visited:   map[string]*VersionedPackage{},
		fileIndex: map[string]int{},
		types:     map[string]*DeclRegistration{},
	}
}

func requiredKey(req resolver.RequiredPackage) string {
	return strings.Join(req.Package, ".") + "@" + req.Range.String()
}

// Import resolves, parses and lowers required, memoized on (package, range).
// A nil, nil-error return means "no package satisfies required"; the caller
// is responsible for turning that into a diagnostic at the use site, per
// spec.md §4.6 step 2.
func (e *Environment) Import(required resolver.RequiredPackage) (*VersionedPackage, error) {
	key := requiredKey(required)
	if vp, ok := e.visited[key]; ok {
		return vp, nil
	}

	candidates, err := e.Resolver.Resolve(required)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", strings.Join(required.Package, "."), err)
	}
	if len(candidates) == 0 {
		e.visited[key] = nil
		return nil, nil
	}

	best := candidates[0]
	vp := VersionedPackage{Package: required.Package, Version: best.Version}
	e.visited[key] = &vp

	slog.Debug("importing package", "package", strings.Join(required.Package, "."), "version", vp.Version)

	d := diag.New(best.Source)
	f := parser.Parse(best.Source, d)
	if d.HasErrors() {
		e.DiagCtx.Submit(d)
		return &vp, fmt.Errorf("parsing %s: diagnostics reported", best.Source.Display())
	}

	sc := scope.New(required.Package, &scope.RootConfig{Keywords: e.Keywords})
	if err := e.processUses(f, sc, d); err != nil {
		e.DiagCtx.Submit(d)
		return &vp, err
	}

	model := semantic.Lower(f, sc, d)
	e.DiagCtx.Submit(d)
	if d.HasErrors() {
		return &vp, fmt.Errorf("lowering %s: diagnostics reported", best.Source.Display())
	}

	e.processFile(vp, model, d)
	return &vp, nil
}

// processUses resolves every `use` declaration in f, installing resolved
// aliases into sc and recursively importing the referenced package.
func (e *Environment) processUses(f *ast.File, sc *scope.Scope, d *diag.Diagnostics) error {
	for _, u := range f.Uses {
		rangeText := ""
		if u.Version != nil {
			rangeText = *u.Version
		}
		r, err := version.ParseRange(rangeText)
		if err != nil {
			d.Err(u.Span, err.Error())
			continue
		}

		required := resolver.RequiredPackage{Package: append([]string{}, u.Package.Parts...), Range: r}
		vp, err := e.Import(required)
		if err != nil {
			return err
		}
		if vp == nil {
			d.Errf(u.Span, "no package found for %q matching %s", strings.Join(required.Package, "."), r.String())
			continue
		}

		alias := lastSegment(u.Package.Parts)
		if u.Alias != nil {
			alias = *u.Alias
		}
		var versionStr *string
		if vp.Version != nil {
			s := vp.Version.String()
			versionStr = &s
		}
		if !sc.AddUse(alias, scope.Use{Package: vp.Package, Version: versionStr}) {
			d.Errf(u.Span, "duplicate use alias %q", alias)
		}
	}
	return nil
}

// processFile installs model under vp in the files table (silently skipping
// a package already installed under a different use-alias path, per spec.md
// §4.6 Open Question 1) and registers every declaration, including nested
// ones, into the global types table. A name already registered by a prior
// file is a diagnostic error pointing at both definitions, per spec.md §4.6
// step 4.
func (e *Environment) processFile(vp VersionedPackage, model *semantic.File, d *diag.Diagnostics) {
	key := vp.key()
	if _, exists := e.fileIndex[key]; !exists {
		e.fileIndex[key] = len(e.files)
		e.files = append(e.files, fileEntry{Package: vp, File: model})
	}

	var register func(decl *semantic.Decl)
	register = func(decl *semantic.Decl) {
		nameKey := decl.Name.String()
		if prev, exists := e.types[nameKey]; exists {
			d.Errf(decl.Span, "%q is already defined", nameKey)
			d.Info(prev.Decl.Span, "previous definition")
		} else {
			e.types[nameKey] = &DeclRegistration{Decl: decl, Package: vp}
			e.typeOrder = append(e.typeOrder, nameKey)
		}
		for _, nested := range decl.Decls {
			register(nested)
		}
	}
	for _, decl := range model.Decls {
		register(decl)
	}
}

func lastSegment(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Lookup returns the registered declaration for name, if any.
func (e *Environment) Lookup(name string) (*DeclRegistration, bool) {
	reg, ok := e.types[name]
	return reg, ok
}

// Translate runs the flavor-translation pass of spec.md §4.6 over every
// registered file and declaration, using the canonicalized package names
// from Packages().
func (e *Environment) Translate(t flavor.Translator) *flavor.Translated {
	canon := e.Packages()
	filePkgs := make(map[string][]string, len(e.files))
	files := make(map[string]*semantic.File, len(e.files))
	var fileOrder []string
	for _, fe := range e.files {
		key := fe.Package.key()
		files[key] = fe.File
		filePkgs[key] = canon[key]
		fileOrder = append(fileOrder, key)
	}

	in := flavor.Input{
		FileOrder:    fileOrder,
		Files:        files,
		FilePackages: filePkgs,
		TypeOrder:    e.typeOrder,
		Types:        declsOnly(e.types),
	}
	return flavor.Translate(in, t)
}

func declsOnly(types map[string]*DeclRegistration) map[string]*semantic.Decl {
	out := make(map[string]*semantic.Decl, len(types))
	for k, v := range types {
		out[k] = v.Decl
	}
	return out
}
