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

package env

import (
	"github.com/reprotoc/reprotoc/internal/diag"
	"github.com/reprotoc/reprotoc/internal/parser"
	"github.com/reprotoc/reprotoc/internal/scope"
	"github.com/reprotoc/reprotoc/internal/semantic"
	"github.com/reprotoc/reprotoc/internal/source"
)

// Reload re-parses and re-lowers a single edited source in place, replacing
// its prior registration in the files/types tables, without re-resolving
// pkg itself against the Resolver. This is the editor-reload hook: `use`
// declarations the edited file still contains resolve through the normal
// memoized Import path (so unrelated, unedited dependencies keep serving
// from cache), but pkg's own entry is always rebuilt from src, matching the
// "discard this file's scope and diagnostics, keep everything else" editing
// loop the original implementation's lib/languageserver/workspace.rs
// describes.
func (e *Environment) Reload(pkg []string, src *source.Source) (*diag.Diagnostics, error) {
	d := diag.New(src)
	f := parser.Parse(src, d)
	if d.HasErrors() {
		return d, nil
	}

	sc := scope.New(pkg, &scope.RootConfig{Keywords: e.Keywords})
	if err := e.processUses(f, sc, d); err != nil {
		return d, err
	}

	model := semantic.Lower(f, sc, d)
	if d.HasErrors() {
		return d, nil
	}

	vp := VersionedPackage{Package: pkg}
	e.replaceFile(vp, model)
	return d, nil
}

// replaceFile is processFile's Reload counterpart: unlike a first import,
// re-editing a file must overwrite its prior file/type entries rather than
// silently skip them.
func (e *Environment) replaceFile(vp VersionedPackage, model *semantic.File) {
	key := vp.key()
	if idx, exists := e.fileIndex[key]; exists {
		e.files[idx] = fileEntry{Package: vp, File: model}
	} else {
		e.fileIndex[key] = len(e.files)
		e.files = append(e.files, fileEntry{Package: vp, File: model})
	}

	var register func(d *semantic.Decl)
	register = func(d *semantic.Decl) {
		nameKey := d.Name.String()
		if _, exists := e.types[nameKey]; !exists {
			e.typeOrder = append(e.typeOrder, nameKey)
		}
		e.types[nameKey] = &DeclRegistration{Decl: d, Package: vp}
		for _, nested := range d.Decls {
			register(nested)
		}
	}
	for _, d := range model.Decls {
		register(d)
	}
}
