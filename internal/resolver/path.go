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

package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/reprotoc/reprotoc/internal/source"
)

// SchemaExtension is the file extension path-based roots are searched for.
const SchemaExtension = ".reprotoc"

// PathResolver searches a fixed list of filesystem roots for
// `<root>/a/b/c.reprotoc` given a required package `a.b.c`. Packages found
// this way are unversioned: they always match any requested Range.
type PathResolver struct {
	Roots []string
}

// NewPathResolver builds a PathResolver over the given root directories.
func NewPathResolver(roots ...string) *PathResolver {
	return &PathResolver{Roots: roots}
}

func (r *PathResolver) Resolve(required RequiredPackage) ([]Resolved, error) {
	rel := filepath.Join(required.Package...) + SchemaExtension
	var out []Resolved
	for _, root := range r.Roots {
		full := filepath.Join(root, rel)
		bytes, err := os.ReadFile(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		display := strings.Join(required.Package, ".")
		out = append(out, Resolved{Source: source.New(display, full, bytes)})
	}
	return out, nil
}

func (r *PathResolver) ResolveByPrefix(prefix []string) ([]ResolvedByPrefix, error) {
	var out []ResolvedByPrefix
	relDir := filepath.Join(prefix...)
	for _, root := range r.Roots {
		dir := filepath.Join(root, relDir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if !strings.HasSuffix(e.Name(), SchemaExtension) {
				continue
			}
			name := strings.TrimSuffix(e.Name(), SchemaExtension)
			pkg := append(append([]string{}, prefix...), name)
			full := filepath.Join(dir, e.Name())
			bytes, err := os.ReadFile(full)
			if err != nil {
				return nil, err
			}
			out = append(out, ResolvedByPrefix{
				Package: pkg,
				Source:  source.New(strings.Join(pkg, "."), full, bytes),
			})
		}
	}
	return out, nil
}
