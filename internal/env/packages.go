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
	"fmt"
	"sort"
	"strings"

	"github.com/reprotoc/reprotoc/internal/version"
)

// suffixComponents lists the escalating package-disambiguation suffixes
// spec.md §4.6 walks through for a versioned package: major, major.minor,
// major.minor.patch, then each pre-release and build identifier in turn.
func suffixComponents(v *version.Version) []string {
	if v == nil {
		return nil
	}
	comps := []string{
		fmt.Sprintf("v%d", v.Major()),
		fmt.Sprintf("%d", v.Minor()),
		fmt.Sprintf("%d", v.Patch()),
	}
	pre, build := version.PackageSuffixParts(*v)
	comps = append(comps, pre...)
	comps = append(comps, build...)
	return comps
}

// candidateAt renders vp's candidate package path at escalation level:
// the bare package for an unversioned package, or the package with the
// first level+1 suffix components joined by "_" appended as a final
// segment.
func candidateAt(vp VersionedPackage, level int) []string {
	base := append([]string{}, vp.Package...)
	if vp.Version == nil {
		return base
	}
	comps := suffixComponents(vp.Version)
	n := level + 1
	if n > len(comps) {
		n = len(comps)
	}
	return append(base, strings.Join(comps[:n], "_"))
}

// Packages computes the canonicalized, collision-free package path for
// every imported VersionedPackage, per spec.md §4.6: an unversioned package
// starts at its bare path and a versioned one at its path plus a v<major>
// segment; packages whose candidate paths collide escalate together through
// the remaining version-suffix components in lock-step until they separate,
// falling back to a numeric disambiguator for any group that still collides
// once every component is exhausted.
func (e *Environment) Packages() map[string][]string {
	pending := make([]VersionedPackage, 0, len(e.files))
	seen := make(map[string]bool, len(e.files))
	for _, fe := range e.files {
		key := fe.Package.key()
		if seen[key] {
			continue
		}
		seen[key] = true
		pending = append(pending, fe.Package)
	}
	return canonicalizePackages(pending)
}

// canonicalizePackages is the pure escalation algorithm behind Packages,
// factored out so it can be exercised directly against arbitrary
// VersionedPackage sets (see packages_test.go's injectivity property).
func canonicalizePackages(vps []VersionedPackage) map[string][]string {
	type candidate struct {
		key   string
		vp    VersionedPackage
		level int
	}

	pending := make([]*candidate, 0, len(vps))
	for _, vp := range vps {
		pending = append(pending, &candidate{key: vp.key(), vp: vp})
	}

	result := make(map[string][]string, len(pending))
	maxLevel := 0
	for _, c := range pending {
		if n := len(suffixComponents(c.vp.Version)); n > maxLevel {
			maxLevel = n
		}
	}

	for len(pending) > 0 {
		groups := map[string][]*candidate{}
		for _, c := range pending {
			path := strings.Join(candidateAt(c.vp, c.level), ".")
			groups[path] = append(groups[path], c)
		}

		var next []*candidate
		for path, group := range groups {
			if len(group) == 1 {
				result[group[0].key] = candidateAt(group[0].vp, group[0].level)
				continue
			}
			if group[0].level < maxLevel {
				for _, c := range group {
					c.level++
					next = append(next, c)
				}
				continue
			}
			// Every version-suffix component is exhausted and the group
			// still collides (e.g. two packages sharing every SemVer
			// field); fall back to a numeric disambiguator. group's order
			// otherwise comes from iterating groups, a map, so sort by key
			// first to keep suffix assignment stable across runs.
			sort.Slice(group, func(i, j int) bool { return group[i].key < group[j].key })
			for i, c := range group {
				pkg := candidateAt(c.vp, c.level)
				if i > 0 {
					pkg = append(pkg, fmt.Sprintf("%d", i))
				}
				result[c.key] = pkg
			}
			_ = path
		}
		pending = next
	}
	return result
}
