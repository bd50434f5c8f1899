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

// Package version implements spec.md §3's Version and Range, backed by
// github.com/Masterminds/semver/v3 rather than a hand-rolled SemVer parser.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a parsed SemVer version: major, minor, patch, pre-release
// identifiers, and build metadata.
type Version struct {
	inner *semver.Version
}

// Parse parses a SemVer version string.
func Parse(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{inner: v}, nil
}

func (v Version) Major() uint64 { return v.inner.Major() }
func (v Version) Minor() uint64 { return v.inner.Minor() }
func (v Version) Patch() uint64 { return v.inner.Patch() }
func (v Version) Prerelease() []string {
	if v.inner.Prerelease() == "" {
		return nil
	}
	return strings.Split(v.inner.Prerelease(), ".")
}
func (v Version) Build() []string {
	meta := v.inner.Metadata()
	if meta == "" {
		return nil
	}
	return strings.Split(meta, ".")
}

func (v Version) String() string { return v.inner.String() }

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool { return v.inner.LessThan(o.inner) }

// PackageSuffixParts replaces `. - ~` with `_` in the pre-release and build
// identifiers, per the package-canonicalization rule in spec.md §4.6.
func PackageSuffixParts(v Version) (preRelease, build []string) {
	clean := func(parts []string) []string {
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = strings.NewReplacer(".", "_", "-", "_", "~", "_").Replace(p)
		}
		return out
	}
	return clean(v.Prerelease()), clean(v.Build())
}

// Range is a SemVer predicate, e.g. "^1.0", "*", ">=1.2 <2".
type Range struct {
	inner      *semver.Constraints
	matchesAny bool
	raw        string
}

// ParseRange parses a version range. An empty string means "matches any
// version", per spec.md §4.6's use-declaration default.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return Range{matchesAny: true, raw: "*"}, nil
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return Range{}, fmt.Errorf("invalid version range %q: %w", s, err)
	}
	return Range{inner: c, raw: s}, nil
}

// Matches reports whether v satisfies the range.
func (r Range) Matches(v Version) bool {
	if r.matchesAny {
		return true
	}
	return r.inner.Check(v.inner)
}

// MatchesAny reports whether the range is the universal "*" predicate.
func (r Range) MatchesAny() bool { return r.matchesAny }

// String renders the range as written.
func (r Range) String() string {
	if r.raw == "" {
		return "*"
	}
	return r.raw
}
