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

// Package resolver implements spec.md §4.5's Resolver contract: given a
// required package (a name plus a version range), return ordered candidate
// sources; given a package prefix, enumerate known sub-packages.
package resolver

import (
	"github.com/reprotoc/reprotoc/internal/source"
	"github.com/reprotoc/reprotoc/internal/version"
)

// RequiredPackage is a package name plus a version-range predicate, the key
// of an import.
type RequiredPackage struct {
	Package []string
	Range   version.Range
}

// Resolved is one candidate for a RequiredPackage, ordered latest-first.
// Version is nil for an unversioned, path-resolved package.
type Resolved struct {
	Version *version.Version
	Source  *source.Source
}

// ResolvedByPrefix is one candidate sub-package for a prefix enumeration.
type ResolvedByPrefix struct {
	Package []string
	Source  *source.Source
}

// Resolver is implemented by every candidate source of packages: a fixed
// filesystem root list, a versioned repository, or a composite of both.
type Resolver interface {
	// Resolve returns candidates for required, ordered latest-first. An
	// empty, non-error result means "no candidate known", which the
	// environment treats as an unresolved-package diagnostic rather than a
	// Go error.
	Resolve(required RequiredPackage) ([]Resolved, error)
	// ResolveByPrefix enumerates known sub-packages under prefix, for
	// editor-tooling completion.
	ResolveByPrefix(prefix []string) ([]ResolvedByPrefix, error)
}
