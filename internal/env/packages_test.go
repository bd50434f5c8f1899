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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/reprotoc/reprotoc/internal/version"
)

// genVersionedPackage draws from a small, deliberately collision-prone
// alphabet of package names and versions: the interesting behavior of
// canonicalizePackages only shows up when several candidates share a bare
// package path or a version prefix.
func genVersionedPackage() gopter.Gen {
	names := []string{"foo", "bar"}
	versions := []string{"1.0.0", "1.0.1", "1.1.0", "2.0.0", "1.0.0-alpha", "1.0.0-beta"}

	return gopter.CombineGens(
		gen.IntRange(0, len(names)-1),
		gen.IntRange(-1, len(versions)-1),
	).Map(func(vs []interface{}) VersionedPackage {
		nameIdx := vs[0].(int)
		versionIdx := vs[1].(int)
		vp := VersionedPackage{Package: []string{names[nameIdx%len(names)]}}
		if versionIdx >= 0 {
			v, err := version.Parse(versions[versionIdx%len(versions)])
			if err == nil {
				vp.Version = &v
			}
		}
		return vp
	})
}

func genVersionedPackages() gopter.Gen {
	return gen.SliceOfN(8, genVersionedPackage())
}

// TestCanonicalizePackagesIsInjective checks spec.md §4.6's package
// canonicalization invariant: distinct VersionedPackage inputs must never
// be assigned the same canonical path, no matter how many of them collide
// on their bare package name or share a version prefix.
func TestCanonicalizePackagesIsInjective(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("canonical paths are unique per distinct package key", prop.ForAll(
		func(vps []VersionedPackage) bool {
			byKey := map[string]VersionedPackage{}
			for _, vp := range vps {
				byKey[vp.key()] = vp
			}
			deduped := make([]VersionedPackage, 0, len(byKey))
			for _, vp := range byKey {
				deduped = append(deduped, vp)
			}

			result := canonicalizePackages(deduped)
			seenPaths := map[string]bool{}
			for _, path := range result {
				p := fmt.Sprint(path)
				if seenPaths[p] {
					return false
				}
				seenPaths[p] = true
			}
			return len(result) == len(deduped)
		},
		genVersionedPackages(),
	))

	properties.TestingRun(t)
}
