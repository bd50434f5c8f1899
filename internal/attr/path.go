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

package attr

import (
	"fmt"
	"strings"
)

// RawPathPart is one piece of a RawPathStep: either a literal segment or a
// `{name}` variable reference. Resolving the variable against an endpoint's
// declared arguments happens in internal/semantic, which is what lets this
// package stay free of a dependency on the semantic model.
type RawPathPart struct {
	Literal  string
	Variable string // non-empty iff this part is a variable reference
}

// RawPathStep is one `/`-delimited step of a path-spec; spec.md §3 allows a
// step to mix literal and variable parts without a separator (e.g.
// `{id}.json`), confirmed exercised by the original implementation's
// path_parser.
type RawPathStep []RawPathPart

// ParsePath tokenizes a path string such as "/items/{id}.json" into its
// steps. An unterminated `{` is an error.
func ParsePath(path string) ([]RawPathStep, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, nil
	}
	var steps []RawPathStep
	for _, raw := range strings.Split(path, "/") {
		step, err := parseStep(raw)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(raw string) (RawPathStep, error) {
	var step RawPathStep
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			step = append(step, RawPathPart{Literal: lit.String()})
			lit.Reset()
		}
	}
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '{' {
			flush()
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated variable in path step %q", raw)
			}
			name := raw[i+1 : i+end]
			step = append(step, RawPathPart{Variable: name})
			i += end + 1
			continue
		}
		lit.WriteByte(c)
		i++
	}
	flush()
	return step, nil
}
