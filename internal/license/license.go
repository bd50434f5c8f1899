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

// Package license generates the copyright header used when scaffolding a
// fresh output directory's configuration file.
package license

import "fmt"

// Header returns the lines of a copyright header for the given year. An
// empty year omits the copyright line entirely.
func Header(year string) []string {
	lines := []string{}
	if year != "" {
		lines = append(lines, fmt.Sprintf(" Copyright %s The reprotoc Authors", year))
		lines = append(lines, "")
	}
	lines = append(lines,
		" Licensed under the Apache License, Version 2.0 (the \"License\");",
		" you may not use this file except in compliance with the License.",
		" You may obtain a copy of the License at",
		"",
		"     https://www.apache.org/licenses/LICENSE-2.0",
		"",
		" Unless required by applicable law or agreed to in writing, software",
		" distributed under the License is distributed on an \"AS IS\" BASIS,",
		" WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.",
		" See the License for the specific language governing permissions and",
		" limitations under the License.",
	)
	return lines
}
