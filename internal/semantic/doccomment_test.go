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

package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderCommentNilOnEmptyInput(t *testing.T) {
	require.Nil(t, RenderComment(nil))
	require.Nil(t, RenderComment([]string{}))
}

func TestRenderCommentSingleParagraph(t *testing.T) {
	out := RenderComment([]string{"A simple point in two dimensions."})
	require.Equal(t, []string{"A simple point in two dimensions."}, out)
}

func TestRenderCommentHeadingThenParagraph(t *testing.T) {
	out := RenderComment([]string{"# Title", "", "Body text."})
	require.Equal(t, []string{"# Title", "", "Body text."}, out)
}

func TestRenderCommentFencedCodeBlockKeepsFences(t *testing.T) {
	out := RenderComment([]string{"```", "x := 1", "```"})
	require.Equal(t, []string{"```", "x := 1", "```"}, out)
}

func TestRenderCommentTrimsTrailingBlankLines(t *testing.T) {
	out := RenderComment([]string{"Body.", "", ""})
	require.Equal(t, []string{"Body."}, out)
}
