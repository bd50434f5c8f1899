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
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// RenderComment normalizes a DocComment's raw lines (spec.md §4.1) into one
// block-structured run: each Markdown block (heading, paragraph, code
// fence) becomes its own group of lines, separated by a blank line. Every
// flavor translator reads a Decl/Field's Comment through this shared
// normalization rather than re-parsing Markdown itself.
//
// Grounded on the teacher's rust.go doc-comment walk (goldmark parser +
// ast.Walk switch-on-kind), generalized from Rust-specific code-fence
// annotation ("```norust") to a target-neutral pass — the per-language
// fence dialect is a flavor concern, out of scope for the shared axis.
func RenderComment(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	src := []byte(strings.Join(lines, "\n"))
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	doc := md.Parser().Parse(text.NewReader(src))

	var out []string
	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			out = append(out, strings.Repeat("#", n.Level)+" "+blockText(n, src), "")
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			out = append(out, codeLines(n.Lines(), src)...)
			out = append(out, "")
		case *ast.FencedCodeBlock:
			out = append(out, "```")
			out = append(out, codeLines(n.Lines(), src)...)
			out = append(out, "```", "")
		case *ast.Paragraph:
			if node.Parent() != nil && node.Parent().Kind() == ast.KindListItem {
				return ast.WalkContinue, nil
			}
			out = append(out, strings.Split(blockText(n, src), "\n")...)
			out = append(out, "")
		}
		return ast.WalkContinue, nil
	})

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func blockText(node ast.Node, src []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		sb.Write(lines.At(i).Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func codeLines(lines *text.Segments, src []byte) []string {
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		out = append(out, strings.TrimRight(string(lines.At(i).Value(src)), "\n"))
	}
	return out
}
