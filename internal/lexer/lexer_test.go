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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reprotoc/reprotoc/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New([]byte(src))
	var out []token.Token
	for {
		tok, err, done := l.Next()
		require.NoError(t, err)
		if done {
			return out
		}
		out = append(out, tok)
	}
}

func TestLexerIdentifiersAndKeywords(t *testing.T) {
	toks := lexAll(t, "type foo string")
	require.Len(t, toks, 3)
	require.Equal(t, token.KwType, toks[0].Kind)
	require.Equal(t, token.Identifier, toks[1].Kind)
	require.Equal(t, "foo", toks[1].Text)
	require.Equal(t, token.KwString, toks[2].Kind)
}

func TestLexerTypeIdentifier(t *testing.T) {
	toks := lexAll(t, "Point")
	require.Len(t, toks, 1)
	require.Equal(t, token.TypeIdentifier, toks[0].Kind)
	require.Equal(t, "Point", toks[0].Text)
}

func TestLexerQuotedString(t *testing.T) {
	toks := lexAll(t, `"hello world"`)
	require.Len(t, toks, 1)
	require.Equal(t, token.QuotedString, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].String)
}

func TestLexerNumbers(t *testing.T) {
	toks := lexAll(t, "42 -7")
	require.Len(t, toks, 2)
	require.Equal(t, token.Number, toks[0].Kind)
	require.Equal(t, token.Number, toks[1].Kind)
}

func TestLexerSmallDecimalNumber(t *testing.T) {
	toks := lexAll(t, "0.00001234")
	require.Len(t, toks, 1)
	require.Equal(t, int64(1234), toks[0].Number.Digits.Int64())
	require.Equal(t, uint32(8), toks[0].Number.Decimal)
}

func TestLexerNegativeExponentNumber(t *testing.T) {
	toks := lexAll(t, "-1.25e4")
	require.Len(t, toks, 1)
	require.Equal(t, int64(-12500), toks[0].Number.Digits.Int64())
	require.Equal(t, uint32(0), toks[0].Number.Decimal)
}

// TestLexerUnicodeEscapeLiteral exercises the trivial pass-through path: a
// raw UTF-8 rune inside a quoted string needs no decoding.
func TestLexerUnicodeEscapeLiteral(t *testing.T) {
	toks := lexAll(t, `"é"`)
	require.Len(t, toks, 1)
	require.Equal(t, "é", toks[0].String)
}

// TestLexerUnicodeEscapeSequence exercises the \uXXXX hex-escape decode
// branch itself, per spec.md §8's "\"\\u00e9\" decodes to the single code
// point é" boundary case.
func TestLexerUnicodeEscapeSequence(t *testing.T) {
	toks := lexAll(t, `"\u00e9"`)
	require.Len(t, toks, 1)
	require.Equal(t, "é", toks[0].String)
}

func TestLexerUnicodeEscapeTruncated(t *testing.T) {
	l := New([]byte(`"\u00`))
	_, err, _ := l.Next()
	require.Error(t, err)
	require.Equal(t, UnterminatedEscape, err.(*Error).Kind)
}

func TestLexerUnicodeEscapeInvalidHex(t *testing.T) {
	l := New([]byte(`"\uzzzz"`))
	_, err, _ := l.Next()
	require.Error(t, err)
	require.Equal(t, InvalidEscape, err.(*Error).Kind)
}

func TestLexerDocCommentStripsCommonIndent(t *testing.T) {
	toks := lexAll(t, "/// first line\n/// second line\n")
	require.Len(t, toks, 1)
	require.Equal(t, token.DocComment, toks[0].Kind)
	require.Equal(t, []string{"first line", "second line"}, toks[0].Lines)
}

func TestLexerPlainLineCommentIsSkipped(t *testing.T) {
	toks := lexAll(t, "// not a doc comment\ntype")
	require.Len(t, toks, 1)
	require.Equal(t, token.KwType, toks[0].Kind)
}

func TestLexerPunctuation(t *testing.T) {
	toks := lexAll(t, "{ } ( ) [ ] : ; ? , . ::")
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	require.Equal(t, []token.Kind{
		token.LeftCurly, token.RightCurly,
		token.LeftParen, token.RightParen,
		token.LeftBracket, token.RightBracket,
		token.Colon, token.SemiColon, token.QuestionMark, token.Comma, token.Dot,
		token.Scope,
	}, kinds)
}

func TestLexerUnterminatedStringIsAnError(t *testing.T) {
	l := New([]byte(`"unterminated`))
	_, err, done := l.Next()
	require.Error(t, err)
	require.False(t, done)

	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, UnterminatedString, lexErr.Kind)
}

func TestLexerUnexpectedCharacterIsAnError(t *testing.T) {
	l := New([]byte("$"))
	_, err, done := l.Next()
	require.Error(t, err)
	require.False(t, done)

	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, Unexpected, lexErr.Kind)
}
