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

// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser.
package token

import "math/big"

// Kind discriminates the token payload carried in a Token.
type Kind int

const (
	Invalid Kind = iota
	Identifier
	TypeIdentifier
	Number
	QuotedString
	DocComment
	CodeBlock
	// Punctuation
	LeftCurly
	RightCurly
	LeftBracket
	RightBracket
	LeftParen
	RightParen
	SemiColon
	Colon
	Comma
	Dot
	Scope // `::`
	QuestionMark
	Hash
	Bang
	RightArrow
	Equal
	At
	// Keywords
	KwAny
	KwAs
	KwBoolean
	KwBytes
	KwDatetime
	KwDouble
	KwEnum
	KwFloat
	KwI32
	KwI64
	KwInterface
	KwService
	KwStream
	KwString
	KwTuple
	KwType
	KwU32
	KwU64
	KwUse
)

// Keywords maps the reserved identifier-shaped words to their Kind.
var Keywords = map[string]Kind{
	"any":       KwAny,
	"as":        KwAs,
	"boolean":   KwBoolean,
	"bytes":     KwBytes,
	"datetime":  KwDatetime,
	"double":    KwDouble,
	"enum":      KwEnum,
	"float":     KwFloat,
	"i32":       KwI32,
	"i64":       KwI64,
	"interface": KwInterface,
	"service":   KwService,
	"stream":    KwStream,
	"string":    KwString,
	"tuple":     KwTuple,
	"type":      KwType,
	"u32":       KwU32,
	"u64":       KwU64,
	"use":       KwUse,
}

// KeywordSafe returns the default keyword-avoidance rewrite for a keyword
// token: a fixed `_` prefix, confirmed by the original implementation's
// `Token::keyword_safe`.
func KeywordSafe(k Kind) (string, bool) {
	for text, kind := range Keywords {
		if kind == k {
			return "_" + text, true
		}
	}
	return "", false
}

// Numeric is the decoded form of a numeric literal: an arbitrary-precision
// integer `digits` and a `decimal` exponent such that the literal's value is
// digits * 10^-decimal.
type Numeric struct {
	Digits  *big.Int
	Decimal uint32
}

// Token is one lexical token with its byte span [Start, End).
type Token struct {
	Kind   Kind
	Start  int
	End    int
	Text   string   // raw text for Identifier/TypeIdentifier/punctuation/keywords
	String string   // decoded text for QuotedString
	Number Numeric  // populated for Number
	Lines  []string // populated for DocComment (one entry per `///` line) and CodeBlock (post indent-strip)
}
