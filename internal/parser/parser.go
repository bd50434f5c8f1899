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

// Package parser is a recursive-descent parser producing a span-decorated
// ast.File from a token stream. Type positions that fail to parse yield a
// sentinel ast.TypeError node retaining the offending tokens, per spec.md
// §4.2's error-recovery invariant; other parse errors are recorded in
// diagnostics and abort further lowering of the file.
//
// The overall shape (a top-level dispatcher keyed by declaration keyword,
// feeding a per-body member loop) follows the teacher's own parser
// selection in internal/parser/parser.go (there: dispatching to the
// protobuf/openapi parsers by name); here the dispatch is by declaration
// keyword within a single hand-written grammar, since there is only one
// input format to parse.
package parser

import (
	"fmt"

	"github.com/reprotoc/reprotoc/internal/ast"
	"github.com/reprotoc/reprotoc/internal/diag"
	"github.com/reprotoc/reprotoc/internal/lexer"
	"github.com/reprotoc/reprotoc/internal/source"
	"github.com/reprotoc/reprotoc/internal/token"
)

type parser struct {
	src  *source.Source
	toks []token.Token
	pos  int
	d    *diag.Diagnostics
}

// Parse lexes and parses src, recording structured errors into d. A nil
// return indicates the file could not be lexed at all; d.HasErrors() will
// be true.
func Parse(src *source.Source, d *diag.Diagnostics) *ast.File {
	toks, err := lexer.Tokens(src.Read())
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			d.Err(source.NewSpan(src, lexErr.Start, lexErr.End), lexErr.Error())
		} else {
			d.Err(source.NewSpan(src, 0, 0), err.Error())
		}
		return nil
	}
	p := &parser{src: src, toks: toks, d: d}
	return p.parseFile()
}

func (p *parser) peekKind() token.Kind {
	if p.pos >= len(p.toks) {
		return token.Invalid
	}
	return p.toks[p.pos].Kind
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) span(start int) source.Span {
	end := start
	if p.pos > 0 && p.pos <= len(p.toks) {
		end = p.toks[p.pos-1].End
	}
	return source.NewSpan(p.src, start, end)
}

func (p *parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.peekKind() != k {
		t := p.peek()
		end := t.End
		if end == 0 {
			end = len(p.src.Read())
		}
		p.d.Err(source.NewSpan(p.src, end, end), fmt.Sprintf("expected %s", what))
		return token.Token{}, false
	}
	return p.next(), true
}

func (p *parser) startOffset() int {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Start
	}
	return len(p.src.Read())
}

// parseFile parses the top level: use declarations, file-root attributes,
// and declarations, in any order (attributes/doc-comments attach to
// whatever follows them).
func (p *parser) parseFile() *ast.File {
	f := &ast.File{}
	for p.pos < len(p.toks) {
		comment := p.takeDocComment()
		attrs := p.takeAttributes()
		switch p.peekKind() {
		case token.KwUse:
			f.Uses = append(f.Uses, p.parseUse())
		case token.KwType, token.KwTuple, token.KwInterface, token.KwEnum, token.KwService:
			f.Decls = append(f.Decls, p.parseDecl(comment, attrs))
		default:
			if len(attrs) > 0 {
				f.Attributes = append(f.Attributes, attrs...)
				continue
			}
			if comment != nil {
				f.Comment = append(f.Comment, comment...)
				continue
			}
			if p.pos >= len(p.toks) {
				break
			}
			t := p.next()
			p.d.Errf(source.NewSpan(p.src, t.Start, t.End), "unexpected token %q", t.Text)
		}
	}
	return f
}

func (p *parser) takeDocComment() []string {
	if p.peekKind() == token.DocComment {
		return p.next().Lines
	}
	return nil
}

// takeAttributes parses zero or more `#[...]` blocks.
func (p *parser) takeAttributes() []ast.Attribute {
	var out []ast.Attribute
	for p.peekKind() == token.Hash {
		out = append(out, p.parseAttribute())
	}
	return out
}

func (p *parser) parseAttribute() ast.Attribute {
	start := p.startOffset()
	p.next() // '#'
	p.expect(token.LeftBracket, "'['")
	nameTok, _ := p.expect(token.Identifier, "attribute name")
	a := ast.Attribute{Name: nameTok.Text}
	if p.peekKind() == token.LeftParen {
		a.Selection = p.parseSelection()
	}
	p.expect(token.RightBracket, "']'")
	a.Span = p.span(start)
	return a
}

func (p *parser) parseSelection() *ast.Selection {
	start := p.startOffset()
	p.next() // '('
	sel := &ast.Selection{}
	for p.peekKind() != token.RightParen && p.pos < len(p.toks) {
		itemStart := p.startOffset()
		if p.peekKind() == token.Identifier && p.lookaheadIsEqual() {
			key := p.parseName()
			p.expect(token.Equal, "'='")
			val := p.parseValue()
			sel.Values = append(sel.Values, ast.NamedValue{
				Key:   key,
				Value: source.Loc(val, p.span(itemStart)),
			})
		} else {
			val := p.parseValue()
			sel.Words = append(sel.Words, source.Loc(val, p.span(itemStart)))
		}
		if p.peekKind() == token.Comma {
			p.next()
		}
	}
	p.expect(token.RightParen, "')'")
	sel.Span = p.span(start)
	return sel
}

func (p *parser) lookaheadIsEqual() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.parseName()
	return p.peekKind() == token.Equal
}

func (p *parser) parseValue() ast.Value {
	start := p.startOffset()
	switch p.peekKind() {
	case token.QuotedString:
		t := p.next()
		return ast.Value{Kind: ast.ValueString, String: t.String, Span: p.span(start)}
	case token.Number:
		t := p.next()
		return ast.Value{Kind: ast.ValueNumber, Number: t.Number, Span: p.span(start)}
	default:
		n := p.parseName()
		return ast.Value{Kind: ast.ValueIdentifier, Ident: &n, Span: p.span(start)}
	}
}

func (p *parser) parseName() ast.Name {
	start := p.startOffset()
	var prefix *string
	var parts []string
	t := p.next()
	parts = append(parts, t.Text)
	for p.peekKind() == token.Scope {
		p.next()
		if prefix == nil && len(parts) == 1 {
			v := parts[0]
			prefix = &v
			parts = nil
		}
		if p.peekKind() == token.Identifier || p.peekKind() == token.TypeIdentifier {
			parts = append(parts, p.next().Text)
		}
	}
	for p.peekKind() == token.Dot {
		p.next()
		if p.peekKind() == token.Identifier || p.peekKind() == token.TypeIdentifier {
			parts = append(parts, p.next().Text)
		}
	}
	return ast.Name{Prefix: prefix, Parts: parts, Span: p.span(start)}
}

func (p *parser) parseUse() ast.UseDecl {
	start := p.startOffset()
	p.next() // 'use'
	pkg := p.parseName()
	u := ast.UseDecl{Package: pkg}
	if p.peekKind() == token.QuotedString {
		v := p.next().String
		u.Version = &v
	}
	if p.peekKind() == token.KwAs {
		p.next()
		alias, _ := p.expect(token.Identifier, "alias")
		v := alias.Text
		u.Alias = &v
	}
	p.expect(token.SemiColon, "';'")
	u.Span = p.span(start)
	return u
}

func (p *parser) parseDecl(comment []string, attrs []ast.Attribute) ast.Decl {
	start := p.startOffset()
	kw := p.next()
	var kind ast.DeclKind
	switch kw.Kind {
	case token.KwType:
		kind = ast.DeclType
	case token.KwTuple:
		kind = ast.DeclTuple
	case token.KwInterface:
		kind = ast.DeclInterface
	case token.KwEnum:
		kind = ast.DeclEnum
	case token.KwService:
		kind = ast.DeclService
	}
	identTok, _ := p.expect(token.TypeIdentifier, "declaration name")
	d := ast.Decl{Kind: kind, Ident: identTok.Text, Comment: comment, Attributes: attrs}

	if kind == ast.DeclEnum && p.peekKind() == token.KwAs {
		p.next()
		switch p.peekKind() {
		case token.KwString, token.KwU32, token.Identifier:
			d.EnumType = p.next().Text
		default:
			t := p.next()
			p.d.Errf(source.NewSpan(p.src, t.Start, t.End), "expected enum backing type, got %q", t.Text)
			d.EnumType = t.Text
		}
	}

	p.expect(token.LeftCurly, "'{'")
	for p.peekKind() != token.RightCurly && p.pos < len(p.toks) {
		p.parseBodyMember(&d, kind)
	}
	p.expect(token.RightCurly, "'}'")
	d.Span = p.span(start)
	return d
}

func (p *parser) parseBodyMember(d *ast.Decl, kind ast.DeclKind) {
	comment := p.takeDocComment()
	attrs := p.takeAttributes()

	switch kind {
	case ast.DeclEnum:
		if p.peekKind() == token.CodeBlock {
			// Embedded code blocks are permitted as enum members; their
			// semantics beyond pass-through are unspecified (spec.md §9,
			// open question 2). Skip the token, keep no trace in the model.
			p.next()
			return
		}
		p.parseVariant(d, comment)
	case ast.DeclService:
		if p.peekKind() == token.Identifier && p.lookaheadIsCall() {
			d.Endpoints = append(d.Endpoints, p.parseEndpoint(comment, attrs))
			return
		}
		// A bare service-level attribute line, e.g. #[http(url = "...")],
		// with nothing else to attach it to.
		d.Attributes = append(d.Attributes, attrs...)
	case ast.DeclInterface:
		if p.peekKind() == token.TypeIdentifier {
			d.SubTypes = append(d.SubTypes, p.parseSubType(comment, attrs))
			return
		}
		if p.peekKind() == token.Identifier {
			p.parseField(d, comment, attrs)
			return
		}
		d.Attributes = append(d.Attributes, attrs...)
	default: // TypeBody, TupleBody
		if p.peekKind() == token.Identifier {
			p.parseField(d, comment, attrs)
			return
		}
		d.Attributes = append(d.Attributes, attrs...)
	}
}

func (p *parser) lookaheadIsCall() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if p.peekKind() != token.Identifier {
		return false
	}
	p.next()
	return p.peekKind() == token.LeftParen
}

func (p *parser) parseField(d *ast.Decl, comment []string, attrs []ast.Attribute) {
	start := p.startOffset()
	identTok, _ := p.expect(token.Identifier, "field name")
	f := ast.Field{Ident: identTok.Text, Required: true, Comment: comment, Attributes: attrs}
	if p.peekKind() == token.QuestionMark {
		p.next()
		f.Required = false
	}
	p.expect(token.Colon, "':'")
	f.Type = p.parseType()
	if p.peekKind() == token.KwAs {
		p.next()
		aliasTok, _ := p.expect(token.QuotedString, "wire-name alias")
		v := aliasTok.String
		f.Alias = &v
	}
	p.expect(token.SemiColon, "';'")
	f.Span = p.span(start)
	d.Fields = append(d.Fields, f)
}

func (p *parser) parseVariant(d *ast.Decl, comment []string) {
	start := p.startOffset()
	identTok, _ := p.expect(token.TypeIdentifier, "variant name")
	v := ast.Variant{Ident: identTok.Text, Comment: comment}
	if p.peekKind() == token.KwAs {
		p.next()
		val := p.parseValue()
		v.Ordinal = &val
	}
	if p.peekKind() == token.SemiColon {
		p.next()
	}
	v.Span = p.span(start)
	d.Variants = append(d.Variants, v)
}

func (p *parser) parseSubType(comment []string, attrs []ast.Attribute) ast.SubType {
	start := p.startOffset()
	identTok, _ := p.expect(token.TypeIdentifier, "sub-type name")
	st := ast.SubType{Ident: identTok.Text, Comment: comment, Attributes: attrs}
	if p.peekKind() == token.KwAs {
		p.next()
		aliasTok, _ := p.expect(token.QuotedString, "sub-type wire name")
		v := aliasTok.String
		st.Alias = &v
	}
	p.expect(token.LeftCurly, "'{'")
	tmp := &ast.Decl{}
	for p.peekKind() != token.RightCurly && p.pos < len(p.toks) {
		fc := p.takeDocComment()
		fa := p.takeAttributes()
		if p.peekKind() != token.Identifier {
			break
		}
		p.parseField(tmp, fc, fa)
	}
	st.Fields = tmp.Fields
	p.expect(token.RightCurly, "'}'")
	st.Span = p.span(start)
	return st
}

func (p *parser) parseEndpoint(comment []string, attrs []ast.Attribute) ast.Endpoint {
	start := p.startOffset()
	identTok, _ := p.expect(token.Identifier, "endpoint name")
	ep := ast.Endpoint{Ident: identTok.Text, Comment: comment, Attributes: attrs}
	p.expect(token.LeftParen, "'('")
	for p.peekKind() != token.RightParen && p.pos < len(p.toks) {
		argStart := p.startOffset()
		argTok, _ := p.expect(token.Identifier, "argument name")
		p.expect(token.Colon, "':'")
		ty := p.parseType()
		ep.Arguments = append(ep.Arguments, ast.Argument{Ident: argTok.Text, Type: ty, Span: p.span(argStart)})
		if p.peekKind() == token.Comma {
			p.next()
		}
	}
	p.expect(token.RightParen, "')'")
	if p.peekKind() == token.RightArrow {
		p.next()
		chStart := p.startOffset()
		streaming := false
		if p.peekKind() == token.KwStream {
			p.next()
			streaming = true
		}
		ty := p.parseType()
		ep.Response = &ast.Channel{Streaming: streaming, Type: ty, Span: p.span(chStart)}
	}
	p.expect(token.SemiColon, "';'")
	ep.Span = p.span(start)
	return ep
}

// parseType parses a type; on failure it consumes the remaining tokens up
// to the next `;`/`,`/`)`/`}` as a TypeError sentinel, per spec.md §4.2.
func (p *parser) parseType() ast.Type {
	start := p.startOffset()
	switch p.peekKind() {
	case token.KwDouble:
		p.next()
		return ast.Type{Kind: ast.TypeDouble, Span: p.span(start)}
	case token.KwFloat:
		p.next()
		return ast.Type{Kind: ast.TypeFloat, Span: p.span(start)}
	case token.KwI32:
		p.next()
		return ast.Type{Kind: ast.TypeSigned, Bits: 32, Span: p.span(start)}
	case token.KwI64:
		p.next()
		return ast.Type{Kind: ast.TypeSigned, Bits: 64, Span: p.span(start)}
	case token.KwU32:
		p.next()
		return ast.Type{Kind: ast.TypeUnsigned, Bits: 32, Span: p.span(start)}
	case token.KwU64:
		p.next()
		return ast.Type{Kind: ast.TypeUnsigned, Bits: 64, Span: p.span(start)}
	case token.KwBoolean:
		p.next()
		return ast.Type{Kind: ast.TypeBoolean, Span: p.span(start)}
	case token.KwString:
		p.next()
		return ast.Type{Kind: ast.TypeString, Span: p.span(start)}
	case token.KwBytes:
		p.next()
		return ast.Type{Kind: ast.TypeBytes, Span: p.span(start)}
	case token.KwAny:
		p.next()
		return ast.Type{Kind: ast.TypeAny, Span: p.span(start)}
	case token.KwDatetime:
		p.next()
		return ast.Type{Kind: ast.TypeDateTime, Span: p.span(start)}
	case token.LeftBracket:
		p.next()
		elem := p.parseType()
		p.expect(token.RightBracket, "']'")
		return ast.Type{Kind: ast.TypeArray, Elem: &elem, Span: p.span(start)}
	case token.LeftCurly:
		p.next()
		key := p.parseType()
		p.expect(token.Colon, "':'")
		val := p.parseType()
		p.expect(token.RightCurly, "'}'")
		return ast.Type{Kind: ast.TypeMap, Key: &key, Value: &val, Span: p.span(start)}
	case token.Identifier, token.TypeIdentifier:
		n := p.parseName()
		return ast.Type{Kind: ast.TypeName, Name: &n, Span: p.span(start)}
	default:
		return p.recoverType(start)
	}
}

// recoverType implements the parser's type-position error recovery: retain
// the offending token run instead of failing the whole file.
func (p *parser) recoverType(start int) ast.Type {
	var tokens []token.Token
loop:
	for p.pos < len(p.toks) {
		switch p.peekKind() {
		case token.SemiColon, token.Comma, token.RightParen, token.RightCurly:
			break loop
		}
		tokens = append(tokens, p.next())
	}
	sp := p.span(start)
	p.d.Err(sp, "expected a type")
	return ast.Type{Kind: ast.TypeError, Error: tokens, Span: sp}
}
