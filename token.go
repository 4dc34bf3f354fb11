// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	mtoken "modernc.org/token"
)

// rawTok is the compact, immutable record the lexer produces for every
// token, mirroring modernc.org/gc's tok{ch, sep, src} triple: enough to
// recover trivia and lexeme by slicing the owning TokenStream's buffer.
type rawTok struct {
	kind   Kind
	sepOff int32 // start of preceding trivia
	off    int32 // start of the lexeme
	next   int32 // one past the end of the lexeme (== next token's sepOff)
	line   int32 // 1-based line at the start of the lexeme
}

// TokenStream owns the source buffer and the full ordered list of tokens
// produced from it, including the terminal eof. Dropping a TokenStream
// reclaims every Token derived from it; Token values are cheap handles
// (stream pointer + index) and do not extend the stream's lifetime beyond
// normal GC rules.
type TokenStream struct {
	buf  []byte
	file *mtoken.File
	name string
	toks []rawTok

	// sepPatches/srcPatches hold autofix-synthesized replacement text for a
	// token's trivia/lexeme, keyed by token index, so the original rawTok
	// slice (and every other Token's index) never needs to shift.
	sepPatches map[int32]string
	srcPatches map[int32]string
}

// newTokenStream allocates a TokenStream over buf, which becomes owned by the
// result and must not be modified afterwards.
func newTokenStream(name string, buf []byte) *TokenStream {
	file := mtoken.NewFile(name, len(buf))
	for i, c := range buf {
		if c == '\n' {
			file.AddLine(i + 1)
		}
	}
	return &TokenStream{
		buf:  buf,
		file: file,
		name: name,
	}
}

func (s *TokenStream) add(t rawTok) Token {
	idx := int32(len(s.toks))
	s.toks = append(s.toks, t)
	return Token{stream: s, index: idx}
}

// Len reports the number of tokens in the stream, including the terminal eof.
func (s *TokenStream) Len() int { return len(s.toks) }

// At returns the token at position i (0-based, dense, eof included).
func (s *TokenStream) At(i int) Token {
	if i < 0 || i >= len(s.toks) {
		return Token{}
	}
	return Token{stream: s, index: int32(i)}
}

// Token is a single lexeme, its position, and its trivia, and is the
// terminal node of the concrete syntax tree. Tokens are produced once by the
// tokenizer; the only mutation they ever undergo is the keyword re-kinding
// performed during tokenizing itself and, post hoc, the trivia/lexeme
// replacement autofixes install via SetTrivia/SetLexeme.
type Token struct {
	stream *TokenStream
	index  int32
}

// IsValid reports whether t refers to an actual token. The zero Token is not
// valid; node fields for roles that weren't present in the source hold a
// zero Token.
func (t Token) IsValid() bool { return t.stream != nil }

// Kind returns which token kind t represents.
func (t Token) Kind() Kind {
	if !t.IsValid() {
		return EOF
	}
	return t.stream.toks[t.index].kind
}

// Index returns t's 0-based position in its owning stream.
func (t Token) Index() int {
	if !t.IsValid() {
		return -1
	}
	return int(t.index)
}

// Line returns the 1-based source line t starts on.
func (t Token) Line() int {
	if !t.IsValid() {
		return 0
	}
	return int(t.stream.toks[t.index].line)
}

// Trivia returns the whitespace/comment text that precedes t.
func (t Token) Trivia() string {
	if !t.IsValid() {
		return ""
	}
	s := t.stream
	if p, ok := s.sepPatches[t.index]; ok {
		return p
	}
	r := s.toks[t.index]
	return string(s.buf[r.sepOff:r.off])
}

// SetTrivia installs replacement trivia for t, used by autofixes to repair
// separator whitespace (e.g. indentation) without relexing the whole file.
func (t Token) SetTrivia(s string) {
	if !t.IsValid() {
		return
	}
	if t.stream.sepPatches == nil {
		t.stream.sepPatches = map[int32]string{}
	}
	t.stream.sepPatches[t.index] = s
}

// Lexeme returns t's exact source text.
func (t Token) Lexeme() string {
	if !t.IsValid() {
		return ""
	}
	s := t.stream
	if p, ok := s.srcPatches[t.index]; ok {
		return p
	}
	r := s.toks[t.index]
	return string(s.buf[r.off:r.next])
}

// SetLexeme installs replacement source text for t, used by autofixes that
// remove a node by collapsing its tokens to empty text.
func (t Token) SetLexeme(s string) {
	if !t.IsValid() {
		return
	}
	if t.stream.srcPatches == nil {
		t.stream.srcPatches = map[int32]string{}
	}
	t.stream.srcPatches[t.index] = s
}

// Position reports t's line/column, adjusted for the owning file's line
// table.
func (t Token) Position() mtoken.Position {
	if !t.IsValid() {
		return mtoken.Position{}
	}
	s := t.stream
	return s.file.PositionFor(mtoken.Pos(int(s.toks[t.index].off)+s.file.Base()), true)
}

// String pretty-prints t for diagnostics and test failures.
func (t Token) String() string {
	if !t.IsValid() {
		return "<invalid token>"
	}
	return t.Position().String() + ": " + t.Kind().String() + " " + quoteShort(t.Lexeme())
}

func quoteShort(s string) string {
	const max = 40
	if len(s) > max {
		s = s[:max] + "..."
	}
	return "\"" + s + "\""
}
