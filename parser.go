// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	"modernc.org/mathutil"
)

// parser walks a *TokenStream with a single integer cursor and builds the
// concrete syntax tree defined in ast.go. Grounded on modernc.org/gc/v3's
// parser: accept/expect/peek/back there become probe/consume/expect/
// unconsume here, and recordBacktrack's bookkeeping becomes maxBack below.
//
// Once failed is set, every primitive becomes a no-op that keeps returning
// "no match", so a parse function that doesn't explicitly check failed still
// unwinds correctly: every consume() downstream fails, every production
// returns none, and the failure surfaces once at the top as a single
// *SyntaxError. This is the same discipline v3's isClosed flag gives its own
// peek/expect.
type parser struct {
	stream     *TokenStream
	sourceName string
	input      []byte
	ix         int

	failed  bool
	err     *SyntaxError
	maxBack int
}

// ParserStats reports bookkeeping about a completed parse that isn't part of
// the tree itself, for diagnosability.
type ParserStats struct {
	// MaxBacktrack is the largest number of tokens any single unconsume()
	// call rewound the cursor by.
	MaxBacktrack int
}

// c returns the token at the cursor, or the stream's eof token once failed
// has latched, so every primitive built on top of it degrades cleanly.
func (p *parser) c() Token {
	if p.failed {
		return p.stream.At(p.stream.Len() - 1)
	}
	return p.stream.At(p.ix)
}

// probe reports whether the current token's kind is one of kinds, without
// consuming it.
func (p *parser) probe(kinds ...Kind) bool {
	if p.failed {
		return false
	}
	k := p.c().Kind()
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// consume advances past and returns the current token if its kind is one of
// kinds; otherwise it leaves the cursor untouched and reports false.
func (p *parser) consume(kinds ...Kind) (Token, bool) {
	if p.failed {
		return Token{}, false
	}
	if p.probe(kinds...) {
		t := p.c()
		p.ix++
		return t, true
	}
	return Token{}, false
}

// mark returns a cursor position that a later unconsume can restore.
func (p *parser) mark() int { return p.ix }

// unconsume rewinds the cursor to pos, a backtrack to abandon a production
// that turned out not to match.
func (p *parser) unconsume(pos int) {
	if p.failed {
		return
	}
	if pos < p.ix {
		p.maxBack = mathutil.Max(p.maxBack, p.ix-pos)
	}
	p.ix = pos
}

// expect consumes a token of one of kinds or raises a fatal error at the
// current position.
func (p *parser) expect(format string, kinds ...Kind) Token {
	if t, ok := p.consume(kinds...); ok {
		return t
	}
	p.errorf(format)
	return Token{}
}

// errorf raises a fatal error bound to the current token. Once failed, this
// is a no-op, so only the first error in a parse wins.
func (p *parser) errorf(format string, args ...interface{}) {
	p.errorfAt(p.c(), format, args...)
}

// errorfAt raises a fatal error bound to a specific token, for the rare rule
// (e.g. sequence-typed attributes) where the offending token isn't the
// cursor's current position.
func (p *parser) errorfAt(tok Token, format string, args ...interface{}) {
	if p.failed {
		return
	}
	p.failed = true
	idx := tok.Index()
	if idx < 0 {
		idx = p.ix
	}
	p.err = newSyntaxError(p.stream, p.sourceName, p.input, idx, format, args...)
}

// parseList is the generalized list(parser, allowDangler, listName)
// combinator spec.md §4.2 describes: it calls item once, then alternates
// consuming sep and calling item again until item reports no match. A
// trailing sep with no item after it is an error unless allowDangler, which
// enum value lists need (a dangling "," before "}" is legal WebIDL) and
// argument/extended-attribute lists don't.
func parseList[T any](p *parser, sep Kind, allowDangler bool, listName string, item func() (T, bool)) List[T] {
	var l List[T]
	v, ok := item()
	if !ok {
		return l
	}
	l.Items = append(l.Items, v)
	for {
		s, ok := p.consume(sep)
		if !ok {
			return l
		}
		l.Seps = append(l.Seps, s)
		v, ok := item()
		if !ok {
			if !allowDangler {
				p.errorf("%s expected after separator", listName)
			}
			return l
		}
		l.Items = append(l.Items, v)
	}
}

var argumentNameKeywordKinds = []Kind{
	ASYNC, ATTRIBUTE, CALLBACK, CONST, CONSTRUCTOR, DELETER, DICTIONARY, ENUM,
	GETTER, INCLUDES, INHERIT, INTERFACE, ITERABLE, MAPLIKE, NAMESPACE,
	PARTIAL, REQUIRED, SETLIKE, SETTER, STATIC, STRINGIFIER, TYPEDEF,
	UNRESTRICTED,
}

func (p *parser) consumeArgumentName() (Token, bool) {
	if t, ok := p.consume(IDENT); ok {
		return t, true
	}
	return p.consume(argumentNameKeywordKinds...)
}

var constValueKinds = []Kind{TRUE, FALSE, INTEGER, DECIMAL, NAN, INFINITY, NEGINFINITY}

var defaultValueKinds = []Kind{STRING, INTEGER, DECIMAL, TRUE, FALSE, NULL, INFINITY, NEGINFINITY, NAN, IDENT}

var bufferSourceKinds = []Kind{
	ARRAYBUFFER, DATAVIEW, INT8ARRAY, INT16ARRAY, INT32ARRAY, UINT8ARRAY,
	UINT16ARRAY, UINT32ARRAY, UINT8CLAMPEDARRAY, FLOAT32ARRAY, FLOAT64ARRAY,
}

var plainBaseKinds = []Kind{
	SHORT, LONG, FLOAT, DOUBLE, BOOLEAN, BYTE, OCTET,
	BYTESTRING, DOMSTRING, USVSTRING, OBJECT, SYMBOL, ANY,
}

// extAttrs parses an optional "[...]" extended attribute list.
func (p *parser) extAttrs() *ExtendedAttributeListNode {
	open, ok := p.consume(LBRACK)
	if !ok {
		return nil
	}
	n := &ExtendedAttributeListNode{Open: open}
	n.List = parseList[*ExtendedAttributeNode](p, COMMA, false, "extended attribute", p.extendedAttribute)
	n.Close = p.expect("Unterminated extended attribute list, expected ']'", RBRACK)
	attachAll[*ExtendedAttributeNode](n, n.List.Items)
	return n
}

// extendedAttribute parses one of the four extended attribute shapes: a
// bare name, "Name=ident", "Name=(a, b, c)", or "Name(argList)".
func (p *parser) extendedAttribute() (*ExtendedAttributeNode, bool) {
	name, ok := p.consume(IDENT)
	if !ok {
		return nil, false
	}
	n := &ExtendedAttributeNode{Name: name}
	switch {
	case p.probe(ASSIGN):
		n.Assign, _ = p.consume(ASSIGN)
		if open, ok := p.consume(LPAREN); ok {
			n.ValuesOpen = open
			n.Values = parseList[Token](p, COMMA, false, "extended attribute value", func() (Token, bool) {
				return p.consume(IDENT)
			})
			n.ValuesClose = p.expect("Unterminated extended attribute value list, expected ')'", RPAREN)
		} else {
			n.Value = p.expect("Extended attribute lacks a value after '='", IDENT)
		}
	case p.probe(LPAREN):
		open, _ := p.consume(LPAREN)
		args := &ArgumentsNode{Open: open}
		args.List = p.argumentList()
		args.Close = p.expect("Unterminated extended attribute argument list, expected ')'", RPAREN)
		attachAll[*ArgumentNode](args, args.List.Items)
		n.Arguments = args
		attach[*ArgumentsNode](n, args)
	}
	return n, true
}

func (p *parser) argumentList() List[*ArgumentNode] {
	return parseList[*ArgumentNode](p, COMMA, false, "argument", p.argument)
}

// argument parses a single operation/constructor/callback argument.
func (p *parser) argument() (*ArgumentNode, bool) {
	start := p.mark()
	extAttrs := p.extAttrs()
	optional, hasOptional := p.consume(OPTIONAL)
	typ := p.typeWithExtAttrs()
	if typ == nil {
		if hasOptional || extAttrs != nil {
			p.errorf("Argument lacks a type")
		}
		p.unconsume(start)
		return nil, false
	}
	n := &ArgumentNode{ExtAttrs: extAttrs, Optional: optional, Type: typ}
	if !hasOptional {
		if ell, ok := p.consume(ELLIPSIS); ok {
			n.Ellipsis = ell
		}
	}
	name, ok := p.consumeArgumentName()
	if !ok {
		p.errorf("Argument lacks a name")
		return n, true
	}
	n.Name = name
	if hasOptional {
		n.Default = p.defaultValue()
	}
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, typ)
	attach[*DefaultNode](n, n.Default)
	return n, true
}

// defaultValue parses an optional "= value" default, where value is a
// literal token or an empty sequence/dictionary ("[]" / "{}").
func (p *parser) defaultValue() *DefaultNode {
	assign, ok := p.consume(ASSIGN)
	if !ok {
		return nil
	}
	n := &DefaultNode{Assign: assign}
	switch {
	case p.probe(LBRACK):
		n.Open, _ = p.consume(LBRACK)
		n.Close = p.expect("Unterminated default empty sequence, expected ']'", RBRACK)
	case p.probe(LBRACE):
		n.Open, _ = p.consume(LBRACE)
		n.Close = p.expect("Unterminated default empty dictionary, expected '}'", RBRACE)
	default:
		n.Value = p.expect("Default value expected", defaultValueKinds...)
	}
	return n
}

// inheritance parses an optional ": Base" clause.
func (p *parser) inheritance() *InheritanceNode {
	colon, ok := p.consume(COLON)
	if !ok {
		return nil
	}
	n := &InheritanceNode{Colon: colon}
	n.Name = p.expect("Inheritance clause lacks a base type name", IDENT)
	return n
}

// typeWithExtAttrs parses an optional leading "[...]" followed by a type,
// the shape every type-bearing position (argument, attribute, field,
// typedef, generic argument...) actually accepts per spec.md §4.2.
func (p *parser) typeWithExtAttrs() *TypeNode {
	ea := p.extAttrs()
	t := p.type1()
	if t == nil {
		if ea != nil {
			p.errorf("Extended attributes applied to no type")
		}
		return nil
	}
	t.ExtAttrs = ea
	attach[*ExtendedAttributeListNode](t, ea)
	return t
}

// returnType parses a type, or the bare "void" keyword some older WebIDL
// operations still use in place of "undefined".
func (p *parser) returnType() *TypeNode {
	if v, ok := p.consume(VOID); ok {
		return &TypeNode{Base: v}
	}
	return p.typeWithExtAttrs()
}

// type1 parses a single type, without any leading extended attribute list:
// an optional unsigned/unrestricted prefix, a base keyword, a named
// reference, a generic, or a parenthesized union, optionally suffixed with
// "?". Returns nil without consuming anything if the cursor isn't looking
// at a type at all.
func (p *parser) type1() *TypeNode {
	start := p.mark()
	n := &TypeNode{}

	if pre, ok := p.consume(UNSIGNED); ok {
		n.Prefix = pre
		n.Base = p.expect("Expected 'short' or 'long' after 'unsigned'", SHORT, LONG)
		if n.Base.Kind() == LONG {
			if w, ok := p.consume(LONG); ok {
				n.Width = w
			}
		}
		n.finishNullable(p)
		return n
	}
	if pre, ok := p.consume(UNRESTRICTED); ok {
		n.Prefix = pre
		n.Base = p.expect("Expected 'float' or 'double' after 'unrestricted'", FLOAT, DOUBLE)
		n.finishNullable(p)
		return n
	}

	switch {
	case p.probe(bufferSourceKinds...):
		n.Base, _ = p.consume(bufferSourceKinds...)
	case p.probe(plainBaseKinds...):
		n.Base, _ = p.consume(plainBaseKinds...)
		if n.Base.Kind() == LONG {
			if w, ok := p.consume(LONG); ok {
				n.Width = w
			}
		}
	case p.probe(SEQUENCE, PROMISE, FROZENARRAY, RECORD):
		base, _ := p.consume(SEQUENCE, PROMISE, FROZENARRAY, RECORD)
		n.Base = base
		g := p.genericArgs(base)
		n.Generic = g
		attach[*GenericTypeNode](n, g)
	case p.probe(IDENT):
		n.Base, _ = p.consume(IDENT)
	case p.probe(LPAREN):
		u := p.unionType()
		n.Union = u
		attach[*UnionTypeNode](n, u)
	default:
		p.unconsume(start)
		return nil
	}

	n.finishNullable(p)
	return n
}

// finishNullable consumes a trailing "?", if present.
func (n *TypeNode) finishNullable(p *parser) {
	if q, ok := p.consume(QUESTION); ok {
		n.Nullable = q
	}
}

// genericArgs parses the "<...>" argument list of sequence/Promise/
// FrozenArray/record.
func (p *parser) genericArgs(base Token) *GenericTypeNode {
	g := &GenericTypeNode{}
	g.Open = p.expect("Expected '<' after "+base.Lexeme(), LT)
	if base.Kind() == RECORD {
		key := p.type1()
		if key == nil {
			p.errorf("record key type missing")
			return g
		}
		g.Args.Items = append(g.Args.Items, key)
		g.Args.Seps = append(g.Args.Seps, p.expect("Expected ',' between record key and value types", COMMA))
		val := p.type1()
		if val == nil {
			p.errorf("record value type missing")
			return g
		}
		g.Args.Items = append(g.Args.Items, val)
	} else {
		item := p.type1()
		if item == nil {
			p.errorf("%s is missing a type argument", base.Lexeme())
			return g
		}
		g.Args.Items = append(g.Args.Items, item)
	}
	g.Close = p.expect("Unterminated generic type, expected '>'", GT)
	attachAll[*TypeNode](g, g.Args.Items)
	return g
}

// unionType parses a parenthesized "(A or B or ...)" type.
func (p *parser) unionType() *UnionTypeNode {
	u := &UnionTypeNode{}
	u.Open, _ = p.consume(LPAREN)
	u.Terms = parseList[*TypeNode](p, OR, false, "union type member", func() (*TypeNode, bool) {
		t := p.type1()
		return t, t != nil
	})
	if len(u.Terms.Items) < 2 {
		p.errorf("A union type must have at least two members")
	}
	u.Close = p.expect("Unterminated union type, expected ')'", RPAREN)
	attachAll[*TypeNode](u, u.Terms.Items)
	return u
}

// body runs the shared member-parse loop for interfaces, mixins,
// namespaces, and callback interfaces: parse an extended attribute list,
// then try tryMember, stopping at the closing brace.
func (p *parser) body(closeKind Kind, tryMember func(extAttrs *ExtendedAttributeListNode) (Member, bool)) []Member {
	var members []Member
	for !p.probe(closeKind) {
		if p.failed {
			break
		}
		extAttrs := p.extAttrs()
		m, ok := tryMember(extAttrs)
		if !ok {
			p.errorf("Unrecognized member inside body")
			break
		}
		members = append(members, m)
	}
	return members
}

// interfaceMember tries, in the fixed order spec.md §4.2 requires, every
// production an interface (or callback interface) body member can be:
// constant, constructor, static-prefixed, stringifier-prefixed, an
// iterable/maplike/setlike declaration, a plain attribute, then a plain
// operation.
func (p *parser) interfaceMember(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	if m, ok := p.constMember(extAttrs); ok {
		return m, true
	}
	if m, ok := p.constructorMember(extAttrs); ok {
		return m, true
	}
	if m, ok := p.staticMember(extAttrs); ok {
		return m, true
	}
	if m, ok := p.stringifierMember(extAttrs); ok {
		return m, true
	}
	if m, ok := p.iterableLike(extAttrs); ok {
		return m, true
	}
	if m, ok := p.attribute(extAttrs, Token{}, Token{}); ok {
		return m, true
	}
	if m, ok := p.operation(extAttrs, Token{}, Token{}); ok {
		return m, true
	}
	return nil, false
}

// mixinMember is the narrower member set interface mixins accept: no
// constructors, no static members, no iterable/maplike/setlike.
func (p *parser) mixinMember(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	if m, ok := p.constMember(extAttrs); ok {
		return m, true
	}
	if m, ok := p.stringifierMember(extAttrs); ok {
		return m, true
	}
	if m, ok := p.attribute(extAttrs, Token{}, Token{}); ok {
		return m, true
	}
	if m, ok := p.operation(extAttrs, Token{}, Token{}); ok {
		return m, true
	}
	return nil, false
}

// namespaceMember is the member set namespaces accept: attributes,
// operations and constants, none of them static (namespace members are
// implicitly static).
func (p *parser) namespaceMember(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	if m, ok := p.attribute(extAttrs, Token{}, Token{}); ok {
		return m, true
	}
	if m, ok := p.operation(extAttrs, Token{}, Token{}); ok {
		return m, true
	}
	if m, ok := p.constMember(extAttrs); ok {
		return m, true
	}
	return nil, false
}

func (p *parser) constMember(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	kw, ok := p.consume(CONST)
	if !ok {
		return nil, false
	}
	n := &ConstNode{ExtAttrs: extAttrs, Const: kw}
	typ := p.type1()
	if typ == nil {
		p.errorf("Constant lacks a type")
		return n, true
	}
	n.Type = typ
	name, ok := p.consume(IDENT)
	if !ok {
		p.errorf("Constant lacks a name")
		return n, true
	}
	n.Name = name
	n.Assign = p.expect("Constant lacks '='", ASSIGN)
	n.Value = p.expect("Constant lacks a value", constValueKinds...)
	n.Semicolon = p.expect("Unterminated constant, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, typ)
	return n, true
}

func (p *parser) constructorMember(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	kw, ok := p.consume(CONSTRUCTOR)
	if !ok {
		return nil, false
	}
	n := &ConstructorNode{ExtAttrs: extAttrs, Constructor: kw}
	args := &ArgumentsNode{}
	args.Open = p.expect("Invalid constructor, expected '('", LPAREN)
	args.List = p.argumentList()
	args.Close = p.expect("Unterminated constructor, expected ')'", RPAREN)
	attachAll[*ArgumentNode](args, args.List.Items)
	n.Arguments = args
	n.Semicolon = p.expect("Unterminated constructor, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*ArgumentsNode](n, args)
	return n, true
}

func (p *parser) staticMember(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	start := p.mark()
	static, ok := p.consume(STATIC)
	if !ok {
		return nil, false
	}
	if m, ok := p.attribute(extAttrs, static, Token{}); ok {
		return m, true
	}
	if m, ok := p.operation(extAttrs, static, Token{}); ok {
		return m, true
	}
	p.unconsume(start)
	p.errorf("'static' must be followed by an attribute or an operation")
	return nil, true
}

func (p *parser) stringifierMember(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	start := p.mark()
	stringifier, ok := p.consume(STRINGIFIER)
	if !ok {
		return nil, false
	}
	if m, ok := p.attribute(extAttrs, Token{}, stringifier); ok {
		return m, true
	}
	if m, ok := p.operation(extAttrs, Token{}, stringifier); ok {
		return m, true
	}
	p.unconsume(start)
	p.errorf("'stringifier' must be followed by ';', an attribute, or an operation")
	return nil, true
}

// attribute parses an "attribute" member, per spec.md §4.2's Attribute
// contract: consume inherit (plain attributes only), then readonly, then
// the mandatory "attribute" keyword — rolling all the way back to before
// inherit/readonly if "attribute" doesn't materialize, since none of those
// prefix words belong to anything else an interface body can contain.
func (p *parser) attribute(extAttrs *ExtendedAttributeListNode, static, stringifier Token) (*AttributeNode, bool) {
	start := p.mark()
	var inherit Token
	if !static.IsValid() && !stringifier.IsValid() {
		if t, ok := p.consume(INHERIT); ok {
			inherit = t
		}
	}
	if inherit.IsValid() && p.probe(READONLY) {
		p.errorf("Inherited attributes cannot be read-only")
		return nil, true
	}
	var readonly Token
	if t, ok := p.consume(READONLY); ok {
		readonly = t
	}
	attr, ok := p.consume(ATTRIBUTE)
	if !ok {
		p.unconsume(start)
		return nil, false
	}
	n := &AttributeNode{
		ExtAttrs: extAttrs, Static: static, Stringifier: stringifier,
		Inherit: inherit, Readonly: readonly, Attribute: attr,
	}
	typ := p.typeWithExtAttrs()
	if typ == nil {
		p.errorf("Attribute lacks a type")
		return n, true
	}
	n.Type = typ
	if typ.IsSequence() {
		p.errorfAt(typ.Base, "Attributes cannot accept sequence types")
		return n, true
	}
	if typ.IsRecord() {
		p.errorfAt(typ.Base, "Attributes cannot accept record types")
		return n, true
	}
	name, ok := p.consume(IDENT, ASYNC, REQUIRED)
	if !ok {
		p.errorf("Attribute lacks a name")
		return n, true
	}
	n.Name = name
	n.Semicolon = p.expect("Unterminated attribute, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, typ)
	return n, true
}

// operation parses a regular, special (getter/setter/deleter), static, or
// stringifier operation, per spec.md §4.2's Operation contract. A bare
// "stringifier;" is handled first since it has no return type at all.
func (p *parser) operation(extAttrs *ExtendedAttributeListNode, static, stringifier Token) (*OperationNode, bool) {
	if stringifier.IsValid() {
		if semi, ok := p.consume(SEMI); ok {
			n := &OperationNode{ExtAttrs: extAttrs, Stringifier: stringifier, Semicolon: semi}
			attach[*ExtendedAttributeListNode](n, extAttrs)
			return n, true
		}
	}

	start := p.mark()
	var special Token
	if !stringifier.IsValid() && !static.IsValid() {
		if t, ok := p.consume(GETTER, SETTER, DELETER); ok {
			special = t
		}
	}
	ret := p.returnType()
	if ret == nil {
		p.unconsume(start)
		return nil, false
	}
	n := &OperationNode{
		ExtAttrs: extAttrs, Static: static, Stringifier: stringifier,
		Special: special, ReturnType: ret,
	}
	if name, ok := p.consume(IDENT, INCLUDES); ok {
		n.Name = name
	}
	args := &ArgumentsNode{}
	args.Open = p.expect("Invalid operation, expected '('", LPAREN)
	args.List = p.argumentList()
	args.Close = p.expect("Unterminated operation, expected ')'", RPAREN)
	attachAll[*ArgumentNode](args, args.List.Items)
	n.Arguments = args
	n.Semicolon = p.expect("Unterminated operation, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, ret)
	attach[*ArgumentsNode](n, args)
	return n, true
}

// iterableLike tries, in turn, "async iterable<...>", "iterable<...>",
// "readonly maplike<...>", "maplike<...>", "readonly setlike<...>" and
// "setlike<...>".
func (p *parser) iterableLike(extAttrs *ExtendedAttributeListNode) (Member, bool) {
	start := p.mark()
	if async, ok := p.consume(ASYNC); ok {
		iter, ok := p.consume(ITERABLE)
		if !ok {
			p.unconsume(start)
			return nil, false
		}
		return p.finishIterable(extAttrs, async, iter), true
	}
	if iter, ok := p.consume(ITERABLE); ok {
		return p.finishIterable(extAttrs, Token{}, iter), true
	}
	if ro, ok := p.consume(READONLY); ok {
		if ml, ok := p.consume(MAPLIKE); ok {
			return p.finishMaplike(extAttrs, ro, ml), true
		}
		if sl, ok := p.consume(SETLIKE); ok {
			return p.finishSetlike(extAttrs, ro, sl), true
		}
		p.unconsume(start)
		return nil, false
	}
	if ml, ok := p.consume(MAPLIKE); ok {
		return p.finishMaplike(extAttrs, Token{}, ml), true
	}
	if sl, ok := p.consume(SETLIKE); ok {
		return p.finishSetlike(extAttrs, Token{}, sl), true
	}
	return nil, false
}

func (p *parser) finishIterable(extAttrs *ExtendedAttributeListNode, async, iter Token) *IterableNode {
	n := &IterableNode{ExtAttrs: extAttrs, Async: async, Iterable: iter}
	n.Open = p.expect("Iterable declaration lacks '<'", LT)
	key := p.typeWithExtAttrs()
	if key == nil {
		p.errorf("Iterable declaration lacks a type")
		return n
	}
	n.KeyType = key
	if comma, ok := p.consume(COMMA); ok {
		n.Comma = comma
		val := p.typeWithExtAttrs()
		if val == nil {
			p.errorf("Iterable declaration lacks a value type after ','")
			return n
		}
		n.ValueType = val
	}
	n.Close = p.expect("Unterminated iterable declaration, expected '>'", GT)
	if async.IsValid() {
		if open, ok := p.consume(LPAREN); ok {
			args := &ArgumentsNode{Open: open}
			args.List = p.argumentList()
			args.Close = p.expect("Unterminated async iterable argument list, expected ')'", RPAREN)
			attachAll[*ArgumentNode](args, args.List.Items)
			n.Arguments = args
			attach[*ArgumentsNode](n, args)
		}
	}
	n.Semicolon = p.expect("Unterminated iterable declaration, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, key)
	attach[*TypeNode](n, n.ValueType)
	return n
}

func (p *parser) finishMaplike(extAttrs *ExtendedAttributeListNode, readonly, kw Token) *MaplikeNode {
	n := &MaplikeNode{ExtAttrs: extAttrs, Readonly: readonly, Maplike: kw}
	n.Open = p.expect("Maplike declaration lacks '<'", LT)
	key := p.typeWithExtAttrs()
	if key == nil {
		p.errorf("Maplike declaration lacks a key type")
		return n
	}
	n.KeyType = key
	n.Comma = p.expect("Maplike declaration lacks ',' between key and value types", COMMA)
	val := p.typeWithExtAttrs()
	if val == nil {
		p.errorf("Maplike declaration lacks a value type")
		return n
	}
	n.ValueType = val
	n.Close = p.expect("Unterminated maplike declaration, expected '>'", GT)
	n.Semicolon = p.expect("Unterminated maplike declaration, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, key)
	attach[*TypeNode](n, val)
	return n
}

func (p *parser) finishSetlike(extAttrs *ExtendedAttributeListNode, readonly, kw Token) *SetlikeNode {
	n := &SetlikeNode{ExtAttrs: extAttrs, Readonly: readonly, Setlike: kw}
	n.Open = p.expect("Setlike declaration lacks '<'", LT)
	typ := p.typeWithExtAttrs()
	if typ == nil {
		p.errorf("Setlike declaration lacks a type")
		return n
	}
	n.Type = typ
	n.Close = p.expect("Unterminated setlike declaration, expected '>'", GT)
	n.Semicolon = p.expect("Unterminated setlike declaration, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, typ)
	return n
}

// field parses a single dictionary member.
func (p *parser) field(extAttrs *ExtendedAttributeListNode) (*FieldNode, bool) {
	required, _ := p.consume(REQUIRED)
	typ := p.typeWithExtAttrs()
	if typ == nil {
		if required.IsValid() {
			p.errorf("Dictionary member lacks a type")
			return &FieldNode{ExtAttrs: extAttrs, Required: required}, true
		}
		return nil, false
	}
	n := &FieldNode{ExtAttrs: extAttrs, Required: required, Type: typ}
	name, ok := p.consume(IDENT)
	if !ok {
		p.errorf("Dictionary member lacks a name")
		return n, true
	}
	n.Name = name
	n.Default = p.defaultValue()
	if required.IsValid() && n.Default != nil {
		p.errorf("Required dictionary members cannot have a default value")
		return n, true
	}
	n.Semicolon = p.expect("Unterminated dictionary member, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, typ)
	attach[*DefaultNode](n, n.Default)
	return n, true
}

func (p *parser) dictionaryBody() []*FieldNode {
	var fields []*FieldNode
	for !p.probe(RBRACE) {
		if p.failed {
			break
		}
		extAttrs := p.extAttrs()
		f, ok := p.field(extAttrs)
		if !ok {
			p.errorf("Unrecognized dictionary member")
			break
		}
		fields = append(fields, f)
	}
	return fields
}

// definition tries every top-level production in turn: interface (and
// mixin), namespace, dictionary, enum, typedef, callback (and callback
// interface), includes statement.
func (p *parser) definition() (Definition, bool) {
	extAttrs := p.extAttrs()
	if d, ok := p.interfaceOrMixin(extAttrs); ok {
		return d, true
	}
	if d, ok := p.namespace(extAttrs); ok {
		return d, true
	}
	if d, ok := p.dictionary(extAttrs); ok {
		return d, true
	}
	if d, ok := p.enum(extAttrs); ok {
		return d, true
	}
	if d, ok := p.typedef(extAttrs); ok {
		return d, true
	}
	if d, ok := p.callbackOrCallbackInterface(extAttrs); ok {
		return d, true
	}
	if d, ok := p.includes(extAttrs); ok {
		return d, true
	}
	if extAttrs != nil {
		p.errorf("Extended attributes applied to no definition")
		return nil, true
	}
	return nil, false
}

func (p *parser) interfaceOrMixin(extAttrs *ExtendedAttributeListNode) (Definition, bool) {
	start := p.mark()
	partial, hasPartial := p.consume(PARTIAL)
	kw, ok := p.consume(INTERFACE)
	if !ok {
		if hasPartial {
			p.unconsume(start)
		}
		return nil, false
	}
	if mixin, ok := p.consume(MIXIN); ok {
		return p.finishMixin(extAttrs, partial, kw, mixin), true
	}
	return p.finishInterface(extAttrs, partial, kw), true
}

func (p *parser) finishInterface(extAttrs *ExtendedAttributeListNode, partial, kw Token) *InterfaceNode {
	n := &InterfaceNode{ExtAttrs: extAttrs, Partial: partial, Interface: kw}
	n.Name = p.expect("Interface lacks a name", IDENT)
	n.Inheritance = p.inheritance()
	n.Open = p.expect("Interface body lacks '{'", LBRACE)
	n.Members = p.body(RBRACE, p.interfaceMember)
	n.Close = p.expect("Unterminated interface, expected '}'", RBRACE)
	n.Semicolon = p.expect("Missing semicolon after interface", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*InheritanceNode](n, n.Inheritance)
	attachAll[Member](n, n.Members)
	return n
}

func (p *parser) finishMixin(extAttrs *ExtendedAttributeListNode, partial, iface, mixin Token) *MixinNode {
	n := &MixinNode{ExtAttrs: extAttrs, Partial: partial, Interface: iface, Mixin: mixin}
	n.Name = p.expect("Mixin lacks a name", IDENT)
	n.Open = p.expect("Mixin body lacks '{'", LBRACE)
	n.Members = p.body(RBRACE, p.mixinMember)
	n.Close = p.expect("Unterminated mixin, expected '}'", RBRACE)
	n.Semicolon = p.expect("Missing semicolon after mixin", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attachAll[Member](n, n.Members)
	return n
}

func (p *parser) namespace(extAttrs *ExtendedAttributeListNode) (Definition, bool) {
	start := p.mark()
	partial, hasPartial := p.consume(PARTIAL)
	kw, ok := p.consume(NAMESPACE)
	if !ok {
		if hasPartial {
			p.unconsume(start)
		}
		return nil, false
	}
	n := &NamespaceNode{ExtAttrs: extAttrs, Partial: partial, Namespace: kw}
	n.Name = p.expect("Namespace lacks a name", IDENT)
	n.Open = p.expect("Namespace body lacks '{'", LBRACE)
	n.Members = p.body(RBRACE, p.namespaceMember)
	n.Close = p.expect("Unterminated namespace, expected '}'", RBRACE)
	n.Semicolon = p.expect("Missing semicolon after namespace", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attachAll[Member](n, n.Members)
	return n, true
}

func (p *parser) dictionary(extAttrs *ExtendedAttributeListNode) (Definition, bool) {
	start := p.mark()
	partial, hasPartial := p.consume(PARTIAL)
	kw, ok := p.consume(DICTIONARY)
	if !ok {
		if hasPartial {
			p.unconsume(start)
		}
		return nil, false
	}
	n := &DictionaryNode{ExtAttrs: extAttrs, Partial: partial, Dictionary: kw}
	n.Name = p.expect("Dictionary lacks a name", IDENT)
	n.Inheritance = p.inheritance()
	n.Open = p.expect("Dictionary body lacks '{'", LBRACE)
	n.Fields = p.dictionaryBody()
	n.Close = p.expect("Unterminated dictionary, expected '}'", RBRACE)
	n.Semicolon = p.expect("Missing semicolon after dictionary", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*InheritanceNode](n, n.Inheritance)
	attachAll[*FieldNode](n, n.Fields)
	return n, true
}

func (p *parser) enum(extAttrs *ExtendedAttributeListNode) (Definition, bool) {
	kw, ok := p.consume(ENUM)
	if !ok {
		return nil, false
	}
	n := &EnumNode{ExtAttrs: extAttrs, Enum: kw}
	n.Name = p.expect("Enum lacks a name", IDENT)
	n.Open = p.expect("Enum body lacks '{'", LBRACE)
	n.Values = parseList[*EnumValueNode](p, COMMA, true, "enum value", func() (*EnumValueNode, bool) {
		v, ok := p.consume(STRING)
		if !ok {
			return nil, false
		}
		return &EnumValueNode{Value: v}, true
	})
	if len(n.Values.Items) == 0 {
		p.errorf("Enum must have at least one value")
	}
	n.Close = p.expect("Unterminated enum, expected '}'", RBRACE)
	n.Semicolon = p.expect("Missing semicolon after enum", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attachAll[*EnumValueNode](n, n.Values.Items)
	return n, true
}

func (p *parser) typedef(extAttrs *ExtendedAttributeListNode) (Definition, bool) {
	kw, ok := p.consume(TYPEDEF)
	if !ok {
		return nil, false
	}
	n := &TypedefNode{ExtAttrs: extAttrs, Typedef: kw}
	typ := p.typeWithExtAttrs()
	if typ == nil {
		p.errorf("Typedef lacks a type")
		return n, true
	}
	n.Type = typ
	n.Name = p.expect("Typedef lacks a name", IDENT)
	n.Semicolon = p.expect("Unterminated typedef, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, typ)
	return n, true
}

func (p *parser) callbackOrCallbackInterface(extAttrs *ExtendedAttributeListNode) (Definition, bool) {
	kw, ok := p.consume(CALLBACK)
	if !ok {
		return nil, false
	}
	if iface, ok := p.consume(INTERFACE); ok {
		n := &CallbackInterfaceNode{ExtAttrs: extAttrs, Callback: kw, Interface: iface}
		n.Name = p.expect("Callback interface lacks a name", IDENT)
		n.Open = p.expect("Callback interface body lacks '{'", LBRACE)
		n.Members = p.body(RBRACE, p.interfaceMember)
		n.Close = p.expect("Unterminated callback interface, expected '}'", RBRACE)
		n.Semicolon = p.expect("Missing semicolon after callback interface", SEMI)
		attach[*ExtendedAttributeListNode](n, extAttrs)
		attachAll[Member](n, n.Members)
		return n, true
	}

	n := &CallbackNode{ExtAttrs: extAttrs, Callback: kw}
	n.Name = p.expect("Callback lacks a name", IDENT)
	n.Assign = p.expect("Callback lacks '='", ASSIGN)
	n.ReturnType = p.returnType()
	if n.ReturnType == nil {
		p.errorf("Callback lacks a return type")
	}
	args := &ArgumentsNode{}
	args.Open = p.expect("Callback lacks '('", LPAREN)
	args.List = p.argumentList()
	args.Close = p.expect("Unterminated callback, expected ')'", RPAREN)
	n.Arguments = args
	n.Semicolon = p.expect("Unterminated callback, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	attach[*TypeNode](n, n.ReturnType)
	attach[*ArgumentsNode](n, args)
	attachAll[*ArgumentNode](args, args.List.Items)
	return n, true
}

// includes parses "Target includes Mixin;". Extended attributes are
// accepted on the node itself (see ast.go's IncludesNode.ExtAttrs) purely
// so a leading "[...]" ahead of an includes statement still has a home and
// round-trips; real WebIDL gives them no semantic meaning here.
func (p *parser) includes(extAttrs *ExtendedAttributeListNode) (Definition, bool) {
	start := p.mark()
	target, ok := p.consume(IDENT)
	if !ok {
		return nil, false
	}
	kw, ok := p.consume(INCLUDES)
	if !ok {
		p.unconsume(start)
		return nil, false
	}
	n := &IncludesNode{ExtAttrs: extAttrs, Target: target, Includes: kw}
	n.Mixin = p.expect("Includes statement lacks a mixin name", IDENT)
	n.Semicolon = p.expect("Unterminated includes statement, expected ';'", SEMI)
	attach[*ExtendedAttributeListNode](n, extAttrs)
	return n, true
}

// parseDocument parses a full source file: zero or more definitions
// followed by eof.
func (p *parser) parseDocument() *Document {
	doc := &Document{}
	for {
		d, ok := p.definition()
		if !ok || p.failed {
			break
		}
		doc.Definitions = append(doc.Definitions, d)
	}
	eofTok, ok := p.consume(EOF)
	if !ok && !p.failed {
		p.errorf("Unrecognized top-level definition")
	}
	doc.EOF = eofTok
	attachAll[Definition](doc, doc.Definitions)
	return doc
}
