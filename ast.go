// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	"reflect"

	mtoken "modernc.org/token"
)

// Node is an item of the concrete syntax tree. Every production in this file
// implements it.
type Node interface {
	Position() mtoken.Position
	Parent() Node
}

// base gives every node its non-owning parent back-reference. It is never
// embedded on its own; every concrete node type embeds it.
type base struct {
	parent Node
}

// Parent implements Node.
func (b *base) Parent() Node { return b.parent }

func (b *base) setParent(p Node) { b.parent = p }

type parentSetter interface {
	setParent(Node)
}

// attach sets child's parent to parent, the one place this discipline is
// enforced, per spec.md §4.2's "Parent linkage" note: producers attach
// children through these helpers instead of remembering to do it themselves.
// child may be a nil pointer (an absent optional child); attach is then a
// no-op.
func attach[T parentSetter](parent Node, child T) {
	if isNilPointer(child) {
		return
	}
	child.setParent(parent)
}

// attachAll is attach over a slice of children, used for member/definition
// lists and for List[T]'s Items.
func attachAll[T parentSetter](parent Node, children []T) {
	for _, c := range children {
		attach(parent, c)
	}
}

func isNilPointer(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// definitioner and memberer are embedded marker types, mirroring
// modernc.org/gc/v2's typeNoder/simpleStmter pattern: a zero-size struct
// whose only job is to contribute the isDefinition/isMember method so a
// concrete node type satisfies the Definition/Member interface by
// embedding it.
type definitioner struct{}

func (definitioner) isDefinition() {}

type memberer struct{}

func (memberer) isMember() {}

// Definition is a top-level WebIDL definition: interface, mixin, namespace,
// dictionary, enum, typedef, callback, callback interface, or an includes
// statement.
type Definition interface {
	Node
	parentSetter
	isDefinition()
}

// Member is an interface/mixin/namespace/callback-interface body member:
// constant, constructor, attribute, operation, iterable, maplike or
// setlike declaration.
type Member interface {
	Node
	parentSetter
	isMember()
}

// List is a separator-delimited sequence of items, generalizing the comma
// lists (spec.md §4.2's list(parser, allowDangler, listName) combinator)
// and the "or"-delimited terms of a union type to one shape: Seps holds one
// separator token between each pair of consecutive Items (plus, when a
// dangling separator was allowed and consumed, a trailing entry with no
// following item).
type List[T any] struct {
	Items []T
	Seps  []Token
}

// Document is the root node: a sequence of top-level definitions followed by
// eof.
//
//	Document = { Definition } .
type Document struct {
	base
	Definitions []Definition
	EOF         Token
}

// Position implements Node.
func (n *Document) Position() mtoken.Position {
	if len(n.Definitions) > 0 {
		return n.Definitions[0].Position()
	}
	return n.EOF.Position()
}

// ExtendedAttributeListNode is a bracketed list of extended attributes.
//
//	ExtendedAttributeList = "[" ExtendedAttribute { "," ExtendedAttribute } "]" .
type ExtendedAttributeListNode struct {
	base
	Open  Token
	List  List[*ExtendedAttributeNode]
	Close Token
}

// Position implements Node.
func (n *ExtendedAttributeListNode) Position() mtoken.Position { return nodePosition(n) }

// ExtendedAttributeNode is a single extended attribute. It covers all four
// WebIDL shapes: a bare name, "Name=identifier", "Name=(a, b, c)" and
// "Name(argumentList)" — at most one of Value, Values, or Arguments is set
// (none of them for a bare name).
type ExtendedAttributeNode struct {
	base
	Name        Token
	Assign      Token
	Value       Token
	ValuesOpen  Token
	Values      List[Token]
	ValuesClose Token
	Arguments   *ArgumentsNode
}

// Position implements Node.
func (n *ExtendedAttributeNode) Position() mtoken.Position { return nodePosition(n) }

// HasArgValue reports whether this attribute carries an "(a, b, c)" value list.
func (n *ExtendedAttributeNode) HasArgValue() bool { return n.ValuesOpen.IsValid() }

// InheritanceNode is the ": Base" clause on an interface or dictionary.
type InheritanceNode struct {
	base
	Colon Token
	Name  Token
}

// Position implements Node.
func (n *InheritanceNode) Position() mtoken.Position { return nodePosition(n) }

// TypeNode is a WebIDL type reference: a primitive/buffer-source keyword, a
// named reference (interface, dictionary, enum, typedef, callback), or a
// generic (sequence/record/Promise/FrozenArray), optionally preceded by
// "unsigned"/"unrestricted" and optionally suffixed with "?". A type that is
// itself a parenthesized union uses Union instead of Base/Generic.
type TypeNode struct {
	base
	ExtAttrs *ExtendedAttributeListNode
	Prefix   Token
	Base     Token
	Width    Token // second "long" in "long long" / "unsigned long long"
	Generic  *GenericTypeNode
	Union    *UnionTypeNode
	Nullable Token
}

// Position implements Node.
func (n *TypeNode) Position() mtoken.Position { return nodePosition(n) }

// IsSequence reports whether n is a bare sequence<T> (used to reject
// sequence-typed attributes at parse time per spec.md §4.2).
func (n *TypeNode) IsSequence() bool { return n.Generic != nil && n.Base.Kind() == SEQUENCE }

// IsRecord reports whether n is a bare record<K,V>.
func (n *TypeNode) IsRecord() bool { return n.Generic != nil && n.Base.Kind() == RECORD }

// Name returns the textual type name for a non-generic, non-union type:
// the prefix (if any) and base lexeme joined with a space, e.g. "unsigned
// long". For a named reference it is simply the identifier lexeme.
func (n *TypeNode) Name() string {
	if n.Prefix.IsValid() {
		return n.Prefix.Lexeme() + " " + n.Base.Lexeme()
	}
	return n.Base.Lexeme()
}

// GenericTypeNode is the "<...>" argument list of a generic type.
type GenericTypeNode struct {
	base
	Open  Token
	Args  List[*TypeNode]
	Close Token
}

// Position implements Node.
func (n *GenericTypeNode) Position() mtoken.Position { return nodePosition(n) }

// UnionTypeNode is a parenthesized "A or B or C" union type; List.Seps holds
// the "or" keyword tokens between terms.
type UnionTypeNode struct {
	base
	Open  Token
	Terms List[*TypeNode]
	Close Token
}

// Position implements Node.
func (n *UnionTypeNode) Position() mtoken.Position { return nodePosition(n) }

// ArgumentsNode is a parenthesized, possibly-empty argument list.
type ArgumentsNode struct {
	base
	Open  Token
	List  List[*ArgumentNode]
	Close Token
}

// Position implements Node.
func (n *ArgumentsNode) Position() mtoken.Position { return nodePosition(n) }

// ArgumentNode is a single operation/constructor/callback argument.
type ArgumentNode struct {
	base
	ExtAttrs *ExtendedAttributeListNode
	Optional Token
	Type     *TypeNode
	Ellipsis Token
	Name     Token
	Default  *DefaultNode
}

// Position implements Node.
func (n *ArgumentNode) Position() mtoken.Position { return nodePosition(n) }

// DefaultNode is a "= value" default, where value is a literal token or an
// empty collection ("[]" / "{}").
type DefaultNode struct {
	base
	Assign Token
	Value  Token
	Open   Token
	Close  Token
}

// Position implements Node.
func (n *DefaultNode) Position() mtoken.Position { return nodePosition(n) }

// InterfaceNode is an interface definition or partial interface fragment.
//
//	InterfaceDefinition = [ "partial" ] "interface" identifier [ Inheritance ]
//	                      "{" { InterfaceMember } "}" ";" .
type InterfaceNode struct {
	base
	definitioner
	ExtAttrs    *ExtendedAttributeListNode
	Partial     Token
	Interface   Token
	Name        Token
	Inheritance *InheritanceNode
	Open        Token
	Members     []Member
	Close       Token
	Semicolon   Token
}

// Position implements Node.
func (n *InterfaceNode) Position() mtoken.Position { return nodePosition(n) }

// IsPartial reports whether this is a "partial interface" fragment.
func (n *InterfaceNode) IsPartial() bool { return n.Partial.IsValid() }

// MixinNode is an "interface mixin" definition.
type MixinNode struct {
	base
	definitioner
	ExtAttrs  *ExtendedAttributeListNode
	Partial   Token
	Interface Token
	Mixin     Token
	Name      Token
	Open      Token
	Members   []Member
	Close     Token
	Semicolon Token
}

// Position implements Node.
func (n *MixinNode) Position() mtoken.Position { return nodePosition(n) }

// IsPartial reports whether this is a "partial interface mixin" fragment.
func (n *MixinNode) IsPartial() bool { return n.Partial.IsValid() }

// NamespaceNode is a namespace definition.
type NamespaceNode struct {
	base
	definitioner
	ExtAttrs  *ExtendedAttributeListNode
	Partial   Token
	Namespace Token
	Name      Token
	Open      Token
	Members   []Member
	Close     Token
	Semicolon Token
}

// Position implements Node.
func (n *NamespaceNode) Position() mtoken.Position { return nodePosition(n) }

// IsPartial reports whether this is a "partial namespace" fragment.
func (n *NamespaceNode) IsPartial() bool { return n.Partial.IsValid() }

// DictionaryNode is a dictionary definition.
type DictionaryNode struct {
	base
	definitioner
	ExtAttrs    *ExtendedAttributeListNode
	Partial     Token
	Dictionary  Token
	Name        Token
	Inheritance *InheritanceNode
	Open        Token
	Fields      []*FieldNode
	Close       Token
	Semicolon   Token
}

// Position implements Node.
func (n *DictionaryNode) Position() mtoken.Position { return nodePosition(n) }

// IsPartial reports whether this is a "partial dictionary" fragment.
func (n *DictionaryNode) IsPartial() bool { return n.Partial.IsValid() }

// FieldNode is a single dictionary member.
type FieldNode struct {
	base
	ExtAttrs  *ExtendedAttributeListNode
	Required  Token
	Type      *TypeNode
	Name      Token
	Default   *DefaultNode
	Semicolon Token
}

// Position implements Node.
func (n *FieldNode) Position() mtoken.Position { return nodePosition(n) }

// IsRequired reports whether this field carries the "required" modifier.
func (n *FieldNode) IsRequired() bool { return n.Required.IsValid() }

// EnumNode is an enumeration definition.
type EnumNode struct {
	base
	definitioner
	ExtAttrs  *ExtendedAttributeListNode
	Enum      Token
	Name      Token
	Open      Token
	Values    List[*EnumValueNode]
	Close     Token
	Semicolon Token
}

// Position implements Node.
func (n *EnumNode) Position() mtoken.Position { return nodePosition(n) }

// EnumValueNode is a single quoted enum value.
type EnumValueNode struct {
	base
	Value Token
}

// Position implements Node.
func (n *EnumValueNode) Position() mtoken.Position { return nodePosition(n) }

// TypedefNode is a type alias definition.
type TypedefNode struct {
	base
	definitioner
	ExtAttrs  *ExtendedAttributeListNode
	Typedef   Token
	Type      *TypeNode
	Name      Token
	Semicolon Token
}

// Position implements Node.
func (n *TypedefNode) Position() mtoken.Position { return nodePosition(n) }

// CallbackNode is a callback function type definition.
type CallbackNode struct {
	base
	definitioner
	ExtAttrs   *ExtendedAttributeListNode
	Callback   Token
	Name       Token
	Assign     Token
	ReturnType *TypeNode
	Arguments  *ArgumentsNode
	Semicolon  Token
}

// Position implements Node.
func (n *CallbackNode) Position() mtoken.Position { return nodePosition(n) }

// CallbackInterfaceNode is a "callback interface" definition.
type CallbackInterfaceNode struct {
	base
	definitioner
	ExtAttrs  *ExtendedAttributeListNode
	Callback  Token
	Interface Token
	Name      Token
	Open      Token
	Members   []Member
	Close     Token
	Semicolon Token
}

// Position implements Node.
func (n *CallbackInterfaceNode) Position() mtoken.Position { return nodePosition(n) }

// IncludesNode is an "A includes B;" statement.
type IncludesNode struct {
	base
	definitioner
	ExtAttrs  *ExtendedAttributeListNode
	Target    Token
	Includes  Token
	Mixin     Token
	Semicolon Token
}

// Position implements Node.
func (n *IncludesNode) Position() mtoken.Position { return nodePosition(n) }

// ConstNode is a "const" member.
type ConstNode struct {
	base
	memberer
	ExtAttrs  *ExtendedAttributeListNode
	Const     Token
	Type      *TypeNode
	Name      Token
	Assign    Token
	Value     Token
	Semicolon Token
}

// Position implements Node.
func (n *ConstNode) Position() mtoken.Position { return nodePosition(n) }

// ConstructorNode is a "constructor(...)" member. The parens belong to
// Arguments (an ArgumentsNode already owns an Open/Close pair); Constructor
// does not repeat them in its own fields, since a token may only be stored
// in one node/role (spec.md §3's "no shared tokens" invariant).
type ConstructorNode struct {
	base
	memberer
	ExtAttrs    *ExtendedAttributeListNode
	Constructor Token
	Arguments   *ArgumentsNode
	Semicolon   Token
}

// Position implements Node.
func (n *ConstructorNode) Position() mtoken.Position { return nodePosition(n) }

// OpenParen returns the "(" token, owned by n.Arguments.
func (n *ConstructorNode) OpenParen() Token {
	if n.Arguments == nil {
		return Token{}
	}
	return n.Arguments.Open
}

// CloseParen returns the ")" token, owned by n.Arguments.
func (n *ConstructorNode) CloseParen() Token {
	if n.Arguments == nil {
		return Token{}
	}
	return n.Arguments.Close
}

// AttributeNode is an "attribute" member, per spec.md §4.2's Attribute
// contract: optional inherit/readonly/static modifiers, a type, a name.
type AttributeNode struct {
	base
	memberer
	ExtAttrs    *ExtendedAttributeListNode
	Static      Token
	Stringifier Token
	Inherit     Token
	Readonly    Token
	Attribute   Token
	Type        *TypeNode
	Name        Token
	Semicolon   Token
}

// Position implements Node.
func (n *AttributeNode) Position() mtoken.Position { return nodePosition(n) }

// OperationNode is a regular, special (getter/setter/deleter), static, or
// stringifier operation, per spec.md §4.2's Operation contract. As with
// ConstructorNode, the parens live solely on Arguments; a bare
// "stringifier;" operation has no Arguments at all.
type OperationNode struct {
	base
	memberer
	ExtAttrs    *ExtendedAttributeListNode
	Static      Token
	Stringifier Token
	Special     Token
	ReturnType  *TypeNode
	Name        Token
	Arguments   *ArgumentsNode
	Semicolon   Token
}

// Position implements Node.
func (n *OperationNode) Position() mtoken.Position { return nodePosition(n) }

// IsNameless reports whether this operation has no name (permitted for
// getters, setters, deleters and stringifiers; a bug for a regular or
// static operation — see validate.go's incomplete-op rule).
func (n *OperationNode) IsNameless() bool { return !n.Name.IsValid() }

// OpenParen returns the "(" token, owned by n.Arguments (invalid for a bare
// "stringifier;" operation, which has no argument list at all).
func (n *OperationNode) OpenParen() Token {
	if n.Arguments == nil {
		return Token{}
	}
	return n.Arguments.Open
}

// CloseParen returns the ")" token, owned by n.Arguments.
func (n *OperationNode) CloseParen() Token {
	if n.Arguments == nil {
		return Token{}
	}
	return n.Arguments.Close
}

// IterableNode is an "iterable<...>" / "async iterable<...>" declaration.
type IterableNode struct {
	base
	memberer
	ExtAttrs  *ExtendedAttributeListNode
	Async     Token
	Iterable  Token
	Open      Token
	KeyType   *TypeNode
	Comma     Token
	ValueType *TypeNode
	Close     Token
	Arguments *ArgumentsNode
	Semicolon Token
}

// Position implements Node.
func (n *IterableNode) Position() mtoken.Position { return nodePosition(n) }

// MaplikeNode is a "maplike<K, V>" declaration.
type MaplikeNode struct {
	base
	memberer
	ExtAttrs  *ExtendedAttributeListNode
	Readonly  Token
	Maplike   Token
	Open      Token
	KeyType   *TypeNode
	Comma     Token
	ValueType *TypeNode
	Close     Token
	Semicolon Token
}

// Position implements Node.
func (n *MaplikeNode) Position() mtoken.Position { return nodePosition(n) }

// SetlikeNode is a "setlike<T>" declaration.
type SetlikeNode struct {
	base
	memberer
	ExtAttrs  *ExtendedAttributeListNode
	Readonly  Token
	Setlike   Token
	Open      Token
	Type      *TypeNode
	Close     Token
	Semicolon Token
}

// Position implements Node.
func (n *SetlikeNode) Position() mtoken.Position { return nodePosition(n) }
