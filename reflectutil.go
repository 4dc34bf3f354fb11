// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	"reflect"

	mtoken "modernc.org/token"
)

var tokenType = reflect.TypeOf(Token{})

// isListValue reports whether v is a List[T] (ast.go:97-100: a two-field
// struct named Items/Seps, both slices). Reflection can't name the generic
// type directly across every T it's instantiated with, so this is
// structural rather than a type-identity check.
func isListValue(v reflect.Value) bool {
	t := v.Type()
	if t.NumField() != 2 {
		return false
	}
	items, seps := t.Field(0), t.Field(1)
	return items.Name == "Items" && items.Type.Kind() == reflect.Slice &&
		seps.Name == "Seps" && seps.Type.Kind() == reflect.Slice
}

// walkChildren visits v's logical children in true source order and calls
// visit on each. For an ordinary struct that's simply field-declaration
// order (ast.go's node structs declare Token/child fields left-to-right in
// the order the parser consumes them). A List[T], though, declares Items
// before Seps (ast.go:97-100), so a plain field walk would visit every item
// and only then every separator — wrong for any list with 2+ items, since
// the real source interleaves them ("a, b, c" is Items[0] Seps[0] Items[1]
// Seps[1] Items[2]). walkChildren special-cases List[T] to interleave
// Items[i]/Seps[i] pairwise instead, matching
// _examples/Loongson-Cloud-Community-cznic-gc/v2/etc.go's approach of
// sorting collected tokens back into source order before concatenating,
// but doing it structurally (interleave-by-shape) rather than by an
// offset sort, since an offset sort would also reorder a freshly
// autofix-synthesized fragment's tokens against the surrounding
// document's unrelated offsets.
func walkChildren(v reflect.Value, visit func(reflect.Value)) {
	if isListValue(v) {
		items := v.Field(0)
		seps := v.Field(1)
		n := items.Len()
		if seps.Len() > n {
			n = seps.Len()
		}
		for i := 0; i < n; i++ {
			if i < items.Len() {
				visit(items.Index(i))
			}
			if i < seps.Len() {
				visit(seps.Index(i))
			}
		}
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath != "" {
			continue // unexported: base.parent and friends
		}
		visit(v.Field(i))
	}
}

// collectTokens walks n's exported fields (struct fields, slices, List[T],
// pointers and Node/Member/Definition interfaces) and returns every Token it
// owns, in source order. Unexported fields (in particular base.parent) are
// skipped, which is what keeps this walk from following the parent
// back-reference into a cycle. Grounded on modernc.org/gc/v2's
// nodeSource0, which performs the same reflective field walk to drive its
// writer.
func collectTokens(n interface{}) []Token {
	var toks []Token
	var walk func(v reflect.Value)
	walk = func(v reflect.Value) {
		if !v.IsValid() {
			return
		}
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				return
			}
			walk(v.Elem())
		case reflect.Interface:
			if v.IsNil() {
				return
			}
			walk(v.Elem())
		case reflect.Struct:
			if v.Type() == tokenType {
				tok := v.Interface().(Token)
				if tok.IsValid() {
					toks = append(toks, tok)
				}
				return
			}
			walkChildren(v, walk)
		case reflect.Slice, reflect.Array:
			for i := 0; i < v.Len(); i++ {
				walk(v.Index(i))
			}
		}
	}
	walk(reflect.ValueOf(n))
	return toks
}

var typeNodePtrType = reflect.TypeOf((*TypeNode)(nil))

// collectTypeNodes walks n's exported fields the same way collectTokens
// does (including the same List[T] interleave, so a union/generic's terms
// come back in source order) and returns every *TypeNode reachable from it,
// including n itself if n is one: a type can nest further types inside a
// generic's argument list or a union's term list, and the validator's
// unknown-type-reference check (validate.go) needs every one of them, not
// just the outermost. Reuses collectTokens's reflection-walk idiom for this
// second cross-cutting concern instead of hand-enumerating every node kind
// that carries a *TypeNode field.
func collectTypeNodes(n interface{}) []*TypeNode {
	var types []*TypeNode
	var walk func(v reflect.Value)
	walk = func(v reflect.Value) {
		if !v.IsValid() {
			return
		}
		switch v.Kind() {
		case reflect.Ptr:
			if v.IsNil() {
				return
			}
			if v.Type() == typeNodePtrType {
				types = append(types, v.Interface().(*TypeNode))
			}
			walk(v.Elem())
		case reflect.Interface:
			if v.IsNil() {
				return
			}
			walk(v.Elem())
		case reflect.Struct:
			walkChildren(v, walk)
		case reflect.Slice, reflect.Array:
			for i := 0; i < v.Len(); i++ {
				walk(v.Index(i))
			}
		}
	}
	walk(reflect.ValueOf(n))
	return types
}

// firstToken returns the lowest-indexed token reachable from n, which per
// spec.md §3 determines n's source position.
func firstToken(n Node) (r Token) {
	best := -1
	for _, t := range collectTokens(n) {
		if best == -1 || t.Index() < best {
			best = t.Index()
			r = t
		}
	}
	return r
}

// nodePosition is the shared implementation every node's Position() method
// delegates to.
func nodePosition(n Node) mtoken.Position {
	return firstToken(n).Position()
}
