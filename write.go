// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

// Write renders root back to text. When no autofix has mutated the tree,
// Write(Parse(input)) reproduces input byte-for-byte; the round-trip
// invariant holds because every token the parser consumed is still owned by
// exactly one node, and Write visits them in the tree's own structural
// order, which for an unmutated parse is source order (ast.go's node
// structs declare their Token/child fields left-to-right in the order the
// parser consumes them, and reflectutil.go's walk interleaves a List[T]'s
// Items/Seps pairwise rather than visiting the field declaration order of
// List[T] itself, since Items comes before Seps there but a comma list's
// true source order alternates item/separator/item/separator/...).
//
// Grounded directly on modernc.org/gc/v2's nodeSource/nodeSource0: collect
// every Token reachable from root by reflection and concatenate each
// token's trivia with its lexeme. Tree order rather than a sort by
// Token.Index is what lets an autofix splice a freshly synthesized node
// (its tokens living on their own small TokenStream, with indices that have
// no relation to the surrounding document's) into a parent's child slice
// and have Write reproduce it in the right place: the walk visits children
// in slice (and, within a List[T], interleaved item/separator) order, so
// position comes from where the node lives in the tree, never from
// comparing index numbers across streams.
func Write(root *Document) string {
	var out []byte
	for _, t := range collectTokens(root) {
		out = append(out, t.Trivia()...)
		out = append(out, t.Lexeme()...)
	}
	return string(out)
}
