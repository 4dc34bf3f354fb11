// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import "testing"

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src), "")
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return doc
}

// TestBuildIndexGroupsDefinitions pins spec.md §4.3's Unique/Partials/Mixins
// grouping.
func TestBuildIndexGroupsDefinitions(t *testing.T) {
	doc := mustParse(t,
		"interface Foo {};\n"+
			"partial interface Foo {};\n"+
			"interface mixin M {};\n"+
			"M includes Foo;\n")
	idx := BuildIndex(doc)

	if _, ok := idx.Unique["Foo"]; !ok {
		t.Fatal("Foo missing from Unique")
	}
	if len(idx.Partials["Foo"]) != 1 {
		t.Fatalf("len(Partials[Foo]) = %d, want 1", len(idx.Partials["Foo"]))
	}
	if _, ok := idx.Mixins["M"]; !ok {
		t.Fatal("M missing from Mixins")
	}
	if len(idx.Includes) != 1 {
		t.Fatalf("len(Includes) = %d, want 1", len(idx.Includes))
	}
	if len(idx.All) != 4 || len(idx.Ordered) != 4 {
		t.Fatalf("len(All)/len(Ordered) = %d/%d, want 4/4", len(idx.All), len(idx.Ordered))
	}
}

// TestIndexLookupFallsBackToPartial pins Lookup's documented fallback.
func TestIndexLookupFallsBackToPartial(t *testing.T) {
	doc := mustParse(t, "partial interface Foo {};\n")
	idx := BuildIndex(doc)
	d, ok := idx.Lookup("Foo")
	if !ok {
		t.Fatal("expected Foo to resolve via Partials fallback")
	}
	if _, ok := d.(*InterfaceNode); !ok {
		t.Fatalf("resolved to %T, want *InterfaceNode", d)
	}
	if _, ok := idx.Lookup("DoesNotExist"); ok {
		t.Fatal("expected DoesNotExist to not resolve")
	}
}

// TestIndexNamesSorted pins Names' documented sorted-order contract.
func TestIndexNamesSorted(t *testing.T) {
	doc := mustParse(t, "interface Zebra {};\ninterface Apple {};\ninterface Mango {};\n")
	idx := BuildIndex(doc)
	got := idx.Names()
	want := []string{"Apple", "Mango", "Zebra"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

// TestIdlTypeIncludesDictionaryDirect pins a direct, non-nullable dictionary
// reference.
func TestIdlTypeIncludesDictionaryDirect(t *testing.T) {
	doc := mustParse(t, "dictionary D {};\ntypedef D T;\n")
	idx := BuildIndex(doc)
	typedef := doc.Definitions[1].(*TypedefNode)
	d, ok := idx.idlTypeIncludesDictionary(typedef.Type, false)
	if !ok || d.Name.Lexeme() != "D" {
		t.Fatalf("idlTypeIncludesDictionary = (%v, %v), want (D, true)", d, ok)
	}
}

// TestIdlTypeIncludesDictionaryNullableExcluded pins the nullable-dictionary
// exclusion spec.md §4.4 describes, absent a caller override.
func TestIdlTypeIncludesDictionaryNullableExcluded(t *testing.T) {
	doc := mustParse(t, "dictionary D {};\ntypedef D? T;\n")
	idx := BuildIndex(doc)
	typedef := doc.Definitions[1].(*TypedefNode)
	if _, ok := idx.idlTypeIncludesDictionary(typedef.Type, false); ok {
		t.Fatal("expected nullable dictionary reference to be excluded")
	}
	if _, ok := idx.idlTypeIncludesDictionary(typedef.Type, true); !ok {
		t.Fatal("expected nonNullOverride to include it anyway")
	}
}

// TestIdlTypeIncludesDictionaryThroughTypedefChain pins the recursive
// typedef-chasing behavior, through more than one hop.
func TestIdlTypeIncludesDictionaryThroughTypedefChain(t *testing.T) {
	doc := mustParse(t, "dictionary D {};\ntypedef D A;\ntypedef A B;\ntypedef B C;\n")
	idx := BuildIndex(doc)
	c := doc.Definitions[3].(*TypedefNode)
	d, ok := idx.idlTypeIncludesDictionary(c.Type, false)
	if !ok || d.Name.Lexeme() != "D" {
		t.Fatalf("idlTypeIncludesDictionary through chain = (%v, %v), want (D, true)", d, ok)
	}
}

// TestIdlTypeIncludesDictionaryThroughUnion pins the union-term recursion.
func TestIdlTypeIncludesDictionaryThroughUnion(t *testing.T) {
	doc := mustParse(t, "dictionary D {};\ntypedef (long or D) T;\n")
	idx := BuildIndex(doc)
	typedef := doc.Definitions[1].(*TypedefNode)
	if _, ok := idx.idlTypeIncludesDictionary(typedef.Type, false); !ok {
		t.Fatal("expected union containing a dictionary term to match")
	}
}

// TestIdlTypeIncludesDictionaryCycleTerminates pins the cache-safety
// invariant: a self-referential typedef chain must not infinite-loop, and
// resolves to the pessimistic "no" spec.md §9 prescribes for a pending
// cycle.
func TestIdlTypeIncludesDictionaryCycleTerminates(t *testing.T) {
	doc := mustParse(t, "typedef B A;\ntypedef A B;\n")
	idx := BuildIndex(doc)
	a := doc.Definitions[0].(*TypedefNode)

	if _, ok := idx.idlTypeIncludesDictionary(a.Type, false); ok {
		t.Fatal("expected a cyclic typedef chain to resolve false")
	}
}

// TestDictionaryIncludesRequiredFieldDirect pins the direct-field case.
func TestDictionaryIncludesRequiredFieldDirect(t *testing.T) {
	doc := mustParse(t, "dictionary D { required long x; };\n")
	idx := BuildIndex(doc)
	d := doc.Definitions[0].(*DictionaryNode)
	if !idx.dictionaryIncludesRequiredField(d) {
		t.Fatal("expected D to include a required field")
	}
}

// TestDictionaryIncludesRequiredFieldInherited pins the inheritance-chain
// walk.
func TestDictionaryIncludesRequiredFieldInherited(t *testing.T) {
	doc := mustParse(t, "dictionary Base { required long x; };\ndictionary D : Base { long y; };\n")
	idx := BuildIndex(doc)
	d := doc.Definitions[1].(*DictionaryNode)
	if !idx.dictionaryIncludesRequiredField(d) {
		t.Fatal("expected D to inherit a required field from Base")
	}
}

// TestDictionaryIncludesRequiredFieldNoneFound pins the negative case.
func TestDictionaryIncludesRequiredFieldNoneFound(t *testing.T) {
	doc := mustParse(t, "dictionary Base { long x; };\ndictionary D : Base { long y; };\n")
	idx := BuildIndex(doc)
	d := doc.Definitions[1].(*DictionaryNode)
	if idx.dictionaryIncludesRequiredField(d) {
		t.Fatal("expected D to have no required field")
	}
}

// TestDictionaryIncludesRequiredFieldCycleTerminates pins the cache-safety
// invariant on the inheritance side: a self-referential dictionary
// inheritance chain must terminate rather than loop, resolving pending to
// "not required".
func TestDictionaryIncludesRequiredFieldCycleTerminates(t *testing.T) {
	doc := mustParse(t, "dictionary A : B { long x; };\ndictionary B : A { long y; };\n")
	idx := BuildIndex(doc)
	a := doc.Definitions[0].(*DictionaryNode)

	if idx.dictionaryIncludesRequiredField(a) {
		t.Fatal("expected a cyclic inheritance chain to resolve false")
	}
}
