// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// cacheState is the three-state memoization marker spec.md §4.3/§9 describes:
// a recursive analysis that re-enters a definition already in progress must
// see "pending" and fall back to the pessimistic answer, rather than loop
// forever chasing a cycle.
type cacheState int

const (
	cacheAbsent cacheState = iota
	cachePending
	cacheComputed
)

// dictCacheEntry is idlTypeIncludesDictionary's memoized result for one
// typedef: which dictionary (if any) its expansion ultimately references.
type dictCacheEntry struct {
	state cacheState
	dict  *DictionaryNode
}

// reqCacheEntry is dictionaryIncludesRequiredField's memoized result for one
// dictionary.
type reqCacheEntry struct {
	state cacheState
	value bool
}

// Index is the post-parse definition index spec.md §4.3 describes: unique
// non-partial definitions by name, partial fragments grouped by name, mixin
// definitions, includes relations, the original top-level sequence, and the
// memoization caches the two recursive dictionary analyses share across a
// single validation run.
//
// Grounded on modernc.org/gc/v3's Package aggregation (gc.go) and v2's
// Scope (check.go),
// generalized from whole-package indexing to whole-document definition
// indexing; the three-state cache mirrors v3/check.go's ctx as the
// per-walk accumulator.
type Index struct {
	Unique   map[string]Definition
	Partials map[string][]Definition
	Mixins   map[string]*MixinNode
	Includes []*IncludesNode
	All      []Definition
	Ordered  []Definition

	dictCache *lru.Cache[Node, dictCacheEntry]
	reqCache  *lru.Cache[Node, reqCacheEntry]
}

// indexCacheSize bounds the two memoization caches. A document's analyses
// only ever touch as many distinct definitions as the document declares, so
// this is a safety valve against pathological input, not the point of using
// an LRU here.
const indexCacheSize = 4096

// BuildIndex walks doc's top-level definitions once and produces an Index.
// Duplicate-name diagnostics are the validator's concern (spec.md §4.3); a
// second non-partial definition with a name already in Unique is simply not
// overwritten, so Unique always resolves to the first declaration.
func BuildIndex(doc *Document) *Index {
	idx := &Index{
		Unique:   map[string]Definition{},
		Partials: map[string][]Definition{},
		Mixins:   map[string]*MixinNode{},
		All:      doc.Definitions,
		Ordered:  doc.Definitions,
	}
	idx.dictCache, _ = lru.New[Node, dictCacheEntry](indexCacheSize)
	idx.reqCache, _ = lru.New[Node, reqCacheEntry](indexCacheSize)

	for _, d := range doc.Definitions {
		if inc, ok := d.(*IncludesNode); ok {
			idx.Includes = append(idx.Includes, inc)
			continue
		}
		name, partial := definitionName(d)
		if name == "" {
			continue
		}
		if partial {
			idx.Partials[name] = append(idx.Partials[name], d)
			continue
		}
		if _, dup := idx.Unique[name]; !dup {
			idx.Unique[name] = d
		}
		if m, ok := d.(*MixinNode); ok {
			idx.Mixins[name] = m
		}
	}
	return idx
}

// definitionName extracts a definition's name and whether it is a partial
// fragment. Includes statements have no name of their own and are excluded
// by BuildIndex before this is ever called on one.
func definitionName(d Definition) (name string, partial bool) {
	switch x := d.(type) {
	case *InterfaceNode:
		return x.Name.Lexeme(), x.IsPartial()
	case *MixinNode:
		return x.Name.Lexeme(), x.IsPartial()
	case *NamespaceNode:
		return x.Name.Lexeme(), x.IsPartial()
	case *DictionaryNode:
		return x.Name.Lexeme(), x.IsPartial()
	case *EnumNode:
		return x.Name.Lexeme(), false
	case *TypedefNode:
		return x.Name.Lexeme(), false
	case *CallbackNode:
		return x.Name.Lexeme(), false
	case *CallbackInterfaceNode:
		return x.Name.Lexeme(), false
	}
	return "", false
}

// Lookup resolves name to a Definition: Unique first, falling back to the
// first partial fragment carrying the name. Needed because
// idlTypeIncludesDictionary and dictionaryIncludesRequiredField both need a
// single resolution entry point rather than inlining the Unique/Partials
// fallback at every call site; it changes no observable semantics from
// spec.md §4.3/§4.4.
func (idx *Index) Lookup(name string) (Definition, bool) {
	if d, ok := idx.Unique[name]; ok {
		return d, true
	}
	if frags := idx.Partials[name]; len(frags) > 0 {
		return frags[0], true
	}
	return nil, false
}

// Names returns every Unique definition name in deterministic (sorted)
// order, for callers that need to enumerate the index reproducibly (e.g.
// the validator's duplicate-name pass).
func (idx *Index) Names() []string {
	ns := maps.Keys(idx.Unique)
	slices.Sort(ns)
	return ns
}

// idlTypeIncludesDictionary determines whether t ultimately references a
// dictionary, per spec.md §4.4: a non-generic, non-union type that names a
// typedef recurses into the typedef's target with cycle-safe memoization; a
// direct dictionary reference succeeds if non-nullable (or the caller
// overrides nullability, e.g. a dictionary field's own declared type isn't
// subject to the nullability rule the way a containing reference is); a
// union type recurses into each member. Sequence/record/other generics do
// not themselves reference a dictionary for this analysis, since they hold
// T, not T.Dictionary-ness, at this level.
func (idx *Index) idlTypeIncludesDictionary(t *TypeNode, nonNullOverride bool) (*DictionaryNode, bool) {
	if t == nil {
		return nil, false
	}
	if t.Union != nil {
		for _, term := range t.Union.Terms.Items {
			if d, ok := idx.idlTypeIncludesDictionary(term, nonNullOverride); ok {
				return d, true
			}
		}
		return nil, false
	}
	if t.Generic != nil || t.Base.Kind() != IDENT {
		return nil, false
	}

	def, ok := idx.Lookup(t.Base.Lexeme())
	if !ok {
		return nil, false
	}

	switch x := def.(type) {
	case *DictionaryNode:
		if t.Nullable.IsValid() && !nonNullOverride {
			return nil, false
		}
		return x, true
	case *TypedefNode:
		if e, ok := idx.dictCache.Get(Node(x)); ok {
			switch e.state {
			case cachePending:
				return nil, false // cycle guard: pessimistic "no" per spec.md §9
			case cacheComputed:
				return e.dict, e.dict != nil
			}
		}
		idx.dictCache.Add(Node(x), dictCacheEntry{state: cachePending})
		d, found := idx.idlTypeIncludesDictionary(x.Type, nonNullOverride)
		result := dictCacheEntry{state: cacheComputed}
		if found {
			result.dict = d
		}
		idx.dictCache.Add(Node(x), result)
		return d, found
	}
	return nil, false
}

// dictionaryIncludesRequiredField reports whether d, or any dictionary it
// inherits from (via the Index's Unique map), declares a required field.
// Memoized the same three-state way as idlTypeIncludesDictionary; a cycle
// in the inheritance chain (which real WebIDL forbids but this analysis
// must still terminate on) resolves "pending" to "not required".
func (idx *Index) dictionaryIncludesRequiredField(d *DictionaryNode) bool {
	if d == nil {
		return false
	}
	if e, ok := idx.reqCache.Get(Node(d)); ok {
		switch e.state {
		case cachePending:
			return false
		case cacheComputed:
			return e.value
		}
	}
	idx.reqCache.Add(Node(d), reqCacheEntry{state: cachePending})

	result := false
	for _, f := range d.Fields {
		if f.IsRequired() {
			result = true
			break
		}
	}
	if !result && d.Inheritance != nil {
		if base, ok := idx.Lookup(d.Inheritance.Name.Lexeme()); ok {
			if bd, ok := base.(*DictionaryNode); ok {
				result = idx.dictionaryIncludesRequiredField(bd)
			}
		}
	}
	idx.reqCache.Add(Node(d), reqCacheEntry{state: cacheComputed, value: result})
	return result
}
