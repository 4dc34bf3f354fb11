// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	humanize "github.com/dustin/go-humanize"
)

// Validate walks doc and returns every diagnostic the rules in spec.md
// §4.4 (plus this implementation's two supplemental rules, duplicate
// definitions and unknown type references) produce. Diagnostics for a
// single definition appear in tree-walk order: its extended attributes,
// then its typed children in declaration order, then its own node-specific
// rules (spec.md §5's ordering note); the cross-definition passes
// (duplicate names) run after every definition's own walk, since they need
// the whole Index built first.
func Validate(doc *Document) []Diagnostic {
	idx := BuildIndex(doc)
	v := &validator{idx: idx}

	var diags []Diagnostic
	for _, d := range doc.Definitions {
		diags = append(diags, v.definition(d)...)
	}
	diags = append(diags, v.duplicateDefinitions(doc)...)
	return diags
}

// ValidateSeq behaves like Validate but delivers diagnostics through a
// Go 1.23-style push iterator, so a caller that only wants the first few
// findings can stop early without paying for the rest: diagnostics are
// computed one definition at a time, and no further definition is walked
// once yield returns false. This is the "lazy
// sequence" spec.md §4.4/§5 describes, realized with the iterator idiom
// available at this module's go.mod version rather than a goroutine (spec.md
// §5: "a generator pattern, not an I/O await").
func ValidateSeq(doc *Document) func(yield func(Diagnostic) bool) {
	return func(yield func(Diagnostic) bool) {
		v := &validator{idx: BuildIndex(doc)}
		for _, def := range doc.Definitions {
			for _, d := range v.definition(def) {
				if !yield(d) {
					return
				}
			}
		}
		for _, d := range v.duplicateDefinitions(doc) {
			if !yield(d) {
				return
			}
		}
	}
}

// validator carries the Index every rule needs to resolve a named type
// reference, across the whole walk.
type validator struct {
	idx *Index
}

// definition dispatches one top-level definition to its node-specific rules,
// after recursing into its members.
func (v *validator) definition(d Definition) []Diagnostic {
	switch x := d.(type) {
	case *InterfaceNode:
		return v.interfaceNode(x)
	case *MixinNode:
		return v.membersOf(x.Members)
	case *NamespaceNode:
		return v.membersOf(x.Members)
	case *CallbackInterfaceNode:
		return v.membersOf(x.Members)
	case *DictionaryNode:
		return v.dictionaryNode(x)
	case *TypedefNode:
		return v.typeRefs(x.Type)
	case *CallbackNode:
		return v.typeRefs(x.ReturnType)
	case *EnumNode, *IncludesNode:
		return nil
	}
	return nil
}

// interfaceNode applies require-exposed, legacy-Constructor,
// no-constructible-global, and member rules, in that order (extAttrs-derived
// rules before recursing into children, matching spec.md §5's
// "extAttrs first" ordering).
func (v *validator) interfaceNode(n *InterfaceNode) []Diagnostic {
	var diags []Diagnostic

	if !n.IsPartial() {
		if d, ok := requireExposedDiagnostic(n); ok {
			diags = append(diags, d)
		}
	}

	if n.ExtAttrs != nil {
		for _, attr := range n.ExtAttrs.List.Items {
			if attr.Name.Lexeme() == "Constructor" {
				diags = append(diags, constructorMemberDiagnostic(n, attr))
			}
		}
	}

	if hasGlobalAttr(n.ExtAttrs) && hasConstructorMember(n.Members) {
		diags = append(diags, diagnosticAt(n.Name, KindNoConstructibleGlobal, nil,
			"Interface %s is marked [Global] but declares a constructor; global interfaces cannot be constructible", n.Name.Lexeme()))
	}

	diags = append(diags, v.membersOf(n.Members)...)
	if !n.IsPartial() {
		diags = append(diags, v.duplicateMembers(n.Name.Lexeme(), n.Members)...)
	}
	return diags
}

func (v *validator) dictionaryNode(n *DictionaryNode) []Diagnostic {
	var diags []Diagnostic
	for _, f := range n.Fields {
		diags = append(diags, v.typeRefs(f.Type)...)
	}
	return diags
}

// membersOf applies member-level rules (currently: incomplete-op) plus
// type-reference checks across every member's type-bearing fields.
func (v *validator) membersOf(members []Member) []Diagnostic {
	var diags []Diagnostic
	for _, m := range members {
		switch x := m.(type) {
		case *OperationNode:
			if isIncompleteOp(x) {
				tok := x.Name
				if open := x.OpenParen(); open.IsValid() {
					tok = open
				}
				diags = append(diags, diagnosticAt(tok, KindIncompleteOp, nil,
					"Operation lacks a name"))
			}
			diags = append(diags, v.typeRefs(x.ReturnType)...)
			diags = append(diags, v.argumentTypeRefs(x.Arguments)...)
		case *AttributeNode:
			diags = append(diags, v.typeRefs(x.Type)...)
		case *ConstNode:
			diags = append(diags, v.typeRefs(x.Type)...)
		case *ConstructorNode:
			diags = append(diags, v.argumentTypeRefs(x.Arguments)...)
		case *IterableNode:
			diags = append(diags, v.typeRefs(x.KeyType)...)
			diags = append(diags, v.typeRefs(x.ValueType)...)
		case *MaplikeNode:
			diags = append(diags, v.typeRefs(x.KeyType)...)
			diags = append(diags, v.typeRefs(x.ValueType)...)
		case *SetlikeNode:
			diags = append(diags, v.typeRefs(x.Type)...)
		}
	}
	return diags
}

func (v *validator) argumentTypeRefs(args *ArgumentsNode) []Diagnostic {
	if args == nil {
		return nil
	}
	var diags []Diagnostic
	for _, a := range args.List.Items {
		diags = append(diags, v.typeRefs(a.Type)...)
		if d, ok := v.optionalRequiredDictionary(a); ok {
			diags = append(diags, d)
		}
	}
	return diags
}

// optionalRequiredDictionary implements spec.md §4.4's "Dictionary
// containment and required fields" required analysis as an actual
// diagnostic: an argument marked "optional" with no explicit default gets
// the implicit default "{}" (WebIDL's own rule for optional dictionary
// arguments), which cannot satisfy a dictionary that itself (or through its
// inheritance chain) declares a required field. idlTypeIncludesDictionary is
// called without the non-null override, so a nullable dictionary type
// (whose implicit default is null, not {}) is correctly exempt.
func (v *validator) optionalRequiredDictionary(a *ArgumentNode) (Diagnostic, bool) {
	if !a.Optional.IsValid() || a.Default != nil {
		return Diagnostic{}, false
	}
	dict, ok := v.idx.idlTypeIncludesDictionary(a.Type, false)
	if !ok || !v.idx.dictionaryIncludesRequiredField(dict) {
		return Diagnostic{}, false
	}
	return diagnosticAt(a.Name, KindOptionalRequiredDict, nil,
		"optional argument %s has dictionary type %s, which has a required member, but no default value",
		a.Name.Lexeme(), dict.Name.Lexeme()), true
}

// typeRefs walks every TypeNode reachable from t (itself, and any nested
// generic/union members) and reports unknown-type-reference for a named
// type that resolves to nothing in the Index. Grounded on reflectutil.go's
// collectTokens walk, reused here for a second cross-cutting concern
// (collectTypeNodes) instead of hand-enumerating every node kind that can
// carry a *TypeNode field.
func (v *validator) typeRefs(t *TypeNode) []Diagnostic {
	if t == nil {
		return nil
	}
	var diags []Diagnostic
	for _, tn := range collectTypeNodes(t) {
		if tn.Generic != nil || tn.Union != nil || tn.Base.Kind() != IDENT {
			continue
		}
		if _, ok := v.idx.Lookup(tn.Base.Lexeme()); !ok {
			diags = append(diags, diagnosticAt(tn.Base, KindUnknownTypeReference, nil,
				"%s does not resolve to any known definition", tn.Base.Lexeme()))
		}
	}
	return diags
}

// isIncompleteOp reports whether op is a regular or static operation with
// no name; getters/setters/deleters/stringifiers are permitted to be
// nameless (spec.md §8 scenario 6).
func isIncompleteOp(op *OperationNode) bool {
	if op.Special.IsValid() || op.Stringifier.IsValid() {
		return false
	}
	return op.IsNameless()
}

// hasGlobalAttr reports whether list carries a bare "Global" (or
// "Global=Name"/"Global=(A,B)") extended attribute.
func hasGlobalAttr(list *ExtendedAttributeListNode) bool {
	_, ok := findExtAttr(list, "Global")
	return ok
}

// hasConstructorMember reports whether members includes at least one
// constructor() declaration.
func hasConstructorMember(members []Member) bool {
	for _, m := range members {
		if _, ok := m.(*ConstructorNode); ok {
			return true
		}
	}
	return false
}

// findExtAttr returns the first extended attribute named name in list, if
// any.
func findExtAttr(list *ExtendedAttributeListNode, name string) (*ExtendedAttributeNode, bool) {
	if list == nil {
		return nil, false
	}
	for _, a := range list.List.Items {
		if a.Name.Lexeme() == name {
			return a, true
		}
	}
	return nil, false
}

// requireExposedDiagnostic implements spec.md §4.4's "Interface requires
// Exposed" rule: a non-partial interface lacking both Exposed and
// NoInterfaceObject gets a diagnostic carrying an autofix that inserts
// "[Exposed=Window]".
func requireExposedDiagnostic(n *InterfaceNode) (Diagnostic, bool) {
	if _, ok := findExtAttr(n.ExtAttrs, "Exposed"); ok {
		return Diagnostic{}, false
	}
	if _, ok := findExtAttr(n.ExtAttrs, "NoInterfaceObject"); ok {
		return Diagnostic{}, false
	}
	tok := n.Interface
	if n.Partial.IsValid() {
		tok = n.Partial
	}
	fix := autofixRequireExposed(n)
	return diagnosticAt(tok, KindRequireExposed, fix,
		"Interface %s has no [Exposed] (or [NoInterfaceObject]) extended attribute", n.Name.Lexeme()), true
}

// constructorMemberDiagnostic implements spec.md §4.4's legacy "[Constructor]"
// rule: each occurrence gets a diagnostic with an autofix that converts it
// into a constructor() member.
func constructorMemberDiagnostic(n *InterfaceNode, legacy *ExtendedAttributeNode) Diagnostic {
	fix := autofixConstructorMember(n, legacy)
	return diagnosticAt(legacy.Name, KindConstructorMember, fix,
		"Legacy [Constructor] extended attribute on %s; use a constructor() member instead", n.Name.Lexeme())
}

// duplicateDefinitions implements this package's supplemental
// duplicate-definition diagnostic (SPEC_FULL.md §4.4): two top-level
// non-partial definitions sharing a name. Grouped and walked in sorted-name
// order (golang.org/x/exp/maps+slices, via Index.Names) so the output is
// reproducible independent of map iteration order, while the occurrences
// within a group are still reported in source order.
func (v *validator) duplicateDefinitions(doc *Document) []Diagnostic {
	byName := map[string][]Definition{}
	var order []string
	for _, d := range doc.Definitions {
		name, partial := definitionName(d)
		if name == "" || partial {
			continue
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], d)
	}

	var diags []Diagnostic
	for _, name := range v.idx.Names() {
		occurrences := byName[name]
		if len(occurrences) < 2 {
			continue
		}
		for i, d := range occurrences {
			if i == 0 {
				continue
			}
			diags = append(diags, diagnosticAt(firstToken(d), KindDuplicateDefinition, nil,
				"this is the %s declaration of %s", humanize.Ordinal(i+1), name))
		}
	}
	return diags
}

// duplicateMembers implements spec.md §4.4's "Interface member duplication"
// rule for attributes and constants: two such members sharing a name, whether
// both attributes, both constants, or one of each, within one interface (including its partials, merged by name through
// Index.Partials) is an error. Operations are excluded deliberately — WebIDL
// allows overloads, and spec.md §8 scenario 8 pins that constructors may
// repeat too.
func (v *validator) duplicateMembers(ifaceName string, members []Member) []Diagnostic {
	all := append([]Member{}, members...)
	for _, frag := range v.idx.Partials[ifaceName] {
		if p, ok := frag.(*InterfaceNode); ok {
			all = append(all, p.Members...)
		}
	}

	seen := map[string]Token{}
	var diags []Diagnostic
	for _, m := range all {
		var name Token
		switch x := m.(type) {
		case *AttributeNode:
			name = x.Name
		case *ConstNode:
			name = x.Name
		default:
			continue
		}
		if !name.IsValid() {
			continue
		}
		if _, dup := seen[name.Lexeme()]; dup {
			diags = append(diags, diagnosticAt(name, KindDuplicateMember, nil,
				"duplicate member %s", name.Lexeme()))
			continue
		}
		seen[name.Lexeme()] = name
	}
	return diags
}
