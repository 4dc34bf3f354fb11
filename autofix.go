// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import (
	"bytes"
	"strings"

	"modernc.org/strutil"
)

// autofixRequireExposed builds the require-exposed autofix: inserting
// "[Exposed=Window]" ahead of iface, either as a brand new extended
// attribute list (when iface has none) or spliced as the first item of an
// existing one. Grounded on spec.md §4.5: synthesize fresh tokens by
// tokenizing a short literal fragment, then splice them into the tree,
// repairing trivia so indentation is preserved.
func autofixRequireExposed(iface *InterfaceNode) Autofix {
	return func() {
		if iface.ExtAttrs != nil {
			spliceExtAttr(iface.ExtAttrs, "Exposed", "Window")
			return
		}

		leading := firstToken(iface).Trivia()
		frag, err := Tokenize([]byte("[Exposed=Window]"), "<autofix:require-exposed>")
		if err != nil {
			return
		}
		open := frag.At(0)
		name := frag.At(1)
		assign := frag.At(2)
		value := frag.At(3)
		closeTok := frag.At(4)
		open.SetTrivia(leading)

		list := &ExtendedAttributeListNode{Open: open, Close: closeTok}
		attr := &ExtendedAttributeNode{Name: name, Assign: assign, Value: value}
		list.List.Items = []*ExtendedAttributeNode{attr}
		attach[*ExtendedAttributeNode](list, attr)

		leadTok := iface.Interface
		if iface.Partial.IsValid() {
			leadTok = iface.Partial
		}
		leadTok.SetTrivia("\n" + leadingIndent(leadTok))

		iface.ExtAttrs = list
		attach[*ExtendedAttributeListNode](iface, list)
	}
}

// spliceExtAttr inserts a bare "name=value" extended attribute as the first
// item of an existing, non-empty extended attribute list, comma-separating
// it from whatever followed.
func spliceExtAttr(list *ExtendedAttributeListNode, name, value string) {
	frag, err := Tokenize([]byte(name+"="+value), "<autofix:splice>")
	if err != nil {
		return
	}
	nameTok, assignTok, valueTok := frag.At(0), frag.At(1), frag.At(2)
	attr := &ExtendedAttributeNode{Name: nameTok, Assign: assignTok, Value: valueTok}

	commaFrag, err := Tokenize([]byte(", "), "<autofix:splice-sep>")
	if err != nil {
		return
	}
	comma := commaFrag.At(0)

	if len(list.List.Items) > 0 {
		nameTok.SetTrivia(firstToken(list.List.Items[0]).Trivia())
		firstToken(list.List.Items[0]).SetTrivia(" ")
	}

	list.List.Items = append([]*ExtendedAttributeNode{attr}, list.List.Items...)
	list.List.Seps = append([]Token{comma}, list.List.Seps...)
	attach[*ExtendedAttributeNode](list, attr)
}

// autofixConstructorMember builds the legacy-[Constructor]-to-constructor()
// autofix: parse a synthetic "constructor(args);" fragment with indentation
// copied from the interface's existing members (or a default two-space
// indent for an interface with none yet), copy the legacy attribute's
// arguments onto it, insert it after the last existing constructor, and
// remove the legacy extended attribute.
func autofixConstructorMember(iface *InterfaceNode, legacy *ExtendedAttributeNode) Autofix {
	return func() {
		indent := memberIndent(iface)
		argText := renderArguments(legacy.Arguments)
		if strings.Contains(argText, "\n") {
			argText = reindent(indent, argText)
		}
		src := "\n" + indent + "constructor(" + argText + ");"

		frag, err := Tokenize([]byte(src), "<autofix:constructor>")
		if err != nil {
			return
		}
		fp := &parser{stream: frag, sourceName: "<autofix:constructor>", input: []byte(src)}
		m, ok := fp.constructorMember(nil)
		if !ok || fp.failed {
			return
		}
		ctor := m.(*ConstructorNode)

		insertAt := 0
		for i, mm := range iface.Members {
			if _, ok := mm.(*ConstructorNode); ok {
				insertAt = i + 1
			}
		}
		members := make([]Member, 0, len(iface.Members)+1)
		members = append(members, iface.Members[:insertAt]...)
		members = append(members, ctor)
		members = append(members, iface.Members[insertAt:]...)
		iface.Members = members
		attach[Member](iface, ctor)

		removeLegacyConstructorAttr(iface, legacy)
	}
}

// removeLegacyConstructorAttr splices legacy out of iface.ExtAttrs, fixing
// up separator trivia, and collapses the extended attribute list entirely
// (handing its leading trivia to whatever now leads the interface) if it
// becomes empty.
func removeLegacyConstructorAttr(iface *InterfaceNode, legacy *ExtendedAttributeNode) {
	list := iface.ExtAttrs
	if list == nil {
		return
	}
	idx := -1
	for i, a := range list.List.Items {
		if a == legacy {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	items := list.List.Items
	seps := list.List.Seps
	n := len(items)

	switch {
	case n == 1:
		leadTok := iface.Interface
		if iface.Partial.IsValid() {
			leadTok = iface.Partial
		}
		leadTok.SetTrivia(list.Open.Trivia())
		iface.ExtAttrs = nil
		return
	case idx == n-1:
		list.List.Items = items[:idx]
		list.List.Seps = seps[:idx-1]
	default:
		leading := firstToken(items[idx]).Trivia()
		firstToken(items[idx+1]).SetTrivia(leading)
		list.List.Items = append(append([]*ExtendedAttributeNode{}, items[:idx]...), items[idx+1:]...)
		list.List.Seps = append(append([]Token{}, seps[:idx]...), seps[idx+1:]...)
	}
}

// memberIndent derives the indentation to use for a newly synthesized
// member from the first existing member's leading trivia, falling back to
// two spaces for an interface that has none yet.
func memberIndent(iface *InterfaceNode) string {
	if len(iface.Members) > 0 {
		if ind := leadingIndent(firstToken(iface.Members[0])); ind != "" {
			return ind
		}
	}
	return "  "
}

// leadingIndent returns the run of whitespace after the last newline in
// tok's leading trivia, i.e. the indentation tok was written at.
func leadingIndent(tok Token) string {
	triv := tok.Trivia()
	i := strings.LastIndexByte(triv, '\n')
	if i == -1 {
		return ""
	}
	return triv[i+1:]
}

// renderArguments reconstructs the source text of an argument list (without
// its enclosing parens) by rendering args.List directly: now that
// reflectutil.go's walk interleaves a List[T]'s Items and Seps pairwise,
// this reuses the legacy attribute's own comma tokens (and their trivia)
// instead of hand-joining argument text with a literal ", ", trimming only
// the first argument's leading trivia so it reads cleanly when spliced into
// fresh parens.
func renderArguments(args *ArgumentsNode) string {
	if args == nil {
		return ""
	}
	return renderNode(args.List)
}

// renderNode concatenates every token reachable from n (trivia + lexeme),
// trimming the very first token's leading trivia. Grounded on write.go's
// reflective Write, reused here at fragment scale for autofix synthesis.
func renderNode(n interface{}) string {
	var out []byte
	for i, t := range collectTokens(n) {
		triv := t.Trivia()
		if i == 0 {
			triv = strings.TrimSpace(triv)
		}
		out = append(out, triv...)
		out = append(out, t.Lexeme()...)
	}
	return string(out)
}

// reindent re-renders body through a modernc.org/strutil IndentFormatter so
// any embedded newline in a synthesized fragment (e.g. a multi-argument
// constructor whose arguments themselves carried extended-attribute line
// breaks) picks up indent on continuation lines, rather than this package
// hand-rolling the same bookkeeping IndentFormatter already does.
func reindent(indent, body string) string {
	var buf bytes.Buffer
	w := strutil.IndentFormatter(&buf, indent)
	_, _ = w.Write([]byte(body))
	return buf.String()
}
