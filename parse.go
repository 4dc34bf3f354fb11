// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

// Parse tokenizes and parses input, producing the concrete syntax tree
// rooted at the returned *Document. sourceName labels the input in any
// *SyntaxError raised; it may be empty. Parse wires Tokenize and the
// recursive-descent parser together, matching spec.md §6's parse(input) →
// root contract: any lexical error, or a syntax error that leaves input
// unconsumed, comes back as an *SyntaxError.
func Parse(input []byte, sourceName string) (*Document, error) {
	stream, err := Tokenize(input, sourceName)
	if err != nil {
		return nil, err
	}
	p := &parser{stream: stream, sourceName: sourceName, input: input}
	doc := p.parseDocument()
	if p.failed {
		return nil, p.err
	}
	if p.ix != stream.Len() {
		p.errorf("Unexpected trailing input")
		return nil, p.err
	}
	return doc, nil
}

// ParseWithStats behaves like Parse but also returns bookkeeping about the
// parse, for callers instrumenting grammar complexity or CI regression
// budgets.
func ParseWithStats(input []byte, sourceName string) (*Document, ParserStats, error) {
	stream, err := Tokenize(input, sourceName)
	if err != nil {
		return nil, ParserStats{}, err
	}
	p := &parser{stream: stream, sourceName: sourceName, input: input}
	doc := p.parseDocument()
	stats := ParserStats{MaxBacktrack: p.maxBack}
	if p.failed {
		return nil, stats, p.err
	}
	if p.ix != stream.Len() {
		p.errorf("Unexpected trailing input")
		return nil, stats, p.err
	}
	return doc, stats, nil
}
