// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webidl

import "fmt"

// DiagnosticKind is the short, stable identifier spec.md §4.4 assigns to
// each validation rule.
type DiagnosticKind string

const (
	KindRequireExposed        DiagnosticKind = "require-exposed"
	KindConstructorMember     DiagnosticKind = "constructor-member"
	KindNoConstructibleGlobal DiagnosticKind = "no-constructible-global"
	KindIncompleteOp          DiagnosticKind = "incomplete-op"
	KindDuplicateDefinition   DiagnosticKind = "duplicate-definition"
	KindDuplicateMember       DiagnosticKind = "duplicate-member"
	KindUnknownTypeReference  DiagnosticKind = "unknown-type-reference"
	KindOptionalRequiredDict  DiagnosticKind = "optional-required-dictionary"
)

// Autofix is a deferred tree mutation a Diagnostic may offer: invoking it
// edits the owning Document in place and returns nothing, per spec.md §4.5.
// Two autofixes that touch overlapping regions may conflict; this package
// does not guarantee commutativity, and callers must re-parse/re-validate
// between applications (spec.md §5).
type Autofix func()

// Diagnostic is one validation finding: a kind, a human-readable message, a
// source position (line plus a printable context window), and an optional
// autofix. Diagnostics are data only; this package never prints them.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Line    int
	Context string
	Autofix Autofix
}

// HasAutofix reports whether d carries an autofix.
func (d Diagnostic) HasAutofix() bool { return d.Autofix != nil }

// diagnosticAt builds a Diagnostic bound to tok's position, reusing the same
// context-window rendering errors.go's SyntaxError uses (spec.md §7:
// "Validation diagnostics render the same way at the token bound to the
// rule").
func diagnosticAt(tok Token, kind DiagnosticKind, fix Autofix, format string, args ...interface{}) Diagnostic {
	msg := fmt.Sprintf(format, args...)
	var ctx string
	var line int
	if tok.IsValid() {
		ctx = contextAroundToken(tok.stream, tok.Index())
		line = tok.Line()
	}
	return Diagnostic{Kind: kind, Message: msg, Line: line, Context: ctx, Autofix: fix}
}
