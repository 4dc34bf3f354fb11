// Copyright 2024 The WebIDL Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webidl implements the core of a WebIDL processor: a tokenizer, a
// recursive-descent parser that produces a trivia-preserving concrete syntax
// tree, and a semantic validator that walks that tree to report diagnostics
// and optionally apply autofixes.
//
// The three public entry points are Parse, Validate and Write. Parse turns
// source text into a Document; Validate walks a Document and yields
// Diagnostics, some carrying an Autofix; Write turns a Document back into
// text, reproducing the original byte-for-byte when nothing was mutated.
//
// File I/O, CLI argument handling and distribution bundling are not this
// package's concern; callers wire those around Parse/Validate/Write.
package webidl // import "github.com/stevedorries/go-webidl"
