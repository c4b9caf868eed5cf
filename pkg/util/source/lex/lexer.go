// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lex

import "github.com/consensys/go-avm/pkg/util/source"

// Token classifies a given region of the text being lexed.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule associates the items matched by a scanner with a given token kind.
//
// nolint
type LexRule[T any] struct {
	scanner Scanner[T]
	kind    uint
}

// Rule constructs a lexing rule which maps matching items to a given token
// kind.
func Rule[T any](scanner Scanner[T], kind uint) LexRule[T] {
	return LexRule[T]{scanner, kind}
}

// Lexer splits a sequence of items into tokens using an ordered set of rules.
// At each position, the first rule to match determines the next token.
// Lexing stops at the first position where no rule matches, which can be
// detected by checking whether any items remain.
type Lexer[T any] struct {
	items []T
	index int
	rules []LexRule[T]
	// Next token (if already scanned)
	buffer []Token
}

// NewLexer constructs a lexer over the given items with a given set of rules.
func NewLexer[T any](items []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{items, 0, rules, nil}
}

// Index returns the current position within the items.
func (p *Lexer[T]) Index() uint {
	return uint(min(p.index, len(p.items)))
}

// Remaining returns the number of items not yet lexed.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// HasNext checks whether another token can be lexed.
func (p *Lexer[T]) HasNext() bool {
	p.scan()
	return len(p.buffer) > 0
}

// Next returns the next token and advances the lexer.  This requires that
// HasNext has returned true.
func (p *Lexer[T]) Next() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	//
	if p.index == len(p.items) {
		// Step past the end, such that an end-of-input rule matches only once.
		p.index++
	} else {
		p.index = next.Span.End()
	}
	//
	return next
}

// Collect lexes all remaining tokens in one go.
func (p *Lexer[T]) Collect() []Token {
	var tokens []Token
	//
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens
}

func (p *Lexer[T]) scan() {
	if len(p.buffer) != 0 || p.index > len(p.items) {
		return
	}
	//
	for _, r := range p.rules {
		if n := r.scanner(p.items[p.index:]); n > 0 {
			end := min(len(p.items), p.index+int(n))
			p.buffer = append(p.buffer, Token{r.kind, source.NewSpan(p.index, end)})
			//
			return
		}
	}
}
