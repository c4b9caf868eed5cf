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
package asm

import (
	"slices"

	"github.com/consensys/go-avm/pkg/util/source"
	"github.com/consensys/go-avm/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals spaces or tabs
const WHITESPACE uint = 1

// NEWLINE signals "\n"
const NEWLINE uint = 2

// COMMENT signals "; ... \n"
const COMMENT uint = 3

// COMMA signals ","
const COMMA uint = 4

// COLON signals ":"
const COLON uint = 5

// LSQUARE signals "["
const LSQUARE uint = 6

// RSQUARE signals "]"
const RSQUARE uint = 7

// ADD signals "+"
const ADD uint = 8

// NUMBER signals a decimal or hexadecimal number
const NUMBER uint = 9

// IDENTIFIER signals an opcode, label or tag name
const IDENTIFIER uint = 10

var (
	whitespace = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r')))
	// Comments start with ';' and continue until a newline or EOF.
	comment = lex.And(lex.Unit(';'), lex.Until('\n'))
)

// Numbers are either hexadecimal (with a "0x" prefix) or decimal, and may
// contain '_' for readability.
var (
	digit    = lex.Within('0', '9')
	hexDigit = lex.Or(digit, lex.Within('a', 'f'), lex.Within('A', 'F'))
	number   = lex.Or(
		lex.SequenceNullableLast(lex.String("0x"), hexDigit, lex.Many(lex.Or(hexDigit, lex.Unit('_')))),
		lex.SequenceNullableLast(digit, lex.Many(lex.Or(digit, lex.Unit('_')))),
	)
)

var (
	identifierStart = lex.Or(lex.Unit('_'), lex.Within('a', 'z'), lex.Within('A', 'Z'))
	identifier      = lex.And(identifierStart, lex.Many(lex.Or(identifierStart, digit)))
)

var rules = []lex.LexRule[rune]{
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, which is
// always terminated by END_OF.  Whitespace and comments are discarded.
func Lex(srcfile *source.File) ([]lex.Token, error) {
	var (
		lexer  = lex.NewLexer(srcfile.Contents(), rules...)
		tokens = lexer.Collect()
	)
	// Anything left over could not be lexed
	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		return nil, srcfile.SyntaxError(source.NewSpan(start, start+1), "unknown text encountered")
	}
	//
	return slices.DeleteFunc(tokens, func(t lex.Token) bool {
		return t.Kind == WHITESPACE || t.Kind == COMMENT
	}), nil
}
