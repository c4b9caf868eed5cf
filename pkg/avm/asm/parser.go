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
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/util/source"
	"github.com/consensys/go-avm/pkg/util/source/lex"
	"github.com/holiman/uint256"
)

// Assemble parses a given assembly text into a program.  Each line holds at
// most one instruction, written as an opcode followed by its operands separated
// by commas.  Address operands are written m[x] (direct), m[m[x]] (indirect),
// m[r+x] (relative) or m[r+m[x]] (relative indirect), whilst immediates are
// numbers, tag names (e.g. U32), environment variable names (e.g. SENDER) or
// labels.  A label is declared by "name:" and denotes the position of the
// following instruction.  Comments start with ';' and run to the end of line.
// For example:
//
//	      SET_32 m[0], U32, 10
//	loop: SUB_8 m[0], m[1], m[0]
//	      JUMPI_32 m[0], loop
func Assemble(text string) ([]instruction.Instruction, error) {
	return AssembleFile(source.NewSourceFile("", []byte(text)))
}

// AssembleFile is as for Assemble, except that it parses a given source file.
// Any syntax errors are reported against that file.
func AssembleFile(srcfile *source.File) ([]instruction.Instruction, error) {
	parser, err := newParser(srcfile)
	if err != nil {
		return nil, err
	}
	//
	return parser.parse()
}

// Disassemble a program into assembly text, such that assembling the result
// gives back the original program.
func Disassemble(program []instruction.Instruction) string {
	var builder strings.Builder
	//
	for _, insn := range program {
		builder.WriteString(insn.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

type parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
	// Declared labels
	labels map[string]uint32
	// Label uses awaiting resolution
	uses []labelUse
	// Instructions parsed so far
	program []instruction.Instruction
}

// Use of a label as the ith operand of a given instruction.
type labelUse struct {
	token   lex.Token
	insn    int
	operand int
}

// Operand as written, before it is checked against the instruction's format.
type operand struct {
	word     uint256.Int
	address  bool
	indirect bool
	relative bool
	// Label used (if any)
	label *lex.Token
}

func newParser(srcfile *source.File) (*parser, error) {
	tokens, err := Lex(srcfile)
	if err != nil {
		return nil, err
	}
	//
	return &parser{srcfile: srcfile, tokens: tokens, labels: make(map[string]uint32)}, nil
}

func (p *parser) parse() ([]instruction.Instruction, error) {
	for p.lookahead().Kind != END_OF {
		if p.match(NEWLINE) {
			continue
		}
		//
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}
	// Resolve labels
	for _, use := range p.uses {
		pc, ok := p.labels[p.string(use.token)]
		if !ok {
			return nil, p.syntaxError(use.token, "unknown label")
		}
		//
		p.program[use.insn].Operands[use.operand].SetUint64(uint64(pc))
		//
		if err := p.program[use.insn].Validate(); err != nil {
			return nil, p.syntaxError(use.token, err.Error())
		}
	}
	//
	return p.program, nil
}

func (p *parser) parseLine() error {
	// Label declaration
	if p.follows(IDENTIFIER, COLON) {
		token := p.next()
		name := p.string(token)
		//
		if _, ok := symbol(name); ok {
			return p.syntaxError(token, "reserved name")
		} else if _, ok := p.labels[name]; ok {
			return p.syntaxError(token, "duplicate label")
		}
		//
		p.labels[name] = uint32(len(p.program))
		p.index++
		//
		if p.match(NEWLINE) || p.lookahead().Kind == END_OF {
			return nil
		}
	}
	//
	insn, err := p.parseInstruction()
	if err != nil {
		return err
	}
	//
	p.program = append(p.program, insn)
	//
	if p.lookahead().Kind != END_OF {
		_, err = p.expect(NEWLINE)
	}
	//
	return err
}

func (p *parser) parseInstruction() (instruction.Instruction, error) {
	var (
		insn     instruction.Instruction
		operands []operand
		start    = p.index
	)
	//
	token, err := p.expect(IDENTIFIER)
	if err != nil {
		return insn, err
	}
	//
	opcode, ok := instruction.OpcodeFromName(strings.ToUpper(p.string(token)))
	if !ok {
		return insn, p.syntaxError(token, "unknown opcode")
	}
	//
	for p.lookahead().Kind != NEWLINE && p.lookahead().Kind != END_OF {
		if len(operands) > 0 {
			if _, err := p.expect(COMMA); err != nil {
				return insn, err
			}
		}
		//
		op, err := p.parseOperand()
		if err != nil {
			return insn, err
		}
		//
		operands = append(operands, op)
	}
	//
	insn, err = p.build(opcode, operands)
	if err != nil {
		return insn, p.spanError(start, err.Error())
	}
	//
	return insn, nil
}

// Construct an instruction from its parsed operands, checking them against its
// format.
func (p *parser) build(opcode instruction.Opcode, operands []operand) (instruction.Instruction, error) {
	var (
		format  = opcode.Format()
		words   = make([]uint256.Int, len(operands))
		mode    uint16
		address uint
	)
	//
	if len(operands) != len(format.Operands) {
		return instruction.Instruction{}, fmt.Errorf("expected %d operands, found %d", len(format.Operands),
			len(operands))
	}
	//
	for i, op := range operands {
		if op.address != format.Operands[i].Address {
			if op.address {
				return instruction.Instruction{}, fmt.Errorf("operand %d should be immediate", i+1)
			}
			//
			return instruction.Instruction{}, fmt.Errorf("operand %d should be an address", i+1)
		}
		//
		if op.indirect {
			mode |= 1 << (2 * address)
		}
		//
		if op.relative {
			mode |= 1 << (2*address + 1)
		}
		//
		if op.address {
			address++
		}
		//
		if op.label != nil {
			p.uses = append(p.uses, labelUse{*op.label, len(p.program), i})
		}
		//
		words[i] = op.word
	}
	//
	insn := instruction.Instruction{Opcode: opcode, Indirect: mode, Operands: words}
	//
	return insn, insn.Validate()
}

func (p *parser) parseOperand() (operand, error) {
	var op operand
	//
	if p.follows(IDENTIFIER, LSQUARE) {
		return p.parseAddress()
	}
	//
	token := p.next()
	//
	switch token.Kind {
	case NUMBER:
		word, err := p.number(token)
		op.word = word
		//
		return op, err
	case IDENTIFIER:
		if value, ok := symbol(p.string(token)); ok {
			op.word.SetUint64(value)
		} else {
			op.label = &token
		}
		//
		return op, nil
	default:
		return op, p.syntaxError(token, "expected operand")
	}
}

// Parse an address operand, such as m[r+m[1]].
func (p *parser) parseAddress() (operand, error) {
	var op = operand{address: true}
	//
	if err := p.expectMemory(); err != nil {
		return op, err
	}
	// Relative?
	if p.follows(IDENTIFIER, ADD) {
		if token := p.next(); p.string(token) != "r" {
			return op, p.syntaxError(token, "expected base register")
		}
		//
		p.index++
		op.relative = true
	}
	// Indirect?
	if p.follows(IDENTIFIER, LSQUARE) {
		if err := p.expectMemory(); err != nil {
			return op, err
		}
		//
		op.indirect = true
	}
	//
	token, err := p.expect(NUMBER)
	if err != nil {
		return op, err
	} else if op.word, err = p.number(token); err != nil {
		return op, err
	}
	//
	if op.indirect {
		if _, err := p.expect(RSQUARE); err != nil {
			return op, err
		}
	}
	//
	_, err = p.expect(RSQUARE)
	//
	return op, err
}

// Expect "m[".
func (p *parser) expectMemory() error {
	token, err := p.expect(IDENTIFIER)
	//
	if err != nil {
		return err
	} else if p.string(token) != "m" {
		return p.syntaxError(token, "expected memory")
	}
	//
	_, err = p.expect(LSQUARE)
	//
	return err
}

// Get the text representing the given token as a string.
func (p *parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Get the value of a given number token.
func (p *parser) number(token lex.Token) (uint256.Int, error) {
	var (
		number big.Int
		word   uint256.Int
	)
	//
	number.SetString(strings.ReplaceAll(p.string(token), "_", ""), 0)
	//
	if word.SetFromBig(&number) {
		return word, p.syntaxError(token, "number too large")
	}
	//
	return word, nil
}

// Lookahead returns the next token.  This must exist because END_OF is always
// appended at the end of the token stream.
func (p *parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

func (p *parser) next() lex.Token {
	token := p.tokens[p.index]
	//
	if token.Kind != END_OF {
		p.index++
	}
	//
	return token
}

// Expect returns an error if the next token is not what was expected.
func (p *parser) expect(kind uint) (lex.Token, error) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		return lookahead, p.syntaxError(lookahead, "unexpected token")
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether the given tokens are next.
func (p *parser) follows(kinds ...uint) bool {
	for i, kind := range kinds {
		if n := i + p.index; n >= len(p.tokens) || p.tokens[n].Kind != kind {
			return false
		}
	}
	//
	return true
}

func (p *parser) syntaxError(token lex.Token, msg string) *source.SyntaxError {
	return p.srcfile.SyntaxError(token.Span, msg)
}

// Construct a syntax error covering all tokens from a given index up to (but
// not including) the current position.
func (p *parser) spanError(start int, msg string) *source.SyntaxError {
	var (
		first = p.tokens[start].Span.Start()
		last  = p.tokens[max(start, p.index-1)].Span.End()
	)
	//
	return p.srcfile.SyntaxError(source.NewSpan(first, last), msg)
}

// Determine the value of a predefined name, which is either a tag or an
// environment variable.
func symbol(name string) (uint64, bool) {
	for t := range memory.NumTags {
		if memory.Tag(t).String() == name {
			return uint64(t), true
		}
	}
	//
	for v := range env.NumVars {
		if env.Var(v).String() == name {
			return uint64(v), true
		}
	}
	//
	return 0, false
}
