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
package instruction

import (
	"fmt"
	"strings"

	"github.com/consensys/go-avm/pkg/util/field/bn254"
	"github.com/holiman/uint256"
)

// modulus of the BN254 scalar field, used to check FF operands.
var modulus = uint256.MustFromBig(bn254.Modulus())

// Instruction represents a single decoded instruction.  The operands of an
// instruction exclude its indirect field, which is held separately, and appear
// in the order given by its opcode's wire format.  Operands are held as 256bit
// words, since the widest operand (FF) does not fit in a machine word.
type Instruction struct {
	Opcode Opcode
	// Addressing modes of the address operands (see Format).
	Indirect uint16
	// Operands in wire format order.
	Operands []uint256.Int
}

// New constructs an instruction from a given opcode, indirect field and operand
// values.  This is primarily useful for constructing instructions whose
// operands fit within a uint64.
func New(opcode Opcode, indirect uint16, operands ...uint64) Instruction {
	var words = make([]uint256.Int, len(operands))
	//
	for i, op := range operands {
		words[i].SetUint64(op)
	}
	//
	return Instruction{opcode, indirect, words}
}

// Format returns the wire format of this instruction.
func (p Instruction) Format() Format {
	return p.Opcode.Format()
}

// Operand returns the ith operand of this instruction.
func (p Instruction) Operand(i uint) *uint256.Int {
	return &p.Operands[i]
}

// Uint32 returns the ith operand of this instruction as a uint32.  This is safe
// for any operand whose type is at most UINT32.
func (p Instruction) Uint32(i uint) uint32 {
	return uint32(p.Operands[i].Uint64())
}

// Addresses returns the (unresolved) values of all address operands in this
// instruction, in wire format order.
func (p Instruction) Addresses() []uint32 {
	var (
		format    = p.Format()
		addresses = make([]uint32, 0, len(format.Operands))
	)
	//
	for i, op := range format.Operands {
		if op.Address {
			addresses = append(addresses, uint32(p.Operands[i].Uint64()))
		}
	}
	//
	return addresses
}

// Validate checks that this instruction is well-formed with respect to its wire
// format.  Specifically, that it has the correct number of operands, that each
// operand fits within its declared width and that no unused indirect bits are
// set.
func (p Instruction) Validate() error {
	if !p.Opcode.IsValid() {
		return &InvalidInstructionError{p.Opcode, "unknown opcode"}
	}
	//
	format := p.Format()
	//
	if len(p.Operands) != len(format.Operands) {
		return &InvalidInstructionError{p.Opcode,
			fmt.Sprintf("expected %d operands, found %d", len(format.Operands), len(p.Operands))}
	} else if p.Indirect > format.MaxIndirect() {
		return &InvalidInstructionError{p.Opcode, fmt.Sprintf("invalid indirect field 0x%x", p.Indirect)}
	}
	//
	for i, op := range format.Operands {
		if err := checkOperand(op.Type, &p.Operands[i]); err != "" {
			return &InvalidInstructionError{p.Opcode, fmt.Sprintf("operand %d %s", i, err)}
		}
	}
	//
	return nil
}

// Equals checks whether two instructions are identical.
func (p Instruction) Equals(other Instruction) bool {
	if p.Opcode != other.Opcode || p.Indirect != other.Indirect || len(p.Operands) != len(other.Operands) {
		return false
	}
	//
	for i := range p.Operands {
		if !p.Operands[i].Eq(&other.Operands[i]) {
			return false
		}
	}
	//
	return true
}

// OperandStrings returns a human-readable form of each operand.  Address
// operands are written as memory references, such that an indirect operand 5
// is shown as m[m[5]], a relative one as m[r+5] and one which is both as
// m[r+m[5]].  Immediates are written as
// plain constants.
func (p Instruction) OperandStrings() []string {
	var (
		format  = p.Format()
		strs    = make([]string, len(p.Operands))
		address uint
	)
	//
	for i := range p.Operands {
		if i >= len(format.Operands) || !format.Operands[i].Address {
			strs[i] = immediateString(&p.Operands[i])
			continue
		}
		//
		str := p.Operands[i].Dec()
		//
		if p.Indirect&(1<<(2*address)) != 0 {
			str = fmt.Sprintf("m[%s]", str)
		}
		//
		if p.Indirect&(1<<(2*address+1)) != 0 {
			str = fmt.Sprintf("r+%s", str)
		}
		//
		strs[i] = fmt.Sprintf("m[%s]", str)
		address++
	}
	//
	return strs
}

func (p Instruction) String() string {
	operands := p.OperandStrings()
	//
	if len(operands) == 0 {
		return p.Opcode.String()
	}
	//
	return fmt.Sprintf("%s %s", p.Opcode, strings.Join(operands, ", "))
}

func immediateString(word *uint256.Int) string {
	if word.IsUint64() {
		return word.Dec()
	}
	//
	return word.Hex()
}

// Check whether a given word fits within a given operand type, returning a
// description of the problem if not.
func checkOperand(kind OperandType, word *uint256.Int) string {
	if kind == FF && !word.Lt(modulus) {
		return "is not a canonical field element"
	} else if uint(word.BitLen()) > kind.Bits() {
		return fmt.Sprintf("does not fit in %s", kind)
	}
	//
	return ""
}
