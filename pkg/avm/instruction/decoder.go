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

	"github.com/holiman/uint256"
)

// Decode a given bytecode buffer into a sequence of instructions.  Each
// instruction is read by consuming its opcode byte, and then exactly the bytes
// of its wire format.  This fails if any instruction is truncated (or carries an
// invalid operand) with a MalformedBytecodeError, or if an unknown opcode is
// encountered with an UnknownOpcodeError.  There is no partial decoding: either
// the entire buffer is decoded, or an error is returned.
func Decode(bytecode []byte) ([]Instruction, error) {
	var (
		instructions []Instruction
		offset       uint
	)
	//
	for offset < uint(len(bytecode)) {
		insn, size, err := DecodeOne(bytecode, offset)
		//
		if err != nil {
			return nil, err
		}
		//
		instructions = append(instructions, insn)
		offset += size
	}
	//
	return instructions, nil
}

// DecodeOne decodes the single instruction starting at a given offset within a
// bytecode buffer, returning it along with the number of bytes it occupies.
func DecodeOne(bytecode []byte, offset uint) (Instruction, uint, error) {
	var (
		insn  Instruction
		start = offset
	)
	//
	if offset >= uint(len(bytecode)) {
		return insn, 0, &TruncatedBytecodeError{offset}
	}
	// Read opcode
	insn.Opcode = Opcode(bytecode[offset])
	//
	if !insn.Opcode.IsValid() {
		return insn, 0, &UnknownOpcodeError{offset, bytecode[offset]}
	}
	//
	var (
		format = insn.Opcode.Format()
		size   = format.Size()
	)
	//
	if uint(len(bytecode))-offset < size {
		return insn, 0, &MalformedBytecodeError{start, insn.Opcode,
			fmt.Sprintf("expected %d bytes, found %d", size, uint(len(bytecode))-offset)}
	}
	//
	offset++
	// Read indirect field
	for range format.IndirectWidth {
		insn.Indirect = (insn.Indirect << 8) | uint16(bytecode[offset])
		offset++
	}
	//
	if insn.Indirect > format.MaxIndirect() {
		return insn, 0, &MalformedBytecodeError{start, insn.Opcode,
			fmt.Sprintf("invalid indirect field 0x%x", insn.Indirect)}
	}
	// Read operands
	insn.Operands = make([]uint256.Int, len(format.Operands))
	//
	for i, op := range format.Operands {
		n := op.Type.Size()
		insn.Operands[i].SetBytes(bytecode[offset : offset+n])
		//
		if err := checkOperand(op.Type, &insn.Operands[i]); err != "" {
			return insn, 0, &MalformedBytecodeError{start, insn.Opcode, fmt.Sprintf("operand %d %s", i, err)}
		}
		//
		offset += n
	}
	//
	return insn, size, nil
}
