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

// Encode a sequence of instructions into bytecode.  This is the exact inverse of
// Decode, and fails with an InvalidInstructionError if any instruction does not
// conform to its wire format.
func Encode(instructions []Instruction) ([]byte, error) {
	var bytecode []byte
	//
	for _, insn := range instructions {
		var err error
		//
		if bytecode, err = EncodeOne(bytecode, insn); err != nil {
			return nil, err
		}
	}
	//
	return bytecode, nil
}

// EncodeOne appends the encoding of a single instruction onto a given buffer,
// returning the extended buffer.
func EncodeOne(buffer []byte, insn Instruction) ([]byte, error) {
	if err := insn.Validate(); err != nil {
		return nil, err
	}
	//
	format := insn.Format()
	//
	buffer = append(buffer, byte(insn.Opcode))
	// Write indirect field
	switch format.IndirectWidth {
	case 1:
		buffer = append(buffer, byte(insn.Indirect))
	case 2:
		buffer = append(buffer, byte(insn.Indirect>>8), byte(insn.Indirect))
	}
	// Write operands
	for i, op := range format.Operands {
		bytes := insn.Operands[i].Bytes32()
		buffer = append(buffer, bytes[32-op.Type.Size():]...)
	}
	//
	return buffer, nil
}
