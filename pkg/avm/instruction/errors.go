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

import "fmt"

// MalformedBytecodeError signals that bytecode could not be decoded because an
// instruction was truncated or carried an invalid operand.
type MalformedBytecodeError struct {
	// Byte offset of the offending instruction.
	Offset uint
	// Opcode of the offending instruction.
	Opcode Opcode
	// Reason describes what was wrong.
	Reason string
}

func (p *MalformedBytecodeError) Error() string {
	return fmt.Sprintf("malformed bytecode at offset %d (%s): %s", p.Offset, p.Opcode, p.Reason)
}

// TruncatedBytecodeError signals an attempt to decode an instruction at an
// offset beyond the end of bytecode.
type TruncatedBytecodeError struct {
	Offset uint
}

func (p *TruncatedBytecodeError) Error() string {
	return fmt.Sprintf("unexpected end of bytecode at offset %d", p.Offset)
}

// UnknownOpcodeError signals that bytecode contains a byte, in opcode position,
// which is not a known opcode.
type UnknownOpcodeError struct {
	Offset uint
	Byte   uint8
}

func (p *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%02x at offset %d", p.Byte, p.Offset)
}

// InvalidInstructionError signals that an instruction does not conform to its
// opcode's wire format, and hence cannot be encoded.
type InvalidInstructionError struct {
	Opcode Opcode
	Reason string
}

func (p *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid %s instruction: %s", p.Opcode, p.Reason)
}
