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

// Opcode identifies the operation performed by an instruction.  The set of
// opcodes is closed, and each opcode is paired with exactly one wire format
// (see Format) which is fixed at compile time.  The numeric value of an opcode
// is its encoding as the leading byte of an instruction.
type Opcode uint8

// Arithmetic
const (
	ADD_8 Opcode = iota
	ADD_16
	SUB_8
	SUB_16
	MUL_8
	MUL_16
	DIV_8
	DIV_16
	FDIV_8
	FDIV_16
	// Comparators
	EQ_8
	EQ_16
	LT_8
	LT_16
	LTE_8
	LTE_16
	// Bitwise
	AND_8
	AND_16
	OR_8
	OR_16
	XOR_8
	XOR_16
	NOT_8
	NOT_16
	SHL_8
	SHL_16
	SHR_8
	SHR_16
	// Type conversion
	CAST_8
	CAST_16
	// Execution environment
	GETENVVAR_16
	CALLDATACOPY
	RETURNDATASIZE
	RETURNDATACOPY
	// Control flow
	JUMP_32
	JUMPI_32
	INTERNALCALL
	INTERNALRETURN
	// Machine state
	SET_8
	SET_16
	SET_32
	SET_64
	SET_128
	SET_FF
	MOV_8
	MOV_16
	// World state
	SLOAD
	SSTORE
	NULLIFIEREXISTS
	EMITNULLIFIER
	EMITNOTEHASH
	EMITUNENCRYPTEDLOG
	SENDL2TOL1MSG
	GETCONTRACTINSTANCE
	// Contract calls
	CALL
	STATICCALL
	RETURN
	REVERT_8
	REVERT_16
	// Gadgets
	POSEIDON2
	KECCAK
)

// NumOpcodes is the number of valid opcodes.  Every byte at or above this value
// is an unknown opcode.
const NumOpcodes = uint(KECCAK) + 1

// Operands used in the wire formats below.  Those marked "A" are memory
// addresses which are subject to addressing (i.e. may be indirect or
// relative), whilst those marked "I" are immediates.
var (
	a8   = Operand{UINT8, true}
	a16  = Operand{UINT16, true}
	a32  = Operand{UINT32, true}
	i8   = Operand{UINT8, false}
	i16  = Operand{UINT16, false}
	i32  = Operand{UINT32, false}
	i64  = Operand{UINT64, false}
	i128 = Operand{UINT128, false}
	iFF  = Operand{FF, false}
)

type opcodeInfo struct {
	name   string
	format Format
}

var opcodes = [NumOpcodes]opcodeInfo{
	ADD_8:               {"ADD_8", format(1, a8, a8, a8)},
	ADD_16:              {"ADD_16", format(1, a16, a16, a16)},
	SUB_8:               {"SUB_8", format(1, a8, a8, a8)},
	SUB_16:              {"SUB_16", format(1, a16, a16, a16)},
	MUL_8:               {"MUL_8", format(1, a8, a8, a8)},
	MUL_16:              {"MUL_16", format(1, a16, a16, a16)},
	DIV_8:               {"DIV_8", format(1, a8, a8, a8)},
	DIV_16:              {"DIV_16", format(1, a16, a16, a16)},
	FDIV_8:              {"FDIV_8", format(1, a8, a8, a8)},
	FDIV_16:             {"FDIV_16", format(1, a16, a16, a16)},
	EQ_8:                {"EQ_8", format(1, a8, a8, a8)},
	EQ_16:               {"EQ_16", format(1, a16, a16, a16)},
	LT_8:                {"LT_8", format(1, a8, a8, a8)},
	LT_16:               {"LT_16", format(1, a16, a16, a16)},
	LTE_8:               {"LTE_8", format(1, a8, a8, a8)},
	LTE_16:              {"LTE_16", format(1, a16, a16, a16)},
	AND_8:               {"AND_8", format(1, a8, a8, a8)},
	AND_16:              {"AND_16", format(1, a16, a16, a16)},
	OR_8:                {"OR_8", format(1, a8, a8, a8)},
	OR_16:               {"OR_16", format(1, a16, a16, a16)},
	XOR_8:               {"XOR_8", format(1, a8, a8, a8)},
	XOR_16:              {"XOR_16", format(1, a16, a16, a16)},
	NOT_8:               {"NOT_8", format(1, a8, a8)},
	NOT_16:              {"NOT_16", format(1, a16, a16)},
	SHL_8:               {"SHL_8", format(1, a8, a8, a8)},
	SHL_16:              {"SHL_16", format(1, a16, a16, a16)},
	SHR_8:               {"SHR_8", format(1, a8, a8, a8)},
	SHR_16:              {"SHR_16", format(1, a16, a16, a16)},
	CAST_8:              {"CAST_8", format(1, a8, a8, i8)},
	CAST_16:             {"CAST_16", format(1, a16, a16, i8)},
	GETENVVAR_16:        {"GETENVVAR_16", format(1, a16, i8)},
	CALLDATACOPY:        {"CALLDATACOPY", format(1, i32, i32, a32)},
	RETURNDATASIZE:      {"RETURNDATASIZE", format(1, a16)},
	RETURNDATACOPY:      {"RETURNDATACOPY", format(1, i32, i32, a32)},
	JUMP_32:             {"JUMP_32", format(0, i32)},
	JUMPI_32:            {"JUMPI_32", format(1, a16, i32)},
	INTERNALCALL:        {"INTERNALCALL", format(0, i32)},
	INTERNALRETURN:      {"INTERNALRETURN", format(0)},
	SET_8:               {"SET_8", format(1, a16, i8, i8)},
	SET_16:              {"SET_16", format(1, a16, i8, i16)},
	SET_32:              {"SET_32", format(1, a16, i8, i32)},
	SET_64:              {"SET_64", format(1, a16, i8, i64)},
	SET_128:             {"SET_128", format(1, a16, i8, i128)},
	SET_FF:              {"SET_FF", format(1, a16, i8, iFF)},
	MOV_8:               {"MOV_8", format(1, a8, a8)},
	MOV_16:              {"MOV_16", format(1, a16, a16)},
	SLOAD:               {"SLOAD", format(1, a16, a16)},
	SSTORE:              {"SSTORE", format(1, a16, a16)},
	NULLIFIEREXISTS:     {"NULLIFIEREXISTS", format(1, a16, a16, a16)},
	EMITNULLIFIER:       {"EMITNULLIFIER", format(1, a16)},
	EMITNOTEHASH:        {"EMITNOTEHASH", format(1, a16)},
	EMITUNENCRYPTEDLOG:  {"EMITUNENCRYPTEDLOG", format(1, a16, a16)},
	SENDL2TOL1MSG:       {"SENDL2TOL1MSG", format(1, a16, a16)},
	GETCONTRACTINSTANCE: {"GETCONTRACTINSTANCE", format(1, a16, a16)},
	CALL:                {"CALL", format(2, a16, a16, a16, i32, a16, i32, a16)},
	STATICCALL:          {"STATICCALL", format(2, a16, a16, a16, i32, a16, i32, a16)},
	RETURN:              {"RETURN", format(1, a16, i32)},
	REVERT_8:            {"REVERT_8", format(1, a8, i8)},
	REVERT_16:           {"REVERT_16", format(1, a16, i16)},
	POSEIDON2:           {"POSEIDON2", format(1, a16, a16, a16)},
	KECCAK:              {"KECCAK", format(1, a16, a16, a16)},
}

// OpcodeFromName returns the opcode with the given (upper case) name, such as
// "ADD_8", or false if no such opcode exists.
func OpcodeFromName(name string) (Opcode, bool) {
	for i, info := range opcodes {
		if info.name == name {
			return Opcode(i), true
		}
	}
	//
	return 0, false
}

// IsValid checks whether this opcode is known.
func (p Opcode) IsValid() bool {
	return uint(p) < NumOpcodes
}

// Format returns the wire format of this opcode.
func (p Opcode) Format() Format {
	return opcodes[p].format
}

func (p Opcode) String() string {
	if p.IsValid() {
		return opcodes[p].name
	}
	//
	return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(p))
}
