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
)

// OperandType identifies the fixed-width big-endian encoding of an operand.
type OperandType uint8

const (
	// UINT8 is a single byte operand.
	UINT8 OperandType = iota
	// UINT16 is a two byte operand.
	UINT16
	// UINT32 is a four byte operand.
	UINT32
	// UINT64 is an eight byte operand.
	UINT64
	// UINT128 is a sixteen byte operand.
	UINT128
	// FF is a 32 byte operand holding a canonical field element.
	FF
)

var operandSizes = [...]uint{1, 2, 4, 8, 16, 32}

var operandNames = [...]string{"UINT8", "UINT16", "UINT32", "UINT64", "UINT128", "FF"}

// Size returns the number of bytes used to encode an operand of this type.
func (p OperandType) Size() uint {
	return operandSizes[p]
}

// Bits returns the maximum bitwidth of an operand of this type.
func (p OperandType) Bits() uint {
	return 8 * operandSizes[p]
}

func (p OperandType) String() string {
	return operandNames[p]
}

// Operand describes one operand of a wire format.  An address operand is a
// memory offset which is subject to addressing (i.e. it may be indirect and/or
// relative), whilst any other operand is an immediate used as is.
type Operand struct {
	Type    OperandType
	Address bool
}

func (p Operand) String() string {
	if p.Address {
		return fmt.Sprintf("A:%s", p.Type)
	}
	//
	return fmt.Sprintf("I:%s", p.Type)
}

// Format describes the wire format of an opcode.  Every instruction begins with
// its opcode byte followed by an (optional) indirect field, and then its
// operands in declared order.  The indirect field is either absent, one byte
// (INDIRECT8) or two bytes (INDIRECT16).  It holds two bits for each address
// operand: bit 2n indicates the n-th address operand is indirect, and bit 2n+1
// that it is relative.
type Format struct {
	// Width of the indirect field in bytes (0, 1 or 2).
	IndirectWidth uint
	// Operands following the indirect field.
	Operands []Operand
}

func format(indirect uint, operands ...Operand) Format {
	f := Format{indirect, operands}
	// Sanity check there are enough bits for the addressing modes.
	if f.NumAddresses()*2 > indirect*8 {
		panic(fmt.Sprintf("insufficient indirect bits for format %s", f.String()))
	}
	//
	return f
}

// Size returns the number of bytes occupied by an instruction of this format,
// including its opcode byte.
func (p Format) Size() uint {
	size := 1 + p.IndirectWidth
	//
	for _, op := range p.Operands {
		size += op.Type.Size()
	}
	//
	return size
}

// NumAddresses returns the number of address operands in this format.
func (p Format) NumAddresses() uint {
	var count uint
	//
	for _, op := range p.Operands {
		if op.Address {
			count++
		}
	}
	//
	return count
}

// MaxIndirect returns the largest value permitted in the indirect field of this
// format.  Bits beyond those used by address operands must be zero.
func (p Format) MaxIndirect() uint16 {
	return uint16((uint(1) << (2 * p.NumAddresses())) - 1)
}

func (p Format) String() string {
	var builder strings.Builder
	//
	switch p.IndirectWidth {
	case 1:
		builder.WriteString("INDIRECT8")
	case 2:
		builder.WriteString("INDIRECT16")
	}
	//
	for i, op := range p.Operands {
		if i != 0 || p.IndirectWidth != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(op.String())
	}
	//
	return builder.String()
}
