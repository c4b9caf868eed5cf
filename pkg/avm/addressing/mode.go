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
package addressing

import (
	"fmt"
	"math"

	"github.com/consensys/go-avm/pkg/avm/memory"
)

// BaseRegister is the memory offset holding the base address used for relative
// addressing.  The base register must always hold a U32 value when relative
// addressing is used.
const BaseRegister = uint32(0)

// Mode captures the addressing modes of every address operand in an
// instruction.  For the nth address operand, bit 2n indicates it is indirect
// (i.e. the real offset is read from memory at the operand's offset) and bit
// 2n+1 that it is relative (i.e. the base register is added to the offset).
type Mode uint16

// IsIndirect checks whether the nth address operand is indirect.
func (p Mode) IsIndirect(n uint) bool {
	return p&(1<<(2*n)) != 0
}

// IsRelative checks whether the nth address operand is relative.
func (p Mode) IsRelative(n uint) bool {
	return p&(1<<(2*n+1)) != 0
}

// Count returns the number of indirect and relative operands amongst the first
// n address operands.  This determines the addressing surcharge in gas.
func (p Mode) Count(n uint) (indirect uint, relative uint) {
	for i := range n {
		if p.IsIndirect(i) {
			indirect++
		}
		//
		if p.IsRelative(i) {
			relative++
		}
	}
	//
	return indirect, relative
}

// Resolve the given (raw) address operands into concrete memory offsets.  For
// each operand, indirection is resolved first by reading the U32 value stored
// at the operand's offset.  Then, if relative, the value held in the base
// register is added.  Resolution fails with an InvalidAddressingError if an
// indirect (or base) cell does not hold a U32, or if adding the base overflows
// the address space.
func (p Mode) Resolve(operands []uint32, mem *memory.Memory) ([]uint32, error) {
	var (
		resolved = make([]uint32, len(operands))
		base     uint32
		hasBase  bool
	)
	//
	for i, offset := range operands {
		n := uint(i)
		//
		if p.IsIndirect(n) {
			ptr, err := readU32(mem, offset)
			if err != nil {
				return nil, &InvalidAddressingError{n, offset, err}
			}
			//
			offset = ptr
		}
		//
		if p.IsRelative(n) {
			if !hasBase {
				var err error
				//
				if base, err = readU32(mem, BaseRegister); err != nil {
					return nil, &InvalidAddressingError{n, offset, err}
				}
				//
				hasBase = true
			}
			//
			if uint64(offset)+uint64(base) > math.MaxUint32 {
				return nil, &InvalidAddressingError{n, offset,
					fmt.Errorf("base %d plus offset %d overflows", base, offset)}
			}
			//
			offset += base
		}
		//
		resolved[i] = offset
	}
	//
	return resolved, nil
}

func readU32(mem *memory.Memory, offset uint32) (uint32, error) {
	if err := mem.CheckTag(memory.U32, offset); err != nil {
		return 0, err
	}
	//
	return uint32(mem.Get(offset).Uint64()), nil
}

// InvalidAddressingError signals that an address operand could not be resolved.
type InvalidAddressingError struct {
	// Operand is the index of the offending address operand.
	Operand uint
	// Offset being resolved when the failure occurred.
	Offset uint32
	// Err is the underlying cause.
	Err error
}

func (p *InvalidAddressingError) Error() string {
	return fmt.Sprintf("invalid addressing for operand %d (offset %d): %s", p.Operand, p.Offset, p.Err)
}

func (p *InvalidAddressingError) Unwrap() error {
	return p.Err
}
