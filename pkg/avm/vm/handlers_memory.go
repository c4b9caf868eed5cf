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
package vm

import (
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

func opSet(f *frame, insn instruction.Instruction, offsets []uint32) error {
	var (
		mem  = f.state.Memory()
		word = insn.Operand(2)
	)
	//
	tag, err := memory.TagFromByte(insn.Operand(1).Uint64())
	if err != nil {
		return err
	} else if !memory.Fits(tag, word) {
		return &memory.OutOfRangeError{Tag: tag, Word: word.Dec()}
	}
	//
	mem.Set(offsets[0], memory.NewValue(tag, word))
	//
	return nil
}

func opMov(f *frame, _ instruction.Instruction, offsets []uint32) error {
	mem := f.state.Memory()
	mem.Set(offsets[1], mem.Get(offsets[0]))
	//
	return nil
}

func opCalldataCopy(f *frame, insn instruction.Instruction, offsets []uint32) error {
	return copyFields(f, insn, offsets[0], f.env.Calldata)
}

func opReturndataSize(f *frame, _ instruction.Instruction, offsets []uint32) error {
	size := uint32(len(f.state.ReturnData()))
	f.state.Memory().Set(offsets[0], memory.NewU32(size))
	//
	return nil
}

func opReturndataCopy(f *frame, insn instruction.Instruction, offsets []uint32) error {
	return copyFields(f, insn, offsets[0], f.state.ReturnData())
}

// Copy a slice of a given source into memory at a given offset.  The start and
// size of the slice are the first two (immediate) operands of the instruction.
// Positions beyond the end of the source read as zero.
func copyFields(f *frame, insn instruction.Instruction, dst uint32, source []bn254.Element) error {
	var (
		mem   = f.state.Memory()
		start = uint64(insn.Uint32(0))
		size  = insn.Uint32(1)
	)
	//
	if err := f.consumeDynamic(insn.Opcode, size); err != nil {
		return err
	}
	//
	mem.Declare(0, uint(size))
	//
	values := make([]memory.Value, size)
	//
	for i := range values {
		if j := start + uint64(i); j < uint64(len(source)) {
			values[i] = memory.NewField(source[j])
		} else {
			values[i] = memory.NewField(bn254.Zero())
		}
	}
	//
	return mem.SetSlice(dst, values)
}
