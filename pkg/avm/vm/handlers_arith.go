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
)

// Construct a handler for a binary operation which reads its operands from the
// first two address operands, and writes its result to the third.
func binary(op func(memory.Value, memory.Value) (memory.Value, error)) func(*frame, instruction.Instruction,
	[]uint32) error {
	//
	return func(f *frame, _ instruction.Instruction, offsets []uint32) error {
		var (
			mem = f.state.Memory()
			lhs = mem.Get(offsets[0])
			rhs = mem.Get(offsets[1])
		)
		//
		result, err := op(lhs, rhs)
		if err != nil {
			return err
		}
		//
		mem.Set(offsets[2], result)
		//
		return nil
	}
}

func opNot(f *frame, _ instruction.Instruction, offsets []uint32) error {
	mem := f.state.Memory()
	//
	result, err := memory.Not(mem.Get(offsets[0]))
	if err != nil {
		return err
	}
	//
	mem.Set(offsets[1], result)
	//
	return nil
}

func opCast(f *frame, insn instruction.Instruction, offsets []uint32) error {
	var mem = f.state.Memory()
	//
	tag, err := memory.TagFromByte(insn.Operand(2).Uint64())
	if err != nil {
		return err
	}
	//
	mem.Set(offsets[1], memory.Cast(mem.Get(offsets[0]), tag))
	//
	return nil
}
