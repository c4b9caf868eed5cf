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

func opJump(f *frame, insn instruction.Instruction, _ []uint32) error {
	return f.jump(insn.Uint32(0))
}

func opJumpI(f *frame, insn instruction.Instruction, offsets []uint32) error {
	cond := f.state.Memory().Get(offsets[0])
	//
	if !cond.Tag().IsInteger() {
		return &memory.TagMismatchError{Expected: "integer", Actual: cond.Tag()}
	} else if cond.IsZero() {
		return nil
	}
	//
	return f.jump(insn.Uint32(1))
}

func opInternalCall(f *frame, insn instruction.Instruction, _ []uint32) error {
	if err := f.state.InternalCall(f.state.PC() + 1); err != nil {
		return err
	}
	//
	return f.jump(insn.Uint32(0))
}

func opInternalReturn(f *frame, _ instruction.Instruction, _ []uint32) error {
	ret, err := f.state.InternalReturn()
	if err != nil {
		return err
	}
	// Returning to the end of the program is an implicit return.
	f.state.Goto(ret)
	f.jumped = true
	//
	return nil
}

func opReturn(f *frame, insn instruction.Instruction, offsets []uint32) error {
	output, err := readOutput(f, insn, offsets[0])
	if err != nil {
		return err
	}
	//
	f.state.Return(output)
	//
	return nil
}

func opRevert(f *frame, insn instruction.Instruction, offsets []uint32) error {
	output, err := readOutput(f, insn, offsets[0])
	if err != nil {
		return err
	}
	//
	f.state.Revert(output, ErrExplicitRevert)
	//
	return nil
}

// Read the output of a RETURN or REVERT instruction, whose size is its second
// (immediate) operand.
func readOutput(f *frame, insn instruction.Instruction, offset uint32) ([]bn254.Element, error) {
	size := insn.Uint32(1)
	//
	if err := f.consumeDynamic(insn.Opcode, size); err != nil {
		return nil, err
	}
	//
	f.state.Memory().Declare(uint(size), 0)
	//
	return f.projectFields(offset, size)
}
