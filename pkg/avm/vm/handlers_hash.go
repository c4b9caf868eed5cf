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

// Hash a sequence of field elements using Poseidon2.  The number of elements is
// held in a U32 cell, and the digest is written as a single field element.
func opPoseidon2(f *frame, insn instruction.Instruction, offsets []uint32) error {
	size, err := f.readU32(offsets[1])
	if err != nil {
		return err
	} else if err := f.consumeDynamic(insn.Opcode, size); err != nil {
		return err
	}
	//
	f.state.Memory().Declare(uint(size), 0)
	//
	fields, err := f.readFields(offsets[0], size)
	if err != nil {
		return err
	}
	//
	data := make([]byte, 0, len(fields)*bn254.Bytes)
	//
	for _, elem := range fields {
		bytes := elem.Bytes()
		data = append(data, bytes[:]...)
	}
	//
	digest, err := f.vm.hasher.Poseidon2(data)
	if err != nil {
		return err
	}
	//
	elem, err := bn254.FromCanonicalBytes(digest)
	if err != nil {
		return err
	}
	//
	f.state.Memory().Set(offsets[2], memory.NewField(elem))
	//
	return nil
}

// Hash a sequence of bytes using Keccak-256.  The number of bytes is held in a
// U32 cell, and each byte is held in a U8 cell.  The digest is written as two
// field elements holding its high and low 128 bits respectively.
func opKeccak(f *frame, insn instruction.Instruction, offsets []uint32) error {
	var mem = f.state.Memory()
	//
	size, err := f.readU32(offsets[1])
	if err != nil {
		return err
	} else if err := f.consumeDynamic(insn.Opcode, size); err != nil {
		return err
	}
	//
	mem.Declare(uint(size), 0)
	//
	values, err := mem.GetSlice(offsets[0], size)
	if err != nil {
		return err
	}
	//
	data := make([]byte, len(values))
	//
	for i, v := range values {
		if v.Tag() != memory.U8 {
			return &memory.TagMismatchError{Expected: memory.U8.String(), Actual: v.Tag()}
		}
		//
		data[i] = byte(v.Uint64())
	}
	//
	digest := f.vm.hasher.Keccak(data)
	hi := memory.NewField(bn254.FromBigEndianBytes(digest[:16]))
	lo := memory.NewField(bn254.FromBigEndianBytes(digest[16:]))
	//
	return mem.SetSlice(offsets[2], []memory.Value{hi, lo})
}
