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
	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/avm/world"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// Number of cells written by GETCONTRACTINSTANCE: the exists flag, salt,
// deployer, class id, initialization hash and four public keys (as x, y pairs).
const contractInstanceWidth = 13

func opGetEnvVar(f *frame, insn instruction.Instruction, offsets []uint32) error {
	var (
		mem   = f.state.Memory()
		v     = env.Var(insn.Operand(1).Uint64())
		value memory.Value
	)
	//
	switch v {
	case env.ISSTATICCALL:
		value = memory.NewU1(f.env.IsStaticCall)
	case env.L2GASLEFT:
		value = memory.NewU32(f.state.Gas().Left().L2)
	case env.DAGASLEFT:
		value = memory.NewU32(f.state.Gas().Left().DA)
	default:
		elem, ok := f.env.Lookup(v)
		//
		if !ok {
			return &InvalidEnvVarError{v}
		}
		//
		value = memory.NewField(elem)
	}
	//
	mem.Set(offsets[0], value)
	//
	return nil
}

func opSload(f *frame, _ instruction.Instruction, offsets []uint32) error {
	slot, err := f.readField(offsets[0])
	if err != nil {
		return err
	}
	//
	value := f.journal.StorageRead(f.env.Address, slot)
	f.state.Memory().Set(offsets[1], memory.NewField(value))
	//
	return nil
}

func opSstore(f *frame, insn instruction.Instruction, offsets []uint32) error {
	if err := f.checkMutable(insn.Opcode); err != nil {
		return err
	}
	//
	value, err := f.readField(offsets[0])
	if err != nil {
		return err
	}
	//
	slot, err := f.readField(offsets[1])
	if err != nil {
		return err
	}
	//
	f.journal.StorageWrite(f.env.Address, slot, value)
	//
	return nil
}

func opNullifierExists(f *frame, _ instruction.Instruction, offsets []uint32) error {
	nullifier, err := f.readField(offsets[0])
	if err != nil {
		return err
	}
	//
	address, err := f.readField(offsets[1])
	if err != nil {
		return err
	}
	//
	exists := f.journal.NullifierExists(address, nullifier)
	f.state.Memory().Set(offsets[2], memory.NewU1(exists))
	//
	return nil
}

func opEmitNullifier(f *frame, insn instruction.Instruction, offsets []uint32) error {
	if err := f.checkMutable(insn.Opcode); err != nil {
		return err
	}
	//
	nullifier, err := f.readField(offsets[0])
	if err != nil {
		return err
	}
	//
	return f.journal.EmitNullifier(f.env.Address, nullifier)
}

func opEmitNoteHash(f *frame, insn instruction.Instruction, offsets []uint32) error {
	if err := f.checkMutable(insn.Opcode); err != nil {
		return err
	}
	//
	noteHash, err := f.readField(offsets[0])
	if err != nil {
		return err
	}
	//
	f.journal.EmitNoteHash(f.env.Address, noteHash)
	//
	return nil
}

func opEmitUnencryptedLog(f *frame, insn instruction.Instruction, offsets []uint32) error {
	if err := f.checkMutable(insn.Opcode); err != nil {
		return err
	}
	//
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
	f.journal.EmitUnencryptedLog(f.env.Address, fields)
	//
	return nil
}

func opSendL2ToL1Message(f *frame, insn instruction.Instruction, offsets []uint32) error {
	if err := f.checkMutable(insn.Opcode); err != nil {
		return err
	}
	//
	recipient, err := f.readField(offsets[0])
	if err != nil {
		return err
	}
	//
	content, err := f.readField(offsets[1])
	if err != nil {
		return err
	}
	//
	f.journal.SendL2ToL1Message(f.env.Address, recipient, content)
	//
	return nil
}

func opGetContractInstance(f *frame, _ instruction.Instruction, offsets []uint32) error {
	address, err := f.readField(offsets[0])
	if err != nil {
		return err
	}
	//
	instance, exists := f.vm.contracts.GetContractInstance(address)
	// Absent instances are written as zero
	if !exists {
		instance = world.ContractInstance{}
	}
	//
	keys := instance.PublicKeys
	record := []memory.Value{
		memory.NewU1(exists),
		memory.NewField(instance.Salt),
		memory.NewField(instance.Deployer),
		memory.NewField(instance.ContractClassID),
		memory.NewField(instance.InitializationHash),
	}
	//
	for _, key := range []world.Point{keys.NullifierKey, keys.IncomingViewingKey, keys.OutgoingViewingKey,
		keys.TaggingKey} {
		record = append(record, memory.NewField(key.X), memory.NewField(key.Y))
	}
	//
	return f.state.Memory().SetSlice(offsets[1], record)
}

// Convert a sequence of field elements into field-tagged memory values.
func fieldValues(fields []bn254.Element) []memory.Value {
	values := make([]memory.Value, len(fields))
	//
	for i, f := range fields {
		values[i] = memory.NewField(f)
	}
	//
	return values
}
