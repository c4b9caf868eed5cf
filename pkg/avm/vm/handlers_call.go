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
	"math"

	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// Operands of CALL and STATICCALL.  Address operands are indexed by their
// position amongst address operands, whilst immediates are indexed by their
// position amongst all operands.
const (
	callGas     = 0
	callAddress = 1
	callArgs    = 2
	callRet     = 3
	callSuccess = 4
	// immediates
	callArgsSize = 3
	callRetSize  = 5
)

// Execute a nested call.  The gas to allocate is read from a pair of U32 cells
// (L2 then DA), though no more than all but one 64th of the gas remaining is
// allocated.  The retained 64th lets the caller handle a nested call which
// exhausts its allocation.  The
// allocation is consumed up front, and any left unused is refunded when the
// nested call halts.  Exactly retSize cells of the nested call's output are
// written back (padded with zero), followed by a U1 success flag.  A nested
// call which reverts does not cause this call to revert.
func opCall(f *frame, insn instruction.Instruction, offsets []uint32) error {
	var (
		mem      = f.state.Memory()
		meter    = f.state.Gas()
		argsSize = insn.Uint32(callArgsSize)
		retSize  = insn.Uint32(callRetSize)
		units    = min(uint64(argsSize)+uint64(retSize), math.MaxUint32)
	)
	//
	if offsets[callGas] == math.MaxUint32 {
		return &memory.OutOfBoundsError{Offset: offsets[callGas], Size: 2}
	}
	//
	l2, err := f.readU32(offsets[callGas])
	if err != nil {
		return err
	}
	//
	da, err := f.readU32(offsets[callGas] + 1)
	if err != nil {
		return err
	}
	//
	address, err := f.readField(offsets[callAddress])
	if err != nil {
		return err
	} else if err := f.consumeDynamic(insn.Opcode, uint32(units)); err != nil {
		return err
	}
	//
	mem.Declare(uint(argsSize), uint(retSize))
	//
	args, err := f.readFields(offsets[callArgs], argsSize)
	if err != nil {
		return err
	}
	// Allocate gas for the nested call
	allocation := gas.Gas{L2: l2, DA: da}.Min(meter.Left().AllButOne64th())
	//
	if err := meter.Consume(allocation); err != nil {
		return err
	}
	//
	var child *env.Environment
	//
	if insn.Opcode == instruction.STATICCALL {
		child = f.env.DeriveForNestedStaticCall(address, args)
	} else {
		child = f.env.DeriveForNestedCall(address, args)
	}
	// A failed nested call is only visible through the success flag
	result, _ := f.vm.dispatch(child, allocation, f.journal)
	//
	meter.Refund(result.GasLeft)
	f.state.SetReturnData(result.Output)
	// Write back the output, padded with zero
	output := make([]bn254.Element, retSize)
	copy(output, result.Output)
	//
	if err := mem.SetSlice(offsets[callRet], fieldValues(output)); err != nil {
		return err
	}
	//
	mem.Set(offsets[callSuccess], memory.NewU1(!result.Reverted))
	//
	return nil
}
