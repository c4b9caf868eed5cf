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
	"fmt"

	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/memory"
)

// Handler implements the semantics of a single opcode.  Every handler declares
// exactly how many memory reads and writes it performs (excluding those made
// when resolving addresses).  Handlers whose accesses depend on runtime values
// declare these additional accesses as they go.
type handler struct {
	execute func(f *frame, insn instruction.Instruction, offsets []uint32) error
	reads   uint
	writes  uint
}

// Dispatch table, indexed by opcode.
var handlers [instruction.NumOpcodes]handler

func init() {
	var (
		add = handler{binary(memory.Add), 2, 1}
		sub = handler{binary(memory.Sub), 2, 1}
		mul = handler{binary(memory.Mul), 2, 1}
		div = handler{binary(memory.Div), 2, 1}
		fdv = handler{binary(memory.FDiv), 2, 1}
		eq  = handler{binary(memory.Eq), 2, 1}
		lt  = handler{binary(memory.Lt), 2, 1}
		lte = handler{binary(memory.Lte), 2, 1}
		and = handler{binary(memory.And), 2, 1}
		or  = handler{binary(memory.Or), 2, 1}
		xor = handler{binary(memory.Xor), 2, 1}
		not = handler{opNot, 1, 1}
		shl = handler{binary(memory.Shl), 2, 1}
		shr = handler{binary(memory.Shr), 2, 1}
		cst = handler{opCast, 1, 1}
		set = handler{opSet, 0, 1}
		mov = handler{opMov, 1, 1}
		rev = handler{opRevert, 0, 0}
	)
	//
	handlers = [instruction.NumOpcodes]handler{
		instruction.ADD_8:               add,
		instruction.ADD_16:              add,
		instruction.SUB_8:               sub,
		instruction.SUB_16:              sub,
		instruction.MUL_8:               mul,
		instruction.MUL_16:              mul,
		instruction.DIV_8:               div,
		instruction.DIV_16:              div,
		instruction.FDIV_8:              fdv,
		instruction.FDIV_16:             fdv,
		instruction.EQ_8:                eq,
		instruction.EQ_16:               eq,
		instruction.LT_8:                lt,
		instruction.LT_16:               lt,
		instruction.LTE_8:               lte,
		instruction.LTE_16:              lte,
		instruction.AND_8:               and,
		instruction.AND_16:              and,
		instruction.OR_8:                or,
		instruction.OR_16:               or,
		instruction.XOR_8:               xor,
		instruction.XOR_16:              xor,
		instruction.NOT_8:               not,
		instruction.NOT_16:              not,
		instruction.SHL_8:               shl,
		instruction.SHL_16:              shl,
		instruction.SHR_8:               shr,
		instruction.SHR_16:              shr,
		instruction.CAST_8:              cst,
		instruction.CAST_16:             cst,
		instruction.GETENVVAR_16:        {opGetEnvVar, 0, 1},
		instruction.CALLDATACOPY:        {opCalldataCopy, 0, 0},
		instruction.RETURNDATASIZE:      {opReturndataSize, 0, 1},
		instruction.RETURNDATACOPY:      {opReturndataCopy, 0, 0},
		instruction.JUMP_32:             {opJump, 0, 0},
		instruction.JUMPI_32:            {opJumpI, 1, 0},
		instruction.INTERNALCALL:        {opInternalCall, 0, 0},
		instruction.INTERNALRETURN:      {opInternalReturn, 0, 0},
		instruction.SET_8:               set,
		instruction.SET_16:              set,
		instruction.SET_32:              set,
		instruction.SET_64:              set,
		instruction.SET_128:             set,
		instruction.SET_FF:              set,
		instruction.MOV_8:               mov,
		instruction.MOV_16:              mov,
		instruction.SLOAD:               {opSload, 1, 1},
		instruction.SSTORE:              {opSstore, 2, 0},
		instruction.NULLIFIEREXISTS:     {opNullifierExists, 2, 1},
		instruction.EMITNULLIFIER:       {opEmitNullifier, 1, 0},
		instruction.EMITNOTEHASH:        {opEmitNoteHash, 1, 0},
		instruction.EMITUNENCRYPTEDLOG:  {opEmitUnencryptedLog, 1, 0},
		instruction.SENDL2TOL1MSG:       {opSendL2ToL1Message, 2, 0},
		instruction.GETCONTRACTINSTANCE: {opGetContractInstance, 1, contractInstanceWidth},
		instruction.CALL:                {opCall, 3, 1},
		instruction.STATICCALL:          {opCall, 3, 1},
		instruction.RETURN:              {opReturn, 0, 0},
		instruction.REVERT_8:            rev,
		instruction.REVERT_16:           rev,
		instruction.POSEIDON2:           {opPoseidon2, 1, 1},
		instruction.KECCAK:              {opKeccak, 1, 2},
	}
	// Sanity check every opcode has a handler
	for i, h := range handlers {
		if h.execute == nil {
			panic(fmt.Sprintf("missing handler for %s", instruction.Opcode(i)))
		}
	}
}
