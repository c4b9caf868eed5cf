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
	"errors"
	"testing"

	"github.com/consensys/go-avm/pkg/avm/config"
	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/avm/world"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
	"github.com/stretchr/testify/require"
)

var largeGas = gas.Gas{L2: 1_000_000, DA: 1_000_000}

// Returns its first argument plus one.
var incrementer = []instruction.Instruction{
	instruction.New(instruction.CALLDATACOPY, 0, 0, 1, 0),
	instruction.New(instruction.SET_8, 0, 1, tFIELD, 1),
	instruction.New(instruction.ADD_8, 0, 0, 1, 2),
	instruction.New(instruction.RETURN, 0, 2, 1),
}

// Writes to storage, then reverts with output [9].
var storeThenRevert = []instruction.Instruction{
	instruction.New(instruction.SET_8, 0, 0, tFIELD, 9),
	instruction.New(instruction.SSTORE, 0, 0, 0),
	instruction.New(instruction.REVERT_8, 0, 0, 1),
}

// Writes to storage, then returns.
var store = []instruction.Instruction{
	instruction.New(instruction.SET_8, 0, 0, tFIELD, 1),
	instruction.New(instruction.SSTORE, 0, 0, 0),
	instruction.New(instruction.RETURN, 0, 0, 0),
}

func Test_Call_01(t *testing.T) {
	state := deploy(t, nil, 7, incrementer)
	program := concat(
		[]instruction.Instruction{instruction.New(instruction.SET_8, 0, 3, tFIELD, 41)},
		call(instruction.CALL, 7, 1, 2),
		[]instruction.Instruction{
			instruction.New(instruction.RETURNDATASIZE, 0, 13),
			instruction.New(instruction.RETURN, 0, 10, 4),
		})
	//
	result := newVM(t, state).RunWithGas(assemble(t, program...), nil, testEnvironment(), largeGas)
	//
	checkResult(t, CallResult{Output: fields(42, 0, 1, 1), GasLeft: gas.Gas{L2: 1_000_000 - 227, DA: 1_000_000}},
		result)
}

func Test_Call_02(t *testing.T) {
	var (
		state   = deploy(t, nil, 40, storeThenRevert)
		journal = world.NewJournal(state)
		program = concat(call(instruction.CALL, 40, 0, 1),
			[]instruction.Instruction{
				instruction.New(instruction.RETURNDATACOPY, 0, 0, 1, 11),
				instruction.New(instruction.RETURN, 0, 10, 3),
			})
	)
	//
	result := newVM(t, state).RunInJournal(journal, assemble(t, program...), nil, testEnvironment(), largeGas)
	// Child revert is swallowed, and its storage write discarded
	checkResult(t, CallResult{Output: fields(9, 9, 0)}, result)
	require.Empty(t, journal.StorageWrites())
}

func Test_Call_03(t *testing.T) {
	var (
		state   = deploy(t, nil, 30, store)
		journal = world.NewJournal(state)
		vm      = newVM(t, state)
	)
	// Static call attempting to mutate state
	result := vm.RunInJournal(journal, assemble(t, concat(call(instruction.STATICCALL, 30, 0, 0),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 12, 1)})...), nil, testEnvironment(), largeGas)
	//
	checkResult(t, CallResult{Output: fields(0)}, result)
	require.Empty(t, journal.StorageWrites())
	// Non-static call succeeds
	result = vm.RunInJournal(journal, assemble(t, concat(call(instruction.CALL, 30, 0, 0),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 12, 1)})...), nil, testEnvironment(), largeGas)
	//
	checkResult(t, CallResult{Output: fields(1)}, result)
	require.Len(t, journal.StorageWrites(), 1)
}

func Test_Call_04(t *testing.T) {
	var (
		state = deploy(t, nil, 30, store)
		// Calls 30 and returns its success flag
		proxy = concat(call(instruction.CALL, 30, 0, 0),
			[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 12, 1)})
	)
	//
	deploy(t, state, 20, proxy)
	vm := newVM(t, state)
	// Static restriction propagates through the non-static call
	static := concat(call(instruction.STATICCALL, 20, 0, 1),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 10, 3)})
	result := vm.Run(assemble(t, static...), nil, testEnvironment())
	//
	checkResult(t, CallResult{Output: fields(0, 0, 1)}, result)
	//
	nonstatic := concat(call(instruction.CALL, 20, 0, 1),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 10, 3)})
	result = vm.Run(assemble(t, nonstatic...), nil, testEnvironment())
	//
	checkResult(t, CallResult{Output: fields(1, 0, 1)}, result)
}

func Test_Call_05(t *testing.T) {
	var (
		state = deploy(t, nil, 30, store)
		vm    = newVM(t, state)
		child = testEnvironment().DeriveForNestedStaticCall(bn254.Uint64(30), nil)
	)
	//
	result, err := vm.dispatch(child, largeGas, world.NewJournal(state))
	//
	var (
		reverted *ChildCallRevertedError
		static   *StaticCallAlterationError
	)
	//
	require.True(t, result.Reverted)
	require.True(t, errors.As(err, &reverted))
	require.True(t, errors.As(err, &static))
	require.Equal(t, instruction.SSTORE, static.Opcode)
}

func Test_Call_06(t *testing.T) {
	// Unbounded recursion is stopped by the call depth limit, which reverts
	// only the deepest call.
	recursive := concat(call(instruction.CALL, 5, 0, 0),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 12, 1)})
	state := deploy(t, nil, 5, recursive)
	//
	cfg := config.Default()
	cfg.MaxCallDepth = 3
	vm, err := New(cfg, state, state, nil)
	require.NoError(t, err)
	//
	environment := testEnvironment()
	environment.Address = bn254.Uint64(5)
	result := vm.Run(assemble(t, recursive...), nil, environment)
	//
	checkResult(t, CallResult{Output: fields(1)}, result)
}

func Test_Call_07(t *testing.T) {
	state := deploy(t, nil, 5, nil)
	vm := newVM(t, state)
	child := testEnvironment()
	child.Address = bn254.Uint64(5)
	child.ContractCallDepth = vm.Config().MaxCallDepth + 1
	//
	result, err := vm.dispatch(child, largeGas, world.NewJournal(state))
	//
	var depth *CallDepthError
	//
	require.True(t, errors.As(err, &depth))
	require.True(t, result.Reverted)
	// Nothing executed, so nothing consumed
	require.Equal(t, largeGas, result.GasLeft)
}

func Test_Call_08(t *testing.T) {
	// Calling a contract which does not exist
	program := concat(call(instruction.CALL, 99, 0, 0),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 12, 1)})
	result := newVM(t, world.NewInMemory()).RunWithGas(assemble(t, program...), nil, testEnvironment(),
		largeGas)
	//
	checkResult(t, CallResult{Output: fields(0), GasLeft: gas.Gas{L2: 1_000_000 - 143, DA: 1_000_000}}, result)
}

func Test_Call_09(t *testing.T) {
	// A nested call failing with an error consumes its entire allocation
	failing := []instruction.Instruction{
		instruction.New(instruction.SET_8, 0, 0, tU8, 1),
		instruction.New(instruction.SET_8, 0, 1, tU16, 1),
		instruction.New(instruction.ADD_8, 0, 0, 1, 2),
	}
	state := deploy(t, nil, 8, failing)
	program := concat(call(instruction.CALL, 8, 0, 0),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 12, 1)})
	//
	result := newVM(t, state).RunWithGas(assemble(t, program...), nil, testEnvironment(), largeGas)
	//
	checkResult(t, CallResult{Output: fields(0),
		GasLeft: gas.Gas{L2: 1_000_000 - 143 - 100_000, DA: 1_000_000 - 100_000}}, result)
}

func Test_Call_10(t *testing.T) {
	// Gas cells must be U32, and this reverts the caller.
	state := deploy(t, nil, 7, incrementer)
	program := []instruction.Instruction{
		instruction.New(instruction.SET_8, 0, 0, tFIELD, 100),
		instruction.New(instruction.SET_32, 0, 1, tU32, 100),
		instruction.New(instruction.SET_8, 0, 2, tFIELD, 7),
		instruction.New(instruction.CALL, 0, 0, 2, 3, 0, 10, 0, 12),
	}
	//
	result := newVM(t, state).Run(assemble(t, program...), nil, testEnvironment())
	//
	checkReverted[*memory.TagMismatchError](t, result)
}

func Test_Call_11(t *testing.T) {
	// Requested gas is capped at that remaining
	state := deploy(t, nil, 7, incrementer)
	program := []instruction.Instruction{
		instruction.New(instruction.SET_32, 0, 0, tU32, 4_000_000_000),
		instruction.New(instruction.SET_32, 0, 1, tU32, 4_000_000_000),
		instruction.New(instruction.SET_8, 0, 2, tFIELD, 7),
		instruction.New(instruction.SET_8, 0, 3, tFIELD, 1),
		instruction.New(instruction.CALL, 0, 0, 2, 3, 1, 10, 1, 12),
		instruction.New(instruction.RETURN, 0, 10, 3),
	}
	//
	result := newVM(t, state).RunWithGas(assemble(t, program...), nil, testEnvironment(), largeGas)
	//
	checkResult(t, CallResult{Output: fields(2, 0, 1)}, result)
	require.Less(t, result.GasLeft.L2, largeGas.L2)
}

func Test_Call_12(t *testing.T) {
	// A nested call which exhausts all the gas it can be allocated still leaves
	// the caller enough to continue.
	failing := []instruction.Instruction{
		instruction.New(instruction.SET_8, 0, 0, tU8, 1),
		instruction.New(instruction.SET_8, 0, 1, tU16, 1),
		instruction.New(instruction.ADD_8, 0, 0, 1, 2),
	}
	state := deploy(t, nil, 8, failing)
	program := []instruction.Instruction{
		instruction.New(instruction.SET_32, 0, 0, tU32, 4_000_000_000),
		instruction.New(instruction.SET_32, 0, 1, tU32, 4_000_000_000),
		instruction.New(instruction.SET_8, 0, 2, tFIELD, 8),
		instruction.New(instruction.CALL, 0, 0, 2, 3, 0, 10, 0, 12),
		instruction.New(instruction.RETURN, 0, 12, 1),
	}
	//
	result := newVM(t, state).RunWithGas(assemble(t, program...), nil, testEnvironment(), largeGas)
	// 999_870 remains when the call is made, of which 15_622 is retained.
	checkResult(t, CallResult{Output: fields(0), GasLeft: gas.Gas{L2: 15_622 - 13, DA: 15_625}}, result)
}

func Test_Call_13(t *testing.T) {
	// A proxy given exactly the gas it requests can still report that its own
	// nested call failed.
	var (
		state = deploy(t, nil, 30, store)
		proxy = concat(call(instruction.STATICCALL, 30, 0, 0),
			[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 12, 1)})
	)
	//
	deploy(t, state, 20, proxy)
	//
	program := concat(call(instruction.CALL, 20, 0, 1),
		[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 10, 3)})
	result := newVM(t, state).RunWithGas(assemble(t, program...), nil, testEnvironment(), largeGas)
	//
	checkResult(t, CallResult{Output: fields(0, 0, 1)}, result)
}

// ============================================================================
// Bytecode Cache
// ============================================================================

func Test_Cache_01(t *testing.T) {
	var (
		state = deploy(t, nil, 7, incrementer)
		vm    = newVM(t, state)
	)
	//
	first, err := vm.load(bn254.Uint64(7))
	require.NoError(t, err)
	// Identical bytecode is decoded once, even at another address
	deploy(t, state, 8, incrementer)
	//
	second, err := vm.load(bn254.Uint64(8))
	require.NoError(t, err)
	require.Same(t, &first[0], &second[0])
	// Redeploying different bytecode replaces the program
	deploy(t, state, 7, storeThenRevert)
	//
	third, err := vm.load(bn254.Uint64(7))
	require.NoError(t, err)
	require.Len(t, third, len(storeThenRevert))
	require.True(t, third[0].Equals(storeThenRevert[0]))
}

func Test_Cache_02(t *testing.T) {
	vm := newVM(t, world.NewInMemory())
	//
	_, err := vm.load(bn254.Uint64(7))
	//
	var notFound *world.ContractNotFoundError
	//
	require.True(t, errors.As(err, &notFound))
}

func Test_Cache_03(t *testing.T) {
	var (
		state   = deploy(t, nil, 7, returning(1))
		vm      = newVM(t, state)
		program = concat(call(instruction.CALL, 7, 0, 1),
			[]instruction.Instruction{instruction.New(instruction.RETURN, 0, 10, 1)})
	)
	//
	result := vm.Run(assemble(t, program...), nil, testEnvironment())
	checkResult(t, CallResult{Output: fields(1)}, result)
	// Redeploy at the same address
	deploy(t, state, 7, returning(2))
	//
	result = vm.Run(assemble(t, program...), nil, testEnvironment())
	checkResult(t, CallResult{Output: fields(2)}, result)
}

// ============================================================================
// Helpers
// ============================================================================

// Construct a call to a given target address, where the arguments (if any) are
// held from m[3], the output is written from m[10] and the success flag is
// written to m[12].
func call(opcode instruction.Opcode, target uint64, argsSize, retSize uint64) []instruction.Instruction {
	return []instruction.Instruction{
		instruction.New(instruction.SET_32, 0, 0, tU32, 100_000),
		instruction.New(instruction.SET_32, 0, 1, tU32, 100_000),
		instruction.New(instruction.SET_8, 0, 2, tFIELD, target),
		instruction.New(opcode, 0, 0, 2, 3, argsSize, 10, retSize, 12),
	}
}

// Deploy a program at a given address, creating the world state if necessary.
func deploy(t *testing.T, state *world.InMemory, address uint64, program []instruction.Instruction) *world.InMemory {
	if state == nil {
		state = world.NewInMemory()
	}
	//
	state.Deploy(world.ContractInstance{Address: bn254.Uint64(address)}, assemble(t, program...))
	//
	return state
}

// Construct a program which returns a given constant.
func returning(value uint64) []instruction.Instruction {
	return []instruction.Instruction{
		instruction.New(instruction.SET_8, 0, 0, tFIELD, value),
		instruction.New(instruction.RETURN, 0, 0, 1),
	}
}

func concat(programs ...[]instruction.Instruction) []instruction.Instruction {
	var result []instruction.Instruction
	//
	for _, p := range programs {
		result = append(result, p...)
	}
	//
	return result
}
