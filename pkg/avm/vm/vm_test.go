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
	"encoding/hex"
	"errors"
	"testing"

	"github.com/consensys/go-avm/pkg/avm/addressing"
	"github.com/consensys/go-avm/pkg/avm/config"
	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/machine"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/avm/world"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// Tags as they appear in SET and CAST instructions.
const (
	tFIELD = uint64(memory.FIELD)
	tU1    = uint64(memory.U1)
	tU8    = uint64(memory.U8)
	tU16   = uint64(memory.U16)
	tU32   = uint64(memory.U32)
)

// Basic arithmetic scenario: copy two calldata elements, add them and return
// the sum.
var addProgram = []instruction.Instruction{
	instruction.New(instruction.CALLDATACOPY, 0, 0, 2, 0),
	instruction.New(instruction.ADD_8, 0, 0, 1, 2),
	instruction.New(instruction.RETURN, 0, 2, 1),
}

// Gas consumed by addProgram with the default gas table.
const addProgramGas = (10 + 3*2) + 10 + (10 + 3*1)

func Test_Run_01(t *testing.T) {
	result := runProgram(t, fields(1, 2), addProgram...)
	//
	checkResult(t, CallResult{Output: fields(3)}, result)
}

func Test_Run_02(t *testing.T) {
	// Invalid jump
	result := runProgram(t, nil, instruction.New(instruction.JUMP_32, 0, 22))
	//
	checkReverted[*InvalidProgramCounterError](t, result)
	require.Empty(t, result.Output)
	require.True(t, result.GasLeft.IsZero())
}

func Test_Run_03(t *testing.T) {
	// Falling off the end
	result := runProgram(t, nil, instruction.New(instruction.SET_8, 0, 0, tU8, 1))
	//
	checkResult(t, CallResult{Output: fields()}, result)
}

func Test_Run_04(t *testing.T) {
	// Empty program
	checkResult(t, CallResult{Output: fields()}, runProgram(t, nil))
}

func Test_Run_05(t *testing.T) {
	vm := newVM(t, world.NewInMemory())
	allocation := gas.Gas{L2: 1000, DA: 1000}
	result := vm.RunWithGas(assemble(t, addProgram...), fields(1, 2), testEnvironment(), allocation)
	//
	checkResult(t, CallResult{Output: fields(3), GasLeft: gas.Gas{L2: 1000 - addProgramGas, DA: 1000}}, result)
}

func Test_Run_06(t *testing.T) {
	vm := newVM(t, world.NewInMemory())
	// Enough for CALLDATACOPY, but not ADD
	result := vm.RunWithGas(assemble(t, addProgram...), fields(1, 2), testEnvironment(), gas.Gas{L2: 25})
	//
	checkReverted[*gas.OutOfGasError](t, result)
	require.True(t, result.GasLeft.IsZero())
}

func Test_Run_07(t *testing.T) {
	vm := newVM(t, world.NewInMemory())
	bytecode := assemble(t, addProgram...)
	// Gas left never increases and execution halts exactly at zero.
	for l2 := uint32(0); l2 <= addProgramGas+5; l2++ {
		result := vm.RunWithGas(bytecode, fields(1, 2), testEnvironment(), gas.Gas{L2: l2})
		//
		if l2 < addProgramGas {
			checkReverted[*gas.OutOfGasError](t, result)
			require.True(t, result.GasLeft.IsZero())
		} else {
			require.False(t, result.Reverted)
			require.Equal(t, l2-addProgramGas, result.GasLeft.L2)
		}
	}
}

func Test_Run_08(t *testing.T) {
	var (
		vm       = newVM(t, world.NewInMemory())
		bytecode = assemble(t, addProgram...)
		first    = vm.Run(bytecode, fields(7, 8), testEnvironment())
		second   = vm.Run(bytecode, fields(7, 8), testEnvironment())
	)
	// Determinism
	if diff := cmp.Diff(first, second, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func Test_Run_09(t *testing.T) {
	// Decode failures revert before execution
	vm := newVM(t, world.NewInMemory())
	result := vm.Run([]byte{byte(instruction.INTERNALRETURN), 0xff}, nil, testEnvironment())
	//
	checkReverted[*instruction.UnknownOpcodeError](t, result)
	require.Equal(t, vm.Config().GasLimit(), result.GasLeft)
	//
	result = vm.Run([]byte{byte(instruction.ADD_8), 0}, nil, testEnvironment())
	checkReverted[*instruction.MalformedBytecodeError](t, result)
}

func Test_Run_10(t *testing.T) {
	vm := newVM(t, world.NewInMemory())
	bytecode := assemble(t,
		instruction.New(instruction.SET_8, 0, 0, tFIELD, 7),
		instruction.New(instruction.REVERT_8, 0, 0, 1))
	result := vm.RunWithGas(bytecode, nil, testEnvironment(), gas.Gas{L2: 100})
	// Explicit revert keeps output and remaining gas
	require.True(t, result.Reverted)
	require.ErrorIs(t, result.RevertReason, ErrExplicitRevert)
	checkResult(t, CallResult{Reverted: true, Output: fields(7), GasLeft: gas.Gas{L2: 100 - 10 - 13}}, result)
}

// ============================================================================
// Arithmetic & Memory
// ============================================================================

func Test_Tags_01(t *testing.T) {
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tU8, 1),
		instruction.New(instruction.SET_16, 0, 1, tU16, 2),
		instruction.New(instruction.ADD_8, 0, 0, 1, 2))
	//
	checkReverted[*memory.TagMismatchError](t, result)
}

func Test_Tags_02(t *testing.T) {
	// U8 arithmetic wraps
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tU8, 200),
		instruction.New(instruction.SET_8, 0, 1, tU8, 100),
		instruction.New(instruction.ADD_8, 0, 0, 1, 2),
		instruction.New(instruction.RETURN, 0, 2, 1))
	//
	checkResult(t, CallResult{Output: fields(44)}, result)
}

func Test_Tags_03(t *testing.T) {
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tU8, 3),
		instruction.New(instruction.SET_8, 0, 1, tU8, 0),
		instruction.New(instruction.DIV_8, 0, 0, 1, 2))
	//
	require.True(t, result.Reverted)
	require.ErrorIs(t, result.RevertReason, memory.ErrDivisionByZero)
}

func Test_Tags_04(t *testing.T) {
	// Comparisons yield U1, projected into output
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tU16, 3),
		instruction.New(instruction.SET_8, 0, 1, tU16, 4),
		instruction.New(instruction.LT_8, 0, 0, 1, 2),
		instruction.New(instruction.LTE_8, 0, 1, 0, 3),
		instruction.New(instruction.EQ_8, 0, 0, 0, 4),
		instruction.New(instruction.RETURN, 0, 2, 3))
	//
	checkResult(t, CallResult{Output: fields(1, 0, 1)}, result)
}

func Test_Set_01(t *testing.T) {
	result := runProgram(t, nil, instruction.New(instruction.SET_16, 0, 0, tU8, 300))
	//
	checkReverted[*memory.OutOfRangeError](t, result)
}

func Test_Set_02(t *testing.T) {
	result := runProgram(t, nil, instruction.New(instruction.SET_8, 0, 0, 9, 1))
	//
	checkReverted[*memory.InvalidTagError](t, result)
}

func Test_Cast_01(t *testing.T) {
	result := runProgram(t, nil,
		instruction.New(instruction.SET_16, 0, 0, tU16, 0x1234),
		instruction.New(instruction.CAST_8, 0, 0, 1, tU8),
		instruction.New(instruction.RETURN, 0, 1, 1))
	//
	checkResult(t, CallResult{Output: fields(0x34)}, result)
}

func Test_Mov_01(t *testing.T) {
	// Indirect source
	result := runProgram(t, nil,
		instruction.New(instruction.SET_32, 0, 5, tU32, 10),
		instruction.New(instruction.SET_8, 0, 10, tFIELD, 42),
		instruction.New(instruction.MOV_8, 0b01, 5, 20),
		instruction.New(instruction.RETURN, 0, 20, 1))
	//
	checkResult(t, CallResult{Output: fields(42)}, result)
}

func Test_Mov_02(t *testing.T) {
	// Relative source and destination
	result := runProgram(t, nil,
		instruction.New(instruction.SET_32, 0, 0, tU32, 100),
		instruction.New(instruction.SET_8, 0, 101, tFIELD, 9),
		instruction.New(instruction.MOV_8, 0b1010, 1, 2),
		instruction.New(instruction.RETURN, 0, 102, 1))
	//
	checkResult(t, CallResult{Output: fields(9)}, result)
}

func Test_Mov_03(t *testing.T) {
	// Indirect through a non-U32 cell
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 5, tU8, 10),
		instruction.New(instruction.MOV_8, 0b01, 5, 20))
	//
	checkReverted[*addressing.InvalidAddressingError](t, result)
}

func Test_CalldataCopy_01(t *testing.T) {
	// Copying beyond calldata reads zero
	result := runProgram(t, fields(5, 6),
		instruction.New(instruction.CALLDATACOPY, 0, 1, 3, 0),
		instruction.New(instruction.RETURN, 0, 0, 3))
	//
	checkResult(t, CallResult{Output: fields(6, 0, 0)}, result)
}

func Test_CalldataCopy_02(t *testing.T) {
	// Zero length copies still consume base gas
	vm := newVM(t, world.NewInMemory())
	bytecode := assemble(t, instruction.New(instruction.CALLDATACOPY, 0, 0, 0, 0))
	result := vm.RunWithGas(bytecode, fields(1), testEnvironment(), gas.Gas{L2: 100})
	//
	checkResult(t, CallResult{Output: fields(), GasLeft: gas.Gas{L2: 90}}, result)
}

// ============================================================================
// Control Flow
// ============================================================================

func Test_Control_01(t *testing.T) {
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tU1, 1),
		instruction.New(instruction.JUMPI_32, 0, 0, 3),
		instruction.New(instruction.REVERT_8, 0, 0, 0),
		instruction.New(instruction.INTERNALCALL, 0, 6),
		instruction.New(instruction.RETURN, 0, 1, 1),
		instruction.New(instruction.REVERT_8, 0, 0, 0),
		instruction.New(instruction.SET_8, 0, 1, tFIELD, 77),
		instruction.New(instruction.INTERNALRETURN, 0))
	//
	checkResult(t, CallResult{Output: fields(77)}, result)
}

func Test_Control_02(t *testing.T) {
	// JUMPI not taken
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tU8, 0),
		instruction.New(instruction.JUMPI_32, 0, 0, 100),
		instruction.New(instruction.SET_8, 0, 1, tFIELD, 1),
		instruction.New(instruction.RETURN, 0, 1, 1))
	//
	checkResult(t, CallResult{Output: fields(1)}, result)
}

func Test_Control_03(t *testing.T) {
	// JUMPI on a field element
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tFIELD, 1),
		instruction.New(instruction.JUMPI_32, 0, 0, 0))
	//
	checkReverted[*memory.TagMismatchError](t, result)
}

func Test_Control_04(t *testing.T) {
	result := runProgram(t, nil, instruction.New(instruction.INTERNALRETURN, 0))
	//
	checkReverted[*machine.InternalCallStackError](t, result)
}

func Test_Control_05(t *testing.T) {
	// Unbounded internal recursion
	result := runProgram(t, nil, instruction.New(instruction.INTERNALCALL, 0, 0))
	//
	checkReverted[*machine.InternalCallStackError](t, result)
}

// ============================================================================
// Environment
// ============================================================================

func Test_GetEnvVar_01(t *testing.T) {
	vm := newVM(t, world.NewInMemory())
	bytecode := assemble(t,
		instruction.New(instruction.GETENVVAR_16, 0, 0, uint64(env.ADDRESS)),
		instruction.New(instruction.GETENVVAR_16, 0, 1, uint64(env.SENDER)),
		instruction.New(instruction.GETENVVAR_16, 0, 2, uint64(env.ISSTATICCALL)),
		instruction.New(instruction.GETENVVAR_16, 0, 3, uint64(env.L2GASLEFT)),
		instruction.New(instruction.GETENVVAR_16, 0, 4, uint64(env.CHAINID)),
		instruction.New(instruction.RETURN, 0, 0, 5))
	result := vm.RunWithGas(bytecode, nil, testEnvironment(), gas.Gas{L2: 1000})
	//
	require.False(t, result.Reverted, "%v", result.RevertReason)
	checkFields(t, fields(1, 2, 0, 1000-40, 31337), result.Output)
}

func Test_GetEnvVar_02(t *testing.T) {
	result := runProgram(t, nil, instruction.New(instruction.GETENVVAR_16, 0, 0, 13))
	//
	checkReverted[*InvalidEnvVarError](t, result)
}

// ============================================================================
// Hashing
// ============================================================================

func Test_Keccak_01(t *testing.T) {
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tU8, 'a'),
		instruction.New(instruction.SET_8, 0, 1, tU8, 'b'),
		instruction.New(instruction.SET_8, 0, 2, tU8, 'c'),
		instruction.New(instruction.SET_32, 0, 10, tU32, 3),
		instruction.New(instruction.KECCAK, 0, 0, 10, 20),
		instruction.New(instruction.RETURN, 0, 20, 2))
	//
	hi := bn254.FromBigEndianBytes(hexBytes(t, "4e03657aea45a94fc7d47ba826c8d667"))
	lo := bn254.FromBigEndianBytes(hexBytes(t, "c0d1e6e33a64a036ec44f58fa12d6c45"))
	//
	checkResult(t, CallResult{Output: []bn254.Element{hi, lo}}, result)
}

func Test_Keccak_02(t *testing.T) {
	// Input cells must be U8
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tFIELD, 1),
		instruction.New(instruction.SET_32, 0, 10, tU32, 1),
		instruction.New(instruction.KECCAK, 0, 0, 10, 20))
	//
	checkReverted[*memory.TagMismatchError](t, result)
}

func Test_Poseidon2_01(t *testing.T) {
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 0, tFIELD, 1),
		instruction.New(instruction.SET_8, 0, 1, tFIELD, 2),
		instruction.New(instruction.SET_32, 0, 10, tU32, 2),
		instruction.New(instruction.POSEIDON2, 0, 0, 10, 20),
		instruction.New(instruction.RETURN, 0, 20, 1))
	//
	one, two := bn254.One().Bytes(), bn254.Uint64(2).Bytes()
	digest, err := newVM(t, world.NewInMemory()).hasher.Poseidon2(append(one[:], two[:]...))
	require.NoError(t, err)
	expected, err := bn254.FromCanonicalBytes(digest)
	require.NoError(t, err)
	//
	checkResult(t, CallResult{Output: []bn254.Element{expected}}, result)
}

func Test_Poseidon2_02(t *testing.T) {
	// Size must be U32
	result := runProgram(t, nil,
		instruction.New(instruction.SET_8, 0, 10, tU8, 2),
		instruction.New(instruction.POSEIDON2, 0, 0, 10, 20))
	//
	checkReverted[*memory.TagMismatchError](t, result)
}

// ============================================================================
// Configuration
// ============================================================================

func Test_Config_01(t *testing.T) {
	cfg, err := config.Parse([]byte("[gas.opcodes.ADD_8]\nbase_l2 = 12\n"))
	require.NoError(t, err)
	//
	state := world.NewInMemory()
	vm, err := New(cfg, state, state, nil)
	require.NoError(t, err)
	//
	result := vm.RunWithGas(assemble(t, addProgram...), fields(1, 2), testEnvironment(), gas.Gas{L2: 1000})
	checkResult(t, CallResult{Output: fields(3), GasLeft: gas.Gas{L2: 1000 - addProgramGas - 2}}, result)
}

func Test_Config_02(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCallDepth = 0
	//
	_, err := New(cfg, nil, nil, nil)
	require.Error(t, err)
}

// ============================================================================
// Helpers
// ============================================================================

func newVM(t *testing.T, state *world.InMemory) *VM {
	vm, err := New(config.Default(), state, state, nil)
	require.NoError(t, err)
	//
	return vm
}

func runProgram(t *testing.T, calldata []bn254.Element, program ...instruction.Instruction) CallResult {
	vm := newVM(t, world.NewInMemory())
	//
	return vm.Run(assemble(t, program...), calldata, testEnvironment())
}

func assemble(t *testing.T, program ...instruction.Instruction) []byte {
	bytecode, err := instruction.Encode(program)
	require.NoError(t, err)
	//
	return bytecode
}

func testEnvironment() *env.Environment {
	return &env.Environment{
		Address: bn254.Uint64(1),
		Sender:  bn254.Uint64(2),
		Globals: env.Globals{ChainID: bn254.Uint64(31337)},
	}
}

func fields(values ...uint64) []bn254.Element {
	elems := make([]bn254.Element, len(values))
	//
	for i, v := range values {
		elems[i] = bn254.Uint64(v)
	}
	//
	return elems
}

func hexBytes(t *testing.T, str string) []byte {
	bytes, err := hex.DecodeString(str)
	require.NoError(t, err)
	//
	return bytes
}

// Check a result matches that expected.  Gas is only compared when expected to
// be non-zero, whilst revert reasons are compared only by presence.
func checkResult(t *testing.T, expected, actual CallResult) {
	t.Helper()
	//
	opts := []cmp.Option{cmpopts.EquateEmpty(), cmpopts.IgnoreFields(CallResult{}, "RevertReason")}
	//
	if expected.GasLeft.IsZero() {
		opts = append(opts, cmpopts.IgnoreFields(CallResult{}, "GasLeft"))
	}
	//
	if !expected.Reverted {
		require.NoError(t, actual.RevertReason)
	}
	//
	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		t.Errorf("unexpected result (-expected +actual):\n%s", diff)
	}
}

func checkFields(t *testing.T, expected, actual []bn254.Element) {
	t.Helper()
	//
	if diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected fields (-expected +actual):\n%s", diff)
	}
}

// Check a result reverted with a reason of a given error type.
func checkReverted[E error](t *testing.T, result CallResult) {
	t.Helper()
	//
	var err E
	//
	require.True(t, result.Reverted, "expected revert")
	//
	if !errors.As(result.RevertReason, &err) {
		t.Errorf("unexpected revert reason (expected %T, received %v)", err, result.RevertReason)
	}
}
