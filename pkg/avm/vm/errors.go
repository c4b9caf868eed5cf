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
	"fmt"

	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// ErrExplicitRevert is the revert reason of a call which executed REVERT.
var ErrExplicitRevert = errors.New("explicit revert")

// InvalidProgramCounterError signals an attempt to jump to a position outside
// the program.
type InvalidProgramCounterError struct {
	PC     uint32
	Length uint
}

func (p *InvalidProgramCounterError) Error() string {
	return fmt.Sprintf("invalid program counter %d (program has %d instructions)", p.PC, p.Length)
}

// StaticCallAlterationError signals an attempt to mutate state within a static
// call.
type StaticCallAlterationError struct {
	Opcode instruction.Opcode
}

func (p *StaticCallAlterationError) Error() string {
	return fmt.Sprintf("%s not permitted in static call", p.Opcode)
}

// ChildCallRevertedError signals that a nested call reverted.
type ChildCallRevertedError struct {
	// Address of the called contract.
	Address bn254.Element
	// Reason the nested call reverted.
	Reason error
}

func (p *ChildCallRevertedError) Error() string {
	return fmt.Sprintf("call to %s reverted: %v", p.Address.Text(16), p.Reason)
}

func (p *ChildCallRevertedError) Unwrap() error {
	return p.Reason
}

// CallDepthError signals a nested call beyond the maximum call depth.
type CallDepthError struct {
	Depth uint
	Limit uint
}

func (p *CallDepthError) Error() string {
	return fmt.Sprintf("call depth %d exceeds limit %d", p.Depth, p.Limit)
}

// InvalidEnvVarError signals an attempt to read an unknown environment
// variable.
type InvalidEnvVarError struct {
	Var env.Var
}

func (p *InvalidEnvVarError) Error() string {
	return fmt.Sprintf("invalid environment variable %s", p.Var)
}
