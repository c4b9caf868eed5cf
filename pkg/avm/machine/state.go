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
package machine

import (
	"fmt"

	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/util/collection/stack"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// MaxInternalCallDepth is the maximum number of nested internal calls within a
// single contract call.
const MaxInternalCallDepth = 1024

// Status captures whether a machine is still running, or has halted.
type Status uint8

const (
	// Running indicates the machine has not yet halted.
	Running Status = iota
	// Returned indicates the machine halted successfully.
	Returned
	// Reverted indicates the machine halted unsuccessfully.
	Reverted
)

func (p Status) String() string {
	switch p {
	case Running:
		return "running"
	case Returned:
		return "returned"
	case Reverted:
		return "reverted"
	default:
		return fmt.Sprintf("status(%d)", uint8(p))
	}
}

// State represents the state of a single executing contract call.  Every call
// owns its own state, which is created when the call starts and discarded when
// it halts.  In particular, the memory of a call is never shared with any other
// call (e.g. a nested call).
type State struct {
	// Memory of this call
	memory *memory.Memory
	// Program Counter
	pc uint32
	// Gas remaining
	gas *gas.Meter
	// Return addresses for internal calls
	callstack *stack.Stack[uint32]
	// Current status
	status Status
	// Output (once halted)
	output []bn254.Element
	// Reason for reverting (if applicable)
	reason error
	// Output of the most recent nested call
	returndata []bn254.Element
}

// NewState constructs the initial state of a call with a given allocation of
// gas.
func NewState(allocation gas.Gas) *State {
	return &State{
		memory:    memory.NewMemory(),
		gas:       gas.NewMeter(allocation),
		callstack: stack.NewBoundedStack[uint32](MaxInternalCallDepth),
	}
}

// Memory returns the memory of this call.
func (p *State) Memory() *memory.Memory {
	return p.memory
}

// PC returns the current Program Counter position.
func (p *State) PC() uint32 {
	return p.pc
}

// Goto sets the Program Counter to a given position.
func (p *State) Goto(pc uint32) {
	p.pc = pc
}

// Gas returns the gas meter of this call.
func (p *State) Gas() *gas.Meter {
	return p.gas
}

// Status returns the current status of this call.
func (p *State) Status() Status {
	return p.status
}

// Halted checks whether this call has halted.
func (p *State) Halted() bool {
	return p.status != Running
}

// Output returns the output of this call.
func (p *State) Output() []bn254.Element {
	return p.output
}

// Reason returns the reason this call reverted, or nil.
func (p *State) Reason() error {
	return p.reason
}

// Return halts this call successfully with a given output.
func (p *State) Return(output []bn254.Element) {
	p.status = Returned
	p.output = output
}

// Revert halts this call unsuccessfully with a given output and reason.
func (p *State) Revert(output []bn254.Element, reason error) {
	p.status = Reverted
	p.output = output
	p.reason = reason
}

// InternalCall pushes the return address for an internal call, failing if the
// internal call stack is full.
func (p *State) InternalCall(ret uint32) error {
	if !p.callstack.Push(ret) {
		return &InternalCallStackError{"overflow"}
	}
	//
	return nil
}

// InternalReturn pops the return address for an internal call, failing if
// there are no internal calls.
func (p *State) InternalReturn() (uint32, error) {
	ret, ok := p.callstack.Pop()
	//
	if !ok {
		return 0, &InternalCallStackError{"underflow"}
	}
	//
	return ret, nil
}

// ReturnData returns the output of the most recent nested call.
func (p *State) ReturnData() []bn254.Element {
	return p.returndata
}

// SetReturnData records the output of a nested call.
func (p *State) SetReturnData(data []bn254.Element) {
	p.returndata = data
}

// InternalCallStackError signals an internal call stack which has either
// overflowed or underflowed.
type InternalCallStackError struct {
	Kind string
}

func (p *InternalCallStackError) Error() string {
	return fmt.Sprintf("internal call stack %s", p.Kind)
}
