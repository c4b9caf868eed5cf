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
	"github.com/consensys/go-avm/pkg/avm/addressing"
	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/machine"
	"github.com/consensys/go-avm/pkg/avm/memory"
	"github.com/consensys/go-avm/pkg/avm/world"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
	log "github.com/sirupsen/logrus"
)

// Frame holds everything needed to execute a single contract call.  Frames are
// never shared between calls: a nested call executes in a fresh frame, and only
// its CallResult is visible to its parent.
type frame struct {
	vm      *VM
	program []instruction.Instruction
	state   *machine.State
	env     *env.Environment
	journal *world.Journal
	// Set when the current instruction assigned the program counter.
	jumped bool
}

// Execute a given program to completion within a given environment, starting
// with a given allocation of gas and recording side effects in a given journal.
// This never fails: every error arising during execution is converted into a
// reverted CallResult.  Errors (i.e. other than an explicit revert) consume all
// remaining gas.
func (p *VM) execute(program []instruction.Instruction, environment *env.Environment, allocation gas.Gas,
	journal *world.Journal) CallResult {
	//
	f := &frame{
		vm:      p,
		program: program,
		state:   machine.NewState(allocation),
		env:     environment,
		journal: journal,
	}
	//
	log.Debugf("entering call to %s (depth %d, static %t, gas %s)", environment.Address.Text(16),
		environment.ContractCallDepth, environment.IsStaticCall, allocation)
	//
	for !f.state.Halted() {
		pc := f.state.PC()
		// Falling off the end is an implicit return
		if uint(pc) >= uint(len(program)) {
			f.state.Return(nil)
			break
		}
		//
		if err := f.step(program[pc]); err != nil {
			f.state.Gas().Drain()
			f.state.Revert(nil, err)
		}
	}
	//
	result := CallResult{
		Reverted:     f.state.Status() == machine.Reverted,
		Output:       f.state.Output(),
		GasLeft:      f.state.Gas().Left(),
		RevertReason: f.state.Reason(),
	}
	//
	if result.Output == nil {
		result.Output = []bn254.Element{}
	}
	//
	log.Debugf("leaving call to %s: %s", environment.Address.Text(16), result)
	//
	return result
}

// Step executes a single instruction.  Its address operands are first resolved
// and its base gas consumed, before its handler is executed.  The memory
// accesses of the handler are checked against those it declared and, unless the
// handler assigned the program counter, it is advanced to the next instruction.
func (p *frame) step(insn instruction.Instruction) error {
	var (
		mem     = p.state.Memory()
		meter   = p.state.Gas()
		mode    = addressing.Mode(insn.Indirect)
		format  = insn.Format()
		handler = handlers[insn.Opcode]
	)
	//
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("[%d] %s (gas %s)", p.state.PC(), insn, meter.Left())
	}
	//
	offsets, err := mode.Resolve(insn.Addresses(), mem)
	if err != nil {
		return err
	}
	//
	indirect, relative := mode.Count(format.NumAddresses())
	//
	if err := meter.Consume(p.vm.gas.Base(insn.Opcode, indirect, relative)); err != nil {
		return err
	}
	//
	p.jumped = false
	//
	mem.Begin(handler.reads, handler.writes)
	//
	if err := handler.execute(p, insn, offsets); err != nil {
		return err
	} else if err := mem.Settle(); err != nil {
		return err
	}
	//
	if !p.jumped && !p.state.Halted() {
		p.state.Goto(p.state.PC() + 1)
	}
	//
	return nil
}

// Jump to a given position in the program, failing if this is out of bounds.
func (p *frame) jump(dest uint32) error {
	if uint(dest) >= uint(len(p.program)) {
		return &InvalidProgramCounterError{dest, uint(len(p.program))}
	}
	//
	p.state.Goto(dest)
	p.jumped = true
	//
	return nil
}

// Consume the dynamic gas for a given number of units of work of the current
// instruction.
func (p *frame) consumeDynamic(opcode instruction.Opcode, units uint32) error {
	return p.state.Gas().Consume(p.vm.gas.Dynamic(opcode, units))
}

// Check the current call is permitted to mutate state.
func (p *frame) checkMutable(opcode instruction.Opcode) error {
	if p.env.IsStaticCall {
		return &StaticCallAlterationError{opcode}
	}
	//
	return nil
}

// Read a U32 value from memory.
func (p *frame) readU32(offset uint32) (uint32, error) {
	mem := p.state.Memory()
	//
	if err := mem.CheckTag(memory.U32, offset); err != nil {
		return 0, err
	}
	//
	return uint32(mem.Get(offset).Uint64()), nil
}

// Read a field element from memory.
func (p *frame) readField(offset uint32) (bn254.Element, error) {
	mem := p.state.Memory()
	//
	if err := mem.CheckTag(memory.FIELD, offset); err != nil {
		return bn254.Zero(), err
	}
	//
	return mem.Get(offset).Field(), nil
}

// Read size field elements starting from a given offset.
func (p *frame) readFields(offset uint32, size uint32) ([]bn254.Element, error) {
	fields := make([]bn254.Element, size)
	//
	if size > 0 && uint64(offset)+uint64(size)-1 > uint64(^uint32(0)) {
		return nil, &memory.OutOfBoundsError{Offset: offset, Size: size}
	}
	//
	for i := range size {
		f, err := p.readField(offset + i)
		if err != nil {
			return nil, err
		}
		//
		fields[i] = f
	}
	//
	return fields, nil
}

// Project size values starting from a given offset into field elements,
// regardless of their tags.
func (p *frame) projectFields(offset uint32, size uint32) ([]bn254.Element, error) {
	values, err := p.state.Memory().GetSlice(offset, size)
	if err != nil {
		return nil, err
	}
	//
	fields := make([]bn254.Element, len(values))
	//
	for i, v := range values {
		fields[i] = v.Field()
	}
	//
	return fields, nil
}
