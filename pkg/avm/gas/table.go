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
package gas

import (
	"fmt"

	"github.com/consensys/go-avm/pkg/avm/instruction"
)

// Cost describes the cost of executing an opcode.  Every execution pays the
// base cost (plus any addressing surcharge), whilst the dynamic cost is paid
// per unit of work for opcodes whose work depends on runtime values (e.g. the
// number of cells copied).
type Cost struct {
	BaseL2 uint32 `toml:"base_l2"`
	BaseDA uint32 `toml:"base_da"`
	DynL2  uint32 `toml:"dyn_l2"`
	DynDA  uint32 `toml:"dyn_da"`
}

// Table determines the cost of every opcode, along with the surcharge for each
// indirect or relative address operand.
type Table struct {
	IndirectCost uint32
	RelativeCost uint32
	Opcodes      [instruction.NumOpcodes]Cost
}

// Base returns the gas charged before executing an instruction with a given
// opcode, where the given number of address operands are indirect and relative.
func (p *Table) Base(opcode instruction.Opcode, indirect, relative uint) Gas {
	cost := p.Opcodes[opcode]
	l2 := saturatingAdd(cost.BaseL2, saturatingMul(p.IndirectCost, uint32(indirect)))
	l2 = saturatingAdd(l2, saturatingMul(p.RelativeCost, uint32(relative)))
	//
	return Gas{l2, cost.BaseDA}
}

// Dynamic returns the gas charged for an opcode performing a given number of
// units of work.
func (p *Table) Dynamic(opcode instruction.Opcode, units uint32) Gas {
	cost := p.Opcodes[opcode]
	//
	return Gas{saturatingMul(cost.DynL2, units), saturatingMul(cost.DynDA, units)}
}

// Set the cost of a given opcode.
func (p *Table) Set(opcode instruction.Opcode, cost Cost) {
	p.Opcodes[opcode] = cost
}

// Get the cost of a given opcode.
func (p *Table) Get(opcode instruction.Opcode) Cost {
	return p.Opcodes[opcode]
}

// Clone returns a copy of this table which can be modified independently.
func (p *Table) Clone() *Table {
	table := *p
	return &table
}

func (p *Table) String() string {
	return fmt.Sprintf("indirect: %d, relative: %d", p.IndirectCost, p.RelativeCost)
}

// DefaultTable returns the default gas table.
func DefaultTable() *Table {
	var (
		table = Table{IndirectCost: 3, RelativeCost: 3}
		cheap = Cost{BaseL2: 10}
		// Copying memory pays per cell copied
		copying = Cost{BaseL2: 10, DynL2: 3}
		// State mutations pay for data availability
		mutating = Cost{BaseL2: 60, BaseDA: 512}
	)
	// Initially all opcodes are cheap
	for i := range instruction.NumOpcodes {
		table.Opcodes[i] = cheap
	}
	//
	for _, op := range []instruction.Opcode{instruction.CALLDATACOPY, instruction.RETURNDATACOPY,
		instruction.RETURN, instruction.REVERT_8, instruction.REVERT_16} {
		table.Opcodes[op] = copying
	}
	//
	for _, op := range []instruction.Opcode{instruction.SSTORE, instruction.EMITNULLIFIER,
		instruction.EMITNOTEHASH, instruction.SENDL2TOL1MSG} {
		table.Opcodes[op] = mutating
	}
	//
	table.Opcodes[instruction.EMITUNENCRYPTEDLOG] = Cost{BaseL2: 30, DynL2: 3, DynDA: 32}
	table.Opcodes[instruction.SLOAD] = Cost{BaseL2: 60}
	table.Opcodes[instruction.NULLIFIEREXISTS] = Cost{BaseL2: 60}
	table.Opcodes[instruction.GETCONTRACTINSTANCE] = Cost{BaseL2: 60}
	table.Opcodes[instruction.CALL] = Cost{BaseL2: 100, DynL2: 3}
	table.Opcodes[instruction.STATICCALL] = Cost{BaseL2: 100, DynL2: 3}
	table.Opcodes[instruction.POSEIDON2] = Cost{BaseL2: 30, DynL2: 6}
	table.Opcodes[instruction.KECCAK] = Cost{BaseL2: 30, DynL2: 3}
	//
	return &table
}
