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

	"github.com/consensys/go-avm/pkg/avm/config"
	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/hashing"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/world"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
	lru "github.com/hashicorp/golang-lru"
)

// CallResult is the outcome of executing a single contract call.  Every call
// produces exactly one result, regardless of whether it succeeded or failed.
type CallResult struct {
	// Reverted indicates whether the call failed.
	Reverted bool
	// Output of the call.  For a call which failed with an error (rather than
	// through an explicit revert), this is empty.
	Output []bn254.Element
	// GasLeft once the call halted.
	GasLeft gas.Gas
	// RevertReason is the reason the call reverted (or nil if it did not).
	RevertReason error
}

func (p CallResult) String() string {
	if p.Reverted {
		return fmt.Sprintf("reverted (%v) output=%v gas=%s", p.RevertReason, p.Output, p.GasLeft)
	}
	//
	return fmt.Sprintf("returned output=%v gas=%s", p.Output, p.GasLeft)
}

// VM is an interpreter for contract bytecode.  A VM can be reused across any
// number of calls, but it is not safe for concurrent use.  The world state is
// accessed through the given collaborators, and is never modified directly.
// Instead, the side effects of a call are recorded in a journal.
type VM struct {
	config    config.Config
	gas       *gas.Table
	contracts world.ContractSource
	state     world.PublicState
	hasher    hashing.Hasher
	// Decoded programs, indexed by the SHA3-256 digest of their bytecode
	cache *lru.Cache
}

// New constructs a VM for a given configuration, which accesses contracts and
// public state through the given collaborators.  If no hasher is given, the
// default hasher is used.
func New(cfg config.Config, contracts world.ContractSource, state world.PublicState,
	hasher hashing.Hasher) (*VM, error) {
	//
	if err := cfg.Validate(); err != nil {
		return nil, err
	} else if hasher == nil {
		hasher = hashing.Default()
	}
	//
	cache, err := lru.New(cfg.BytecodeCacheSize)
	if err != nil {
		return nil, err
	}
	//
	return &VM{cfg, cfg.GasTable(), contracts, state, hasher, cache}, nil
}

// Config returns the configuration of this VM.
func (p *VM) Config() config.Config {
	return p.config
}

// Run a given bytecode with given calldata in a given environment, using the
// configured gas limit.  Side effects on the world state are discarded.  The
// bytecode is decoded in its entirety before execution begins and, if this
// fails, the call reverts without executing any instruction.
func (p *VM) Run(bytecode []byte, calldata []bn254.Element, environment *env.Environment) CallResult {
	return p.RunWithGas(bytecode, calldata, environment, p.config.GasLimit())
}

// RunWithGas is as for Run, except with a given allocation of gas.
func (p *VM) RunWithGas(bytecode []byte, calldata []bn254.Element, environment *env.Environment,
	allocation gas.Gas) CallResult {
	//
	return p.RunInJournal(world.NewJournal(p.state), bytecode, calldata, environment, allocation)
}

// RunInJournal is as for RunWithGas, except that side effects are recorded in a
// given journal.  If the call reverts, its side effects are not recorded.
func (p *VM) RunInJournal(journal *world.Journal, bytecode []byte, calldata []bn254.Element,
	environment *env.Environment, allocation gas.Gas) CallResult {
	//
	program, err := instruction.Decode(bytecode)
	//
	if err != nil {
		return CallResult{Reverted: true, Output: []bn254.Element{}, GasLeft: allocation, RevertReason: err}
	}
	//
	fork := journal.Fork()
	result := p.execute(program, environment.WithCalldata(calldata), allocation, fork)
	//
	if !result.Reverted {
		journal.Merge(fork)
	}
	//
	return result
}
