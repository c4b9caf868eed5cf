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
	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/avm/world"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"
)

// Dispatch a nested call in a given (derived) environment, with a given
// allocation of gas, on top of the parent's journal.  The nested call executes
// against a fork of the parent's journal, which is merged into the parent only
// if the nested call succeeds.  If the nested call reverts, its result is
// returned along with a ChildCallRevertedError.  A nested call which cannot be
// started (e.g. because it exceeds the maximum call depth, or there is no
// contract at the target address) reverts without consuming its allocation.
func (p *VM) dispatch(environment *env.Environment, allocation gas.Gas, journal *world.Journal) (CallResult,
	error) {
	//
	var result CallResult
	//
	if environment.ContractCallDepth > p.config.MaxCallDepth {
		err := &CallDepthError{environment.ContractCallDepth, p.config.MaxCallDepth}
		result = CallResult{true, []bn254.Element{}, allocation, err}
	} else if program, err := p.load(environment.Address); err != nil {
		result = CallResult{true, []bn254.Element{}, allocation, err}
	} else {
		fork := journal.Fork()
		result = p.execute(program, environment, allocation, fork)
		//
		if !result.Reverted {
			journal.Merge(fork)
		}
	}
	//
	if result.Reverted {
		return result, &ChildCallRevertedError{environment.Address, result.RevertReason}
	}
	//
	return result, nil
}

// Load the decoded program of the contract at a given address.  The bytecode is
// retrieved on every call, but decoded programs are cached by the digest of
// their bytecode.  Thus, redeploying different bytecode at an address is never
// masked by the cache, whilst identical bytecode is decoded only once (even
// when deployed at several addresses).  Cached programs are never modified.
func (p *VM) load(address bn254.Element) ([]instruction.Instruction, error) {
	bytecode, err := p.contracts.GetBytecode(address)
	if err != nil {
		return nil, err
	}
	//
	key := sha3.Sum256(bytecode)
	//
	if program, ok := p.cache.Get(key); ok {
		return program.([]instruction.Instruction), nil
	}
	//
	program, err := instruction.Decode(bytecode)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("decoded %d instructions for %s", len(program), address.Text(16))
	p.cache.Add(key, program)
	//
	return program, nil
}
