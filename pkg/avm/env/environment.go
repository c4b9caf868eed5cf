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
package env

import (
	"slices"

	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// GasFees holds the fee paid per unit of gas in each gas dimension.
type GasFees struct {
	FeePerL2Gas bn254.Element
	FeePerDaGas bn254.Element
}

// Globals holds the chain-wide variables which are fixed for the duration of a
// transaction.
type Globals struct {
	ChainID      bn254.Element
	Version      bn254.Element
	BlockNumber  bn254.Element
	Timestamp    bn254.Element
	FeeRecipient bn254.Element
	GasFees      GasFees
}

// Environment is the immutable context of a single call.  Nested calls derive a
// fresh environment from that of their parent, such that parent and child
// never share mutable state.
type Environment struct {
	// Address of the contract being executed.
	Address bn254.Element
	// Sender is the address of the caller.
	Sender bn254.Element
	// FunctionSelector identifies the function being called.
	FunctionSelector bn254.Element
	// Calldata supplied by the caller.
	Calldata []bn254.Element
	// IsStaticCall indicates state mutation is forbidden.  Once set, this holds
	// for all further nested calls.
	IsStaticCall bool
	// ContractCallDepth is the number of enclosing calls (zero at the top level).
	ContractCallDepth uint
	// TransactionFee paid by the enclosing transaction.
	TransactionFee bn254.Element
	// EffectiveGasFees paid by the enclosing transaction.
	EffectiveGasFees GasFees
	// Globals of the chain.
	Globals Globals
}

// DeriveForNestedCall constructs the environment for a (non-static) call from
// this environment to a given target address with given calldata.  The
// sender becomes this environment's address, the call depth is incremented,
// and the globals, gas fees and transaction fee are preserved.  The function
// selector is the first element of calldata (or zero if there is none).  The
// static flag of this environment is retained, since a call nested within a
// static call remains static.
func (p *Environment) DeriveForNestedCall(target bn254.Element, calldata []bn254.Element) *Environment {
	return p.derive(target, calldata, p.IsStaticCall)
}

// DeriveForNestedStaticCall is as for DeriveForNestedCall, except that the
// resulting environment is always static.
func (p *Environment) DeriveForNestedStaticCall(target bn254.Element, calldata []bn254.Element) *Environment {
	return p.derive(target, calldata, true)
}

// WithCalldata returns a copy of this environment with the given calldata.
func (p *Environment) WithCalldata(calldata []bn254.Element) *Environment {
	env := *p
	env.Calldata = slices.Clone(calldata)
	//
	return &env
}

// CalldataAt returns the ith element of calldata, or zero if this is beyond the
// end of calldata.
func (p *Environment) CalldataAt(i uint64) bn254.Element {
	if i < uint64(len(p.Calldata)) {
		return p.Calldata[i]
	}
	//
	return bn254.Zero()
}

func (p *Environment) derive(target bn254.Element, calldata []bn254.Element, static bool) *Environment {
	var selector bn254.Element
	//
	if len(calldata) > 0 {
		selector = calldata[0]
	}
	//
	return &Environment{
		Address:           target,
		Sender:            p.Address,
		FunctionSelector:  selector,
		Calldata:          slices.Clone(calldata),
		IsStaticCall:      static,
		ContractCallDepth: p.ContractCallDepth + 1,
		TransactionFee:    p.TransactionFee,
		EffectiveGasFees:  p.EffectiveGasFees,
		Globals:           p.Globals,
	}
}
