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
package world

import (
	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// InMemory is a simple world state held entirely in memory, which implements
// both ContractSource and PublicState.  This is suitable for simulation and
// testing.
type InMemory struct {
	contracts  map[bn254.Element]contract
	storage    map[key]bn254.Element
	nullifiers map[key]struct{}
}

type contract struct {
	instance ContractInstance
	bytecode []byte
}

// NewInMemory constructs an empty world state.
func NewInMemory() *InMemory {
	return &InMemory{
		contracts:  make(map[bn254.Element]contract),
		storage:    make(map[key]bn254.Element),
		nullifiers: make(map[key]struct{}),
	}
}

// Deploy a contract instance with given bytecode at the instance's address,
// replacing any existing contract at that address.
func (p *InMemory) Deploy(instance ContractInstance, bytecode []byte) {
	p.contracts[instance.Address] = contract{instance, bytecode}
}

// GetBytecode implementation for the ContractSource interface.
func (p *InMemory) GetBytecode(address bn254.Element) ([]byte, error) {
	if c, ok := p.contracts[address]; ok {
		return c.bytecode, nil
	}
	//
	return nil, &ContractNotFoundError{address}
}

// GetContractInstance implementation for the ContractSource interface.
func (p *InMemory) GetContractInstance(address bn254.Element) (ContractInstance, bool) {
	c, ok := p.contracts[address]
	//
	return c.instance, ok
}

// SetStorage assigns a given storage slot of a given contract.
func (p *InMemory) SetStorage(address, slot, value bn254.Element) {
	p.storage[key{address, slot}] = value
}

// AddNullifier records a given nullifier for a given contract.
func (p *InMemory) AddNullifier(address, nullifier bn254.Element) {
	p.nullifiers[key{address, nullifier}] = struct{}{}
}

// StorageRead implementation for the PublicState interface.
func (p *InMemory) StorageRead(address, slot bn254.Element) bn254.Element {
	return p.storage[key{address, slot}]
}

// NullifierExists implementation for the PublicState interface.
func (p *InMemory) NullifierExists(address, nullifier bn254.Element) bool {
	_, ok := p.nullifiers[key{address, nullifier}]
	return ok
}

// Commit the storage writes and nullifiers recorded in a journal to this state.
func (p *InMemory) Commit(journal *Journal) {
	for _, w := range journal.StorageWrites() {
		p.SetStorage(w.Address, w.Slot, w.Value)
	}
	//
	for _, n := range journal.Nullifiers() {
		p.AddNullifier(n.Address, n.Value)
	}
}
