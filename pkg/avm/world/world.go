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
	"fmt"

	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// Point is an affine point whose coordinates are field elements.
type Point struct {
	X bn254.Element
	Y bn254.Element
}

// PublicKeys associated with a contract instance.
type PublicKeys struct {
	NullifierKey       Point
	IncomingViewingKey Point
	OutgoingViewingKey Point
	TaggingKey         Point
}

// ContractInstance describes a deployed contract.
type ContractInstance struct {
	Address            bn254.Element
	Salt               bn254.Element
	Deployer           bn254.Element
	ContractClassID    bn254.Element
	InitializationHash bn254.Element
	PublicKeys         PublicKeys
}

// ContractSource provides access to deployed contracts.
type ContractSource interface {
	// GetBytecode returns the bytecode of the contract deployed at a given
	// address, or a ContractNotFoundError if there is none.
	GetBytecode(address bn254.Element) ([]byte, error)
	// GetContractInstance returns the instance deployed at a given address, or
	// false if there is none.
	GetContractInstance(address bn254.Element) (ContractInstance, bool)
}

// PublicState provides read access to persistent public state.
type PublicState interface {
	// StorageRead returns the value held in a given storage slot of a given
	// contract.  Unwritten slots hold zero.
	StorageRead(address, slot bn254.Element) bn254.Element
	// NullifierExists checks whether a given nullifier has been emitted by a
	// given contract.
	NullifierExists(address, nullifier bn254.Element) bool
}

// ContractNotFoundError signals there is no contract at a given address.
type ContractNotFoundError struct {
	Address bn254.Element
}

func (p *ContractNotFoundError) Error() string {
	return fmt.Sprintf("no contract deployed at %s", p.Address.Text(16))
}

// DuplicateNullifierError signals an attempt to emit a nullifier which already
// exists.
type DuplicateNullifierError struct {
	Address   bn254.Element
	Nullifier bn254.Element
}

func (p *DuplicateNullifierError) Error() string {
	return fmt.Sprintf("nullifier %s already exists for %s", p.Nullifier.Text(16), p.Address.Text(16))
}

// Key into per-contract state (storage slots and nullifiers).
type key struct {
	address bn254.Element
	value   bn254.Element
}
