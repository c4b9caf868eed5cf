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
package hashing

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
	"golang.org/x/crypto/sha3"
)

// Hasher provides the cryptographic primitives invoked by the hashing opcodes.
// Both are pure functions.
type Hasher interface {
	// Poseidon2 hashes a sequence of 32 byte big-endian field elements, returning
	// a 32 byte big-endian field element.  This fails if any element is not
	// canonical.
	Poseidon2(data []byte) ([]byte, error)
	// Keccak returns the 32 byte Keccak-256 digest of a sequence of bytes.
	Keccak(data []byte) []byte
}

// Default returns the default hasher, which uses Poseidon2 over the BN254
// scalar field (in the Merkle-Damgard construction) and the legacy (i.e.
// pre-standard) Keccak-256.
func Default() Hasher {
	return primitives{}
}

type primitives struct{}

func (primitives) Poseidon2(data []byte) ([]byte, error) {
	hasher := poseidon2.NewMerkleDamgardHasher()
	//
	if _, err := hasher.Write(data); err != nil {
		return nil, err
	}
	//
	return hasher.Sum(nil), nil
}

func (primitives) Keccak(data []byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	// Never fails
	hasher.Write(data)
	//
	return hasher.Sum(nil)
}
