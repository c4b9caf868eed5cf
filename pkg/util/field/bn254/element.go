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
package bn254

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
)

// Bytes is the number of bytes in the canonical big-endian encoding of an
// Element.
const Bytes = fr.Bytes

// Bits is the number of bits required to hold any element of the field.
const Bits = fr.Bits

// Element wraps fr.Element (an element of the BN254 scalar field) so that it
// can be used as a value type.  All operations return fresh elements and never
// modify their receiver.
type Element struct {
	fr.Element
}

// Zero returns the element 0.
func Zero() Element {
	return Element{}
}

// One returns the element 1.
func One() Element {
	return Uint64(1)
}

// Uint64 constructs an element from a given uint64.
func Uint64(val uint64) Element {
	var elem fr.Element
	//
	elem.SetUint64(val)
	//
	return Element{elem}
}

// BigInt constructs an element from a given big.Int, which is reduced modulo the
// field modulus.
func BigInt(val *big.Int) Element {
	var elem fr.Element
	//
	elem.SetBigInt(val)
	//
	return Element{elem}
}

// FromUint256 constructs an element from a 256bit word, reducing it modulo the
// field modulus.
func FromUint256(val *uint256.Int) Element {
	var bytes = val.Bytes32()
	//
	return FromBigEndianBytes(bytes[:])
}

// FromBigEndianBytes constructs an element from an array of bytes given in big
// endian order.  The value is reduced modulo the field modulus.
func FromBigEndianBytes(bytes []byte) Element {
	var elem fr.Element
	//
	elem.SetBytes(bytes)
	//
	return Element{elem}
}

// FromCanonicalBytes constructs an element from exactly 32 big-endian bytes,
// failing if they do not represent a value strictly less than the modulus.
func FromCanonicalBytes(bytes []byte) (Element, error) {
	var elem fr.Element
	//
	if err := elem.SetBytesCanonical(bytes); err != nil {
		return Element{}, err
	}
	//
	return Element{elem}, nil
}

// Modulus returns the modulus of the BN254 scalar field.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res fr.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var elem fr.Element
	//
	elem.Sub(&x.Element, &y.Element)
	//
	return Element{elem}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var elem fr.Element
	//
	elem.Mul(&x.Element, &y.Element)
	//
	return Element{elem}
}

// Div x * y⁻¹.  Observe that division by zero yields zero, hence callers must
// check the divisor where this matters.
func (x Element) Div(y Element) Element {
	return x.Mul(y.Inverse())
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var elem fr.Element
	//
	elem.Inverse(&x.Element)
	//
	return Element{elem}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.  The comparison is made
// on the canonical (i.e. non-Montgomery) representation.
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// Equals checks whether two elements are identical.
func (x Element) Equals(y Element) bool {
	return x.Element.Equal(&y.Element)
}

// IsZero checks whether this value is zero (or not).
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// IsOne checks whether this value is one (or not).
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// Bytes returns the big-endian encoded value of the Element, with leading zeros.
func (x Element) Bytes() [Bytes]byte {
	return x.Element.Bytes()
}

// Uint256 returns the canonical value of this element as a 256bit word.
func (x Element) Uint256() uint256.Int {
	var (
		word  uint256.Int
		bytes = x.Element.Bytes()
	)
	//
	word.SetBytes32(bytes[:])
	//
	return word
}

// ToUint32 returns the numerical value of x, or panics if it does not fit.
func (x Element) ToUint32() uint32 {
	if !x.IsUint64() {
		panic(fmt.Errorf("cannot convert to uint64: %s", x.String()))
	}

	i := x.Uint64()
	if i >= 1<<32 {
		panic(fmt.Errorf("cannot convert to uint32: %d", i))
	}

	return uint32(i)
}

func (x Element) String() string {
	return x.Element.String()
}

// Text returns the numerical value of x in the given base.
func (x Element) Text(base int) string {
	return x.Element.Text(base)
}
