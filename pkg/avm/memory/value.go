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
package memory

import (
	"fmt"

	"github.com/consensys/go-avm/pkg/util/field/bn254"
	"github.com/holiman/uint256"
)

// Value represents the contents of a single memory cell: a word together with
// the tag which determines how it is interpreted.  The word of a value is always
// normalised with respect to its tag.  That is, for an integer tag of width n it
// is strictly less than 2^n and, for a field element, it is strictly less than
// the field modulus.  Values are comparable using ==.
type Value struct {
	tag  Tag
	word uint256.Int
}

// NewValue constructs a value of the given tag from a given word, reducing the
// word modulo 2^n (for an integer tag of width n) or modulo the field modulus.
func NewValue(tag Tag, word *uint256.Int) Value {
	var w uint256.Int
	//
	if tag == FIELD {
		w = bn254.FromUint256(word).Uint256()
	} else {
		w.And(word, mask(tag))
	}
	//
	return Value{tag, w}
}

// NewField constructs a value tagged as a field element.
func NewField(elem bn254.Element) Value {
	return Value{FIELD, elem.Uint256()}
}

// NewFieldUint64 constructs a field element value from a given uint64.
func NewFieldUint64(val uint64) Value {
	return Value{FIELD, *uint256.NewInt(val)}
}

// NewU1 constructs a single bit value.
func NewU1(bit bool) Value {
	if bit {
		return Value{U1, *uint256.NewInt(1)}
	}
	//
	return Value{U1, uint256.Int{}}
}

// NewU8 constructs an 8bit value.
func NewU8(val uint8) Value {
	return Value{U8, *uint256.NewInt(uint64(val))}
}

// NewU16 constructs a 16bit value.
func NewU16(val uint16) Value {
	return Value{U16, *uint256.NewInt(uint64(val))}
}

// NewU32 constructs a 32bit value.
func NewU32(val uint32) Value {
	return Value{U32, *uint256.NewInt(uint64(val))}
}

// NewU64 constructs a 64bit value.
func NewU64(val uint64) Value {
	return Value{U64, *uint256.NewInt(val)}
}

// NewU128 constructs a 128bit value from its high and low 64bit halves.
func NewU128(hi, lo uint64) Value {
	return Value{U128, uint256.Int{lo, hi, 0, 0}}
}

// Fits checks whether a given word can be held by a value of the given tag
// without being reduced.
func Fits(tag Tag, word *uint256.Int) bool {
	if tag == FIELD {
		return word.ToBig().Cmp(bn254.Modulus()) < 0
	}
	//
	return uint(word.BitLen()) <= tag.Bits()
}

// Tag returns the tag of this value.
func (p Value) Tag() Tag {
	return p.tag
}

// Word returns the (normalised) word of this value.
func (p Value) Word() uint256.Int {
	return p.word
}

// Field returns the field element corresponding to this value.  Since every
// integer tag is narrower than the field, this never loses information.
func (p Value) Field() bn254.Element {
	return bn254.FromUint256(&p.word)
}

// Uint64 returns the low 64 bits of this value.
func (p Value) Uint64() uint64 {
	return p.word.Uint64()
}

// IsZero checks whether this value is zero, irrespective of its tag.
func (p Value) IsZero() bool {
	return p.word.IsZero()
}

func (p Value) String() string {
	return fmt.Sprintf("%s(%s)", p.tag, p.word.Dec())
}

// masks holds 2^n - 1 for each integer tag of width n.
var masks [NumTags]uint256.Int

func init() {
	for tag := U1; tag <= U128; tag++ {
		var m = uint256.NewInt(1)
		//
		m.Lsh(m, tag.Bits())
		masks[tag] = *m.Sub(m, uint256.NewInt(1))
	}
}

func mask(tag Tag) *uint256.Int {
	return &masks[tag]
}
