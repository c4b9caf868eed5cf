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
)

// Tag identifies the type of a value held in a memory cell.  Every cell of a
// memory always carries a tag, and operations which combine values check that
// their tags are compatible.
type Tag uint8

const (
	// FIELD is an element of the BN254 scalar field.
	FIELD Tag = iota
	// U1 is a single bit.
	U1
	// U8 is an unsigned 8bit integer.
	U8
	// U16 is an unsigned 16bit integer.
	U16
	// U32 is an unsigned 32bit integer.
	U32
	// U64 is an unsigned 64bit integer.
	U64
	// U128 is an unsigned 128bit integer.
	U128
)

// NumTags is the number of valid tags.
const NumTags = uint(U128) + 1

var tagNames = [NumTags]string{"FIELD", "U1", "U8", "U16", "U32", "U64", "U128"}

var tagBits = [NumTags]uint{254, 1, 8, 16, 32, 64, 128}

// TagFromByte converts a raw tag (e.g. as found in an instruction operand) into
// a Tag, or fails with an InvalidTagError.
func TagFromByte(raw uint64) (Tag, error) {
	if raw >= uint64(NumTags) {
		return 0, &InvalidTagError{raw}
	}
	//
	return Tag(raw), nil
}

// Bits returns the bitwidth of values with this tag.  For the field, this is
// the number of bits needed to hold the modulus.
func (p Tag) Bits() uint {
	return tagBits[p]
}

// IsInteger checks whether this tag describes a fixed-width unsigned integer
// (i.e. anything other than a field element).
func (p Tag) IsInteger() bool {
	return p != FIELD
}

func (p Tag) String() string {
	if uint(p) < NumTags {
		return tagNames[p]
	}
	//
	return fmt.Sprintf("TAG(%d)", uint8(p))
}
