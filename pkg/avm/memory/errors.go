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
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned when an integer or field division has a zero
// divisor.
var ErrDivisionByZero = errors.New("division by zero")

// TagMismatchError signals that a value was found with a tag other than that
// required.  This arises when two operands must have the same tag but do not,
// or when an operand must have a specific tag (e.g. U32 for an address).
type TagMismatchError struct {
	// Expected describes the tag (or class of tags) which was required.
	Expected string
	// Actual is the tag which was found.
	Actual Tag
}

func (p *TagMismatchError) Error() string {
	return fmt.Sprintf("tag mismatch (expected %s, found %s)", p.Expected, p.Actual)
}

// InvalidTagError signals that a raw tag (e.g. an instruction operand) does
// not identify any known tag.
type InvalidTagError struct {
	Raw uint64
}

func (p *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid tag %d", p.Raw)
}

// OutOfRangeError signals that a word is too large for the tag it is being
// given, for example when setting a U8 cell with the constant 256.
type OutOfRangeError struct {
	Tag  Tag
	Word string
}

func (p *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %s out of range for %s", p.Word, p.Tag)
}

// OutOfBoundsError signals an access to a range of cells which extends beyond
// the end of the address space.
type OutOfBoundsError struct {
	Offset uint32
	Size   uint32
}

func (p *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access [%d;%d] out of bounds", p.Offset, p.Size)
}

// AccessCountError signals that an instruction did not perform exactly the
// number of memory reads and writes which were declared for it.
type AccessCountError struct {
	DeclaredReads, DeclaredWrites   uint
	PerformedReads, PerformedWrites uint
}

func (p *AccessCountError) Error() string {
	return fmt.Sprintf("memory access mismatch (declared %d reads / %d writes, performed %d reads / %d writes)",
		p.DeclaredReads, p.DeclaredWrites, p.PerformedReads, p.PerformedWrites)
}
