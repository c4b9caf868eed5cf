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
	"github.com/holiman/uint256"
)

// Add computes a + b, wrapping modulo the width (or modulus) of the operands'
// tag.  Both operands must have the same tag.
func Add(a, b Value) (Value, error) {
	if err := sameTag(a, b); err != nil {
		return Value{}, err
	} else if a.tag == FIELD {
		return NewField(a.Field().Add(b.Field())), nil
	}
	//
	var w uint256.Int
	//
	return NewValue(a.tag, w.Add(&a.word, &b.word)), nil
}

// Sub computes a - b, wrapping modulo the width (or modulus) of the operands'
// tag.  Both operands must have the same tag.
func Sub(a, b Value) (Value, error) {
	if err := sameTag(a, b); err != nil {
		return Value{}, err
	} else if a.tag == FIELD {
		return NewField(a.Field().Sub(b.Field())), nil
	}
	//
	var w uint256.Int
	//
	return NewValue(a.tag, w.Sub(&a.word, &b.word)), nil
}

// Mul computes a * b, wrapping modulo the width (or modulus) of the operands'
// tag.  Both operands must have the same tag.
func Mul(a, b Value) (Value, error) {
	if err := sameTag(a, b); err != nil {
		return Value{}, err
	} else if a.tag == FIELD {
		return NewField(a.Field().Mul(b.Field())), nil
	}
	//
	var w uint256.Int
	//
	return NewValue(a.tag, w.Mul(&a.word, &b.word)), nil
}

// Div computes the truncating integer division a / b.  Both operands must have
// the same integer tag.
func Div(a, b Value) (Value, error) {
	if err := sameIntegerTag(a, b); err != nil {
		return Value{}, err
	} else if b.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	//
	var w uint256.Int
	//
	return NewValue(a.tag, w.Div(&a.word, &b.word)), nil
}

// FDiv computes the field division a * b⁻¹.  Both operands must be field
// elements.
func FDiv(a, b Value) (Value, error) {
	if a.tag != FIELD {
		return Value{}, &TagMismatchError{FIELD.String(), a.tag}
	} else if b.tag != FIELD {
		return Value{}, &TagMismatchError{FIELD.String(), b.tag}
	} else if b.IsZero() {
		return Value{}, ErrDivisionByZero
	}
	//
	return NewField(a.Field().Div(b.Field())), nil
}

// Eq compares two values of the same tag for equality, producing a U1.
func Eq(a, b Value) (Value, error) {
	if err := sameTag(a, b); err != nil {
		return Value{}, err
	}
	//
	return NewU1(a.word.Eq(&b.word)), nil
}

// Lt determines whether a < b for two values of the same tag, producing a U1.
// Field elements are compared by their canonical representation.
func Lt(a, b Value) (Value, error) {
	if err := sameTag(a, b); err != nil {
		return Value{}, err
	}
	//
	return NewU1(a.word.Lt(&b.word)), nil
}

// Lte determines whether a <= b for two values of the same tag, producing a
// U1.  This is the disjunction of Lt and Eq.
func Lte(a, b Value) (Value, error) {
	if err := sameTag(a, b); err != nil {
		return Value{}, err
	}
	//
	return NewU1(a.word.Lt(&b.word) || a.word.Eq(&b.word)), nil
}

// And computes the bitwise conjunction of two integers with the same tag.
func And(a, b Value) (Value, error) {
	if err := sameIntegerTag(a, b); err != nil {
		return Value{}, err
	}
	//
	var w uint256.Int
	//
	return Value{a.tag, *w.And(&a.word, &b.word)}, nil
}

// Or computes the bitwise disjunction of two integers with the same tag.
func Or(a, b Value) (Value, error) {
	if err := sameIntegerTag(a, b); err != nil {
		return Value{}, err
	}
	//
	var w uint256.Int
	//
	return Value{a.tag, *w.Or(&a.word, &b.word)}, nil
}

// Xor computes the bitwise exclusive-or of two integers with the same tag.
func Xor(a, b Value) (Value, error) {
	if err := sameIntegerTag(a, b); err != nil {
		return Value{}, err
	}
	//
	var w uint256.Int
	//
	return Value{a.tag, *w.Xor(&a.word, &b.word)}, nil
}

// Not flips every bit of an integer within the width of its tag.
func Not(a Value) (Value, error) {
	if !a.tag.IsInteger() {
		return Value{}, &TagMismatchError{"integer", a.tag}
	}
	//
	var w uint256.Int
	//
	return NewValue(a.tag, w.Not(&a.word)), nil
}

// Shl shifts a left by b bits, discarding bits shifted beyond the width of the
// tag.  Shifting by the width or more yields zero.
func Shl(a, b Value) (Value, error) {
	if err := sameIntegerTag(a, b); err != nil {
		return Value{}, err
	} else if !b.word.IsUint64() || b.word.Uint64() >= uint64(a.tag.Bits()) {
		return Value{a.tag, uint256.Int{}}, nil
	}
	//
	var w uint256.Int
	//
	return NewValue(a.tag, w.Lsh(&a.word, uint(b.word.Uint64()))), nil
}

// Shr shifts a right by b bits.  Shifting by the width or more yields zero.
func Shr(a, b Value) (Value, error) {
	if err := sameIntegerTag(a, b); err != nil {
		return Value{}, err
	} else if !b.word.IsUint64() || b.word.Uint64() >= uint64(a.tag.Bits()) {
		return Value{a.tag, uint256.Int{}}, nil
	}
	//
	var w uint256.Int
	//
	return Value{a.tag, *w.Rsh(&a.word, uint(b.word.Uint64()))}, nil
}

// Cast converts a value to a given tag.  Casting to a narrower integer
// truncates to the low bits of the canonical representation.
func Cast(a Value, tag Tag) Value {
	return NewValue(tag, &a.word)
}

func sameTag(a, b Value) error {
	if a.tag != b.tag {
		return &TagMismatchError{a.tag.String(), b.tag}
	}
	//
	return nil
}

func sameIntegerTag(a, b Value) error {
	if !a.tag.IsInteger() {
		return &TagMismatchError{"integer", a.tag}
	}
	//
	return sameTag(a, b)
}
