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
package lex

import "cmp"

// Scanner matches some prefix of a given sequence of items, returning the
// number of items matched (or zero for no match).
type Scanner[T any] func(items []T) uint

// Unit matches a given sequence of items exactly.
func Unit[T comparable](expected ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) < len(expected) {
			return 0
		}
		//
		for i, item := range expected {
			if items[i] != item {
				return 0
			}
		}
		//
		return uint(len(expected))
	}
}

// String matches a given string exactly.
func String(s string) Scanner[rune] {
	return Unit([]rune(s)...)
}

// Within matches any single item in the (inclusive) range from lowest to
// highest.
func Within[T cmp.Ordered](lowest T, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}
		//
		return 0
	}
}

// Or matches using the first of the given scanners which succeeds.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}
		//
		return 0
	}
}

// And succeeds only if every given scanner matches the same input, in which
// case the longest match is returned.
func And[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			m := scanner(items)
			if m == 0 {
				return 0
			}
			//
			n = max(n, m)
		}
		//
		return n
	}
}

// Many matches zero or more repetitions of a given scanner.
func Many[T any](scanner Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) {
			n := scanner(items[index:])
			if n == 0 {
				break
			}
			//
			index += n
		}
		//
		return index
	}
}

// Until matches everything up to (but not including) the first occurrence of a
// given item, or the end of input.
func Until[T comparable](item T) Scanner[T] {
	return func(items []T) uint {
		index := uint(0)
		//
		for index < uint(len(items)) && items[index] != item {
			index++
		}
		//
		return index
	}
}

// Eof matches the end of input.
func Eof[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 {
			return 1
		}
		//
		return 0
	}
}

// Sequence matches each of the given scanners in turn, where each starts
// immediately after the previous match ended.  Every scanner must match at
// least one item.
func Sequence[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		n := uint(0)
		//
		for _, scanner := range scanners {
			if n == uint(len(items)) {
				return 0
			}
			//
			m := scanner(items[n:])
			if m == 0 {
				return 0
			}
			//
			n += m
		}
		//
		return n
	}
}

// SequenceNullableLast is as for Sequence, except that the final scanner may
// match nothing.
func SequenceNullableLast[T any](scanners ...Scanner[T]) Scanner[T] {
	if len(scanners) == 0 {
		return Sequence[T]()
	}
	//
	var (
		prefix = Sequence(scanners[:len(scanners)-1]...)
		last   = scanners[len(scanners)-1]
	)
	//
	return func(items []T) uint {
		n := prefix(items)
		if n == 0 && len(scanners) > 1 {
			return 0
		}
		//
		return n + last(items[n:])
	}
}
