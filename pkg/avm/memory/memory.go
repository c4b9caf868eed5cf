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
	"math"
)

// Memory represents (in many ways) the simplest form of memory which can be
// read or written without restrictions.  Initially, all cells can be considered
// to hold U8(0).  Thus, reading a cell which has not yet been written will
// return U8(0); otherwise, it will return the last value written.  Memory is
// addressed by 32bit offsets, and only those cells which have been written
// occupy space.
//
// In addition to holding values, a memory enforces the access discipline of
// instructions.  Before executing an instruction, the number of reads and
// writes it will perform is declared (see Begin and Declare).  Once the
// instruction completes, Settle checks that exactly that number of reads and
// writes were performed.  This ensures the sequence of memory accesses made
// during execution is fully determined by the instructions themselves.
type Memory struct {
	cells map[uint32]Value
	// Reads and writes performed since Begin
	reads, writes uint
	// Reads and writes declared since Begin
	declaredReads, declaredWrites uint
}

// NewMemory constructs an initially empty memory.
func NewMemory() *Memory {
	return &Memory{cells: make(map[uint32]Value)}
}

// Get reads the value at a given offset.  This never fails, since untouched
// cells hold U8(0).
func (p *Memory) Get(offset uint32) Value {
	p.reads++
	//
	return p.peek(offset)
}

// GetSlice reads size consecutive values starting from a given offset.
func (p *Memory) GetSlice(offset uint32, size uint32) ([]Value, error) {
	if err := checkBounds(offset, size); err != nil {
		return nil, err
	}
	//
	var values = make([]Value, size)
	//
	for i := range size {
		values[i] = p.Get(offset + i)
	}
	//
	return values, nil
}

// Set writes a value to a given offset, overwriting its previous contents.
func (p *Memory) Set(offset uint32, value Value) {
	p.writes++
	p.cells[offset] = value
}

// SetSlice writes zero or more values to consecutive offsets starting from a
// given offset.
func (p *Memory) SetSlice(offset uint32, values []Value) error {
	if err := checkBounds(offset, uint32(len(values))); err != nil {
		return err
	}
	//
	for i, v := range values {
		p.Set(offset+uint32(i), v)
	}
	//
	return nil
}

// CheckTag checks that the value at a given offset has a given tag, failing
// with a TagMismatchError otherwise.  This does not count as a read.
func (p *Memory) CheckTag(tag Tag, offset uint32) error {
	if actual := p.peek(offset).tag; actual != tag {
		return fmt.Errorf("memory[%d]: %w", offset, &TagMismatchError{tag.String(), actual})
	}
	//
	return nil
}

// CheckTagsAreSame checks that the values at two offsets have the same tag,
// failing with a TagMismatchError otherwise.  This does not count as a read.
func (p *Memory) CheckTagsAreSame(a, b uint32) error {
	return p.CheckTag(p.peek(a).tag, b)
}

// Begin starts accounting for a new instruction, which declares that it will
// perform exactly the given number of reads and writes.
func (p *Memory) Begin(reads, writes uint) {
	p.reads, p.writes = 0, 0
	p.declaredReads, p.declaredWrites = reads, writes
}

// Declare additional reads and writes for the current instruction.  This is
// used by instructions whose access count depends upon values read during
// execution (e.g. a copy whose length is held in memory).
func (p *Memory) Declare(reads, writes uint) {
	p.declaredReads += reads
	p.declaredWrites += writes
}

// Settle checks that the current instruction performed exactly the number of
// reads and writes it declared.
func (p *Memory) Settle() error {
	if p.reads != p.declaredReads || p.writes != p.declaredWrites {
		return &AccessCountError{p.declaredReads, p.declaredWrites, p.reads, p.writes}
	}
	//
	return nil
}

// Len returns the number of cells which have been written.
func (p *Memory) Len() uint {
	return uint(len(p.cells))
}

func (p *Memory) peek(offset uint32) Value {
	if v, ok := p.cells[offset]; ok {
		return v
	}
	//
	return NewU8(0)
}

func checkBounds(offset uint32, size uint32) error {
	if size > 0 && uint64(offset)+uint64(size)-1 > math.MaxUint32 {
		return &OutOfBoundsError{offset, size}
	}
	//
	return nil
}
