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
package gas

import (
	"fmt"
	"math"
)

// Gas represents an amount of gas in each of the two gas dimensions: L2 gas
// (which pays for execution) and DA gas (which pays for data availability).
type Gas struct {
	L2 uint32
	DA uint32
}

// Add returns the (saturating) sum of two amounts of gas.
func (p Gas) Add(other Gas) Gas {
	return Gas{saturatingAdd(p.L2, other.L2), saturatingAdd(p.DA, other.DA)}
}

// Covers checks whether this amount of gas is at least that of another in both
// dimensions.
func (p Gas) Covers(other Gas) bool {
	return p.L2 >= other.L2 && p.DA >= other.DA
}

// Min returns the minimum of two amounts of gas, computed per dimension.
func (p Gas) Min(other Gas) Gas {
	return Gas{min(p.L2, other.L2), min(p.DA, other.DA)}
}

// AllButOne64th returns this amount of gas less one 64th of it (rounded down),
// computed per dimension.
func (p Gas) AllButOne64th() Gas {
	return Gas{p.L2 - p.L2/64, p.DA - p.DA/64}
}

// IsZero checks whether no gas remains in either dimension.
func (p Gas) IsZero() bool {
	return p.L2 == 0 && p.DA == 0
}

func (p Gas) String() string {
	return fmt.Sprintf("{l2: %d, da: %d}", p.L2, p.DA)
}

// Meter tracks the gas remaining for a single call.  Gas never goes negative:
// an attempt to consume more gas than remains fails, leaving the meter empty.
type Meter struct {
	left Gas
}

// NewMeter constructs a meter with a given initial allocation of gas.
func NewMeter(allocation Gas) *Meter {
	return &Meter{allocation}
}

// Consume a given amount of gas, failing with an OutOfGasError if this exceeds
// the gas remaining in either dimension.  In such case, the meter is drained.
func (p *Meter) Consume(cost Gas) error {
	if !p.left.Covers(cost) {
		err := &OutOfGasError{cost, p.left}
		p.left = Gas{}
		//
		return err
	}
	//
	p.left.L2 -= cost.L2
	p.left.DA -= cost.DA
	//
	return nil
}

// Refund a given amount of gas (e.g. that left unused by a nested call).
func (p *Meter) Refund(amount Gas) {
	p.left = p.left.Add(amount)
}

// Drain consumes all remaining gas.
func (p *Meter) Drain() {
	p.left = Gas{}
}

// Left returns the gas remaining.
func (p *Meter) Left() Gas {
	return p.left
}

// OutOfGasError signals an attempt to consume more gas than remains.
type OutOfGasError struct {
	Required  Gas
	Available Gas
}

func (p *OutOfGasError) Error() string {
	return fmt.Sprintf("out of gas (required %s, available %s)", p.Required, p.Available)
}

func saturatingAdd(a, b uint32) uint32 {
	if uint64(a)+uint64(b) > math.MaxUint32 {
		return math.MaxUint32
	}
	//
	return a + b
}

func saturatingMul(a, b uint32) uint32 {
	if r := uint64(a) * uint64(b); r <= math.MaxUint32 {
		return uint32(r)
	}
	//
	return math.MaxUint32
}
