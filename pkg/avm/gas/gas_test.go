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
	"errors"
	"math"
	"testing"

	"github.com/consensys/go-avm/pkg/avm/instruction"
)

func Test_Meter_01(t *testing.T) {
	meter := NewMeter(Gas{100, 10})
	//
	checkConsume(t, meter, Gas{40, 5}, Gas{60, 5})
	checkConsume(t, meter, Gas{60, 5}, Gas{0, 0})
}

func Test_Meter_02(t *testing.T) {
	meter := NewMeter(Gas{100, 10})
	// DA underflow drains both dimensions
	checkOutOfGas(t, meter, Gas{1, 11})
}

func Test_Meter_03(t *testing.T) {
	meter := NewMeter(Gas{100, 10})
	//
	checkConsume(t, meter, Gas{30, 0}, Gas{70, 10})
	checkOutOfGas(t, meter, Gas{71, 0})
	// Once drained, even the smallest amount fails
	checkOutOfGas(t, meter, Gas{1, 0})
}

func Test_Meter_04(t *testing.T) {
	meter := NewMeter(Gas{100, 10})
	//
	checkConsume(t, meter, Gas{50, 10}, Gas{50, 0})
	meter.Refund(Gas{20, 3})
	//
	if meter.Left() != (Gas{70, 3}) {
		t.Errorf("incorrect refund (expected %v, received %v)", Gas{70, 3}, meter.Left())
	}
}

func Test_Gas_01(t *testing.T) {
	g := Gas{math.MaxUint32, 1}.Add(Gas{1, 1})
	//
	if g != (Gas{math.MaxUint32, 2}) {
		t.Errorf("addition did not saturate (received %v)", g)
	}
}

func Test_Gas_02(t *testing.T) {
	g := Gas{10, 1}.Min(Gas{5, 7})
	//
	if g != (Gas{5, 1}) {
		t.Errorf("incorrect minimum (received %v)", g)
	}
}

func Test_Gas_03(t *testing.T) {
	g := Gas{999_870, 63}.AllButOne64th()
	//
	if g != (Gas{999_870 - 15_622, 63}) {
		t.Errorf("incorrect reserve (expected %v, received %v)", Gas{999_870 - 15_622, 63}, g)
	}
}

func Test_Table_01(t *testing.T) {
	table := DefaultTable()
	base := table.Base(instruction.ADD_8, 0, 0)
	//
	if base != (Gas{10, 0}) {
		t.Errorf("incorrect base (received %v)", base)
	}
	// Addressing surcharge
	if b := table.Base(instruction.ADD_8, 2, 1); b != (Gas{10 + 2*3 + 3, 0}) {
		t.Errorf("incorrect surcharge (received %v)", b)
	}
}

func Test_Table_02(t *testing.T) {
	table := DefaultTable()
	//
	if d := table.Dynamic(instruction.CALLDATACOPY, 4); d != (Gas{12, 0}) {
		t.Errorf("incorrect dynamic cost (received %v)", d)
	}
	//
	if d := table.Dynamic(instruction.ADD_8, 4); !d.IsZero() {
		t.Errorf("unexpected dynamic cost (received %v)", d)
	}
}

func Test_Table_03(t *testing.T) {
	var (
		table = DefaultTable()
		clone = table.Clone()
	)
	//
	clone.Set(instruction.ADD_8, Cost{BaseL2: 1})
	//
	if table.Get(instruction.ADD_8).BaseL2 != 10 || clone.Get(instruction.ADD_8).BaseL2 != 1 {
		t.Errorf("clone is not independent")
	}
}

func checkConsume(t *testing.T, meter *Meter, cost Gas, expected Gas) {
	if err := meter.Consume(cost); err != nil {
		t.Fatal(err)
	} else if meter.Left() != expected {
		t.Errorf("incorrect gas left (expected %v, received %v)", expected, meter.Left())
	}
}

func checkOutOfGas(t *testing.T, meter *Meter, cost Gas) {
	var err *OutOfGasError
	//
	if e := meter.Consume(cost); !errors.As(e, &err) {
		t.Errorf("expected out of gas error, received %v", e)
	} else if !meter.Left().IsZero() {
		t.Errorf("meter not drained (received %v)", meter.Left())
	}
}
