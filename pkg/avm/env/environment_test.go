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
package env

import (
	"testing"

	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

func Test_Derive_01(t *testing.T) {
	var (
		parent = testEnvironment()
		child  = parent.DeriveForNestedCall(bn254.Uint64(7), []bn254.Element{bn254.Uint64(9), bn254.Uint64(10)})
	)
	//
	checkElement(t, "address", child.Address, bn254.Uint64(7))
	checkElement(t, "sender", child.Sender, parent.Address)
	checkElement(t, "selector", child.FunctionSelector, bn254.Uint64(9))
	checkElement(t, "fee", child.TransactionFee, parent.TransactionFee)
	checkElement(t, "chain", child.Globals.ChainID, parent.Globals.ChainID)
	//
	if child.IsStaticCall || child.ContractCallDepth != 1 || len(child.Calldata) != 2 {
		t.Errorf("incorrect child environment %v", child)
	}
}

func Test_Derive_02(t *testing.T) {
	var (
		parent = testEnvironment()
		child  = parent.DeriveForNestedStaticCall(bn254.Uint64(7), nil)
		// non-static call beneath a static call
		grandchild = child.DeriveForNestedCall(bn254.Uint64(8), nil)
	)
	//
	if parent.IsStaticCall || !child.IsStaticCall || !grandchild.IsStaticCall {
		t.Errorf("static flag not sticky (%t, %t, %t)", parent.IsStaticCall, child.IsStaticCall,
			grandchild.IsStaticCall)
	}
	//
	if grandchild.ContractCallDepth != 2 {
		t.Errorf("incorrect depth (expected 2, received %d)", grandchild.ContractCallDepth)
	}
}

func Test_Derive_03(t *testing.T) {
	var (
		calldata = []bn254.Element{bn254.Uint64(1)}
		parent   = testEnvironment()
		child    = parent.DeriveForNestedCall(bn254.Uint64(7), calldata)
	)
	// Calldata is copied
	calldata[0] = bn254.Uint64(2)
	//
	checkElement(t, "calldata", child.Calldata[0], bn254.Uint64(1))
}

func Test_Calldata_01(t *testing.T) {
	env := testEnvironment().WithCalldata([]bn254.Element{bn254.Uint64(5)})
	//
	checkElement(t, "calldata[0]", env.CalldataAt(0), bn254.Uint64(5))
	checkElement(t, "calldata[1]", env.CalldataAt(1), bn254.Zero())
}

func Test_Lookup_01(t *testing.T) {
	env := testEnvironment()
	//
	for v := range NumVars {
		val, ok := env.Lookup(Var(v))
		//
		switch Var(v) {
		case ISSTATICCALL, L2GASLEFT, DAGASLEFT:
			if ok {
				t.Errorf("unexpected lookup of %s", Var(v))
			}
		default:
			if !ok {
				t.Errorf("lookup of %s failed", Var(v))
			}
		}
		//
		if Var(v) == TIMESTAMP {
			checkElement(t, "timestamp", val, bn254.Uint64(1234))
		}
	}
}

func testEnvironment() *Environment {
	return &Environment{
		Address:        bn254.Uint64(1),
		Sender:         bn254.Uint64(2),
		TransactionFee: bn254.Uint64(3),
		Globals: Globals{
			ChainID:   bn254.Uint64(31337),
			Version:   bn254.Uint64(1),
			Timestamp: bn254.Uint64(1234),
		},
	}
}

func checkElement(t *testing.T, name string, actual, expected bn254.Element) {
	if !actual.Equals(expected) {
		t.Errorf("incorrect %s (expected %s, received %s)", name, expected, actual)
	}
}
