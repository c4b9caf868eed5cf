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
	"fmt"

	"github.com/consensys/go-avm/pkg/util/field/bn254"
)

// Var identifies an environment variable which can be read by GETENVVAR.
type Var uint8

const (
	// ADDRESS of the executing contract.
	ADDRESS Var = iota
	// SENDER of the current call.
	SENDER
	// FUNCTIONSELECTOR of the current call.
	FUNCTIONSELECTOR
	// TRANSACTIONFEE of the enclosing transaction.
	TRANSACTIONFEE
	// CHAINID global.
	CHAINID
	// VERSION global.
	VERSION
	// BLOCKNUMBER global.
	BLOCKNUMBER
	// TIMESTAMP global.
	TIMESTAMP
	// FEEPERL2GAS global.
	FEEPERL2GAS
	// FEEPERDAGAS global.
	FEEPERDAGAS
	// ISSTATICCALL flag (U1).
	ISSTATICCALL
	// L2GASLEFT in the current call (U32).
	L2GASLEFT
	// DAGASLEFT in the current call (U32).
	DAGASLEFT
)

// NumVars is the number of known environment variables.
const NumVars = uint(DAGASLEFT) + 1

var varNames = [NumVars]string{"ADDRESS", "SENDER", "FUNCTIONSELECTOR", "TRANSACTIONFEE", "CHAINID",
	"VERSION", "BLOCKNUMBER", "TIMESTAMP", "FEEPERL2GAS", "FEEPERDAGAS", "ISSTATICCALL", "L2GASLEFT",
	"DAGASLEFT"}

// IsValid checks whether this identifies a known variable.
func (p Var) IsValid() bool {
	return uint(p) < NumVars
}

func (p Var) String() string {
	if p.IsValid() {
		return varNames[p]
	}
	//
	return fmt.Sprintf("UNKNOWN(%d)", uint8(p))
}

// Lookup returns the value of a field-valued environment variable.  Variables
// which are not field-valued, or which depend on machine state (i.e. the static
// flag and the gas left), are not available here.
func (p *Environment) Lookup(v Var) (bn254.Element, bool) {
	switch v {
	case ADDRESS:
		return p.Address, true
	case SENDER:
		return p.Sender, true
	case FUNCTIONSELECTOR:
		return p.FunctionSelector, true
	case TRANSACTIONFEE:
		return p.TransactionFee, true
	case CHAINID:
		return p.Globals.ChainID, true
	case VERSION:
		return p.Globals.Version, true
	case BLOCKNUMBER:
		return p.Globals.BlockNumber, true
	case TIMESTAMP:
		return p.Globals.Timestamp, true
	case FEEPERL2GAS:
		return p.Globals.GasFees.FeePerL2Gas, true
	case FEEPERDAGAS:
		return p.Globals.GasFees.FeePerDaGas, true
	default:
		return bn254.Zero(), false
	}
}
