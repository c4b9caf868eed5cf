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
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/naoina/toml"
)

// Config determines the parameters of the virtual machine which are not fixed
// by the bytecode format itself.  A configuration can be read from a TOML file,
// where any keys not given retain their default values.  For example:
//
//	max_call_depth = 32
//	l2_gas_limit = 1000000
//
//	[gas]
//	indirect_cost = 5
//
//	[gas.opcodes.ADD_8]
//	base_l2 = 12
//
// Note that an opcode's cost given in a configuration replaces its default cost
// entirely, such that any component of the cost not given is zero.
type Config struct {
	// MaxCallDepth is the maximum depth of nested contract calls.
	MaxCallDepth uint
	// L2GasLimit is the L2 gas allocated to a top-level call.
	L2GasLimit uint32
	// DaGasLimit is the DA gas allocated to a top-level call.
	DaGasLimit uint32
	// BytecodeCacheSize is the number of decoded contracts to cache.
	BytecodeCacheSize int
	// Gas determines the cost of each opcode.
	Gas Gas
}

// Gas configures the gas table.
type Gas struct {
	IndirectCost uint32
	RelativeCost uint32
	// Opcodes maps opcode names (e.g. "ADD_8") to their costs.  Opcodes not
	// mentioned here retain their default cost.
	Opcodes map[string]gas.Cost
}

// Default returns the default configuration.
func Default() Config {
	table := gas.DefaultTable()
	//
	return Config{
		MaxCallDepth:      64,
		L2GasLimit:        12_000_000,
		DaGasLimit:        12_000_000,
		BytecodeCacheSize: 128,
		Gas: Gas{
			IndirectCost: table.IndirectCost,
			RelativeCost: table.RelativeCost,
		},
	}
}

// Load reads a configuration from a given TOML file, on top of the default
// configuration.
func Load(path string) (Config, error) {
	bytes, err := os.ReadFile(path)
	//
	if err != nil {
		return Config{}, err
	}
	//
	config, err := Parse(bytes)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	//
	return config, nil
}

// Parse a configuration from TOML, on top of the default configuration.
func Parse(bytes []byte) (Config, error) {
	config := Default()
	//
	if err := toml.Unmarshal(bytes, &config); err != nil {
		return Config{}, err
	} else if err := config.Validate(); err != nil {
		return Config{}, err
	}
	//
	return config, nil
}

// Validate checks this configuration is usable.
func (p Config) Validate() error {
	var errs []error
	//
	if p.MaxCallDepth == 0 {
		errs = append(errs, errors.New("max_call_depth must be positive"))
	}
	//
	if p.BytecodeCacheSize <= 0 {
		errs = append(errs, errors.New("bytecode_cache_size must be positive"))
	}
	//
	for name := range p.Gas.Opcodes {
		if _, ok := instruction.OpcodeFromName(name); !ok {
			errs = append(errs, fmt.Errorf("unknown opcode \"%s\" in gas table", name))
		}
	}
	//
	return errors.Join(errs...)
}

// GasLimit returns the gas allocated to a top-level call.
func (p Config) GasLimit() gas.Gas {
	return gas.Gas{L2: p.L2GasLimit, DA: p.DaGasLimit}
}

// GasTable constructs the gas table described by this configuration.  This
// assumes the configuration is valid.
func (p Config) GasTable() *gas.Table {
	table := gas.DefaultTable()
	table.IndirectCost = p.Gas.IndirectCost
	table.RelativeCost = p.Gas.RelativeCost
	//
	for name, cost := range p.Gas.Opcodes {
		if opcode, ok := instruction.OpcodeFromName(name); ok {
			table.Set(opcode, cost)
		}
	}
	//
	return table
}
