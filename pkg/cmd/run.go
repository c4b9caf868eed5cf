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
package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/consensys/go-avm/pkg/avm/env"
	"github.com/consensys/go-avm/pkg/avm/gas"
	"github.com/consensys/go-avm/pkg/avm/vm"
	"github.com/consensys/go-avm/pkg/avm/world"
	"github.com/consensys/go-avm/pkg/util"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program_file",
	Short: "execute a program against an empty world state.",
	Long: `Execute a given program as a top-level call against an initially
	empty world state, and report its output, remaining gas and side effects.
	Programs can be given as assembly (.avm), hex (.hex) or raw bytecode files.
	Further contracts can be deployed for the program to call using --deploy.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg      = readConfig(cmd)
			state    = world.NewInMemory()
			bytecode = readProgramFile(args[0])
			effects  = GetFlag(cmd, "effects")
		)
		//
		environment, err := readEnvironment(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Deploy the program itself, so that it can call itself.
		state.Deploy(world.ContractInstance{Address: environment.Address}, bytecode)
		//
		for _, deployment := range GetStringArray(cmd, "deploy") {
			if err := deploy(state, deployment); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
		//
		machine, err := vm.New(cfg, state, state, nil)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		journal := world.NewJournal(state)
		allocation := readGasLimit(cmd, cfg.GasLimit())
		stats := util.NewPerfStats()
		result := machine.RunInJournal(journal, bytecode, environment.Calldata, environment, allocation)
		//
		stats.Log("Execution")
		printResult(result, allocation)
		//
		if effects {
			printEffects(journal)
		}
		//
		if result.Reverted {
			os.Exit(1)
		}
	},
}

// Construct the environment of the top-level call from the command's flags.
func readEnvironment(cmd *cobra.Command) (*env.Environment, error) {
	var environment env.Environment
	//
	calldata, err := parseFields(GetString(cmd, "calldata"))
	if err != nil {
		return nil, err
	}
	//
	if environment.Address, err = parseField(GetString(cmd, "address")); err != nil {
		return nil, err
	} else if environment.Sender, err = parseField(GetString(cmd, "sender")); err != nil {
		return nil, err
	} else if environment.Globals.ChainID, err = parseField(GetString(cmd, "chain-id")); err != nil {
		return nil, err
	}
	//
	environment.Globals.BlockNumber = bn254.Uint64(uint64(GetUint(cmd, "block")))
	environment.Globals.Timestamp = bn254.Uint64(uint64(GetUint(cmd, "timestamp")))
	environment.IsStaticCall = GetFlag(cmd, "static")
	//
	return environment.WithCalldata(calldata), nil
}

// Determine the gas allocated to the top-level call, where any limit not given
// explicitly is taken from the configuration.
func readGasLimit(cmd *cobra.Command, limit gas.Gas) gas.Gas {
	if l2 := GetUint(cmd, "l2-gas"); l2 != 0 {
		limit.L2 = uint32(min(l2, math.MaxUint32))
	}
	//
	if da := GetUint(cmd, "da-gas"); da != 0 {
		limit.DA = uint32(min(da, math.MaxUint32))
	}
	//
	return limit
}

// Deploy a contract given as "address=file".
func deploy(state *world.InMemory, deployment string) error {
	split := strings.SplitN(deployment, "=", 2)
	//
	if len(split) != 2 {
		return fmt.Errorf("invalid deployment \"%s\" (expected address=file)", deployment)
	}
	//
	address, err := parseField(split[0])
	if err != nil {
		return err
	}
	//
	log.Debugf("deploying %s at %s", split[1], address.Text(16))
	state.Deploy(world.ContractInstance{Address: address}, readProgramFile(split[1]))
	//
	return nil
}

func printResult(result vm.CallResult, allocation gas.Gas) {
	if result.Reverted {
		fmt.Printf("reverted: %v\n", result.RevertReason)
	} else {
		fmt.Println("returned")
	}
	//
	fmt.Printf("output: %v\n", result.Output)
	fmt.Printf("gas used: l2=%d, da=%d\n", allocation.L2-result.GasLeft.L2, allocation.DA-result.GasLeft.DA)
}

func printEffects(journal *world.Journal) {
	for _, w := range journal.StorageWrites() {
		fmt.Printf("sstore %s[%s] = %s\n", w.Address.Text(16), w.Slot, w.Value)
	}
	//
	for _, n := range journal.Nullifiers() {
		fmt.Printf("nullifier %s: %s\n", n.Address.Text(16), n.Value)
	}
	//
	for _, n := range journal.NoteHashes() {
		fmt.Printf("note hash %s: %s\n", n.Address.Text(16), n.Value)
	}
	//
	for _, l := range journal.UnencryptedLogs() {
		fmt.Printf("log %s: %v\n", l.Address.Text(16), l.Fields)
	}
	//
	for _, m := range journal.L2ToL1Messages() {
		fmt.Printf("message %s -> %s: %s\n", m.Sender.Text(16), m.Recipient, m.Content)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("calldata", "", "comma-separated field elements passed as calldata")
	runCmd.Flags().String("address", "1", "address of the executing contract")
	runCmd.Flags().String("sender", "0", "address of the caller")
	runCmd.Flags().String("chain-id", "1", "chain identifier")
	runCmd.Flags().Uint("block", 0, "block number")
	runCmd.Flags().Uint("timestamp", 0, "block timestamp")
	runCmd.Flags().Bool("static", false, "execute as a static call")
	runCmd.Flags().Uint("l2-gas", 0, "L2 gas allocated (default from configuration)")
	runCmd.Flags().Uint("da-gas", 0, "DA gas allocated (default from configuration)")
	runCmd.Flags().Bool("effects", true, "print side effects")
	runCmd.Flags().StringArray("deploy", []string{}, "deploy a contract (as address=file) before running")
}
