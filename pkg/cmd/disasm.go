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
	"os"
	"strings"

	"github.com/consensys/go-avm/pkg/avm/asm"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/util/termio"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] program_file",
	Short: "disassemble bytecode into assembly.",
	Long: `Decode the given bytecode and print one instruction per line.  Unless
	--raw is given, each line is prefixed with the instruction's position and,
	when printing to a terminal, highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		program, err := instruction.Decode(readProgramFile(args[0]))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if GetFlag(cmd, "raw") {
			fmt.Print(asm.Disassemble(program))
		} else {
			printProgram(program, termio.IsTerminal(os.Stdout))
		}
	},
}

var asmCmd = &cobra.Command{
	Use:   "asm [flags] assembly_file",
	Short: "assemble a program into bytecode.",
	Long:  `Assemble a given assembly file and print the resulting bytecode as hex.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		bytecode := readProgramFile(args[0])
		//
		if output := GetString(cmd, "output"); output != "" {
			if err := os.WriteFile(output, bytecode, 0644); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		} else {
			fmt.Printf("0x%x\n", bytecode)
		}
	},
}

// Print a program with each instruction prefixed by its position.  Opcodes are
// emboldened and immediates coloured when highlighting is enabled.
func printProgram(program []instruction.Instruction, highlight bool) {
	var (
		width     = len(fmt.Sprintf("%d", max(len(program), 1)-1))
		opcode    = termio.NewAnsiEscape()
		immediate = termio.NewAnsiEscape()
	)
	//
	if highlight {
		opcode = opcode.Bold()
		immediate = immediate.FgColour(termio.TERM_CYAN)
	}
	//
	for pc, insn := range program {
		operands := insn.OperandStrings()
		//
		for i, op := range operands {
			if !strings.HasPrefix(op, "m[") {
				operands[i] = immediate.Wrap(op)
			}
		}
		//
		fmt.Printf("%*d: %s %s\n", width, pc, opcode.Wrap(insn.Opcode.String()), strings.Join(operands, ", "))
	}
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(asmCmd)
	disasmCmd.Flags().Bool("raw", false, "print plain assembly (suitable for reassembly)")
	asmCmd.Flags().StringP("output", "o", "", "write raw bytecode to a file")
}
