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
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path"
	"strings"

	"github.com/consensys/go-avm/pkg/avm/asm"
	"github.com/consensys/go-avm/pkg/avm/config"
	"github.com/consensys/go-avm/pkg/avm/instruction"
	"github.com/consensys/go-avm/pkg/util/field/bn254"
	"github.com/consensys/go-avm/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array flag, or exits if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read the configuration given by the "--config" flag, or the default
// configuration if none was given.
func readConfig(cmd *cobra.Command) config.Config {
	filename := GetString(cmd, "config")
	//
	if filename == "" {
		return config.Default()
	}
	//
	cfg, err := config.Load(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debugf("read configuration from %s", filename)
	//
	return cfg
}

// Read a program file, or exit if an error arises.
func readProgramFile(filename string) []byte {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		bytes, err = parseProgram(filename, bytes)
	}
	// Handle error
	if err != nil {
		var serr *source.SyntaxError
		//
		if errors.As(err, &serr) {
			printSyntaxError(serr)
		} else {
			fmt.Println(err)
		}
		//
		os.Exit(2)
	}
	//
	return bytes
}

// Parse the contents of a program file into bytecode, using a parser based on
// the file's extension.  Assembly files (".avm") are assembled, hex files
// (".hex") are decoded and anything else is treated as raw bytecode.
func parseProgram(filename string, contents []byte) ([]byte, error) {
	switch path.Ext(filename) {
	case ".avm":
		program, err := asm.AssembleFile(source.NewSourceFile(filename, contents))
		if err != nil {
			return nil, err
		}
		//
		return instruction.Encode(program)
	case ".hex":
		return parseHex(string(contents))
	default:
		return contents, nil
	}
}

// Parse a hex string, with an optional "0x" prefix and surrounding whitespace.
func parseHex(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "0x")
	//
	return hex.DecodeString(text)
}

// Parse a comma-separated list of field elements, each written in decimal or
// in hex (with a "0x" prefix).
func parseFields(text string) ([]bn254.Element, error) {
	var elements []bn254.Element
	//
	if strings.TrimSpace(text) == "" {
		return elements, nil
	}
	//
	for _, str := range strings.Split(text, ",") {
		elem, err := parseField(strings.TrimSpace(str))
		if err != nil {
			return nil, err
		}
		//
		elements = append(elements, elem)
	}
	//
	return elements, nil
}

// Parse a single field element written in decimal or hex.  Values which are
// not canonical (i.e. are negative or not below the modulus) are rejected.
func parseField(text string) (bn254.Element, error) {
	var val big.Int
	//
	if _, ok := val.SetString(text, 0); !ok {
		return bn254.Zero(), fmt.Errorf("invalid field element \"%s\"", text)
	} else if val.Sign() < 0 || val.Cmp(bn254.Modulus()) >= 0 {
		return bn254.Zero(), fmt.Errorf("field element \"%s\" out of range", text)
	}
	//
	return bn254.BigInt(&val), nil
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	var (
		span  = err.Span()
		line  = err.FirstEnclosingLine()
		start = span.Start() - line.Start()
		width = max(1, min(span.Length(), line.Length()-start))
	)
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", err.SourceFile().Filename(), line.Number(), err.Message())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", start))
	// Print highlight
	fmt.Println(strings.Repeat("^", width))
}
