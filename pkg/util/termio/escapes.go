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
package termio

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Colour identifies one of the eight standard terminal colours.
type Colour uint

// TERM_BLACK represents black
const TERM_BLACK = Colour(0)

// TERM_RED represents red
const TERM_RED = Colour(1)

// TERM_GREEN represents green
const TERM_GREEN = Colour(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = Colour(3)

// TERM_BLUE represents blue
const TERM_BLUE = Colour(4)

// TERM_MAGENTA represents magenta
const TERM_MAGENTA = Colour(5)

// TERM_CYAN represents cyan
const TERM_CYAN = Colour(6)

// TERM_WHITE represents white
const TERM_WHITE = Colour(7)

// AnsiEscape represents an ANSI escape code used for formatting text in a
// terminal.  An escape is built up from zero or more attributes (e.g. bold or a
// foreground colour), and is empty when it has no attributes.
type AnsiEscape struct {
	attributes []uint
}

// NewAnsiEscape constructs an empty escape.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{nil}
}

// Bold adds emboldening to this escape.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with(1)
}

// Underline adds underlining to this escape.
func (p AnsiEscape) Underline() AnsiEscape {
	return p.with(4)
}

// FgColour sets the foreground colour.
func (p AnsiEscape) FgColour(col Colour) AnsiEscape {
	return p.with(30 + uint(col))
}

// BgColour sets the background colour.
func (p AnsiEscape) BgColour(col Colour) AnsiEscape {
	return p.with(40 + uint(col))
}

// Build constructs the final escape sequence.
func (p AnsiEscape) Build() string {
	var escape = "\033["
	//
	for i, attr := range p.attributes {
		if i > 0 {
			escape += ";"
		}
		//
		escape += fmt.Sprintf("%d", attr)
	}
	//
	return escape + "m"
}

// Wrap a given piece of text with this escape, such that formatting is reset
// afterwards.  An empty escape leaves the text unchanged.
func (p AnsiEscape) Wrap(text string) string {
	if len(p.attributes) == 0 {
		return text
	}
	//
	return p.Build() + text + ResetAnsiEscape
}

func (p AnsiEscape) with(attr uint) AnsiEscape {
	attributes := make([]uint, len(p.attributes), len(p.attributes)+1)
	copy(attributes, p.attributes)
	//
	return AnsiEscape{append(attributes, attr)}
}

// ResetAnsiEscape resets all formatting.
const ResetAnsiEscape = "\033[0m"

// IsTerminal determines whether a given file is attached to a terminal, and
// hence whether escapes should be used when writing to it.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}
