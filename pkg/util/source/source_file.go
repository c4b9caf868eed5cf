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
package source

import (
	"fmt"
	"os"
)

// File is a named piece of source text, typically read from disk.
type File struct {
	// Name of this file, which may be empty for text not read from disk.
	filename string
	// Contents of this file as runes, for easier lexing.
	contents []rune
}

// NewSourceFile constructs a source file from a given name and raw contents.
func NewSourceFile(filename string, bytes []byte) *File {
	return &File{filename, []rune(string(bytes))}
}

// ReadFile reads a source file from disk, or produces an error.
func ReadFile(filename string) (*File, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return NewSourceFile(filename, bytes), nil
}

// Filename returns the name of this source file.
func (p *File) Filename() string {
	return p.filename
}

// Contents returns the contents of this source file.
func (p *File) Contents() []rune {
	return p.contents
}

// Text returns the text covered by a given span of this file.
func (p *File) Text(span Span) string {
	return string(p.contents[span.start:span.end])
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (p *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{p, span, msg}
}

// FindFirstEnclosingLine determines the first line of this file which encloses
// the start of a given span.  If the span starts beyond the end of the file,
// then the last physical line is returned.  Observe that the line need not
// enclose the whole span, since spans can cross lines.
func (p *File) FindFirstEnclosingLine(span Span) Line {
	var (
		num   = 1
		start = 0
	)
	//
	for i := 0; i < len(p.contents); i++ {
		if i == span.start {
			return Line{p.contents, Span{start, findEndOfLine(i, p.contents)}, num}
		} else if p.contents[i] == '\n' {
			num++
			start = i + 1
		}
	}
	//
	return Line{p.contents, Span{start, len(p.contents)}, num}
}

// Line describes a single physical line of a source file.
type Line struct {
	text []rune
	// Span of this line within the original text, excluding its newline.
	span Span
	// Line number, counting from 1.
	number int
}

func (p Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number returns the line number of this line, counting from 1.
func (p Line) Number() int {
	return p.number
}

// Start returns the index of the first character of this line in the original
// text.
func (p Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p Line) Length() int {
	return p.span.Length()
}

// SyntaxError is a structured error which retains the region of a source file
// where it arose, along with a message.
type SyntaxError struct {
	srcfile *File
	span    Span
	msg     string
}

// SourceFile returns the source file in which this error arose.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the region of the source file to which this error applies.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error reports this error by line and column (counting from 1), prefixed with
// the filename when there is one.
func (p *SyntaxError) Error() string {
	var (
		line   = p.FirstEnclosingLine()
		column = p.span.start - line.Start() + 1
	)
	//
	if p.srcfile.filename == "" {
		return fmt.Sprintf("%d:%d: %s", line.Number(), column, p.msg)
	}
	//
	return fmt.Sprintf("%s:%d:%d: %s", p.srcfile.filename, line.Number(), column, p.msg)
}

// FirstEnclosingLine determines the first line of the source file which
// encloses the start of this error.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}

func findEndOfLine(index int, text []rune) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	//
	return len(text)
}
