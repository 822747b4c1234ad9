// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textpos converts byte offsets inside a text blob into
// human-readable line/column positions.
package textpos

import "fmt"

// 📍 Pos is a 1-based line/column position in a text blob.
type Pos struct {
	Line   int
	Column int
}

// 📝 String renders the position as "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// 🎯 FromOffset scans s up to (not including) offset and counts line breaks.
// Offsets past the end of s resolve to the position after the last character.
func FromOffset(s string, offset int) Pos {
	p := Pos{Line: 1, Column: 1}
	for i, r := range s {
		if i >= offset {
			break
		}
		if r == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}

// 🎯 LineOf returns just the 1-based line number at offset.
func LineOf(s string, offset int) int {
	return FromOffset(s, offset).Line
}
