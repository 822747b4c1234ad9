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

// Package diagnose renders positioned, human-readable failure messages:
// a "--> file:line" link plus a colored source gutter with the offending
// line(s).
package diagnose

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"
)

var gutterSep = color.New(color.FgCyan, color.Bold)

// 🔗 Link formats a source link like "--> path/to/file.rs:12".
func Link(relPath string, line int) string {
	return fmt.Sprintf("--> %s:%d", relPath, line)
}

// 📄 SourceLine is one labeled line in a source excerpt. Label is usually a
// line number, or empty when the line number is irrelevant.
type SourceLine struct {
	Label   string
	Content string
}

// 📝 Source renders an excerpt with a right-aligned label column and a
// colored "|" separator, one entry per line:
//
//	 12 | // #[include_doc("lib.rs", start)]
//	 13 | // #[include_doc("other.rs", end)]
func Source(lines ...SourceLine) string {
	maxWidth := 0
	for _, l := range lines {
		if len(l.Label) > maxWidth {
			maxWidth = len(l.Label)
		}
	}

	var b strings.Builder
	for i, l := range lines {
		if i != 0 {
			b.WriteByte('\n')
		}
		b.WriteByte(' ')
		if maxWidth != 0 {
			b.WriteString(strings.Repeat(" ", maxWidth-len(l.Label)))
			b.WriteString(l.Label)
			b.WriteByte(' ')
		}
		b.WriteString(gutterSep.Sprint("|"))
		b.WriteByte(' ')
		b.WriteString(l.Content)
	}
	return b.String()
}

// 🎯 Renderable is an error that can point at its origin in source text.
// Implementations render the full positioned message given the file's path
// (relative to the scan root) and its complete text.
type Renderable interface {
	error
	Render(relPath string, input string) string
}

// 📝 Render formats err with full position info when it is Renderable, and
// falls back to the plain error string otherwise.
func Render(err error, relPath string, input string) string {
	var r Renderable
	if errors.As(err, &r) {
		return r.Render(relPath, input)
	}
	return fmt.Sprintf("%s\n%s", err.Error(), Link(relPath, 1))
}
