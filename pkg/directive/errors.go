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

package directive

import (
	"fmt"
	"strconv"

	"github.com/walteh/incdoc/pkg/diagnose"
	"github.com/walteh/incdoc/pkg/textpos"
)

// excerpt renders one directive as a labeled source line.
func excerpt(d *Directive, input string) diagnose.SourceLine {
	return diagnose.SourceLine{
		Label:   strconv.Itoa(d.Line(input)),
		Content: d.Span.Slice(input),
	}
}

// pointAt renders the standard "message, link, excerpt" block for a single
// directive.
func pointAt(msg string, d *Directive, relPath string, input string) string {
	return fmt.Sprintf("%s\n%s\n%s",
		msg,
		diagnose.Link(relPath, d.Line(input)),
		diagnose.Source(excerpt(d, input)),
	)
}

// ❌ MalformedError reports a line that looks like a directive but fails the
// detailed grammar.
type MalformedError struct {
	Span Span
}

func (e *MalformedError) Error() string { return "invalid attribute." }

func (e *MalformedError) Render(relPath string, input string) string {
	p := textpos.FromOffset(input, e.Span.Start)
	return fmt.Sprintf("invalid attribute.\n%s\n%s",
		diagnose.Link(relPath, p.Line),
		diagnose.Source(diagnose.SourceLine{Content: e.Span.Slice(input)}),
	)
}

// ❌ UnmatchedStartError reports a start directive with no matching end.
type UnmatchedStartError struct {
	Start Directive
}

func (e *UnmatchedStartError) Error() string { return "no matching `end` attribute." }

func (e *UnmatchedStartError) Render(relPath string, input string) string {
	return pointAt(e.Error(), &e.Start, relPath, input)
}

// ❌ UnmatchedEndError reports an end directive with no preceding start.
type UnmatchedEndError struct {
	End Directive
}

func (e *UnmatchedEndError) Error() string { return "no matching `start` attribute." }

func (e *UnmatchedEndError) Render(relPath string, input string) string {
	return pointAt(e.Error(), &e.End, relPath, input)
}

// 🔀 MismatchField identifies which field disagreed between a paired start
// and end directive.
type MismatchField int

const (
	MismatchVisibility MismatchField = iota
	MismatchPath
)

func (f MismatchField) message() string {
	switch f {
	case MismatchVisibility:
		return "mismatch attribute kind."
	default:
		return "mismatch include path."
	}
}

// ❌ MismatchError reports a start/end pair whose visibility or path differ.
type MismatchError struct {
	Start Directive
	End   Directive
	Field MismatchField
}

func (e *MismatchError) Error() string { return e.Field.message() }

func (e *MismatchError) Render(relPath string, input string) string {
	return fmt.Sprintf("%s\n%s\n%s",
		e.Error(),
		diagnose.Link(relPath, e.Start.Line(input)),
		diagnose.Source(excerpt(&e.Start, input), excerpt(&e.End, input)),
	)
}

// ❌ AnchorNotFoundError reports a text anchor with no occurrence in the
// included file.
type AnchorNotFoundError struct {
	Directive Directive
	Anchor    string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("the text %q was not found.", e.Anchor)
}

func (e *AnchorNotFoundError) Render(relPath string, input string) string {
	return pointAt(e.Error(), &e.Directive, relPath, input)
}

// ❌ ReversedRangeError reports a pair whose resolved lower bound lies after
// its upper bound, which would select a negative-length range.
type ReversedRangeError struct {
	Start Directive
	End   Directive
}

func (e *ReversedRangeError) Error() string { return "start position is after end position." }

func (e *ReversedRangeError) Render(relPath string, input string) string {
	return fmt.Sprintf("%s\n%s\n%s",
		e.Error(),
		diagnose.Link(relPath, e.Start.Line(input)),
		diagnose.Source(excerpt(&e.Start, input), excerpt(&e.End, input)),
	)
}
