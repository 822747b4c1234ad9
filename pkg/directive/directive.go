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

// Package directive implements the include_doc marker grammar: recognizing
// marker comments in source text, pairing start/end markers, and resolving
// which range of an included file a pair selects.
//
// The grammar is line-anchored. A line is "shaped" like a directive when it
// contains, after optional whitespace, a `//` comment with an attribute-like
// `#[include_doc...]` token. Shaped lines that fail the detailed grammar are
// reported as malformed rather than skipped, so typos surface.
package directive

import (
	"regexp"
	"strconv"

	"github.com/walteh/incdoc/pkg/textpos"
)

// Capture groups: 1 inner marker, 2 path, 3 action, 4 anchor text,
// 5 negative sign, 6 line number. Groups 2+ are absent when the line only
// matches the attribute shape (the `.*` alternative).
var pattern = regexp.MustCompile(
	`(?m:^[ \t]*//[ \t]*#(!?)\[[ \t]*include_doc(?:[ \t]*\([ \t]*"([^"]*)"[ \t]*,[ \t]*(start|end)[ \t]*(?:\([ \t]*(?:"([^"]*)"|(-)?([0-9]+))[ \t]*\)[ \t]*)?\)[ \t]*|.*)\][ \t]*\r?$)`)

// 📏 Span is a half-open byte range [Start, End) into the containing text.
type Span struct {
	Start int
	End   int
}

// Slice returns the text covered by the span.
func (s Span) Slice(text string) string {
	return text[s.Start:s.End]
}

// 👁️ Visibility selects the doc-comment prefix used for rendered output.
type Visibility int

const (
	VisibilityOuter Visibility = iota // `/// ` lines documenting the following item
	VisibilityInner                   // `//! ` lines documenting the enclosing item
)

// String returns a string representation of Visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityInner:
		return "inner"
	default:
		return "outer"
	}
}

// CommentPrefix returns the per-line doc-comment prefix for rendered blocks.
func (v Visibility) CommentPrefix() string {
	switch v {
	case VisibilityInner:
		return "//! "
	default:
		return "/// "
	}
}

// 🎬 Action marks a directive as opening or closing an inclusion region.
type Action int

const (
	ActionStart Action = iota
	ActionEnd
)

// String returns a string representation of Action.
func (a Action) String() string {
	if a == ActionEnd {
		return "end"
	}
	return "start"
}

// 🎛️ ArgKind discriminates the optional directive argument.
type ArgKind int

const (
	ArgNone    ArgKind = iota
	ArgLine            // 1-based line number counted from the start
	ArgLineRev         // line count from the end
	ArgText            // literal anchor text
)

// 🎛️ Arg is the optional argument attached to start/end: it selects where
// within the included file the relevant range begins (start) or ends (end).
type Arg struct {
	Kind ArgKind
	Line int
	Text string
}

// 📌 Directive is one recognized marker occurrence in a source file.
type Directive struct {
	Span       Span   // full marker comment line, including surrounding indentation
	Path       string // include path, relative to the containing file's directory
	Visibility Visibility
	Action     Action
	Arg        Arg
}

// Line returns the 1-based line number of the directive in its file.
func (d *Directive) Line(input string) int {
	return textpos.LineOf(input, d.Span.Start)
}

// 🔍 Match is one shaped line found by FindAll. Directive is nil when the
// line matched the attribute shape but failed the detailed grammar.
type Match struct {
	Span      Span
	Directive *Directive
}

// 🎯 FindAll scans text and returns every directive-shaped line in document
// order, parsed or malformed.
func FindAll(text string) []Match {
	raw := pattern.FindAllStringSubmatchIndex(text, -1)
	matches := make([]Match, 0, len(raw))
	for _, m := range raw {
		matches = append(matches, fromSubmatch(text, m))
	}
	return matches
}

// 🔎 Probe reports the byte range of the first directive-shaped line in an
// arbitrary text blob. It is used to detect directive syntax leaking into
// freshly generated content.
func Probe(text string) (Span, bool) {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return Span{}, false
	}
	return Span{Start: loc[0], End: loc[1]}, true
}

func fromSubmatch(text string, m []int) Match {
	span := Span{Start: m[0], End: m[1]}
	if m[4] < 0 {
		// shape matched, detailed grammar did not
		return Match{Span: span}
	}

	vis := VisibilityOuter
	if text[m[2]:m[3]] == "!" {
		vis = VisibilityInner
	}

	action := ActionStart
	if text[m[6]:m[7]] == "end" {
		action = ActionEnd
	}

	arg := Arg{Kind: ArgNone}
	switch {
	case m[8] >= 0:
		arg = Arg{Kind: ArgText, Text: text[m[8]:m[9]]}
	case m[12] >= 0:
		n, err := strconv.Atoi(text[m[12]:m[13]])
		if err != nil {
			// out-of-range line number, treat like any other bad attribute
			return Match{Span: span}
		}
		if m[10] >= 0 {
			arg = Arg{Kind: ArgLineRev, Line: n}
		} else {
			arg = Arg{Kind: ArgLine, Line: n}
		}
	}

	return Match{
		Span: span,
		Directive: &Directive{
			Span:       span,
			Path:       text[m[4]:m[5]],
			Visibility: vis,
			Action:     action,
			Arg:        arg,
		},
	}
}
