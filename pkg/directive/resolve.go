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

import "strings"

// 🎯 Resolve computes the substring of included that a pair selects. The
// start directive's argument supplies the lower bound, the end directive's
// the upper bound, and the sliced result is trimmed of leading and trailing
// whitespace.
//
// Text anchors search forward for the start bound and backward for the end
// bound, so identical start/end anchor text brackets correctly. A lower
// bound past the upper bound is a hard error, never a reversed slice.
func Resolve(pair Pair, included string) (string, error) {
	lo, err := lowerBound(pair.Start, included)
	if err != nil {
		return "", err
	}
	hi, err := upperBound(pair.End, included)
	if err != nil {
		return "", err
	}
	if lo > hi {
		return "", &ReversedRangeError{Start: pair.Start, End: pair.End}
	}
	return strings.TrimSpace(included[lo:hi]), nil
}

func lowerBound(d Directive, t string) (int, error) {
	switch d.Arg.Kind {
	case ArgLine:
		return offsetOfLine(t, d.Arg.Line), nil
	case ArgLineRev:
		return offsetFromEnd(t, d.Arg.Line), nil
	case ArgText:
		i := strings.Index(t, d.Arg.Text)
		if i < 0 {
			return 0, &AnchorNotFoundError{Directive: d, Anchor: d.Arg.Text}
		}
		return i, nil
	default:
		return 0, nil
	}
}

func upperBound(d Directive, t string) (int, error) {
	switch d.Arg.Kind {
	case ArgLine:
		return offsetOfLine(t, d.Arg.Line), nil
	case ArgLineRev:
		return offsetFromEnd(t, d.Arg.Line), nil
	case ArgText:
		i := strings.LastIndex(t, d.Arg.Text)
		if i < 0 {
			return 0, &AnchorNotFoundError{Directive: d, Anchor: d.Arg.Text}
		}
		return i, nil
	default:
		return len(t), nil
	}
}

// offsetOfLine returns the byte offset of the first character of the 1-based
// line n. n <= 1 resolves to 0; n past the last line resolves to len(t).
func offsetOfLine(t string, n int) int {
	off := 0
	for ; n > 1; n-- {
		i := strings.IndexByte(t[off:], '\n')
		if i < 0 {
			return len(t)
		}
		off += i + 1
	}
	return off
}

// offsetFromEnd returns the offset reached by counting n newlines back from
// the end of t. n = 0 resolves to len(t); counting past the first line
// resolves to 0.
func offsetFromEnd(t string, n int) int {
	off := len(t)
	for ; n > 0; n-- {
		i := strings.LastIndexByte(t[:off], '\n')
		if i < 0 {
			return 0
		}
		off = i
	}
	return off
}
