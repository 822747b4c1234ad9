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

// 👥 Pair is a matched (start, end) directive with equal visibility and path.
type Pair struct {
	Start Directive
	End   Directive
}

// 🔁 Pairer matches start and end directives in document order. It holds at
// most one pending start; feeding directives out of order produces pairing
// errors. All pairing errors are fatal to the containing file, so callers
// stop at the first non-nil error.
type Pairer struct {
	pending *Directive
}

// NewPairer returns a Pairer in the idle state.
func NewPairer() *Pairer {
	return &Pairer{}
}

// 🍽️ Feed consumes the next directive. It returns a completed pair when d
// closes the pending start, nil when d opens a new region, and an error on
// any pairing violation.
//
// A start arriving while another start is pending reports the earlier start
// as unmatched rather than silently dropping it; the new start is still
// registered so the caller sees a consistent state, but the error aborts the
// file.
func (p *Pairer) Feed(d Directive) (*Pair, error) {
	switch d.Action {
	case ActionStart:
		if p.pending != nil {
			prev := *p.pending
			p.pending = &d
			return nil, &UnmatchedStartError{Start: prev}
		}
		p.pending = &d
		return nil, nil

	default: // ActionEnd
		if p.pending == nil {
			return nil, &UnmatchedEndError{End: d}
		}
		start := *p.pending
		if start.Visibility != d.Visibility {
			return nil, &MismatchError{Start: start, End: d, Field: MismatchVisibility}
		}
		if start.Path != d.Path {
			return nil, &MismatchError{Start: start, End: d, Field: MismatchPath}
		}
		p.pending = nil
		return &Pair{Start: start, End: d}, nil
	}
}

// 🏁 Finish reports an unmatched-start error when the stream ended with a
// start still pending.
func (p *Pairer) Finish() error {
	if p.pending != nil {
		return &UnmatchedStartError{Start: *p.pending}
	}
	return nil
}
