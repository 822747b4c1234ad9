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

package engine

import (
	"fmt"
	"strconv"

	"github.com/walteh/incdoc/pkg/diagnose"
	"github.com/walteh/incdoc/pkg/directive"
)

// ❌ ReadError reports an include file that is missing, unreadable, or
// outside the scan root.
type ReadError struct {
	Directive directive.Directive // the start directive naming the file
	Path      string              // include path as written in the directive
	Reason    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read the file %q. (%v)", e.Path, e.Reason)
}

func (e *ReadError) Unwrap() error { return e.Reason }

func (e *ReadError) Render(relPath string, input string) string {
	return fmt.Sprintf("%s\n%s\n%s",
		e.Error(),
		diagnose.Link(relPath, e.Directive.Line(input)),
		diagnose.Source(diagnose.SourceLine{
			Label:   strconv.Itoa(e.Directive.Line(input)),
			Content: e.Directive.Span.Slice(input),
		}),
	)
}

// ❌ PollutionError reports a rendered block that itself contains
// directive-shaped text. Splicing it would plant markers inside generated
// content and invite recursive inclusion, so the engine refuses.
type PollutionError struct {
	Directive directive.Directive // the start directive whose block is polluted
	Path      string              // include path as written in the directive
	Excerpt   string              // the offending directive-shaped text
}

func (e *PollutionError) Error() string {
	return fmt.Sprintf("the file %q contains an include_doc attribute.", e.Path)
}

func (e *PollutionError) Render(relPath string, input string) string {
	return fmt.Sprintf("%s\n%s\n%s",
		e.Error(),
		diagnose.Link(relPath, e.Directive.Line(input)),
		diagnose.Source(
			diagnose.SourceLine{
				Label:   strconv.Itoa(e.Directive.Line(input)),
				Content: e.Directive.Span.Slice(input),
			},
			diagnose.SourceLine{Content: e.Excerpt},
		),
	)
}
