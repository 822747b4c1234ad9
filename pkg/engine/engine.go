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

// Package engine runs the substitution pipeline per source file: match
// directives, pair them, resolve each pair's included range, render it as a
// doc-comment block, and splice it between the markers. Errors are
// file-scoped and fatal; a file is either fully substituted or untouched.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/incdoc/pkg/directive"
)

// 🔧 Engine performs substitutions for files under a single root directory.
// It holds no per-file state; one Engine serves a whole run.
type Engine struct {
	root string // canonicalized absolute scan root
}

// 🏭 New creates an engine rooted at root. The root is canonicalized once so
// every include-path containment check compares canonical paths.
func New(root string) (*Engine, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.Errorf("canonicalizing root: %w", err)
	}
	return &Engine{root: canon}, nil
}

// Root returns the canonicalized scan root.
func (e *Engine) Root() string { return e.root }

// 📋 IncludeLog records the outcome for one directive pair.
type IncludeLog struct {
	Path    string // include path relative to the scan root
	Changed bool   // whether this pair's content differed from what was there
}

// 📦 Outcome is the per-file result of Process.
type Outcome struct {
	Modified bool         // at least one pair produced different content
	NewText  string       // full substituted text, valid whether or not modified
	Includes []IncludeLog // one entry per directive pair, in document order
}

// 🏃 Process runs the full pipeline on one file's text. absPath locates the
// file on disk (include paths resolve relative to its directory); input is
// its current content. A nil error means every pair substituted cleanly;
// the caller decides whether to write based on Outcome.Modified.
func (e *Engine) Process(ctx context.Context, absPath string, input string) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)

	pairs, err := e.collectPairs(input)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("file", absPath).Int("pairs", len(pairs)).Msg("directives paired")

	dir := filepath.Dir(absPath)
	outcome := &Outcome{}

	var out strings.Builder
	last := 0
	for _, pair := range pairs {
		replacement, includeRel, err := e.substitute(ctx, dir, pair)
		if err != nil {
			return nil, err
		}

		existing := input[pair.Start.Span.End:pair.End.Span.Start]
		changed := existing != replacement
		if changed {
			outcome.Modified = true
		}
		outcome.Includes = append(outcome.Includes, IncludeLog{Path: includeRel, Changed: changed})

		out.WriteString(input[last:pair.Start.Span.End])
		out.WriteString(replacement)
		last = pair.End.Span.Start
	}
	out.WriteString(input[last:])
	outcome.NewText = out.String()

	return outcome, nil
}

// collectPairs runs the matcher and threads every result through the pairing
// state machine. The first malformed directive or pairing violation aborts.
func (e *Engine) collectPairs(input string) ([]directive.Pair, error) {
	pairer := directive.NewPairer()
	var pairs []directive.Pair
	for _, m := range directive.FindAll(input) {
		if m.Directive == nil {
			return nil, &directive.MalformedError{Span: m.Span}
		}
		pair, err := pairer.Feed(*m.Directive)
		if err != nil {
			return nil, err
		}
		if pair != nil {
			pairs = append(pairs, *pair)
		}
	}
	if err := pairer.Finish(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// substitute produces the replacement text for one pair: a leading newline
// plus the rendered doc-comment block. It also re-validates the freshly
// selected text for directive-shaped lines so generated content can never
// look like a directive itself.
func (e *Engine) substitute(ctx context.Context, dir string, pair directive.Pair) (string, string, error) {
	incPath, err := resolveUnderRoot(e.root, dir, pair.Start.Path)
	if err != nil {
		return "", "", &ReadError{Directive: pair.Start, Path: pair.Start.Path, Reason: err}
	}

	data, err := os.ReadFile(incPath)
	if err != nil {
		return "", "", &ReadError{Directive: pair.Start, Path: pair.Start.Path, Reason: err}
	}

	includeRel, err := filepath.Rel(e.root, incPath)
	if err != nil {
		includeRel = pair.Start.Path
	}

	text, err := directive.Resolve(pair, string(data))
	if err != nil {
		return "", "", err
	}

	// The probe runs on the raw range, not the rendered block: the
	// doc-comment prefix would hide directive syntax from the line-anchored
	// grammar.
	if span, found := directive.Probe(text); found {
		return "", "", &PollutionError{
			Directive: pair.Start,
			Path:      pair.Start.Path,
			Excerpt:   span.Slice(text),
		}
	}

	block := renderBlock(text, pair.Start.Visibility)

	zerolog.Ctx(ctx).Debug().
		Str("include", includeRel).
		Int("bytes", len(block)).
		Msg("rendered include block")

	return "\n" + block, includeRel, nil
}

// renderBlock reformats resolved text as a doc-comment block: one line per
// source line, each with the visibility's prefix, newline-terminated.
func renderBlock(text string, vis directive.Visibility) string {
	if text == "" {
		return ""
	}
	prefix := vis.CommentPrefix()
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
