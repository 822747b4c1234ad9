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

// Package operation runs the substitution engine over every candidate file
// under the configured root.
package operation

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/incdoc/pkg/config"
	"github.com/walteh/incdoc/pkg/diagnose"
	"github.com/walteh/incdoc/pkg/engine"
	"github.com/walteh/incdoc/pkg/log"
	"github.com/walteh/incdoc/pkg/walker"
)

// 🎯 Operator defines the main interface for incdoc operations
type Operator interface {
	// Run processes every candidate file under the root and returns the
	// aggregated result. The returned error covers run-level failures
	// (unusable root, walk failure); per-file failures are collected in
	// the result instead.
	Run(ctx context.Context) (*RunResult, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config is the incdoc configuration
	Config *config.Config
	// Logger is the user-facing console logger
	Logger *log.Logger
}

// 📄 FileResult is the outcome for one processed file
type FileResult struct {
	Path     string // root-relative path
	Updated  bool
	Includes []engine.IncludeLog
	Err      error
}

// 📊 RunResult aggregates a whole run
type RunResult struct {
	Processed int
	Updated   int
	Unchanged int
	Failed    int
	Files     []FileResult
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	return &operator{
		config: opts.Config,
		logger: opts.Logger,
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	config *config.Config
	logger *log.Logger
}

func (op *operator) Run(ctx context.Context) (*RunResult, error) {
	logger := zerolog.Ctx(ctx)

	eng, err := engine.New(op.config.Root)
	if err != nil {
		return nil, errors.Errorf("creating engine: %w", err)
	}

	files, err := walker.Walk(ctx, eng.Root(), walker.Options{
		Extensions:     op.config.Extensions,
		IgnorePatterns: op.config.IgnorePatterns,
	})
	if err != nil {
		return nil, errors.Errorf("walking root: %w", err)
	}
	logger.Debug().Int("candidates", len(files)).Msg("walk complete")

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(op.config.Jobs)

	var mu sync.Mutex
	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // fail-fast already triggered, leave this slot empty
			}
			res := op.processFile(gctx, eng, rel)

			mu.Lock()
			results[i] = res
			mu.Unlock()

			if res.Err != nil && op.config.FailFast {
				// cancels the group so remaining files are skipped
				return res.Err
			}
			return nil
		})
	}

	// fail-fast errors are already recorded per file; surface the rest
	// through the result rather than failing the run
	failFastErr := g.Wait()

	result := &RunResult{}
	for _, res := range results {
		if res.Path == "" {
			continue // skipped after fail-fast cancellation
		}
		result.Files = append(result.Files, res)
	}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })

	for _, res := range result.Files {
		result.Processed++
		switch {
		case res.Err != nil:
			result.Failed++
		case res.Updated:
			result.Updated++
		default:
			result.Unchanged++
		}
		op.logger.LogFileOperation(log.FileOperation{
			Path:     res.Path,
			Updated:  res.Updated,
			DryRun:   op.config.DryRun,
			Includes: includeNotes(res.Includes),
			Err:      res.Err,
		})
	}

	if failFastErr != nil && result.Failed == 0 {
		// the group failed for a non-file reason (context cancellation)
		return nil, failFastErr
	}
	return result, nil
}

// 📄 processFile runs the engine on one file and writes the result back when
// it changed. Every failure is rendered into a positioned diagnostic here,
// while the file's text is still at hand.
func (op *operator) processFile(ctx context.Context, eng *engine.Engine, rel string) FileResult {
	res := FileResult{Path: rel}
	absPath := filepath.Join(eng.Root(), rel)

	data, err := os.ReadFile(absPath)
	if err != nil {
		res.Err = errors.Errorf("reading file: %w", err)
		return res
	}

	outcome, err := eng.Process(ctx, absPath, string(data))
	if err != nil {
		res.Err = errors.New(diagnose.Render(err, rel, string(data)))
		return res
	}

	res.Updated = outcome.Modified
	res.Includes = outcome.Includes

	if outcome.Modified && !op.config.DryRun {
		if err := engine.WriteFileAtomic(absPath, []byte(outcome.NewText)); err != nil {
			res.Err = errors.Errorf("writing file: %w", err)
			res.Updated = false
			return res
		}
	}
	return res
}

func includeNotes(logs []engine.IncludeLog) []log.IncludeNote {
	notes := make([]log.IncludeNote, 0, len(logs))
	for _, l := range logs {
		notes = append(notes, log.IncludeNote{Path: filepath.ToSlash(l.Path), Changed: l.Changed})
	}
	return notes
}
