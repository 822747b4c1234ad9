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

// Package walker enumerates candidate source files under a root directory.
package walker

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":   true,
	"target": true,
}

// 🚶 Options controls which files a walk yields.
type Options struct {
	// Extensions are the file extensions (with dot) considered source files.
	Extensions []string
	// IgnorePatterns are doublestar globs matched against the root-relative
	// slash path; matching files are skipped.
	IgnorePatterns []string
}

// 🎯 Walk returns the root-relative paths of all candidate files under root,
// in deterministic lexical order.
func Walk(ctx context.Context, root string, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}

		if !hasExtension(rel, opts.Extensions) {
			return nil
		}
		if ignored, pattern := matchesIgnore(rel, opts.IgnorePatterns); ignored {
			logger.Debug().Str("file", rel).Str("pattern", pattern).Msg("file ignored by pattern")
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func matchesIgnore(rel string, patterns []string) (bool, string) {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, slashed)
		if err != nil {
			continue
		}
		if matched {
			return true, pattern
		}
	}
	return false, ""
}
