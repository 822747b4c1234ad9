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
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// errEscapesRoot is the reason attached to ReadError for containment
// violations.
var errEscapesRoot = errors.New("path escapes the root directory")

// 🔒 resolveUnderRoot resolves an include path written in a file living in
// dir, canonicalizes it, and verifies it stays under root (which must itself
// be canonical). Symlinks are resolved before the containment check so a
// link cannot smuggle a path outside the root.
func resolveUnderRoot(root string, dir string, include string) (string, error) {
	abs := filepath.Clean(filepath.Join(dir, include))

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Errorf("resolving path: %w", err)
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errEscapesRoot
	}
	return resolved, nil
}

// 💾 WriteFileAtomic replaces path's bytes via a temp file and rename so a
// crash never leaves a half-written source file. The original file mode is
// preserved.
func WriteFileAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stating target file: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, info.Mode().Perm()); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
