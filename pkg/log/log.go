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

// Package log provides the user-facing console logger: colored per-file
// status lines layered over structured zerolog output.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	includeIndent = 4 // spaces to indent per-include entries
)

// 📄 IncludeNote is one included file's contribution to a processed file.
type IncludeNote struct {
	Path    string // include path relative to the scan root
	Changed bool   // whether the rendered block differed
}

// 🎯 FileOperation represents one processed file for logging
type FileOperation struct {
	Path     string        // file path relative to the scan root
	Updated  bool          // whether the file content changed
	DryRun   bool          // whether the write was suppressed
	Includes []IncludeNote // per-pair outcomes, in document order
	Err      error         // fatal error for this file, already rendered
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 LogFileOperation logs the outcome of one processed file
func (l *Logger) LogFileOperation(op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case op.Err != nil:
		fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgRed).Sprint("✗"), op.Path)
		fmt.Fprintf(l.console, "%s\n", op.Err)
	case op.Updated && op.DryRun:
		fmt.Fprintf(l.console, "%s %s %s\n",
			color.New(color.FgBlue).Sprint("⟳"), op.Path,
			color.New(color.Faint).Sprint("(dry run, not written)"))
	case op.Updated:
		fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgGreen).Sprint("⟳"), op.Path)
	default:
		fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgYellow).Sprint("-"), op.Path)
	}

	if op.Err == nil {
		for _, inc := range op.Includes {
			state := "unchanged"
			stateColor := color.Faint
			if inc.Changed {
				state = "changed"
				stateColor = color.FgCyan
			}
			fmt.Fprintf(l.console, "%*s%s %s\n",
				includeIndent, "",
				inc.Path,
				color.New(stateColor).Sprint(state))
		}
	}

	l.zlog.Info().
		Str("file", op.Path).
		Bool("updated", op.Updated).
		Bool("dry_run", op.DryRun).
		Int("includes", len(op.Includes)).
		Err(op.Err).
		Msg("file operation")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("incdoc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
