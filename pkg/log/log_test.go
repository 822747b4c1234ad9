package log

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func newTestLogger() (*Logger, *bytes.Buffer) {
	var console bytes.Buffer
	return New(&console, zerolog.Nop()), &console
}

func TestLogger_LogFileOperation(t *testing.T) {
	tests := []struct {
		name         string
		op           FileOperation
		wantContains []string
	}{
		{
			name: "updated_file",
			op: FileOperation{
				Path:     "src/main.rs",
				Updated:  true,
				Includes: []IncludeNote{{Path: "lib.txt", Changed: true}},
			},
			wantContains: []string{"⟳ src/main.rs", "lib.txt changed"},
		},
		{
			name: "unchanged_file",
			op: FileOperation{
				Path:     "src/lib.rs",
				Includes: []IncludeNote{{Path: "doc.md", Changed: false}},
			},
			wantContains: []string{"- src/lib.rs", "doc.md unchanged"},
		},
		{
			name: "dry_run_update",
			op: FileOperation{
				Path:    "src/main.rs",
				Updated: true,
				DryRun:  true,
			},
			wantContains: []string{"⟳ src/main.rs (dry run, not written)"},
		},
		{
			name: "failed_file",
			op: FileOperation{
				Path: "src/bad.rs",
				Err:  errors.New("invalid attribute.\n--> src/bad.rs:3"),
			},
			wantContains: []string{"✗ src/bad.rs", "invalid attribute.", "--> src/bad.rs:3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, console := newTestLogger()
			logger.LogFileOperation(tt.op)

			for _, want := range tt.wantContains {
				assert.Contains(t, console.String(), want)
			}
		})
	}
}

func TestLogger_Messages(t *testing.T) {
	logger, console := newTestLogger()

	logger.Header("processing ./src")
	logger.Successf("%d files updated", 3)
	logger.Warning("nothing to do")
	logger.Errorf("%d files failed", 1)

	out := console.String()
	assert.Contains(t, out, "incdoc")
	assert.Contains(t, out, "• processing ./src")
	assert.Contains(t, out, "3 files updated")
	assert.Contains(t, out, "nothing to do")
	assert.Contains(t, out, "1 files failed")
}
