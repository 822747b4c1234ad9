package diagnose

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestLink(t *testing.T) {
	assert.Equal(t, "--> src/lib.rs:42", Link("src/lib.rs", 42))
}

func TestSource(t *testing.T) {
	tests := []struct {
		name  string
		lines []SourceLine
		want  string
	}{
		{
			name:  "single_unlabeled_line",
			lines: []SourceLine{{Content: "// #[include_doc(bad)]"}},
			want:  " | // #[include_doc(bad)]",
		},
		{
			name: "labels_right_aligned",
			lines: []SourceLine{
				{Label: "9", Content: "first"},
				{Label: "10", Content: "second"},
			},
			want: "  9 | first\n 10 | second",
		},
		{
			name: "empty_content",
			lines: []SourceLine{
				{Label: "3", Content: ""},
			},
			want: " 3 | ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Source(tt.lines...))
		})
	}
}

type fakeRenderable struct{ msg string }

func (f *fakeRenderable) Error() string { return f.msg }

func (f *fakeRenderable) Render(relPath string, input string) string {
	return f.msg + " @ " + relPath
}

func TestRender(t *testing.T) {
	t.Run("renderable_error", func(t *testing.T) {
		err := &fakeRenderable{msg: "anchor not found"}
		assert.Equal(t, "anchor not found @ src/main.rs", Render(err, "src/main.rs", "text"))
	})

	t.Run("wrapped_renderable_error", func(t *testing.T) {
		err := errors.Errorf("processing file: %w", &fakeRenderable{msg: "boom"})
		assert.Equal(t, "boom @ a.rs", Render(err, "a.rs", ""))
	})

	t.Run("plain_error_falls_back", func(t *testing.T) {
		got := Render(errors.New("permission denied"), "b.rs", "")
		assert.Equal(t, "permission denied\n--> b.rs:1", got)
	})
}
