package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/incdoc/pkg/directive"
)

// writeTree lays out files under a fresh temp root and returns the root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		abs := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
	}
	return root
}

func newEngine(t *testing.T, root string) *Engine {
	t.Helper()
	e, err := New(root)
	require.NoError(t, err)
	return e
}

func TestEngine_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("basic_substitution", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"lib.txt": "hello\nworld\n",
			"main.rs": "// #[include_doc(\"lib.txt\", start)]\nplaceholder\n// #[include_doc(\"lib.txt\", end)]\nfn main() {}\n",
		})
		e := newEngine(t, root)

		input, err := os.ReadFile(filepath.Join(root, "main.rs"))
		require.NoError(t, err)

		outcome, err := e.Process(ctx, filepath.Join(root, "main.rs"), string(input))
		require.NoError(t, err)
		assert.True(t, outcome.Modified)
		assert.Equal(t,
			"// #[include_doc(\"lib.txt\", start)]\n/// hello\n/// world\n// #[include_doc(\"lib.txt\", end)]\nfn main() {}\n",
			outcome.NewText)

		require.Len(t, outcome.Includes, 1)
		assert.Equal(t, "lib.txt", outcome.Includes[0].Path)
		assert.True(t, outcome.Includes[0].Changed)
	})

	t.Run("inner_visibility_prefix", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"doc.md":  "overview\n",
			"main.rs": "// #![include_doc(\"doc.md\", start)]\n// #![include_doc(\"doc.md\", end)]\n",
		})
		e := newEngine(t, root)

		outcome, err := e.Process(ctx, filepath.Join(root, "main.rs"), "// #![include_doc(\"doc.md\", start)]\n// #![include_doc(\"doc.md\", end)]\n")
		require.NoError(t, err)
		assert.Contains(t, outcome.NewText, "//! overview\n")
	})

	t.Run("round_trip_idempotence", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"lib.txt": "hello\nworld\n",
			"main.rs": "// #[include_doc(\"lib.txt\", start)]\nstale\n// #[include_doc(\"lib.txt\", end)]\n",
		})
		e := newEngine(t, root)
		path := filepath.Join(root, "main.rs")

		first, err := e.Process(ctx, path, "// #[include_doc(\"lib.txt\", start)]\nstale\n// #[include_doc(\"lib.txt\", end)]\n")
		require.NoError(t, err)
		require.True(t, first.Modified)

		second, err := e.Process(ctx, path, first.NewText)
		require.NoError(t, err)
		assert.False(t, second.Modified, "run 1 output must be a fixed point")
		assert.Equal(t, first.NewText, second.NewText)
		require.Len(t, second.Includes, 1)
		assert.False(t, second.Includes[0].Changed)
	})

	t.Run("no_directives_is_unchanged", func(t *testing.T) {
		root := writeTree(t, map[string]string{"main.rs": "fn main() {}\n"})
		e := newEngine(t, root)

		outcome, err := e.Process(ctx, filepath.Join(root, "main.rs"), "fn main() {}\n")
		require.NoError(t, err)
		assert.False(t, outcome.Modified)
		assert.Empty(t, outcome.Includes)
		assert.Equal(t, "fn main() {}\n", outcome.NewText)
	})

	t.Run("multiple_pairs_with_ranges", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"a.txt":   "first\nsecond\nthird\n",
			"b.txt":   "X foo Y foo Z\n",
			"main.rs": "// #[include_doc(\"a.txt\", start(2))]\n// #[include_doc(\"a.txt\", end)]\ncode\n// #[include_doc(\"b.txt\", start(\"foo\"))]\nold\n// #[include_doc(\"b.txt\", end(\"foo\"))]\n",
		})
		e := newEngine(t, root)

		input, err := os.ReadFile(filepath.Join(root, "main.rs"))
		require.NoError(t, err)
		outcome, err := e.Process(ctx, filepath.Join(root, "main.rs"), string(input))
		require.NoError(t, err)

		assert.Contains(t, outcome.NewText, "/// second\n/// third\n")
		assert.Contains(t, outcome.NewText, "/// foo Y\n")
		assert.Contains(t, outcome.NewText, "\ncode\n")
		require.Len(t, outcome.Includes, 2)
		assert.Equal(t, "a.txt", outcome.Includes[0].Path)
		assert.Equal(t, "b.txt", outcome.Includes[1].Path)
	})

	t.Run("include_relative_to_containing_file", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"src/notes.txt": "nested\n",
			"src/main.rs":   "// #[include_doc(\"notes.txt\", start)]\n// #[include_doc(\"notes.txt\", end)]\n",
		})
		e := newEngine(t, root)

		outcome, err := e.Process(ctx, filepath.Join(root, "src", "main.rs"), "// #[include_doc(\"notes.txt\", start)]\n// #[include_doc(\"notes.txt\", end)]\n")
		require.NoError(t, err)
		assert.Contains(t, outcome.NewText, "/// nested\n")
		require.Len(t, outcome.Includes, 1)
		assert.Equal(t, filepath.Join("src", "notes.txt"), outcome.Includes[0].Path)
	})
}

func TestEngine_Process_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed_directive", func(t *testing.T) {
		root := writeTree(t, map[string]string{"main.rs": ""})
		e := newEngine(t, root)

		_, err := e.Process(ctx, filepath.Join(root, "main.rs"), "// #[include_doc(\"a\", wat)]\n")
		var malformed *directive.MalformedError
		require.ErrorAs(t, err, &malformed)
	})

	t.Run("missing_include_file", func(t *testing.T) {
		root := writeTree(t, map[string]string{"main.rs": ""})
		e := newEngine(t, root)

		_, err := e.Process(ctx, filepath.Join(root, "main.rs"), "// #[include_doc(\"nope.txt\", start)]\n// #[include_doc(\"nope.txt\", end)]\n")
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, "nope.txt", readErr.Path)
	})

	t.Run("include_escaping_root", func(t *testing.T) {
		parent := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret\n"), 0644))
		root := filepath.Join(parent, "root")
		require.NoError(t, os.MkdirAll(root, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "main.rs"), []byte(""), 0644))
		e := newEngine(t, root)

		_, err := e.Process(ctx, filepath.Join(root, "main.rs"), "// #[include_doc(\"../secret.txt\", start)]\n// #[include_doc(\"../secret.txt\", end)]\n")
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.ErrorIs(t, err, errEscapesRoot)
	})

	t.Run("anchor_not_found", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"lib.txt": "hello\n",
			"main.rs": "",
		})
		e := newEngine(t, root)

		_, err := e.Process(ctx, filepath.Join(root, "main.rs"), "// #[include_doc(\"lib.txt\", start(\"missing\"))]\n// #[include_doc(\"lib.txt\", end)]\n")
		var notFound *directive.AnchorNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("polluted_include", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"lib.txt": "fine\n// #[include_doc(\"other\", start)]\nfine\n",
			"main.rs": "",
		})
		e := newEngine(t, root)

		_, err := e.Process(ctx, filepath.Join(root, "main.rs"), "// #[include_doc(\"lib.txt\", start)]\n// #[include_doc(\"lib.txt\", end)]\n")
		var polluted *PollutionError
		require.ErrorAs(t, err, &polluted)
		assert.Equal(t, "lib.txt", polluted.Path)
		assert.Contains(t, polluted.Excerpt, "include_doc")
	})

	t.Run("mismatched_paths_never_pair", func(t *testing.T) {
		root := writeTree(t, map[string]string{"a.txt": "x\n", "b.txt": "y\n", "main.rs": ""})
		e := newEngine(t, root)

		_, err := e.Process(ctx, filepath.Join(root, "main.rs"), "// #[include_doc(\"a.txt\", start)]\n// #[include_doc(\"b.txt\", end)]\n")
		var mismatch *directive.MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, directive.MismatchPath, mismatch.Field)
	})

	t.Run("no_partial_output_on_error", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"good.txt": "ok\n",
			"main.rs":  "",
		})
		e := newEngine(t, root)

		// first pair is fine, second pair's include is missing
		input := "// #[include_doc(\"good.txt\", start)]\n// #[include_doc(\"good.txt\", end)]\n// #[include_doc(\"gone.txt\", start)]\n// #[include_doc(\"gone.txt\", end)]\n"
		outcome, err := e.Process(ctx, filepath.Join(root, "main.rs"), input)
		require.Error(t, err)
		assert.Nil(t, outcome)
	})
}

func TestRenderBlock(t *testing.T) {
	tests := []struct {
		name string
		text string
		vis  directive.Visibility
		want string
	}{
		{name: "outer_lines", text: "hello\nworld", vis: directive.VisibilityOuter, want: "/// hello\n/// world\n"},
		{name: "inner_lines", text: "hi", vis: directive.VisibilityInner, want: "//! hi\n"},
		{name: "empty_text", text: "", vis: directive.VisibilityOuter, want: ""},
		{name: "blank_interior_line", text: "a\n\nb", vis: directive.VisibilityOuter, want: "/// a\n/// \n/// b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderBlock(tt.text, tt.vis))
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Run("replaces_content_and_keeps_mode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "f.rs")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

		require.NoError(t, WriteFileAtomic(path, []byte("new")))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(content))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err), "temp file must not survive")
	})

	t.Run("missing_target_fails", func(t *testing.T) {
		assert.Error(t, WriteFileAtomic(filepath.Join(t.TempDir(), "absent.rs"), []byte("x")))
	})
}
