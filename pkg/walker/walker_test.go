package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, path := range files {
		abs := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte("x\n"), 0644))
	}
	return root
}

func TestWalk(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		opts  Options
		want  []string
	}{
		{
			name:  "extension_filter",
			files: []string{"a.rs", "b.txt", "sub/c.rs"},
			opts:  Options{Extensions: []string{".rs"}},
			want:  []string{"a.rs", filepath.Join("sub", "c.rs")},
		},
		{
			name:  "multiple_extensions",
			files: []string{"a.rs", "b.md", "c.go"},
			opts:  Options{Extensions: []string{".rs", ".md"}},
			want:  []string{"a.rs", "b.md"},
		},
		{
			name:  "skips_git_and_target_dirs",
			files: []string{"a.rs", ".git/b.rs", "target/c.rs", "sub/target/d.rs"},
			opts:  Options{Extensions: []string{".rs"}},
			want:  []string{"a.rs"},
		},
		{
			name:  "skips_hidden_dirs",
			files: []string{"a.rs", ".cache/b.rs"},
			opts:  Options{Extensions: []string{".rs"}},
			want:  []string{"a.rs"},
		},
		{
			name:  "ignore_patterns",
			files: []string{"a.rs", "gen/b.rs", "gen/deep/c.rs"},
			opts:  Options{Extensions: []string{".rs"}, IgnorePatterns: []string{"gen/**"}},
			want:  []string{"a.rs"},
		},
		{
			name:  "no_matches",
			files: []string{"a.txt"},
			opts:  Options{Extensions: []string{".rs"}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files)
			got, err := Walk(context.Background(), root, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(context.Background(), filepath.Join(t.TempDir(), "absent"), Options{Extensions: []string{".rs"}})
	assert.Error(t, err)
}
