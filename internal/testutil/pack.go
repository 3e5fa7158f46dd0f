package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WritePack creates a datapack in a temp dir from slash-separated
// relative paths and returns its root.
//
//	root := testutil.WritePack(t, map[string]string{
//		"data/x/recipes/a.json": `{...}`,
//	})
func WritePack(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}
