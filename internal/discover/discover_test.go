package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rels(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscoverPythonFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "lib/util.py", "def helper(): pass")
	writeFile(t, dir, "readme.txt", "hello")

	paths, err := Files(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/util.py", "main.py"}, rels(t, dir, paths))
	assert.Equal(t, filepath.Join(dir, "main.py"), paths[1])
}

func TestDiscoverExcludedFragments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.py", "pass")
	writeFile(t, dir, "tests/foo.py", "def f(): pass")
	writeFile(t, dir, "pkg/tests/deep/bar.py", "pass")
	writeFile(t, dir, "pkg/scripts_old.py", "pass")
	writeFile(t, dir, "pkg/core.py", "pass")

	paths, err := Files(dir, Options{Exclude: []string{"tests", "scripts"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py", "pkg/core.py"}, rels(t, dir, paths))
}

func TestDiscoverRootContainingFragment(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "tests-project")
	writeFile(t, dir, "a.py", "pass")

	paths, err := Files(dir, Options{Exclude: []string{"tests"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, rels(t, dir, paths))
}

func TestDiscoverFragmentOnlyAboveRoot(t *testing.T) {
	t.Parallel()

	// The fragment names an ancestor of the root. Only paths below the root
	// are matched, so nothing is excluded.
	dir := filepath.Join(t.TempDir(), "scripts", "proj")
	writeFile(t, dir, "a.py", "pass")
	writeFile(t, dir, "pkg/b.py", "pass")
	writeFile(t, dir, "pkg/scripts/c.py", "pass")

	paths, err := Files(dir, Options{Exclude: []string{"scripts"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "pkg/b.py"}, rels(t, dir, paths))
	assert.True(t, Excluded(paths[0], []string{"scripts"}))
}

func TestExcluded(t *testing.T) {
	t.Parallel()

	frags := []string{"tests", "scripts"}
	assert.True(t, Excluded("/src/tests/foo.py", frags))
	assert.True(t, Excluded("/src/myscripts", frags))
	assert.False(t, Excluded("/src/test/foo.py", frags))
	assert.False(t, Excluded("/src/foo.py", nil))
	assert.False(t, Excluded("/src/foo.py", []string{""}))
}

func TestDiscoverGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "keep.py", "pass")
	writeFile(t, dir, "gen/out_pb2.py", "pass")
	writeFile(t, dir, "pkg/setup_helpers.py", "pass")

	paths, err := Files(dir, Options{Globs: []string{"gen", "**/setup_*.py"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.py"}, rels(t, dir, paths))

	_, err = Files(dir, Options{Globs: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated.py\nvendor/\n")
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "generated.py", "pass")
	writeFile(t, dir, "vendor/lib.py", "pass")

	paths, err := Files(dir, Options{Gitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, rels(t, dir, paths))

	paths, err = Files(dir, Options{})
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.py", "pass")

	if err := os.Symlink(filepath.Join(dir, "real.py"), filepath.Join(dir, "link.py")); err != nil {
		t.Skip("symlinks not supported")
	}

	paths, err := Files(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.py"}, rels(t, dir, paths))
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
