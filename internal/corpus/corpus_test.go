package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/codequiz/internal/discover"
	"github.com/phobologic/codequiz/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "mod.py", "def f(a, b):\n    return a+b\n\nclass C(Base):\n    def m(self):\n        pass\n")

	var warn bytes.Buffer
	idx, err := Build(dir, discover.Options{}, &warn)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{path, path, path}, idx.Paths)
	names := []string{idx.Entities[0].Name, idx.Entities[1].Name, idx.Entities[2].Name}
	assert.Equal(t, []string{"f", "C", "C.m"}, names)
	assert.Empty(t, warn.String())

	e, p := idx.At(1)
	assert.Equal(t, model.Class, e.Kind)
	assert.Equal(t, path, p)
}

func TestBuildParseFailureIsolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 9 {
		writeFile(t, dir, fmt.Sprintf("ok%d.py", i), fmt.Sprintf("def func%d():\n    return %d\n", i, i))
	}
	bad := writeFile(t, dir, "broken.py", "def broken(:\n    return\n")

	var warn bytes.Buffer
	idx, err := Build(dir, discover.Options{}, &warn)
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 9, idx.Len())
	require.Len(t, idx.Paths, idx.Len())
	for i, p := range idx.Paths {
		assert.NotEqual(t, bad, p)
		assert.Equal(t, fmt.Sprintf("func%d", i), idx.Entities[i].Name)
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("ok%d.py", i)), p)
	}
	assert.Contains(t, warn.String(), "Warning: "+bad)
	assert.Contains(t, warn.String(), "invalid syntax")
}

func TestBuildExclusions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.py", "def app():\n    pass\n")
	writeFile(t, dir, "tests/foo.py", "def test_foo():\n    pass\n")

	idx, err := Build(dir, discover.Options{Exclude: []string{"tests"}}, &bytes.Buffer{})
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 1, idx.Len())
	assert.Equal(t, "app", idx.Entities[0].Name)
}

func TestBuildMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Build(filepath.Join(t.TempDir(), "missing"), discover.Options{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.py", "def a(): pass\ndef b(): pass\ndef c(): pass\n")

	idx, err := Build(dir, discover.Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	defer idx.Close()

	r := rand.New(rand.NewPCG(1, 2))
	seen := map[int]bool{}
	for range 100 {
		i, err := idx.Pick(r)
		require.NoError(t, err)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, idx.Len())
		seen[i] = true
	}
	assert.Len(t, seen, 3)
}

func TestPickEmptyCorpus(t *testing.T) {
	t.Parallel()

	idx, err := Build(t.TempDir(), discover.Options{}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = idx.Pick(rand.New(rand.NewPCG(1, 2)))
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
}
