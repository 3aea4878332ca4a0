package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeToCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("exports")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "exports"))
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotReal)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exports")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	_, err := EnsureDir(p)
	require.Error(t, err)
}

func TestWriteFileAtomic_WritesAndReplaces(t *testing.T) {
	dir := t.TempDir()

	p, err := WriteFileAtomic(dir, "out.csv", []byte("one"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "out.csv"), p)

	_, err = WriteFileAtomic(dir, "out.csv", []byte("two"))
	require.NoError(t, err)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "two", string(b))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestWriteFileAtomic_RejectsPathInName(t *testing.T) {
	_, err := WriteFileAtomic(t.TempDir(), "../escape.json", []byte("x"))
	require.Error(t, err)

	_, err = WriteFileAtomic(t.TempDir(), "", []byte("x"))
	require.Error(t, err)
}
