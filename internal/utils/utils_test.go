package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateBytes(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"hello", -1, ""},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
		{"日本", 4, "日"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TruncateBytes(tc.s, tc.n), "%q/%d", tc.s, tc.n)
	}
}

func TestIsSeparator(t *testing.T) {
	for _, b := range []byte{' ', '\n', '\r'} {
		assert.True(t, IsSeparator(b), "%q", b)
	}
	for _, b := range []byte{'a', '\t', '.', '\'', 0} {
		assert.False(t, IsSeparator(b), "%q", b)
	}
}

func TestVisualizeTrailing(t *testing.T) {
	assert.Equal(t, "word", VisualizeTrailing("word"))
	assert.Equal(t, "word··", VisualizeTrailing("word \n"))
	assert.Equal(t, "···", VisualizeTrailing("   "))
}

func TestSaveAndLoadTOML(t *testing.T) {
	type section struct {
		Limit int    `toml:"limit"`
		Name  string `toml:"name"`
	}
	type doc struct {
		Main section `toml:"main"`
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "c.toml")
	require.NoError(t, SaveTOMLFile(doc{Main: section{Limit: 2, Name: "x"}}, path))

	var got doc
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, 2, got.Main.Limit)

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	sec, ok := ExtractSection(raw, "main")
	require.True(t, ok)
	limit, ok := ExtractInt64(sec, "limit")
	assert.True(t, ok)
	assert.Equal(t, 2, limit)
	name, ok := ExtractString(sec, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	_, ok = ExtractBool(sec, "name")
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestPathResolverGetDataDir(t *testing.T) {
	good := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(good, "tier1.txt"), []byte("the\n"), 0o644))
	empty := t.TempDir()

	pr, err := NewPathResolver("typeaid-test", "tier1.txt")
	require.NoError(t, err)

	assert.Equal(t, good, pr.GetDataDir(good))
	// Nothing valid: the requested path comes back so the load can report it.
	assert.Equal(t, empty, pr.GetDataDir(empty))
	assert.True(t, strings.HasSuffix(pr.GetDataDir(""), "data"))
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, ".write_test")))
}
