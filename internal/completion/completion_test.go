package completion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesSortsAndDedupes(t *testing.T) {
	got := Candidates([]string{"b", "a", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestCandidatesEmpty(t *testing.T) {
	assert.Nil(t, Candidates(nil))
}

func TestLongestCommonPrefix(t *testing.T) {
	assert.Equal(t, "git ", LongestCommonPrefix([]string{"git commit", "git push", "git pull"}))
}

func TestLongestCommonPrefixNoShared(t *testing.T) {
	assert.Equal(t, "", LongestCommonPrefix([]string{"abc", "xyz"}))
}

func TestLongestCommonPrefixSingle(t *testing.T) {
	assert.Equal(t, "only", LongestCommonPrefix([]string{"only"}))
}

func TestNewPrefixCompleter(t *testing.T) {
	c := NewPrefix([]string{"git", "go", "grep"})
	got := c("g")
	assert.ElementsMatch(t, []string{"git", "go", "grep"}, got)
}

func TestPrintColumnsSingleColumn(t *testing.T) {
	out := PrintColumns([]string{"a", "b"}, 4)
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}

func TestNewFilenameCompleterListsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "beta"), 0o700))

	c := NewFilename(dir)
	got := c("")

	assert.Contains(t, got, "alpha.txt")
	assert.Contains(t, got, "beta/")
}

func TestNewFilenameCompleterPrefixFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zeta.txt"), []byte("x"), 0o600))

	c := NewFilename(dir)
	got := c("al")

	assert.Equal(t, []string{"alpha.txt"}, got)
}

func TestNewFilenameCompleterUnwrapsQuotes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("x"), 0o600))

	c := NewFilename(dir)
	got := c(`"al`)

	require.Len(t, got, 1)
	assert.Equal(t, `"alpha.txt"`, got[0])
}
