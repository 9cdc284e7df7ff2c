package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formula.tex")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	calls := make(chan string, 8)
	w, err := New(path, func(p string) { calls <- p }, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x^2"), 0644))
	}

	select {
	case got := <-calls:
		assert.Equal(t, w.Path(), got)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case <-calls:
		t.Fatal("burst of writes should produce a single notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "am.toml")

	calls := make(chan string, 8)
	w, err := New(path, func(p string) { calls <- p }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("a = 1"), 0644))
	require.NoError(t, os.WriteFile(path+".back1", []byte("a = 1"), 0644))

	select {
	case <-calls:
		t.Fatal("unrelated files must not trigger the handler")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherOwnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "am.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	calls := make(chan string, 8)
	w, err := New(path, func(p string) { calls <- p }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	w.MarkOwnWrite()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("[export]\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case <-calls:
		t.Fatal("own write should be ignored")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewRequiresHandler(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x"), nil)
	assert.Error(t, err)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "x.tex"), func(string) {})
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "x.tex"), func(string) {})
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, IsBackupFile("/home/u/.formulary/am.toml.back1"))
	assert.True(t, IsBackupFile("am.toml.back3"))
	assert.False(t, IsBackupFile("am.toml"))
	assert.False(t, IsBackupFile("notes.back"))
}
