package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.txt")
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveAndLoadTOML(t *testing.T) {
	type section struct {
		Limit int    `toml:"limit"`
		Name  string `toml:"name"`
	}
	type doc struct {
		Server section `toml:"server"`
	}

	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, SaveTOMLFile(doc{Server: section{Limit: 3, Name: "x"}}, path))

	var got doc
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, 3, got.Server.Limit)

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	sec, ok := ExtractSection(raw, "server")
	require.True(t, ok)

	limit, ok := ExtractInt64(sec, "limit")
	assert.True(t, ok)
	assert.Equal(t, 3, limit)
	name, ok := ExtractString(sec, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	_, ok = ExtractBool(sec, "name")
	assert.False(t, ok)
	_, ok = ExtractSection(raw, "missing")
	assert.False(t, ok)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "dir")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
	assert.True(t, FileExists(dir))
}

func TestConfigDirFor(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")

	assert.Equal(t, filepath.Join("/home/u", ".config", AppDir), configDirFor("linux", "/home/u"))
	assert.Equal(t, filepath.Join("/home/u", "AppData", "Roaming", AppDir), configDirFor("windows", "/home/u"))
	assert.Equal(t, filepath.Join("/home/u", "."+AppDir), configDirFor("plan9", "/home/u"))

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", AppDir), configDirFor("darwin", "/home/u"))
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	pr := &PathResolver{executableDir: dir, homeDir: dir, configDir: filepath.Join(dir, "cfg")}

	abs := filepath.Join(dir, "mine.toml")
	got, err := pr.ResolveFile(abs, "triggers.toml")
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	got, err = pr.ResolveFile("", "triggers.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cfg", "triggers.toml"), got)

	got, err = pr.ResolveFile("other.yaml", "triggers.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cfg", "other.yaml"), got)
}
