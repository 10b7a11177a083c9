package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordexpand/pkg/config"
	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/bastiangx/wordexpand/pkg/triggers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	configPath   string
	triggersPath string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		configPath:   filepath.Join(dir, "config.toml"),
		triggersPath: filepath.Join(dir, "triggers.yaml"),
	}
	require.NoError(t, config.SaveConfig(config.DefaultConfig(), f.configPath))
	require.NoError(t, triggers.Save(f.triggersPath, []expand.Trigger{
		{Key: ";em", Expansion: "example@email.com"},
		{Key: "hbt", Expansion: "Happy Birthday To You"},
	}))
	return f
}

// run executes the command tree with the fixture's files and returns stdout.
func (f fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", f.configPath, "--triggers", f.triggersPath))
	err := root.Execute()
	return out.String(), err
}

func TestMatchCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "match", "I want to say hbt")
	require.NoError(t, err)
	assert.Equal(t, "hbt\tHappy Birthday To You\tkey\n", out)

	out, err = f.run(t, "", "match", "hbt", "--cursor", "3")
	require.NoError(t, err)
	assert.Equal(t, "hbt\tHappy Birthday To You\tkey,abbreviation\n", out)

	out, err = f.run(t, "", "match", "zzz")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = f.run(t, "", "match", "hbt and more", "--cursor", "3")
	require.NoError(t, err)
	assert.Equal(t, "hbt\tHappy Birthday To You\tkey,abbreviation\n", out)

	// negative cursors clamp to the start instead of meaning "end of text"
	out, err = f.run(t, "", "match", "hbt", "--cursor=-5")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigCommands(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "config", "set", "max_candidates", "3")
	require.NoError(t, err)
	assert.Contains(t, out, f.configPath)

	cfg, err := config.LoadConfig(f.configPath)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Server.MaxCandidates)

	_, err = f.run(t, "", "config", "set", "max_text", "-1")
	assert.ErrorIs(t, err, config.ErrInvalidValue)

	_, err = f.run(t, "", "config", "set", "colour", "1")
	assert.Error(t, err)

	out, err = f.run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "dir\t")
	assert.Contains(t, out, "file\t"+f.configPath)
}

func TestTriggersCommands(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "triggers", "add", "sig", "Best regards")
	require.NoError(t, err)
	assert.Contains(t, out, "3 triggers")

	out, err = f.run(t, "", "triggers", "list")
	require.NoError(t, err)
	assert.Equal(t, "0\t;em\texample@email.com\n1\thbt\tHappy Birthday To You\n2\tsig\tBest regards\n", out)

	_, err = f.run(t, "", "triggers", "rm", "0")
	require.NoError(t, err)

	list, err := triggers.Load(f.triggersPath)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hbt", list[0].Key)

	_, err = f.run(t, "", "triggers", "rm", "9")
	assert.ErrorIs(t, err, triggers.ErrNotFound)

	_, err = f.run(t, "", "triggers", "rm", "x")
	assert.Error(t, err)

	_, err = f.run(t, "", "triggers", "add", "", "empty key")
	assert.ErrorIs(t, err, triggers.ErrInvalidTrigger)
}

func TestCliCommand(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "My email is ;em\n:1\n:q\n", "cli", "--strategies=false")
	require.NoError(t, err)
	assert.Contains(t, out, "example@email.com")
	assert.Contains(t, out, "My email is example@email.com|")
	assert.NotContains(t, out, "[key]")
}

func TestVersionCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
	assert.Contains(t, out, "WordExpand")
}

func TestUnknownTriggerFormat(t *testing.T) {
	f := newFixture(t)
	f.triggersPath = filepath.Join(t.TempDir(), "triggers.txt")
	_, err := f.run(t, "", "triggers", "list")
	assert.ErrorIs(t, err, triggers.ErrUnsupportedFormat)
}
