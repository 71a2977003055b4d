package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peteski22/dynparam/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadUsingDefault(t *testing.T) {
	require := require.New(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"), config.Default())
	require.NoError(err)

	require.Equal(":8080", cfg.Server.Address)
	require.Equal("info", cfg.Log.Level)
	require.Equal(5*time.Second, cfg.Workers.CallTimeout)
	require.Empty(cfg.Parameters)
}

func TestLoadUsingFile(t *testing.T) {
	require := require.New(t)

	path := writeConfig(t, `
[server]
address = ":9090"

[workers]
call_timeout = "2s"

[[parameters]]
name = "BRANCH"
description = "Branch to build"
script = '["main", "develop"]'

[[parameters]]
name = "HOST"
script = 'split(env.HOSTS, ",")'
remote = true
`)

	cfg, err := config.Load(path, config.Default())
	require.NoError(err)

	require.Equal(":9090", cfg.Server.Address)
	require.Equal(2*time.Second, cfg.Workers.CallTimeout)
	require.Equal(10*time.Second, cfg.Workers.StartTimeout)
	require.Equal([]config.Parameter{
		{Name: "BRANCH", Description: "Branch to build", Script: `["main", "develop"]`},
		{Name: "HOST", Script: `split(env.HOSTS, ",")`, Remote: true},
	}, cfg.Parameters)
}

func TestLoadUsingEnv(t *testing.T) {
	t.Setenv("DYNPARAM_SERVER__ADDRESS", ":7070")
	t.Setenv("DYNPARAM_LOG__LEVEL", "debug")

	require := require.New(t)

	cfg, err := config.Load("", config.Default())
	require.NoError(err)

	require.Equal(":7070", cfg.Server.Address)
	require.Equal("debug", cfg.Log.Level)
}

func TestLoadRejectsDuplicateParameters(t *testing.T) {
	path := writeConfig(t, `
[[parameters]]
name = "A"

[[parameters]]
name = "A"
`)

	_, err := config.Load(path, config.Default())
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
