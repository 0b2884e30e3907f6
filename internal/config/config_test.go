package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8418", cfg.Addr())
	assert.Equal(t, "arbiter.db", cfg.Archive.Path)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Signing.SeedHex)

	assert.Equal(t, 300*time.Second, cfg.Adjudication.MaxAdjudicationTime)
	assert.True(t, cfg.Adjudication.EnableClaimExtraction)
	assert.True(t, cfg.Adjudication.EnableDebateProtocol)
	assert.Equal(t, 3, cfg.Adjudication.MaxDebateRounds)
	assert.InDelta(t, 0.8, cfg.Adjudication.MinVerdictConfidence, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ARBITER_HOST", "127.0.0.1")
	t.Setenv("ARBITER_PORT", "9000")
	t.Setenv("ARBITER_DB_PATH", "/tmp/verdicts.db")
	t.Setenv("ARBITER_LOG_LEVEL", "debug")
	t.Setenv("ARBITER_MAX_ADJUDICATION_TIME", "45s")
	t.Setenv("ARBITER_ENABLE_DEBATE", "false")
	t.Setenv("ARBITER_MAX_DEBATE_ROUNDS", "5")
	t.Setenv("ARBITER_MIN_VERDICT_CONFIDENCE", "0.9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "/tmp/verdicts.db", cfg.Archive.Path)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.Adjudication.MaxAdjudicationTime)
	assert.False(t, cfg.Adjudication.EnableDebateProtocol)
	assert.Equal(t, 5, cfg.Adjudication.MaxDebateRounds)
	assert.InDelta(t, 0.9, cfg.Adjudication.MinVerdictConfidence, 1e-9)
}

func TestLoad_BareSecondsDuration(t *testing.T) {
	t.Setenv("ARBITER_MAX_ADJUDICATION_TIME", "120")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.Adjudication.MaxAdjudicationTime)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbiter.yaml")
	raw := []byte(`
server:
  host: 10.0.0.5
  port: "7000"
adjudication:
  max_debate_rounds: 4
  min_verdict_confidence: 0.85
archive:
  path: /var/lib/arbiter/verdicts.db
log_level: warn
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	t.Setenv("ARBITER_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:7000", cfg.Addr())
	assert.Equal(t, 4, cfg.Adjudication.MaxDebateRounds)
	assert.InDelta(t, 0.85, cfg.Adjudication.MinVerdictConfidence, 1e-9)
	assert.Equal(t, "/var/lib/arbiter/verdicts.db", cfg.Archive.Path)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbiter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))
	t.Setenv("ARBITER_CONFIG", path)
	t.Setenv("ARBITER_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("ARBITER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ARBITER_MAX_DEBATE_ROUNDS", "many")
	t.Setenv("ARBITER_MIN_VERDICT_CONFIDENCE", "high")
	t.Setenv("ARBITER_ENABLE_DEBATE", "definitely")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Adjudication.MaxDebateRounds)
	assert.InDelta(t, 0.8, cfg.Adjudication.MinVerdictConfidence, 1e-9)
	assert.True(t, cfg.Adjudication.EnableDebateProtocol)
}
