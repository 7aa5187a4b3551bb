package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "nemo.db", cfg.Database.DSN)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, 20, cfg.Study.SessionSize)
	assert.True(t, cfg.Study.FallbackWhenEmpty)
	assert.Equal(t, time.Local, cfg.Study.Location())
	assert.Equal(t, 10, cfg.Progress.PointsPerReview)
	assert.True(t, cfg.Progress.AwardOnForgot)
	assert.Equal(t, "repos", cfg.Sync.ReposDir)
	assert.Equal(t, time.Hour, cfg.Sync.Interval)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
study:
  session_size: 30
  timezone: Europe/Madrid
server:
  port: 9000
log:
  format: console
`), 0o600))

	t.Setenv("NEMO_STUDY_SESSION_SIZE", "40")
	t.Setenv("NEMO_PROGRESS_AWARD_ON_FORGOT", "false")

	flags := Flags()
	require.NoError(t, flags.Parse([]string{"--server.port=9100"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Study.SessionSize, "env beats file")
	assert.Equal(t, 9100, cfg.Server.Port, "flag beats file")
	assert.Equal(t, "console", cfg.Log.Format, "file beats defaults")
	assert.False(t, cfg.Progress.AwardOnForgot)
	assert.Equal(t, "Europe/Madrid", cfg.Study.Location().String())
	assert.Equal(t, 10, cfg.Progress.PointsPerReview, "defaults fill the rest")
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Study.SessionSize)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown driver", []string{"--database.driver=mysql"}},
		{"port out of range", []string{"--server.port=70000"}},
		{"empty session", []string{"--study.session_size=0"}},
		{"zero session ttl", []string{"--server.session_ttl=0s"}},
		{"negative points", []string{"--progress.points_per_review=-1"}},
		{"bad timezone", []string{"--study.timezone=Mars/Olympus"}},
		{"bad log level", []string{"--log.level=loud"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			flags := Flags()
			require.NoError(t, flags.Parse(tc.args))
			_, err := Load("", flags)
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "study.session_size", envKey("NEMO_STUDY_SESSION_SIZE"))
	assert.Equal(t, "database.dsn", envKey("NEMO_DATABASE_DSN"))
	assert.Equal(t, "debug", envKey("NEMO_DEBUG"))
}
