package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
		assert.Equal(t, "17d8f1120822dd11c2c519883d0ce963", cfg.Gist.Id)
		assert.Equal(t, "dados_viagem.json", cfg.Gist.Filename)
	})

	t.Run("should read values from yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "addr: \":9000\"\ngist:\n  filename: trip.json\n  timeout: 5s\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, "trip.json", cfg.Gist.Filename)
		assert.Equal(t, 5*time.Second, cfg.Gist.Timeout)
		assert.Equal(t, DefaultGistId, cfg.Gist.Id)
	})

	t.Run("should let environment override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("gist:\n  id: from-file\n"), 0o600))
		t.Setenv("TRIPSPEND_GIST_ID", "from-env")
		t.Setenv("TRIPSPEND_SESSION_IDLETIMEOUT", "30m")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Gist.Id)
		assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("gist: [unclosed"), 0o600))

		_, err := Load(path)

		assert.Error(t, err)
	})
}
