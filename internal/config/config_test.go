package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"agent"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, "fieldreport.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "intervention-photos", cfg.S3.Bucket)
}

func TestLoadConfig_JsonOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base_url": "https://backend.test",
		"api_key": "anon-key",
		"database_path": "/tmp/reports.db",
		"online_check_interval": "1m",
		"s3": {
			"endpoint": "https://s3.test",
			"bucket": "photos",
			"public_url_base": "https://cdn.test/photos"
		}
	}`), 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, "https://backend.test", cfg.BaseURL)
	assert.Equal(t, "anon-key", cfg.APIKey)
	assert.Equal(t, "/tmp/reports.db", cfg.DatabasePath)
	assert.Equal(t, time.Minute, cfg.OnlineCheckInterval)
	assert.Equal(t, "https://s3.test", cfg.S3.Endpoint)
	assert.Equal(t, "photos", cfg.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.S3.Region, "unset JSON fields keep defaults")
	assert.Equal(t, "https://cdn.test/photos", cfg.S3.PublicURLBase)
}

func TestLoadConfig_FlagsOverrideJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url": "https://from-json.test", "online_check_interval": "1m"}`), 0o600))

	withArgs(t, "-c", path, "-u", "https://from-flag.test", "-i", "45")

	cfg := LoadConfig()
	assert.Equal(t, "https://from-flag.test", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.OnlineCheckInterval)
}
