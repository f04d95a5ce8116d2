package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scenetic/cli/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(EnvTagURL, "")
	t.Setenv(EnvHardwareURL, "")
	t.Setenv(EnvAPIKey, "")
	return dir
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	dir := tempHome(t)

	cfg := Config{APIKey: "test-key"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Join(dir, ".scenetic"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestLoadConfigNonExistentYieldsDefaults(t *testing.T) {
	tempHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001", cfg.TagServiceURL())
	assert.Equal(t, "http://localhost:5000", cfg.HardwareServiceURL())
	assert.Empty(t, cfg.IdentityAPIKey())
	assert.Nil(t, cfg.Session)
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	tempHome(t)

	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	original := Config{
		TagURL:      "http://tags:5001",
		HardwareURL: "http://pi:5000",
		APIKey:      "AIza-test",
		Session: &auth.Session{
			UID:           "uid-1",
			Email:         "dir@example.com",
			IDToken:       "tok",
			RefreshToken:  "ref",
			ExpiresAt:     exp,
			EmailVerified: true,
		},
		DataDir:    "/tmp/scenetic",
		S3:         S3{Bucket: "scenes", Region: "eu-west-1", Endpoint: "http://minio:9000", Prefix: "dev/"},
		RetryDelay: 750 * time.Millisecond,
		LogLevel:   "debug",
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original.TagURL, loaded.TagURL)
	assert.Equal(t, original.S3, loaded.S3)
	assert.Equal(t, original.RetryDelay, loaded.RetryDelay)
	require.NotNil(t, loaded.Session)
	assert.Equal(t, "uid-1", loaded.Session.UID)
	assert.True(t, loaded.Session.ExpiresAt.Equal(exp))
	assert.True(t, loaded.Session.EmailVerified)
}

func TestSaveConfigOverwritesExisting(t *testing.T) {
	tempHome(t)

	require.NoError(t, (&Config{APIKey: "key1"}).Save())
	require.NoError(t, (&Config{APIKey: "key2"}).Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key2", loaded.APIKey)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	dir := tempHome(t)

	cfgDir := filepath.Join(dir, ".scenetic")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte(""), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001", cfg.TagServiceURL())
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := tempHome(t)

	cfgDir := filepath.Join(dir, ".scenetic")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte("invalid: yaml: content:"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestConfigPermissionsStrictlyEnforced(t *testing.T) {
	tempHome(t)

	require.NoError(t, (&Config{APIKey: "secret"}).Save())
	require.NoError(t, os.Chmod(Path(), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestEnvironmentOverridesAreNotPersisted(t *testing.T) {
	tempHome(t)
	t.Setenv(EnvTagURL, "http://override:5001")
	t.Setenv(EnvAPIKey, "env-key")

	cfg := &Config{TagURL: "http://file:5001", APIKey: "file-key"}
	assert.Equal(t, "http://override:5001", cfg.TagServiceURL())
	assert.Equal(t, "env-key", cfg.IdentityAPIKey())
	assert.Equal(t, "http://localhost:5000", cfg.HardwareServiceURL())

	require.NoError(t, cfg.Save())
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://file:5001", loaded.TagURL)
	assert.Equal(t, "file-key", loaded.APIKey)
}

func TestSetSessionPersistsAndClears(t *testing.T) {
	tempHome(t)

	cfg := &Config{}
	require.NoError(t, cfg.SetSession(&auth.Session{UID: "u", IDToken: "t"}))
	loaded, err := Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.Session)

	require.NoError(t, loaded.SetSession(nil))
	loaded, err = Load()
	require.NoError(t, err)
	assert.Nil(t, loaded.Session)
}

func TestDataPaths(t *testing.T) {
	home := tempHome(t)

	cfg := &Config{}
	assert.Equal(t, filepath.Join(home, ".scenetic", "data", "scenetic.db"), cfg.DatabasePath())

	cfg.DataDir = "/srv/scenetic"
	assert.Equal(t, "/srv/scenetic/scenetic.log", cfg.LogPath())
}

func TestPathReturnsCorrectLocation(t *testing.T) {
	path := Path()
	assert.Contains(t, path, ".scenetic")
	assert.Contains(t, path, "config")
}
