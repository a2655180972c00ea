package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromFile_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "conf.ini")

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "default config file should be written")
	assert.Equal(t, "3000", cfg.GetString(KeyServerPort))
	assert.Equal(t, "sqlite", cfg.GetString(KeyDBType))
	assert.Equal(t, "MemoryMap/1.0", cfg.GetString(KeyGeocodeUserAgent))
	assert.Equal(t, 92, cfg.GetInt(KeyTranscodeQuality))
	assert.InDelta(t, 1.0, cfg.GetFloat64(KeyGeocodeRatePerSecond), 1e-9)
}

func TestNewConfigFromFile_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	content := `[System]
Port = 9090

[Storage]
Type = s3
Bucket = photos
Region =
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("MEMORYMAP_STORAGE_BUCKET", "from-env")

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.GetString(KeyServerPort))
	assert.Equal(t, "s3", cfg.GetString(KeyStorageType))
	assert.Equal(t, "from-env", cfg.GetString(KeyStorageBucket))
	// blank ini values keep the default
	assert.Equal(t, "", cfg.GetString(KeyStorageRegion))
	assert.Equal(t, "ko-KR,ko;q=0.9,en;q=0.8", cfg.GetString(KeyGeocodeAcceptLanguage))
}

func TestNewConfigFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte("[System\nPort = 1\n"), 0644))

	_, err := NewConfigFromFile(path)
	assert.Error(t, err)
}

func TestConfig_Set(t *testing.T) {
	cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "conf.ini"))
	require.NoError(t, err)

	cfg.Set(KeyServerDebug, true)
	assert.True(t, cfg.GetBool(KeyServerDebug))
}
