/*
 * @Description: 설정 파일 로드
 * @Author: memorymap
 * @Date: 2026-03-13 06:54:50
 * @LastEditTime: 2026-04-24 02:02:08
 * @LastEditors: memorymap
 */

// Package config loads application settings from data/conf.ini and MEMORYMAP_* environment variables.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

const DefaultConfigPath = "data/conf.ini"

const envPrefix = "MEMORYMAP"

const (
	KeyServerPort          = "System.Port"
	KeyServerDebug         = "System.Debug"
	KeyServerPublicAPIBase = "System.PublicAPIBase"

	KeyDBType     = "Database.Type"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"
	KeyDBDebug    = "Database.Debug"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeyStorageType      = "Storage.Type"
	KeyStorageEndpoint  = "Storage.Endpoint"
	KeyStorageRegion    = "Storage.Region"
	KeyStorageBucket    = "Storage.Bucket"
	KeyStorageAccessKey = "Storage.AccessKey"
	KeyStorageSecretKey = "Storage.SecretKey"
	KeyStoragePublicURL = "Storage.PublicURL"
	KeyStorageLocalPath = "Storage.LocalPath"

	KeyGeocodeBaseURL        = "Geocode.BaseURL"
	KeyGeocodeUserAgent      = "Geocode.UserAgent"
	KeyGeocodeAcceptLanguage = "Geocode.AcceptLanguage"
	KeyGeocodeRatePerSecond  = "Geocode.RatePerSecond"

	KeyMapAPIKey = "Map.APIKey"

	KeyTranscodeVipsPath   = "Transcode.VipsPath"
	KeyTranscodeFFmpegPath = "Transcode.FFmpegPath"
	KeyTranscodeQuality    = "Transcode.Quality"

	KeyUploadMaxSizeMB         = "Upload.MaxSizeMB"
	KeyUploadSessionTTLMinutes = "Upload.SessionTTLMinutes"
)

// allKeys lists every key that may be overridden from the environment.
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyServerPublicAPIBase,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyStorageType, KeyStorageEndpoint, KeyStorageRegion, KeyStorageBucket,
	KeyStorageAccessKey, KeyStorageSecretKey, KeyStoragePublicURL, KeyStorageLocalPath,
	KeyGeocodeBaseURL, KeyGeocodeUserAgent, KeyGeocodeAcceptLanguage, KeyGeocodeRatePerSecond,
	KeyMapAPIKey,
	KeyTranscodeVipsPath, KeyTranscodeFFmpegPath, KeyTranscodeQuality,
	KeyUploadMaxSizeMB, KeyUploadSessionTTLMinutes,
}

// defaults apply when neither the ini file nor the environment sets a key.
var defaults = map[string]interface{}{
	KeyServerPort:              "3000",
	KeyServerDebug:             false,
	KeyDBType:                  "sqlite",
	KeyDBName:                  "memorymap.db",
	KeyRedisDB:                 0,
	KeyStorageType:             "local",
	KeyStorageLocalPath:        "data/storage",
	KeyStoragePublicURL:        "/storage",
	KeyStorageBucket:           "images",
	KeyGeocodeBaseURL:          "https://nominatim.openstreetmap.org",
	KeyGeocodeUserAgent:        "MemoryMap/1.0",
	KeyGeocodeAcceptLanguage:   "ko-KR,ko;q=0.9,en;q=0.8",
	KeyGeocodeRatePerSecond:    1.0,
	KeyTranscodeVipsPath:       "vips",
	KeyTranscodeFFmpegPath:     "ffmpeg",
	KeyTranscodeQuality:        92,
	KeyUploadMaxSizeMB:         50,
	KeyUploadSessionTTLMinutes: 30,
}

type Config struct {
	vp *viper.Viper
}

// NewConfig loads DefaultConfigPath, creating it when missing.
func NewConfig() (*Config, error) {
	return NewConfigFromFile(DefaultConfigPath)
}

// NewConfigFromFile loads the ini file at filePath into viper, then applies environment overrides.
func NewConfigFromFile(filePath string) (*Config, error) {
	vp := viper.New()
	for k, v := range defaults {
		vp.SetDefault(k, v)
	}

	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("parse config file '%s': %w", filePath, err)
		}
		log.Printf("[Config] %s not found, writing defaults.", filePath)
		if err := createDefaultConfigFile(filePath); err != nil {
			log.Printf("[Config] Warning: could not create %s: %v, falling back to env and built-in defaults.", filePath, err)
		} else if iniCfg, err = ini.Load(filePath); err != nil {
			log.Printf("[Config] Warning: reload of %s failed: %v", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				// Blank ini values keep the built-in default.
				if key.Value() == "" {
					continue
				}
				vp.Set(viperKey, key.Value())
			}
		}
	}

	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("[Config] %s overrides '%s'.", envVarName, key)
		}
	}

	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

func (c *Config) GetFloat64(key string) float64 {
	return c.vp.GetFloat64(key)
}

// Set overrides a key at runtime. Used by tests and the CLI flags.
func (c *Config) Set(key string, value interface{}) {
	c.vp.Set(key, value)
}

func createDefaultConfigFile(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	defaultConfig := `[System]
Port = 3000
Debug = false
# Base URL the SPA uses to reach this API, e.g. https://map.example.com
PublicAPIBase =

[Database]
Type = sqlite
Name = memorymap.db
Debug = false

# Leave Addr empty to use the in-memory cache
[Redis]
Addr =
Password =
DB = 0

# Type: local | s3 | minio
[Storage]
Type = local
LocalPath = data/storage
PublicURL = /storage
Bucket = images
Endpoint =
Region =
AccessKey =
SecretKey =

[Geocode]
BaseURL = https://nominatim.openstreetmap.org
UserAgent = MemoryMap/1.0
AcceptLanguage = ko-KR,ko;q=0.9,en;q=0.8
RatePerSecond = 1

[Map]
APIKey =

[Transcode]
VipsPath = vips
FFmpegPath = ffmpeg
Quality = 92

[Upload]
MaxSizeMB = 50
SessionTTLMinutes = 30
`
	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
