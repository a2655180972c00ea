/*
 * @Description: 모든 스토리지 드라이버가 따르는 인터페이스와 공통 구조
 * @Author: memorymap
 * @Date: 2026-05-20 17:29:55
 * @LastEditTime: 2026-07-26 12:51:28
 * @LastEditors: memorymap
 */

// Package storage holds the object storage drivers images are uploaded to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/memorymap/memorymap-app/pkg/config"
)

// ErrObjectExists is returned when the key is already taken. Uploads never overwrite.
var ErrObjectExists = errors.New("object already exists")

// UploadResult describes a stored object.
type UploadResult struct {
	Key       string
	Size      int64
	MimeType  string
	PublicURL string
}

// IStorageProvider is implemented by every storage driver.
type IStorageProvider interface {
	// Upload stores data under key. It fails with ErrObjectExists instead of overwriting.
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (*UploadResult, error)
	// PublicURL returns the address browsers load the object from.
	PublicURL(key string) string
	// IsExist reports whether key is present.
	IsExist(ctx context.Context, key string) (bool, error)
	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Options configures a provider. Built from the [Storage] config section.
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
	LocalPath string
}

// OptionsFromConfig reads the [Storage] section.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Endpoint:  cfg.GetString(config.KeyStorageEndpoint),
		Region:    cfg.GetString(config.KeyStorageRegion),
		Bucket:    cfg.GetString(config.KeyStorageBucket),
		AccessKey: cfg.GetString(config.KeyStorageAccessKey),
		SecretKey: cfg.GetString(config.KeyStorageSecretKey),
		PublicURL: cfg.GetString(config.KeyStoragePublicURL),
		LocalPath: cfg.GetString(config.KeyStorageLocalPath),
	}
}

// NewProvider returns the driver selected by Storage.Type.
func NewProvider(ctx context.Context, cfg *config.Config) (IStorageProvider, error) {
	opts := OptionsFromConfig(cfg)
	switch t := strings.ToLower(cfg.GetString(config.KeyStorageType)); t {
	case "", "local":
		return NewLocalProvider(opts)
	case "s3":
		return NewAWSS3Provider(ctx, opts)
	case "minio":
		return NewMinioProvider(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (local, s3, minio)", t)
	}
}

// joinURL joins a base URL and an object key with exactly one slash.
func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
