/*
 * @Description: MinIO 스토리지 드라이버
 * @Author: memorymap
 * @Date: 2026-06-01 12:17:09
 * @LastEditTime: 2026-08-15 14:27:21
 * @LastEditors: memorymap
 */
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider stores objects in a MinIO bucket.
type MinioProvider struct {
	client *minio.Client
	opts   Options
	secure bool
	host   string
}

// NewMinioProvider connects to opts.Endpoint and creates the bucket if missing.
// Endpoint is host:port, optionally prefixed with http:// or https://.
func NewMinioProvider(ctx context.Context, opts Options) (IStorageProvider, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("MinIO storage requires an endpoint")
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("MinIO storage requires a bucket name")
	}

	host, secure := opts.Endpoint, false
	if u, err := url.Parse(opts.Endpoint); err == nil && u.Host != "" {
		host, secure = u.Host, u.Scheme == "https"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check MinIO bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("create MinIO bucket: %w", err)
		}
		log.Printf("[MinIO] created bucket %s", opts.Bucket)
	}

	log.Printf("[MinIO] client ready, endpoint: %s, bucket: %s", host, opts.Bucket)
	return &MinioProvider{client: client, opts: opts, secure: secure, host: host}, nil
}

func (p *MinioProvider) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (*UploadResult, error) {
	exists, err := p.IsExist(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("MinIO stat object: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectExists)
	}

	info, err := p.client.PutObject(ctx, p.opts.Bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("[MinIO] PutObject %s failed: %v", key, err)
		return nil, fmt.Errorf("MinIO put object: %w", err)
	}
	return &UploadResult{
		Key:       key,
		Size:      info.Size,
		MimeType:  contentType,
		PublicURL: p.PublicURL(key),
	}, nil
}

func (p *MinioProvider) PublicURL(key string) string {
	if p.opts.PublicURL != "" {
		return joinURL(p.opts.PublicURL, key)
	}
	scheme := "http"
	if p.secure {
		scheme = "https"
	}
	return joinURL(fmt.Sprintf("%s://%s/%s", scheme, p.host, p.opts.Bucket), key)
}

func (p *MinioProvider) IsExist(ctx context.Context, key string) (bool, error) {
	_, err := p.client.StatObject(ctx, p.opts.Bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

func (p *MinioProvider) Delete(ctx context.Context, key string) error {
	if err := p.client.RemoveObject(ctx, p.opts.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("MinIO remove object: %w", err)
	}
	return nil
}
