/*
 * @Description: AWS S3 스토리지 드라이버
 * @Author: memorymap
 * @Date: 2026-03-16 07:10:31
 * @LastEditTime: 2026-06-01 06:26:14
 * @LastEditors: memorymap
 */
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// AWSS3Provider stores objects in S3 or an S3-compatible endpoint.
type AWSS3Provider struct {
	client *s3.Client
	opts   Options
	region string
}

// NewAWSS3Provider builds the client once. Endpoint may be a region name or a full URL.
func NewAWSS3Provider(ctx context.Context, opts Options) (IStorageProvider, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("S3 storage requires a bucket name")
	}
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("S3 storage requires AccessKey and SecretKey")
	}

	region := opts.Region
	var customEndpoint string
	if strings.HasPrefix(opts.Endpoint, "http") {
		if parsed, err := url.Parse(opts.Endpoint); err == nil {
			customEndpoint = opts.Endpoint
			// s3.<region>.amazonaws.com
			if region == "" && strings.HasSuffix(parsed.Host, "amazonaws.com") {
				parts := strings.Split(parsed.Host, ".")
				if len(parts) >= 4 && strings.HasPrefix(parts[0], "s3") {
					region = parts[1]
				}
			}
		}
	} else if opts.Endpoint != "" && region == "" {
		region = opts.Endpoint
	}
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if customEndpoint != "" {
			o.BaseEndpoint = aws.String(customEndpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("[S3] client ready, region: %s, bucket: %s", region, opts.Bucket)
	return &AWSS3Provider{client: client, opts: opts, region: region}, nil
}

func (p *AWSS3Provider) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (*UploadResult, error) {
	// Buffer so ContentLength is exact; some S3-compatible servers reject streamed bodies.
	content, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectExists)
		}
		log.Printf("[S3] PutObject %s failed: %v", key, err)
		return nil, fmt.Errorf("S3 put object: %w", err)
	}

	return &UploadResult{
		Key:       key,
		Size:      int64(len(content)),
		MimeType:  contentType,
		PublicURL: p.PublicURL(key),
	}, nil
}

// PublicURL prefers Storage.PublicURL (a CDN or bucket website) and falls back to the bucket endpoint.
func (p *AWSS3Provider) PublicURL(key string) string {
	if p.opts.PublicURL != "" {
		base := p.opts.PublicURL
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			base = "https://" + base
		}
		return joinURL(base, key)
	}
	if strings.HasPrefix(p.opts.Endpoint, "http") {
		return joinURL(joinURL(p.opts.Endpoint, p.opts.Bucket), key)
	}
	return joinURL(fmt.Sprintf("https://s3.%s.amazonaws.com/%s", p.region, p.opts.Bucket), key)
}

func (p *AWSS3Provider) IsExist(ctx context.Context, key string) (bool, error) {
	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.opts.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return false, nil
	}
	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

func (p *AWSS3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("S3 delete object: %w", err)
	}
	return nil
}
