/*
 * @Description: 로컬 파일시스템 스토리지 드라이버
 * @Author: memorymap
 * @Date: 2026-03-26 23:33:30
 * @LastEditTime: 2026-04-11 19:30:03
 * @LastEditors: memorymap
 */
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalProvider writes objects under Storage.LocalPath. The router serves that directory at Storage.PublicURL.
type LocalProvider struct {
	root      string
	publicURL string
}

func NewLocalProvider(opts Options) (IStorageProvider, error) {
	root := opts.LocalPath
	if root == "" {
		root = "data/storage"
	}
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create local storage dir '%s': %w", root, err)
	}
	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = "/storage"
	}
	return &LocalProvider{root: root, publicURL: publicURL}, nil
}

// Root is the directory objects are written to.
func (p *LocalProvider) Root() string {
	return p.root
}

// PublicPrefix is the URL prefix objects are served under.
func (p *LocalProvider) PublicPrefix() string {
	return p.publicURL
}

// physicalPath roots key under p.root. Cleaning against "/" drops any leading "..".
func (p *LocalProvider) physicalPath(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty object key")
	}
	clean := path.Clean("/" + key)
	return filepath.Join(p.root, filepath.FromSlash(clean)), nil
}

func (p *LocalProvider) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (*UploadResult, error) {
	finalPath, err := p.physicalPath(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create storage subdir: %w", err)
	}

	f, err := os.OpenFile(finalPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectExists)
		}
		return nil, fmt.Errorf("create '%s': %w", finalPath, err)
	}

	written, err := io.Copy(f, data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(finalPath)
		return nil, fmt.Errorf("write '%s': %w", finalPath, err)
	}

	return &UploadResult{
		Key:       key,
		Size:      written,
		MimeType:  contentType,
		PublicURL: p.PublicURL(key),
	}, nil
}

func (p *LocalProvider) PublicURL(key string) string {
	return joinURL(p.publicURL, key)
}

func (p *LocalProvider) IsExist(ctx context.Context, key string) (bool, error) {
	physical, err := p.physicalPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(physical)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	physical, err := p.physicalPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(physical); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove '%s': %w", physical, err)
	}
	return nil
}
