/*
 * @Description: 메타데이터 추출 체인
 * @Author: memorymap
 * @Date: 2026-04-04 20:15:53
 * @LastEditTime: 2026-04-08 01:34:07
 * @LastEditors: memorymap
 */

// Package metadata reads capture time and GPS position from image files.
package metadata

import (
	"context"
	"log"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// Extractor returns best-effort metadata. A nil result with a nil error means nothing usable was found.
type Extractor interface {
	Extract(ctx context.Context, file *model.UploadFile) (*model.ExtractedMetadata, error)
}

// ChainExtractor tries Primary, then Fallback. A primary result that already has
// coordinates short-circuits the chain.
type ChainExtractor struct {
	Primary  Extractor
	Fallback Extractor
}

// NewExtractor returns the goexif reader backed by the go-exif tag walker.
func NewExtractor() Extractor {
	return &ChainExtractor{
		Primary:  NewGoexifExtractor(),
		Fallback: NewTagReaderExtractor(),
	}
}

// Extract never returns an error. Failures of both strategies yield nil.
func (c *ChainExtractor) Extract(ctx context.Context, file *model.UploadFile) (*model.ExtractedMetadata, error) {
	primary, err := c.Primary.Extract(ctx, file)
	if err != nil {
		log.Printf("[Extractor] primary strategy failed for '%s': %v", file.Name, err)
		primary = nil
	}
	if primary.HasCoordinates() {
		return primary, nil
	}

	fallback, err := c.Fallback.Extract(ctx, file)
	if err != nil {
		log.Printf("[Extractor] fallback strategy failed for '%s': %v", file.Name, err)
		fallback = nil
	}

	switch {
	case fallback != nil:
		if fallback.RawCaptureTime() == "" && primary != nil {
			fallback.DateTimeOriginal = primary.DateTimeOriginal
			fallback.DateTime = primary.DateTime
			fallback.CreateDate = primary.CreateDate
		}
		return fallback, nil
	case primary != nil:
		return primary, nil
	default:
		log.Printf("[Extractor] no metadata in '%s'", file.Name)
		return nil, nil
	}
}
