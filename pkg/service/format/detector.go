/*
 * @Description: HEIC/HEIF 형식 판별
 * @Author: memorymap
 * @Date: 2026-03-24 02:21:15
 * @LastEditTime: 2026-05-17 22:21:31
 * @LastEditors: memorymap
 */

// Package format normalizes uploads in containers browsers cannot display (HEIC/HEIF) to JPEG.
package format

import (
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

var nonStandardMIMEs = map[string]bool{
	"image/heic":          true,
	"image/heic-sequence": true,
	"image/heif":          true,
	"image/heif-sequence": true,
}

var nonStandardExts = map[string]bool{
	".heic": true,
	".heif": true,
}

// Detector decides whether a file needs transcoding.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// IsNonStandardContainer sniffs the content. When sniffing fails or is inconclusive
// it falls back to the file name extension.
func (d *Detector) IsNonStandardContainer(file *model.UploadFile) bool {
	mtype, err := mimetype.DetectReader(file.Reader())
	if err != nil {
		log.Printf("[Detector] sniff failed for '%s': %v, using extension", file.Name, err)
		return nonStandardExts[file.Ext()]
	}
	if mtype.Is("application/octet-stream") {
		return nonStandardExts[file.Ext()]
	}
	return nonStandardMIMEs[strings.ToLower(mtype.String())]
}

// ContentType returns the sniffed type when the content is an image. Otherwise the
// client-declared type wins, if there is one.
func (d *Detector) ContentType(file *model.UploadFile) string {
	sniffed := mimetype.Detect(file.Data).String()
	if strings.HasPrefix(sniffed, "image/") || file.ContentType == "" {
		return sniffed
	}
	return file.ContentType
}
