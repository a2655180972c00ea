/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-04-25 05:27:49
 * @LastEditTime: 2026-06-15 03:39:58
 * @LastEditors: memorymap
 */
package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// GoexifExtractor decodes EXIF with rwcarlsen/goexif. It covers JPEG and TIFF containers.
type GoexifExtractor struct{}

func NewGoexifExtractor() *GoexifExtractor {
	return &GoexifExtractor{}
}

func (e *GoexifExtractor) Extract(ctx context.Context, file *model.UploadFile) (*model.ExtractedMetadata, error) {
	x, err := exif.Decode(file.Reader())
	if err != nil {
		return nil, fmt.Errorf("goexif decode: %w", err)
	}

	meta := &model.ExtractedMetadata{Extra: make(map[string]interface{})}

	if lat, lon, err := x.LatLong(); err == nil && validLatLon(lat, lon) {
		meta.Latitude, meta.Longitude = &lat, &lon
	}

	meta.DateTimeOriginal = stringTag(x, exif.DateTimeOriginal)
	meta.DateTime = stringTag(x, exif.DateTime)
	meta.CreateDate = stringTag(x, exif.DateTimeDigitized)

	for name, field := range map[string]exif.FieldName{
		"Make":     exif.Make,
		"Model":    exif.Model,
		"Software": exif.Software,
	} {
		if v := stringTag(x, field); v != "" {
			meta.Extra[name] = v
		}
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil {
			meta.Extra["Orientation"] = o
		}
	}

	return meta, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	v, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(v, "\x00"))
}

func validLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
