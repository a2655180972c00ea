/*
 * @Description: 컨테이너별 EXIF 태그 리더
 * @Author: memorymap
 * @Date: 2026-05-13 21:36:01
 * @LastEditTime: 2026-06-02 16:22:07
 * @LastEditors: memorymap
 */
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	heicexif "github.com/dsoprea/go-heic-exif-extractor"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure"
	pngstructure "github.com/dsoprea/go-png-image-structure"
	tiffstructure "github.com/dsoprea/go-tiff-image-structure"
	riimage "github.com/dsoprea/go-utility/image"
	"github.com/gabriel-vasile/mimetype"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

type exifParser interface {
	Parse(rs io.ReadSeeker, size int) (ec riimage.MediaContext, err error)
}

// getExifParser picks a container parser by sniffed type, then by extension.
// Unknown containers rely on the brute-force search.
func getExifParser(mime, ext string) exifParser {
	switch {
	case mime == "image/jpeg" || ext == ".jpg" || ext == ".jpeg":
		return jpegstructure.NewJpegMediaParser()
	case mime == "image/png" || ext == ".png":
		return pngstructure.NewPngMediaParser()
	case mime == "image/tiff" || ext == ".tif" || ext == ".tiff":
		return tiffstructure.NewTiffMediaParser()
	case strings.HasPrefix(mime, "image/heic"), strings.HasPrefix(mime, "image/heif"),
		mime == "image/avif", ext == ".heic", ext == ".heif", ext == ".avif":
		return heicexif.NewHeicExifMediaParser()
	default:
		return nil
	}
}

// TagReaderExtractor walks every IFD with dsoprea/go-exif and reads raw GPS components.
// It handles HEIC/HEIF containers the primary decoder cannot open.
type TagReaderExtractor struct{}

func NewTagReaderExtractor() *TagReaderExtractor {
	return &TagReaderExtractor{}
}

func (e *TagReaderExtractor) Extract(ctx context.Context, file *model.UploadFile) (*model.ExtractedMetadata, error) {
	exifData, err := e.locateExif(file)
	if err != nil {
		return nil, err
	}

	entries, _, err := exif.GetFlatExifData(exifData, nil)
	if err != nil {
		return nil, fmt.Errorf("parse exif entries: %w", err)
	}

	tags := make(map[string]exif.ExifTag, len(entries))
	for _, tag := range entries {
		if tag.TagName == "" {
			continue
		}
		// First occurrence wins; IFD0 precedes the thumbnail IFD.
		if _, seen := tags[tag.TagName]; !seen {
			tags[tag.TagName] = tag
		}
	}
	return metadataFromTags(tags), nil
}

func (e *TagReaderExtractor) locateExif(file *model.UploadFile) ([]byte, error) {
	rs := file.Reader()
	mime := mimetype.Detect(file.Data).String()

	var exifData []byte
	if parser := getExifParser(mime, file.Ext()); parser != nil {
		if res, err := parser.Parse(rs, int(file.Size())); err == nil {
			_, exifData, _ = res.Exif()
		}
	}
	if len(exifData) > 0 {
		return exifData, nil
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind for exif search: %w", err)
	}
	exifData, err := exif.SearchAndExtractExifWithReader(rs)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil, fmt.Errorf("no exif block: %w", err)
		}
		return nil, fmt.Errorf("search exif: %w", err)
	}
	return exifData, nil
}

// metadataFromTags converts flattened tags to ExtractedMetadata. Coordinates are set only as a pair.
func metadataFromTags(tags map[string]exif.ExifTag) *model.ExtractedMetadata {
	meta := &model.ExtractedMetadata{Extra: make(map[string]interface{})}

	lat, latErr := coordinate(tags, "GPSLatitude", "GPSLatitudeRef")
	lon, lonErr := coordinate(tags, "GPSLongitude", "GPSLongitudeRef")
	if latErr == nil && lonErr == nil && validLatLon(lat, lon) {
		meta.Latitude, meta.Longitude = &lat, &lon
	}

	meta.DateTimeOriginal = textTag(tags, "DateTimeOriginal")
	meta.DateTime = textTag(tags, "DateTime")
	meta.CreateDate = textTag(tags, "DateTimeDigitized")
	if meta.CreateDate == "" {
		meta.CreateDate = textTag(tags, "CreateDate")
	}

	for _, name := range []string{"Make", "Model", "Software", "Orientation"} {
		if v := textTag(tags, name); v != "" {
			meta.Extra[name] = v
		}
	}
	return meta
}

func textTag(tags map[string]exif.ExifTag, name string) string {
	tag, ok := tags[name]
	if !ok {
		return ""
	}
	if s, ok := tag.Value.(string); ok {
		return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
	}
	return strings.TrimSpace(strings.ReplaceAll(tag.FormattedFirst, "\x00", ""))
}

func coordinate(tags map[string]exif.ExifTag, valueName, refName string) (float64, error) {
	tag, ok := tags[valueName]
	if !ok {
		return 0, fmt.Errorf("%s missing", valueName)
	}
	parts, err := components(tag)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", valueName, err)
	}
	return componentsToDecimal(parts, textTag(tags, refName))
}

// components reads a DMS triple from the decoded value, falling back to its formatted text.
func components(tag exif.ExifTag) ([]float64, error) {
	switch v := tag.Value.(type) {
	case []exifcommon.Rational:
		out := make([]float64, 0, len(v))
		for _, r := range v {
			if r.Denominator == 0 {
				return nil, fmt.Errorf("zero denominator")
			}
			out = append(out, float64(r.Numerator)/float64(r.Denominator))
		}
		return out, nil
	case []exifcommon.SignedRational:
		out := make([]float64, 0, len(v))
		for _, r := range v {
			if r.Denominator == 0 {
				return nil, fmt.Errorf("zero denominator")
			}
			out = append(out, float64(r.Numerator)/float64(r.Denominator))
		}
		return out, nil
	case []float64:
		return v, nil
	case float64:
		return []float64{v}, nil
	}
	return parseDMSText(tag.Formatted)
}
