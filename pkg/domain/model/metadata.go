/*
 * @Description: EXIF 메타데이터 모델
 * @Author: memorymap
 * @Date: 2026-05-26 12:49:33
 * @LastEditTime: 2026-09-04 09:08:41
 * @LastEditors: memorymap
 */
package model

import (
	"strings"
	"time"
)

// ExifDateLayout is the timestamp format written by cameras.
const ExifDateLayout = "2006:01:02 15:04:05"

// CaptureDateLayout is the normalized form stored in date_time.
const CaptureDateLayout = "2006-01-02T15:04:05"

// ExtractedMetadata is the best-effort result of reading embedded image tags.
// Every field is optional.
type ExtractedMetadata struct {
	Latitude         *float64               `json:"latitude,omitempty"`
	Longitude        *float64               `json:"longitude,omitempty"`
	DateTimeOriginal string                 `json:"date_time_original,omitempty"`
	DateTime         string                 `json:"date_time,omitempty"`
	CreateDate       string                 `json:"create_date,omitempty"`
	Extra            map[string]interface{} `json:"extra,omitempty"`
}

// HasCoordinates reports whether both coordinates were found.
func (m *ExtractedMetadata) HasCoordinates() bool {
	return m != nil && m.Latitude != nil && m.Longitude != nil
}

// RawCaptureTime returns the first non-empty of DateTimeOriginal, DateTime, CreateDate.
func (m *ExtractedMetadata) RawCaptureTime() string {
	if m == nil {
		return ""
	}
	for _, v := range []string{m.DateTimeOriginal, m.DateTime, m.CreateDate} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// CaptureTime returns RawCaptureTime normalized to CaptureDateLayout.
// Values that do not parse as an EXIF timestamp are returned unchanged.
func (m *ExtractedMetadata) CaptureTime() string {
	raw := m.RawCaptureTime()
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(ExifDateLayout, raw); err == nil {
		return t.Format(CaptureDateLayout)
	}
	return raw
}

// HasAny reports whether a timestamp or coordinates were found.
func (m *ExtractedMetadata) HasAny() bool {
	return m.HasCoordinates() || m.RawCaptureTime() != ""
}
