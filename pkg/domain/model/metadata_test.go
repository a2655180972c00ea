package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractedMetadata_CaptureTime(t *testing.T) {
	tests := []struct {
		name string
		meta *ExtractedMetadata
		want string
	}{
		{"nil", nil, ""},
		{"original wins", &ExtractedMetadata{DateTimeOriginal: "2024:01:01 10:00:00", DateTime: "2023:01:01 10:00:00"}, "2024-01-01T10:00:00"},
		{"datetime when original empty", &ExtractedMetadata{DateTimeOriginal: "  ", DateTime: "2023:01:01 10:00:00"}, "2023-01-01T10:00:00"},
		{"create date last", &ExtractedMetadata{CreateDate: "2022:02:02 02:02:02"}, "2022-02-02T02:02:02"},
		{"unparseable passes through", &ExtractedMetadata{DateTime: "yesterday"}, "yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.meta.CaptureTime())
		})
	}
}

func TestExtractedMetadata_HasAny(t *testing.T) {
	lat, lon := 1.0, 2.0
	assert.False(t, (*ExtractedMetadata)(nil).HasAny())
	assert.False(t, (&ExtractedMetadata{}).HasAny())
	assert.False(t, (&ExtractedMetadata{Latitude: &lat}).HasAny())
	assert.True(t, (&ExtractedMetadata{Latitude: &lat, Longitude: &lon}).HasAny())
	assert.True(t, (&ExtractedMetadata{DateTime: "x"}).HasAny())
}
