package format

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// Validate accepts a non-empty image/* file whose decoded dimensions are positive.
func Validate(file *model.UploadFile) bool {
	if file == nil || file.Size() <= 0 {
		return false
	}
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		return false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return false
	}
	return cfg.Width > 0 && cfg.Height > 0
}
