package format

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorymap/memorymap-app/internal/testutil"
	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// heicHeader is the start of an ftyp box with the heic brand.
var heicHeader = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'h', 'e', 'i', 'c', 0x00, 0x00, 0x00, 0x00, 'm', 'i', 'f', '1', 'h', 'e', 'i', 'c'}

type stubTranscoder struct {
	name  string
	out   *model.UploadFile
	err   error
	calls int
}

func (s *stubTranscoder) Name() string { return s.name }

func (s *stubTranscoder) Transcode(ctx context.Context, file *model.UploadFile) (*model.UploadFile, error) {
	s.calls++
	return s.out, s.err
}

func jpegFile() *model.UploadFile {
	return &model.UploadFile{Name: "photo.jpg", ContentType: "image/jpeg", Data: testutil.PlainJPEG(4, 3)}
}

func TestDetector(t *testing.T) {
	d := NewDetector()

	assert.True(t, d.IsNonStandardContainer(&model.UploadFile{Name: "IMG_0001.HEIC", Data: heicHeader}))
	assert.True(t, d.IsNonStandardContainer(&model.UploadFile{Name: "renamed.jpg", Data: heicHeader}), "content wins over extension")
	assert.False(t, d.IsNonStandardContainer(jpegFile()))
	assert.False(t, d.IsNonStandardContainer(&model.UploadFile{Name: "photo.heic", Data: testutil.PlainJPEG(2, 2)}), "a JPEG named .heic is displayable")
	assert.True(t, d.IsNonStandardContainer(&model.UploadFile{Name: "x.heif", Data: []byte{0x01, 0x02, 0x03}}), "inconclusive sniff uses the extension")
}

func TestDetector_ContentType(t *testing.T) {
	d := NewDetector()

	assert.Equal(t, "image/jpeg", d.ContentType(&model.UploadFile{Name: "a.jpg", ContentType: "application/octet-stream", Data: testutil.PlainJPEG(2, 2)}))
	assert.Equal(t, "image/jpeg", d.ContentType(&model.UploadFile{Name: "a.jpg", Data: testutil.PlainJPEG(2, 2)}))
	assert.Equal(t, "image/png", d.ContentType(&model.UploadFile{Name: "a.png", ContentType: "image/jpeg", Data: testutil.TransparentPNG(2, 2)}), "content wins over the declared type")
	assert.Equal(t, "image/x-custom", d.ContentType(&model.UploadFile{Name: "a.bin", ContentType: "image/x-custom", Data: []byte{0x01, 0x02}}))
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(jpegFile()))
	assert.False(t, Validate(nil))
	assert.False(t, Validate(&model.UploadFile{Name: "a.jpg", ContentType: "image/jpeg"}))
	assert.False(t, Validate(&model.UploadFile{Name: "a.jpg", ContentType: "application/pdf", Data: testutil.PlainJPEG(2, 2)}))
	assert.False(t, Validate(&model.UploadFile{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("garbage")}))
}

func TestNormalizer_PassThrough(t *testing.T) {
	primary := &stubTranscoder{name: "p"}
	n := NewNormalizer(NewDetector(), primary, nil)

	in := jpegFile()
	out, converted, err := n.Normalize(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, converted)
	assert.Same(t, in, out)
	assert.Equal(t, 0, primary.calls)
}

func TestNormalizer_PrimarySucceeds(t *testing.T) {
	primary := &stubTranscoder{name: "p", out: &model.UploadFile{Name: "a.jpg", ContentType: "image/jpeg", Data: testutil.PlainJPEG(4, 4)}}
	fallback := &stubTranscoder{name: "f"}
	n := NewNormalizer(NewDetector(), primary, fallback)

	out, converted, err := n.Normalize(context.Background(), &model.UploadFile{Name: "a.heic", Data: heicHeader})
	require.NoError(t, err)
	assert.True(t, converted)
	assert.Equal(t, "a.jpg", out.Name)
	assert.Equal(t, 0, fallback.calls)
}

func TestNormalizer_InvalidPrimaryUsesFallback(t *testing.T) {
	primary := &stubTranscoder{name: "p", out: &model.UploadFile{Name: "a.jpg", ContentType: "image/jpeg"}}
	fallback := &stubTranscoder{name: "f", out: &model.UploadFile{Name: "a.jpg", ContentType: "image/jpeg", Data: testutil.PlainJPEG(2, 2)}}
	n := NewNormalizer(NewDetector(), primary, fallback)

	out, converted, err := n.Normalize(context.Background(), &model.UploadFile{Name: "a.heic", Data: heicHeader})
	require.NoError(t, err)
	assert.True(t, converted)
	assert.True(t, Validate(out))
	assert.Equal(t, 1, fallback.calls)
}

func TestNormalizer_BothFail(t *testing.T) {
	primary := &stubTranscoder{name: "p", err: errors.New("no vips")}
	fallback := &stubTranscoder{name: "f", err: errors.New("no decoder")}
	n := NewNormalizer(NewDetector(), primary, fallback)

	out, converted, err := n.Normalize(context.Background(), &model.UploadFile{Name: "a.heic", Data: heicHeader})
	assert.ErrorIs(t, err, constant.ErrTranscodeFailed)
	assert.Nil(t, out)
	assert.False(t, converted)
}

func TestFlatten_TransparentBecomesWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 7))

	data, err := Flatten(src, 92)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 7, img.Bounds().Dy())

	r, g, b, _ := img.At(4, 6).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestCanvasTranscoder_GoDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 2))))

	tr := NewCanvasTranscoder(92, GoImageDecoder{})
	out, err := tr.Transcode(context.Background(), &model.UploadFile{Name: "shot.heif", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, "shot.jpg", out.Name)
	assert.Equal(t, "image/jpeg", out.ContentType)
	assert.True(t, Validate(out))
}

func TestCanvasTranscoder_NoDecoderSucceeds(t *testing.T) {
	tr := NewCanvasTranscoder(92, GoImageDecoder{}, &FFmpegDecoder{})
	_, err := tr.Transcode(context.Background(), &model.UploadFile{Name: "a.heic", Data: heicHeader})
	assert.Error(t, err)
}

func TestJpegName(t *testing.T) {
	assert.Equal(t, "IMG_1.jpg", jpegName("IMG_1.HEIC"))
	assert.Equal(t, "a.b.jpg", jpegName("a.b.heif"))
	assert.Equal(t, "noext.jpg", jpegName("noext"))
	assert.Equal(t, "image.jpg", jpegName(".heic"))
}
