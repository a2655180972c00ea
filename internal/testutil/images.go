// Package testutil builds small image fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
)

// GPSFix is a coordinate written into the GPS IFD.
type GPSFix struct {
	Lat, Lon float64
}

// PlainJPEG encodes a w x h solid image.
func PlainJPEG(w, h int) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h, color.RGBA{R: 200, G: 80, B: 40, A: 255}), &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// TransparentPNG encodes a fully transparent w x h image.
func TransparentPNG(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JPEGWithExif returns PlainJPEG(w, h) carrying an APP1 EXIF segment with
// DateTime (when dateTime != "") and GPS tags (when fix != nil).
func JPEGWithExif(w, h int, dateTime string, fix *GPSFix) []byte {
	base := PlainJPEG(w, h)
	payload := append([]byte("Exif\x00\x00"), ExifTIFF(dateTime, fix)...)

	var out bytes.Buffer
	out.Write(base[:2]) // SOI
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(base[2:])
	return out.Bytes()
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

const (
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5
)

// ExifTIFF builds a big-endian TIFF block with IFD0 and an optional GPS IFD.
func ExifTIFF(dateTime string, fix *GPSFix) []byte {
	bo := binary.BigEndian

	var ifd0 []ifdEntry
	if dateTime != "" {
		ifd0 = append(ifd0, asciiEntry(0x0132, dateTime))
	}
	if fix != nil {
		ifd0 = append(ifd0, ifdEntry{tag: 0x8825, typ: typeLong, count: 1, data: make([]byte, 4)})
	}

	const ifd0Start = 8
	ifd0Bytes := encodeIFD(bo, ifd0Start, ifd0)

	var gpsBytes []byte
	if fix != nil {
		gpsStart := uint32(ifd0Start + len(ifd0Bytes))
		bo.PutUint32(ifd0[len(ifd0)-1].data, gpsStart)
		ifd0Bytes = encodeIFD(bo, ifd0Start, ifd0)

		latRef, lonRef := "N", "E"
		if fix.Lat < 0 {
			latRef = "S"
		}
		if fix.Lon < 0 {
			lonRef = "W"
		}
		gps := []ifdEntry{
			asciiEntry(0x0001, latRef),
			rationalEntry(bo, 0x0002, math.Abs(fix.Lat)),
			asciiEntry(0x0003, lonRef),
			rationalEntry(bo, 0x0004, math.Abs(fix.Lon)),
		}
		gpsBytes = encodeIFD(bo, gpsStart, gps)
	}

	var out bytes.Buffer
	out.WriteString("MM")
	binary.Write(&out, bo, uint16(42))
	binary.Write(&out, bo, uint32(ifd0Start))
	out.Write(ifd0Bytes)
	out.Write(gpsBytes)
	return out.Bytes()
}

func asciiEntry(tag uint16, s string) ifdEntry {
	data := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(data)), data: data}
}

// rationalEntry writes v as degrees, minutes and hundredths of seconds.
func rationalEntry(bo binary.ByteOrder, tag uint16, v float64) ifdEntry {
	deg := math.Floor(v)
	rem := (v - deg) * 60
	min := math.Floor(rem)
	sec := math.Round((rem - min) * 60 * 100)

	data := make([]byte, 24)
	for i, p := range [][2]uint32{{uint32(deg), 1}, {uint32(min), 1}, {uint32(sec), 100}} {
		bo.PutUint32(data[i*8:], p[0])
		bo.PutUint32(data[i*8+4:], p[1])
	}
	return ifdEntry{tag: tag, typ: typeRational, count: 3, data: data}
}

func encodeIFD(bo binary.ByteOrder, start uint32, entries []ifdEntry) []byte {
	valueOff := start + uint32(2+12*len(entries)+4)
	var head, tail bytes.Buffer
	binary.Write(&head, bo, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(&head, bo, e.tag)
		binary.Write(&head, bo, e.typ)
		binary.Write(&head, bo, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			head.Write(inline)
			continue
		}
		binary.Write(&head, bo, valueOff+uint32(tail.Len()))
		tail.Write(e.data)
		if tail.Len()%2 == 1 {
			tail.WriteByte(0)
		}
	}
	binary.Write(&head, bo, uint32(0))
	return append(head.Bytes(), tail.Bytes()...)
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
