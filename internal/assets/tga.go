package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: data truncated")

type tgaHeader struct {
	idLength  int
	colorMap  byte
	kind      byte
	width     int
	height    int
	bpp       int
	topToDown bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, errTGATruncated
	}
	h := tgaHeader{
		idLength:  int(data[0]),
		colorMap:  data[1],
		kind:      data[2],
		width:     int(data[12]) | int(data[13])<<8,
		height:    int(data[14]) | int(data[15])<<8,
		bpp:       int(data[16]),
		topToDown: data[17]&0x20 != 0,
	}
	if h.colorMap != 0 {
		return h, errors.New("tga: color-mapped images not supported")
	}
	if h.kind != tgaTrueColor && h.kind != tgaTrueColorRLE {
		return h, fmt.Errorf("tga: unsupported image type %d", h.kind)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return h, fmt.Errorf("tga: unsupported bit depth %d", h.bpp)
	}
	return h, nil
}

// DecodeTGA decodes uncompressed or RLE true-colour TGA data. TGA has no
// magic number, so it is not registered with image.Decode.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	src := data[offset:]
	stride := h.bpp / 8

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	total := h.width * h.height
	set := func(idx int, c color.RGBA) {
		x, y := idx%h.width, idx/h.width
		if !h.topToDown {
			y = h.height - 1 - y
		}
		img.SetRGBA(x, y, c)
	}
	// Pixels are stored BGR(A).
	read := func(i int) color.RGBA {
		c := color.RGBA{R: src[i+2], G: src[i+1], B: src[i], A: 255}
		if stride == 4 {
			c.A = src[i+3]
		}
		return c
	}

	if h.kind == tgaTrueColor {
		if len(src) < total*stride {
			return nil, errTGATruncated
		}
		for idx := 0; idx < total; idx++ {
			set(idx, read(idx*stride))
		}
		return img, nil
	}

	idx, pos := 0, 0
	for idx < total {
		if pos >= len(src) {
			return nil, errTGATruncated
		}
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run: one pixel repeated count times
			if pos+stride > len(src) {
				return nil, errTGATruncated
			}
			c := read(pos)
			pos += stride
			for ; count > 0 && idx < total; count-- {
				set(idx, c)
				idx++
			}
			continue
		}

		for ; count > 0 && idx < total; count-- {
			if pos+stride > len(src) {
				return nil, errTGATruncated
			}
			set(idx, read(pos))
			pos += stride
			idx++
		}
	}
	return img, nil
}
