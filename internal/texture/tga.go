package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// DecodeTGA decodes a true-color TGA image, uncompressed (type 2) or RLE
// (type 10), at 24 or 32 bits per pixel. Images stored bottom-up are
// flipped so row 0 is the top.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: tga header is %d bytes", ErrTruncated, len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped tga", ErrUnsupported)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: tga type %d", ErrUnsupported, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: tga depth %d", ErrUnsupported, bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: tga is %dx%d", ErrUnsupported, width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: tga id field", ErrTruncated)
	}

	r := &tgaReader{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bpp:         bpp / 8,
		topToBottom: topToBottom,
	}
	var err error
	if imageType == TGATypeUncompressed {
		err = r.readRaw()
	} else {
		err = r.readRLE()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	img         *image.RGBA
	src         []byte
	pos         int
	bpp         int
	topToBottom bool
	pixel       int
}

func (r *tgaReader) total() int {
	b := r.img.Bounds()
	return b.Dx() * b.Dy()
}

// next reads one BGR(A) pixel.
func (r *tgaReader) next() (color.RGBA, error) {
	if r.pos+r.bpp > len(r.src) {
		return color.RGBA{}, fmt.Errorf("%w: tga pixel %d of %d", ErrTruncated, r.pixel, r.total())
	}
	p := r.src[r.pos : r.pos+r.bpp]
	r.pos += r.bpp
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	return c, nil
}

func (r *tgaReader) put(c color.RGBA) {
	w := r.img.Bounds().Dx()
	h := r.img.Bounds().Dy()
	x := r.pixel % w
	y := r.pixel / w
	if !r.topToBottom {
		y = h - 1 - y
	}
	r.img.SetRGBA(x, y, c)
	r.pixel++
}

func (r *tgaReader) readRaw() error {
	for r.pixel < r.total() {
		c, err := r.next()
		if err != nil {
			return err
		}
		r.put(c)
	}
	return nil
}

func (r *tgaReader) readRLE() error {
	total := r.total()
	for r.pixel < total {
		if r.pos >= len(r.src) {
			return fmt.Errorf("%w: tga packet at pixel %d of %d", ErrTruncated, r.pixel, total)
		}
		packet := r.src[r.pos]
		r.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, err := r.next()
			if err != nil {
				return err
			}
			for i := 0; i < count && r.pixel < total; i++ {
				r.put(c)
			}
			continue
		}

		for i := 0; i < count && r.pixel < total; i++ {
			c, err := r.next()
			if err != nil {
				return err
			}
			r.put(c)
		}
	}
	return nil
}
