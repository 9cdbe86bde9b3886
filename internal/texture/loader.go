// Package texture decodes image files into RGBA8 texture images for meshes.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Decoding errors.
var (
	ErrEmpty       = errors.New("texture data is empty")
	ErrTruncated   = errors.New("texture data truncated")
	ErrUnsupported = errors.New("unsupported texture format")
)

// Channels is the channel count of every decoded texture.
const Channels = 4

// Options control post-processing of decoded images.
type Options struct {
	// ColorKey makes pixels close to Key fully transparent black.
	ColorKey  bool
	Key       color.RGBA
	Tolerance uint8

	// MaxSize downscales images whose larger side exceeds it. Zero disables.
	MaxSize int

	// FlipY stores rows bottom-up, as GL texture uploads expect.
	FlipY bool
}

// Loader decodes textures and caches file results by path. It is safe
// for concurrent use.
type Loader struct {
	opts Options
	log  *zap.Logger

	mu    sync.Mutex
	cache map[string]*mesh.TextureImage
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(opts Options, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		opts:  opts,
		log:   log,
		cache: make(map[string]*mesh.TextureImage),
	}
}

// LoadFromFile decodes the image at path, or returns the cached result
// of an earlier call with the same path. The returned image is shared
// and must not be modified.
func (l *Loader) LoadFromFile(path string) (*mesh.TextureImage, error) {
	key := filepath.Clean(path)

	l.mu.Lock()
	if tex, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return tex, nil
	}
	l.mu.Unlock()

	data, err := os.ReadFile(key)
	if err != nil {
		l.log.Error("failed to read texture", zap.String("path", key), zap.Error(err))
		return nil, fmt.Errorf("read texture: %w", err)
	}

	tex, err := l.decode(data, strings.ToLower(filepath.Ext(key)))
	if err != nil {
		l.log.Error("failed to load texture", zap.String("path", key), zap.Error(err))
		return nil, fmt.Errorf("load texture %s: %w", key, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache[key]; ok {
		return cached, nil
	}
	l.cache[key] = &tex
	l.log.Info("loaded texture",
		zap.String("path", key),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height),
		zap.Int("channels", tex.Channels),
	)
	return &tex, nil
}

// LoadFromMemory decodes an embedded image. Results are not cached.
func (l *Loader) LoadFromMemory(data []byte) (mesh.TextureImage, error) {
	tex, err := l.decode(data, "")
	if err != nil {
		l.log.Error("failed to decode embedded texture", zap.Int("bytes", len(data)), zap.Error(err))
		return mesh.TextureImage{}, err
	}
	return tex, nil
}

// ClearCache drops every cached file texture.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
}

// Cached returns the number of cached textures.
func (l *Loader) Cached() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

func (l *Loader) decode(data []byte, ext string) (mesh.TextureImage, error) {
	if len(data) == 0 {
		return mesh.TextureImage{}, ErrEmpty
	}

	var rgba *image.RGBA
	if ext == ".tga" {
		img, err := DecodeTGA(data)
		if err != nil {
			return mesh.TextureImage{}, err
		}
		rgba = img
	} else {
		img, format, err := image.Decode(bytes.NewReader(data))
		switch {
		case errors.Is(err, image.ErrFormat):
			// TGA has no magic number; try it last.
			tga, tgaErr := DecodeTGA(data)
			if tgaErr != nil {
				return mesh.TextureImage{}, fmt.Errorf("%w: unknown image format", ErrUnsupported)
			}
			rgba = tga
			format = "tga"
		case err != nil:
			return mesh.TextureImage{}, fmt.Errorf("decode image: %w", err)
		default:
			rgba = ToRGBA(img)
		}
		l.log.Debug("decoded image", zap.String("format", format), zap.Stringer("bounds", rgba.Bounds()))
	}

	if l.opts.MaxSize > 0 {
		rgba = fit(rgba, l.opts.MaxSize)
	}
	if l.opts.ColorKey {
		ApplyColorKey(rgba, l.opts.Key, l.opts.Tolerance)
	}
	if l.opts.FlipY {
		flipRows(rgba)
	}
	return toTextureImage(rgba), nil
}

// ToRGBA converts img to an RGBA image with origin (0,0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// fit scales img down so neither side exceeds maxSize, keeping its aspect.
func fit(img *image.RGBA, maxSize int) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}
	nw, nh := maxSize, maxSize
	if w > h {
		nh = max(1, h*maxSize/w)
	} else {
		nw = max(1, w*maxSize/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// ApplyColorKey makes every pixel within tol of key on each RGB channel
// transparent black, in place.
func ApplyColorKey(img *image.RGBA, key color.RGBA, tol uint8) {
	near := func(a, b uint8) bool {
		if a > b {
			return a-b <= tol
		}
		return b-a <= tol
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		p := img.Pix[i : i+4 : i+4]
		if near(p[0], key.R) && near(p[1], key.G) && near(p[2], key.B) {
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		}
	}
}

func flipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func toTextureImage(img *image.RGBA) mesh.TextureImage {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pixels := make([]uint8, w*h*Channels)
	for y := 0; y < h; y++ {
		copy(pixels[y*w*Channels:(y+1)*w*Channels], img.Pix[y*img.Stride:y*img.Stride+w*Channels])
	}
	return mesh.TextureImage{Pixels: pixels, Width: w, Height: h, Channels: Channels}
}
