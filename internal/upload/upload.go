// Package upload backs the image-upload widget. It identifies an uploaded
// image and renders a small preview; it does not analyse the picture.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxBytes is the largest upload accepted.
const MaxBytes = 10 << 20

// Message is shown once an image has been accepted.
const Message = "Image uploaded! Further analysis can be integrated."

var (
	ErrTooLarge    = fmt.Errorf("image exceeds %d MiB", MaxBytes>>20)
	ErrNotAnImage  = errors.New("not a supported image (png, jpeg, gif, bmp, tiff, webp)")
	ErrEmptyUpload = errors.New("empty upload")
)

// Info describes an accepted image.
type Info struct {
	Name   string `json:"name,omitempty"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int64  `json:"bytes"`
}

// Image is an accepted upload held in memory.
type Image struct {
	Info
	data []byte
}

// Read consumes at most MaxBytes from r and checks that it holds a
// decodable image header.
func Read(r io.Reader, name string) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	return &Image{
		Info: Info{
			Name:   name,
			Format: format,
			Width:  cfg.Width,
			Height: cfg.Height,
			Bytes:  int64(len(data)),
		},
		data: data,
	}, nil
}

// Inspect is Read without keeping the image bytes.
func Inspect(r io.Reader, name string) (Info, error) {
	img, err := Read(r, name)
	if err != nil {
		return Info{}, err
	}
	return img.Info, nil
}

// Open reads and inspects the image file at path.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if st.Size() > MaxBytes {
		return nil, ErrTooLarge
	}
	return Read(f, st.Name())
}

// Preview decodes the image and returns a PNG scaled to fit within
// maxSide pixels on its longest side. Smaller images keep their size.
func (img *Image) Preview(maxSide int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(img.data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), maxSide)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

func fitWithin(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}

// Summary is a one-line human description, e.g. "photo.png · PNG 640×480 · 12.3 KiB".
func (i Info) Summary() string {
	size := fmt.Sprintf("%d B", i.Bytes)
	switch {
	case i.Bytes >= 1<<20:
		size = fmt.Sprintf("%.1f MiB", float64(i.Bytes)/(1<<20))
	case i.Bytes >= 1<<10:
		size = fmt.Sprintf("%.1f KiB", float64(i.Bytes)/(1<<10))
	}
	name := i.Name
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("%s · %s %d×%d · %s", name, strings.ToUpper(i.Format), i.Width, i.Height, size)
}
