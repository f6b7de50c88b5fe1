package graphics

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"touchdown/internal/mathutil"

	_ "golang.org/x/image/bmp"
)

// Texture is an immutable grid of opaque colour samples.
type Texture struct {
	Width, Height int
	Pix           []color.RGBA
}

// NewTexture returns a black texture of the given size.
func NewTexture(width, height int) *Texture {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Texture{Width: width, Height: height, Pix: make([]color.RGBA, width*height)}
}

// SolidTexture returns a 1x1 texture of c.
func SolidTexture(c color.RGBA) *Texture {
	t := NewTexture(1, 1)
	t.Pix[0] = c
	return t
}

// TextureFromImage copies img into a texture, dropping alpha.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	t := NewTexture(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			t.Pix[y*t.Width+x] = color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), 255}
		}
	}
	return t
}

// Checkerboard is the texture used when an image cannot be loaded: magenta
// with yellow 8 px squares.
func Checkerboard() *Texture {
	const size = 64
	t := NewTexture(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{255, 0, 255, 255}
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{255, 255, 0, 255}
			}
			t.Pix[y*size+x] = c
		}
	}
	return t
}

// LoadTexture decodes a PNG, JPEG or BMP file.
func LoadTexture(path string) (*Texture, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return TextureFromImage(img), nil
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// At returns the sample at integer coordinates, clamped to the edges.
func (t *Texture) At(x, y int) color.RGBA {
	x = mathutil.IntClamp(x, 0, t.Width-1)
	y = mathutil.IntClamp(y, 0, t.Height-1)
	return t.Pix[y*t.Width+x]
}

// Sample returns the nearest sample for normalised coordinates. u and v are
// clamped to [0,1]; there is no wraparound.
func (t *Texture) Sample(u, v float64) color.RGBA {
	x := int(mathutil.Clamp01(u) * float64(t.Width-1))
	y := int(mathutil.Clamp01(v) * float64(t.Height-1))
	return t.At(x, y)
}

// Shade scales the colour channels of c by f, keeping alpha.
func Shade(c color.RGBA, f float64) color.RGBA {
	if f >= 1 {
		return c
	}
	if !(f > 0) {
		return color.RGBA{0, 0, 0, c.A}
	}
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

// RGB converts a configured [3]int colour, clamping each channel.
func RGB(c [3]int) color.RGBA {
	return color.RGBA{
		R: uint8(mathutil.IntClamp(c[0], 0, 255)),
		G: uint8(mathutil.IntClamp(c[1], 0, 255)),
		B: uint8(mathutil.IntClamp(c[2], 0, 255)),
		A: 255,
	}
}
