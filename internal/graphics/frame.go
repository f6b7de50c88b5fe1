package graphics

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// FrameSize is the edge length of every sprite animation frame.
const FrameSize = 32

// Frame is one sprite animation image, row-major with alpha.
type Frame [FrameSize * FrameSize]color.RGBA

// At returns the pixel at (x, y), both clamped to [0, FrameSize-1].
func (f *Frame) At(x, y int) color.RGBA {
	if x < 0 {
		x = 0
	} else if x >= FrameSize {
		x = FrameSize - 1
	}
	if y < 0 {
		y = 0
	} else if y >= FrameSize {
		y = FrameSize - 1
	}
	return f[y*FrameSize+x]
}

// Set writes the pixel at (x, y); out of range writes are dropped.
func (f *Frame) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= FrameSize || y >= FrameSize {
		return
	}
	f[y*FrameSize+x] = c
}

// FrameFromImage scales img to FrameSize x FrameSize with nearest-neighbour
// sampling.
func FrameFromImage(img image.Image) *Frame {
	dst := image.NewNRGBA(image.Rect(0, 0, FrameSize, FrameSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var f Frame
	for y := 0; y < FrameSize; y++ {
		for x := 0; x < FrameSize; x++ {
			c := dst.NRGBAAt(x, y)
			f[y*FrameSize+x] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
		}
	}
	return &f
}

// LoadFrame decodes an image file into a frame.
func LoadFrame(path string) (*Frame, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return FrameFromImage(img), nil
}
