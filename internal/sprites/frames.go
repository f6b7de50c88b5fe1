package sprites

import (
	"fmt"
	"image/color"
	"touchdown/internal/graphics"
)

type ballPalette struct {
	body, rim, laces color.RGBA
}

var (
	ballNormal = ballPalette{
		body:  color.RGBA{100, 50, 15, 255},
		rim:   color.RGBA{70, 35, 10, 255},
		laces: color.RGBA{200, 200, 200, 255},
	}
	ballBright = ballPalette{
		body:  color.RGBA{220, 140, 80, 255},
		rim:   color.RGBA{180, 110, 60, 255},
		laces: color.RGBA{255, 255, 255, 255},
	}
	ballDark = ballPalette{
		body:  color.RGBA{60, 30, 8, 255},
		rim:   color.RGBA{40, 20, 5, 255},
		laces: color.RGBA{120, 120, 120, 255},
	}
)

// drawBall paints an elliptical ball with three seams and two side laces on
// a transparent frame.
func drawBall(p ballPalette) *graphics.Frame {
	var f graphics.Frame
	const cx, cy = 16.0, 16.0
	for y := 0; y < graphics.FrameSize; y++ {
		for x := 0; x < graphics.FrameSize; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			e := dx*dx/(15*15) + dy*dy/(10*10)
			switch {
			case e <= 1:
				f.Set(x, y, p.body)
			case e <= 1.2:
				f.Set(x, y, p.rim)
			}
		}
	}
	for x := 6; x < 26; x++ {
		f.Set(x, 10, p.laces)
		f.Set(x, 16, p.laces)
		f.Set(x, 22, p.laces)
	}
	for y := 12; y < 21; y++ {
		f.Set(8, y, p.laces)
		f.Set(24, y, p.laces)
	}
	return &f
}

// FootballFrames returns the blinking ball animation: normal, bright,
// normal, dark, normal, bright.
func FootballFrames() []*graphics.Frame {
	normal := drawBall(ballNormal)
	bright := drawBall(ballBright)
	dark := drawBall(ballDark)
	return []*graphics.Frame{normal, bright, normal, dark, normal, bright}
}

// LoadFrames loads animation frames from image files. With no paths it
// returns FootballFrames.
func LoadFrames(paths []string) ([]*graphics.Frame, error) {
	if len(paths) == 0 {
		return FootballFrames(), nil
	}
	frames := make([]*graphics.Frame, 0, len(paths))
	for _, path := range paths {
		f, err := graphics.LoadFrame(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load sprite frame: %w", err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}
