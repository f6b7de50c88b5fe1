package terminal

import (
	"image/color"

	"touchdown/internal/render"

	"github.com/gdamore/tcell/v2"
)

// halfBlock shows the top pixel as foreground and the bottom as background.
const halfBlock = '▀'

var statusStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(255, 215, 0))

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellFor returns the terminal cell covering framebuffer rows 2*row and
// 2*row+1 of column col.
func cellFor(fb *render.Framebuffer, col, row int) (rune, tcell.Style) {
	top := fb.At(col, 2*row)
	bottom := fb.At(col, 2*row+1)
	return halfBlock, tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
}

// FramebufferSize is the pixel size that fills a cols x rows terminal,
// leaving statusRows text rows at the top.
func FramebufferSize(cols, rows, statusRows int) (width, height int) {
	rows -= statusRows
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return cols, rows * 2
}

// blit copies fb to the screen below the first offsetRows rows.
func blit(screen tcell.Screen, fb *render.Framebuffer, offsetRows int) {
	w, h := fb.Size()
	for row := 0; row < h/2; row++ {
		for col := 0; col < w; col++ {
			r, style := cellFor(fb, col, row)
			screen.SetContent(col, row+offsetRows, r, nil, style)
		}
	}
}

// drawStatus writes lines into the top rows, padded to the screen width.
func drawStatus(screen tcell.Screen, lines []string, rows int) {
	width, _ := screen.Size()
	for row := 0; row < rows; row++ {
		text := ""
		if row < len(lines) {
			text = lines[row]
		}
		col := 0
		for _, r := range text {
			if col >= width {
				break
			}
			screen.SetContent(col, row, r, nil, statusStyle)
			col++
		}
		for ; col < width; col++ {
			screen.SetContent(col, row, ' ', nil, statusStyle)
		}
	}
}
