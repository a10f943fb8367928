package render

import (
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/maze"
	"github.com/vovakirdan/maze-escape/internal/session"
)

// DefaultCellPx is the cell size of rendered images.
const DefaultCellPx = 24

// Image draws the snapshot as a raster board with cellPx pixels per cell.
func Image(snap session.Snapshot, cellPx int) image.Image {
	if cellPx <= 0 {
		cellPx = DefaultCellPx
	}
	g := snap.Def.Grid
	dc := gg.NewContext(g.Width()*cellPx, g.Height()*cellPx)
	dc.SetRGB(0.08, 0.08, 0.1)
	dc.Clear()

	c := float64(cellPx)
	for y, row := range g {
		for x, kind := range row {
			px, py := float64(x)*c, float64(y)*c
			p := core.Pos(x, y)

			switch kind {
			case maze.Wall:
				setColor(dc, core.ColorGray)
				dc.DrawRectangle(px, py, c, c)
				dc.Fill()
			case maze.Goal:
				setColor(dc, core.ColorBrightGreen)
				dc.DrawRectangle(px+c*0.15, py+c*0.15, c*0.7, c*0.7)
				dc.Fill()
			case maze.Saw:
				setColor(dc, core.ColorBrightRed)
				dc.DrawRegularPolygon(8, px+c/2, py+c/2, c*0.42, 0)
				dc.Fill()
			case maze.Snake:
				setColor(dc, core.ColorGreen)
				dc.DrawEllipse(px+c/2, py+c/2, c*0.4, c*0.25)
				dc.Fill()
			case maze.Coin:
				if !snap.IsCollected(p) {
					setColor(dc, core.ColorYellow)
					dc.DrawCircle(px+c/2, py+c/2, c*0.3)
					dc.Fill()
				}
			case maze.Gem:
				if !snap.IsCollected(p) {
					setColor(dc, core.ColorBrightCyan)
					dc.DrawRegularPolygon(4, px+c/2, py+c/2, c*0.38, 0)
					dc.Fill()
				}
			}
		}
	}

	for _, sn := range snap.Snakes {
		setColor(dc, core.ColorOrange)
		dc.DrawCircle(float64(sn.X)*c+c/2, float64(sn.Y)*c+c/2, c*0.35)
		dc.Fill()
	}

	setColor(dc, core.ColorBrightYellow)
	dc.DrawCircle(float64(snap.Player.X)*c+c/2, float64(snap.Player.Y)*c+c/2, c*0.4)
	dc.Fill()

	return dc.Image()
}

// Scale resizes img to the given width, keeping the aspect ratio.
func Scale(img image.Image, width int) image.Image {
	if width <= 0 || width == img.Bounds().Dx() {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// WritePNG encodes the snapshot board as PNG, optionally scaled to width.
func WritePNG(w io.Writer, snap session.Snapshot, cellPx, width int) error {
	return png.Encode(w, Scale(Image(snap, cellPx), width))
}

func setColor(dc *gg.Context, c core.Color) {
	r, g, b := c.RGB()
	dc.SetRGB(r, g, b)
}
