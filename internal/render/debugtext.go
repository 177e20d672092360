package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// hudFace is the shared bitmapfont face, built once the way
// pkg/ui/loadingscreen.go's drawText builds its face per call; here it's
// hoisted to a package var since the HUD redraws every frame.
var hudFace = text.NewGoXFace(bitmapfont.Face)

// drawLeftText draws str with its top-left corner at (x, y), scaled by
// scale, adapting loadingscreen.go's drawText (which centers on a point)
// to a HUD's left-aligned line-by-line layout.
func drawLeftText(screen *ebiten.Image, str string, x, y, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, hudFace, op)
}

// HUDStats is the subset of world/sim state the debug HUD reports, kept
// separate from internal/world so this package never has to reach into the
// simulation's mutable maps while drawing.
type HUDStats struct {
	Tick         int
	SimTime      float64
	CarCount     int
	PendingTiles int
	Seed         uint64
}

// DrawHUD renders a small top-left status block: tick, sim time, live car
// count and the seed the run started from, so a running instance can be
// correlated with the savegame/replay that reproduces it (spec §8 "given an
// identical seed ... produce an identical tilemap").
func DrawHUD(screen *ebiten.Image, stats HUDStats) {
	const (
		lineHeight = 18.0
		scale      = 1.25
		marginX    = 8.0
		marginY    = 8.0
	)
	lines := []string{
		fmt.Sprintf("tick %d  t=%.1fs", stats.Tick, stats.SimTime),
		fmt.Sprintf("cars %d", stats.CarCount),
		fmt.Sprintf("pending tiles %d", stats.PendingTiles),
		fmt.Sprintf("seed %d", stats.Seed),
	}
	for i, line := range lines {
		drawLeftText(screen, line, marginX, marginY+float64(i)*lineHeight, scale, color.RGBA{230, 230, 230, 255})
	}
}
