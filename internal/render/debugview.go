package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/klemola/liikennematto-sub004/internal/car"
	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/network"
	"github.com/klemola/liikennematto-sub004/internal/tilemap"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
	"github.com/klemola/liikennematto-sub004/internal/trafficlight"
	"github.com/klemola/liikennematto-sub004/internal/world"
)

// whitePixel is a 1x1 opaque image scaled/translated/tinted to draw filled
// rectangles without allocating a fresh ebiten.Image per cell per frame.
// The grid can hold over a thousand cells, unlike the handful of cars the
// teacher's car.RenderCar builds fresh images for.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

func fillRect(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(whitePixel, op)
}

var (
	colorUninitialized = color.RGBA{60, 110, 60, 255}
	colorSuperposition = color.RGBA{70, 90, 140, 255}
	colorRoad          = color.RGBA{50, 50, 55, 255}
	colorGrass         = color.RGBA{80, 140, 80, 255}
	colorLot           = color.RGBA{120, 90, 60, 255}
	colorGridLine      = color.RGBA{20, 20, 20, 120}
)

// DrawTilemap renders every cell of w.Tilemap as a flat-shaded rectangle,
// the debug-overlay stand-in for the out-of-scope render pipeline's sprite
// lookup (spec §1 "asset lookup ... out of scope").
func DrawTilemap(screen *ebiten.Image, tm *tilemap.Tilemap, ts tileset.Tileset, cam Camera) {
	size := geom.CellSize * cam.Scale
	for _, c := range tm.Cells() {
		tile, ok := tm.At(c)
		if !ok {
			continue
		}
		box := c.BoundingBox(tm.Height)
		x, y := cam.ToScreen(box.Min)

		clr := colorUninitialized
		switch tile.Kind.Tag {
		case tilemap.KindSuperposition:
			clr = colorSuperposition
		case tilemap.KindFixed:
			switch {
			case tileset.IsRoad(tile.Kind.ID):
				clr = colorRoad
			case tileset.IsLarge(tile.Kind.ID):
				clr = colorLot
			default:
				clr = colorGrass
			}
		}
		fillRect(screen, x, y, size, size, clr)
		fillRect(screen, x, y, size, 1, colorGridLine)
		fillRect(screen, x, y, 1, size, colorGridLine)
	}
}

// DrawNetwork renders the road network's edges as thin rectangles between
// node positions and each node as a small dot colored by its traffic
// control, standing in for the real renderer's lane markings.
func DrawNetwork(screen *ebiten.Image, g *network.Graph, lights map[int]*trafficlight.Light, cam Camera) {
	if g == nil {
		return
	}
	for _, id := range g.SortedNodeIDs() {
		n, _ := g.Node(id)
		x, y := cam.ToScreen(n.Position)
		for _, toID := range g.Neighbors(id) {
			to, ok := g.Node(toID)
			if !ok {
				continue
			}
			drawLine(screen, x, y, cam, to.Position)
		}
		drawNodeDot(screen, x, y, n, lights)
	}
}

func drawLine(screen *ebiten.Image, x0, y0 float64, cam Camera, to geom.Point) {
	x1, y1 := cam.ToScreen(to)
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length < 1e-6 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, 1)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x0, y0)
	op.ColorScale.ScaleWithColor(color.RGBA{200, 200, 0, 90})
	screen.DrawImage(whitePixel, op)
}

func drawNodeDot(screen *ebiten.Image, x, y float64, n *network.Node, lights map[int]*trafficlight.Light) {
	clr := color.Color(color.RGBA{220, 220, 220, 255})
	switch n.Control.Kind {
	case network.ControlYield:
		clr = color.RGBA{255, 200, 0, 255}
	case network.ControlSignal:
		clr = trafficLightColor(lights[n.Control.SignalID])
	}
	const dot = 3.0
	fillRect(screen, x-dot/2, y-dot/2, dot, dot, clr)
}

func trafficLightColor(light *trafficlight.Light) color.Color {
	if light == nil {
		return color.RGBA{255, 255, 255, 255}
	}
	switch light.Color() {
	case trafficlight.Green:
		return color.RGBA{60, 200, 60, 255}
	case trafficlight.Yellow:
		return color.RGBA{230, 200, 40, 255}
	default:
		return color.RGBA{220, 50, 50, 255}
	}
}

// DrawCars renders every car as a rotated rectangle tinted by its FSM state, in
// the spirit of car.RenderCar's top-down rectangle-plus-outline body but
// driven by the car's real simulated position/orientation instead of a
// sprite (spec §1 "render pipeline ... out of scope").
func DrawCars(screen *ebiten.Image, cars map[int]*car.Car, cam Camera) {
	for _, c := range cars {
		drawCar(screen, c, cam)
	}
}

func drawCar(screen *ebiten.Image, c *car.Car, cam Camera) {
	w, h := c.Make.Length*cam.Scale, c.Make.Width*cam.Scale
	body := ebiten.NewImage(int(math.Max(1, w)), int(math.Max(1, h)))
	body.Fill(carColor(c))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Rotate(c.Orientation)
	x, y := cam.ToScreen(c.Position)
	op.GeoM.Translate(x, y)
	screen.DrawImage(body, op)
}

func carColor(c *car.Car) color.Color {
	switch c.State() {
	case "parked":
		return color.RGBA{90, 90, 200, 255}
	case "despawning", "queued":
		return color.RGBA{120, 120, 120, 255}
	default:
		return color.RGBA{210, 90, 60, 255}
	}
}

// DrawDebugScene draws the full debug-overlay composite: tilemap, road
// network, and cars, in back-to-front order.
func DrawDebugScene(screen *ebiten.Image, w *world.World, cam Camera) {
	DrawTilemap(screen, w.Tilemap, w.Tileset, cam)
	DrawNetwork(screen, w.Graph, w.Lights, cam)
	DrawCars(screen, w.Cars, cam)
}
