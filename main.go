package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/klemola/liikennematto-sub004/internal/config"
	"github.com/klemola/liikennematto-sub004/internal/render"
	"github.com/klemola/liikennematto-sub004/internal/sim"
	"github.com/klemola/liikennematto-sub004/internal/wfc"
	"github.com/klemola/liikennematto-sub004/internal/world"
)

var log = logrus.WithField("subsystem", "main")

// screenState is the host loop's top-level mode, the same two-state shape
// the teacher's main.go drives its loading screen/gameplay switch from.
type screenState int

const (
	stateLoadingScreen screenState = iota
	stateInGame
)

// tickDelta is the fixed simulation step driving Sim.Tick, decoupled from
// ebiten's variable Draw rate (spec §5 "fixed fine-grained tick... driven by
// a fixed or variable real-time delta").
const tickDelta = 1.0 / 60.0

// Game implements ebiten.Game. Draw is a thin stub over the debug overlay in
// internal/render. The real render pipeline (sprites, asset lookup) is out
// of scope (spec §1), but the loop itself and the state-enum shape mirror
// the teacher's main.go.
type Game struct {
	state screenState

	world  *world.World
	solver *wfc.Solver
	sim    *sim.Sim
	cam    render.Camera
}

func (g *Game) Update() error {
	switch g.state {
	case stateLoadingScreen:
		g.state = stateInGame
		return nil
	case stateInGame:
		actions := g.sim.Tick(g.world, g.world.Tileset, g.solver, tickDelta)
		for _, a := range actions {
			log.WithField("action", a.Kind).Trace("action raised")
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.state {
	case stateLoadingScreen:
		screen.Fill(color.RGBA{20, 20, 30, 255})
		render.DrawHUD(screen, render.HUDStats{})
	case stateInGame:
		screen.Fill(color.RGBA{15, 25, 15, 255})
		render.DrawDebugScene(screen, g.world, g.cam)
		render.DrawHUD(screen, render.HUDStats{
			Tick:     int(g.sim.Now / tickDelta),
			SimTime:  g.sim.Now,
			CarCount: len(g.world.Cars),
			Seed:     0,
		})
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return 1024, 600
}

// newGame loads the world definition and builds the solver/world/sim trio a
// running instance needs, mirroring the teacher's onGameStart wiring.
func newGame(configPath string) (*Game, error) {
	def, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	ts, err := def.BuildTileset()
	if err != nil {
		return nil, err
	}

	solver := wfc.Initialize(ts, def.HorizontalCellsAmount, def.VerticalCellsAmount, def.InitialSeed)
	w := world.New(solver.ToTilemap(), ts, def.InitialSeed)
	w.RebuildGraph()

	return &Game{
		state:  stateLoadingScreen,
		world:  w,
		solver: solver,
		sim:    sim.New(),
		cam:    render.Camera{Scale: 8.0},
	}, nil
}

func main() {
	g, err := newGame("world.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(1024, 600)
	ebiten.SetWindowTitle("Liikennematto")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
