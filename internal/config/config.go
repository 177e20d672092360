// Package config loads world construction options from a YAML document,
// mirroring the teacher's road.LevelDefinition tagged-struct idiom but in
// the config-loader shape agentsociety-sim-oss uses (plain structs, yaml.v3
// tags, one top-level Load entry point).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/klemola/liikennematto-sub004/internal/geom"
	"github.com/klemola/liikennematto-sub004/internal/tileset"
)

// LotDefinition describes one large-tile lot footprint to register on top of
// the stock road tileset (spec §4.1 "large-tile variants").
type LotDefinition struct {
	ID          int     `yaml:"id"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	AnchorIndex int     `yaml:"anchor_index"`
	DriveDir    string  `yaml:"drive_direction"`
	Weight      float64 `yaml:"weight"`
}

// WorldDefinition is the top-level document a world is constructed from.
type WorldDefinition struct {
	HorizontalCellsAmount int             `yaml:"horizontal_cells_amount"`
	VerticalCellsAmount   int             `yaml:"vertical_cells_amount"`
	InitialSeed           uint64          `yaml:"initial_seed"`
	Lots                  []LotDefinition `yaml:"lots"`
}

// Load reads and parses a WorldDefinition from path.
func Load(path string) (WorldDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorldDefinition{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a WorldDefinition from raw YAML bytes.
func Parse(data []byte) (WorldDefinition, error) {
	var def WorldDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return WorldDefinition{}, fmt.Errorf("config: parse: %w", err)
	}
	if def.HorizontalCellsAmount <= 0 || def.VerticalCellsAmount <= 0 {
		return WorldDefinition{}, fmt.Errorf("config: cell grid dimensions must be positive")
	}
	return def, nil
}

// directionByName maps the YAML direction string to a geom.Direction.
func directionByName(name string) (geom.Direction, error) {
	switch name {
	case "up":
		return geom.Up, nil
	case "down":
		return geom.Down, nil
	case "left":
		return geom.Left, nil
	case "right":
		return geom.Right, nil
	default:
		return 0, fmt.Errorf("config: unknown direction %q", name)
	}
}

// BuildTileset starts from the stock road tileset and layers every
// configured lot footprint on top of it.
func (def WorldDefinition) BuildTileset() (tileset.Tileset, error) {
	ts := tileset.DefaultTileset()
	for _, l := range def.Lots {
		dir, err := directionByName(l.DriveDir)
		if err != nil {
			return tileset.Tileset{}, err
		}
		ts = ts.WithLot(tileset.TileID(l.ID), l.Width, l.Height, l.AnchorIndex, dir, l.Weight)
	}
	return ts, nil
}
