package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klemola/liikennematto-sub004/internal/tilemap"
)

func TestPendingTilemapChangeFiresAfterDebounceFloor(t *testing.T) {
	var p PendingTilemapChange
	p.Trigger(tilemap.Cell{X: 1, Y: 1})
	assert.True(t, p.Pending())

	assert.Nil(t, p.Tick(0.5))
	assert.True(t, p.Pending())

	cells := p.Tick(0.3)
	require.NotNil(t, cells)
	assert.False(t, p.Pending())
	assert.Equal(t, []tilemap.Cell{{X: 1, Y: 1}}, cells)
}

func TestPendingTilemapChangeResetsOnAdditionalTrigger(t *testing.T) {
	var p PendingTilemapChange
	p.Trigger(tilemap.Cell{X: 1, Y: 1})
	p.Tick(0.6)
	p.Trigger(tilemap.Cell{X: 2, Y: 2}) // resets the floor

	assert.Nil(t, p.Tick(0.6))
	assert.True(t, p.Pending())

	cells := p.Tick(0.2)
	require.Len(t, cells, 2)
}

func TestPendingTilemapChangeNoOpWhenNothingTriggered(t *testing.T) {
	var p PendingTilemapChange
	assert.False(t, p.Pending())
	assert.Nil(t, p.Tick(100))
}
