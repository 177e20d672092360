package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedProducesSameSequence(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := NewSource(1)
	b := NewSource(2)
	assert.NotEqual(t, a.Next(), b.Next())
}

func TestFloat64InRange(t *testing.T) {
	s := NewSource(7)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestIntNInRange(t *testing.T) {
	s := NewSource(99)
	for i := 0; i < 1000; i++ {
		v := s.IntN(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

func TestIntNPanicsOnNonPositive(t *testing.T) {
	s := NewSource(1)
	assert.Panics(t, func() { s.IntN(0) })
}

func TestSnapshotRestoreReproducesSequence(t *testing.T) {
	s := NewSource(123)
	_ = s.Next()
	snap := s.Snapshot()

	want := make([]uint64, 5)
	for i := range want {
		want[i] = s.Next()
	}

	s.Restore(snap)
	got := make([]uint64, 5)
	for i := range got {
		got[i] = s.Next()
	}
	assert.Equal(t, want, got)
}

func TestPartsRoundTrip(t *testing.T) {
	s := NewSource(0xDEADBEEFCAFEF00D)
	hi, lo := s.Parts()
	restored := FromParts(hi, lo)
	assert.Equal(t, s.Next(), restored.Next())
}

func TestWeightedChoiceRespectsZeroAndNegativeWeights(t *testing.T) {
	s := NewSource(5)
	idx := s.WeightedChoice([]float64{0, 0, 0})
	assert.Equal(t, -1, idx)

	idx = s.WeightedChoice(nil)
	assert.Equal(t, -1, idx)
}

func TestWeightedChoiceOnlyPicksPositiveWeightIndices(t *testing.T) {
	s := NewSource(5)
	weights := []float64{0, 5, 0, -1}
	for i := 0; i < 200; i++ {
		idx := s.WeightedChoice(weights)
		assert.Equal(t, 1, idx)
	}
}
