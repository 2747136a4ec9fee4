package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPanel(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := NewPanel(0.25, 0, 0.5, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.75, p.Right())
		assert.Equal(t, 1.0, p.Bottom())
		assert.InDelta(t, 0.5, p.Area(), Epsilon)
	})

	t.Run("negative origin", func(t *testing.T) {
		_, err := NewPanel(-0.1, 0, 0.5, 0.5)
		assert.ErrorIs(t, err, ErrInvalidPanel)
	})

	t.Run("zero extent", func(t *testing.T) {
		_, err := NewPanel(0, 0, 0, 0.5)
		assert.ErrorIs(t, err, ErrInvalidPanel)
	})

	t.Run("spills over square", func(t *testing.T) {
		_, err := NewPanel(0.75, 0, 0.5, 1)
		assert.ErrorIs(t, err, ErrInvalidPanel)
	})
}

func TestPanelContains(t *testing.T) {
	p := Panel{X: 0.5, Y: 0, Width: 0.5, Height: 0.5}

	assert.True(t, p.Contains(Point{X: 0.75, Y: 0.25}))
	assert.True(t, p.Contains(Point{X: 0.5, Y: 0}), "edges are inclusive")
	assert.True(t, p.Contains(Point{X: 1, Y: 0.5}))
	assert.False(t, p.Contains(Point{X: 0.25, Y: 0.25}))
	assert.False(t, p.Contains(Point{X: 0.75, Y: 0.75}))
}

func TestPanelEqual(t *testing.T) {
	a := Panel{X: 0, Y: 0, Width: 0.5, Height: 1}
	b := Panel{X: 1e-9, Y: 0, Width: 0.5 - 1e-9, Height: 1}
	assert.True(t, a.Equal(b), "differences below tolerance are equal")
	assert.False(t, a.Equal(FullPanel))
}

func TestToGridValue(t *testing.T) {
	assert.Equal(t, 225.0, ToGridValue(225.3, 1.0))
	assert.Equal(t, 226.0, ToGridValue(225.6, 1.0))
	assert.Equal(t, 224.0, ToGridValue(225.3, 8.0))
	assert.Equal(t, 225.3, ToGridValue(225.3, 0), "non-positive quantum disables snapping")
	assert.Equal(t, 0.0, ToGridValue(0.4, 1.0))
}
