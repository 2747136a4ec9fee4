package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLayoutTags(t *testing.T) {
	size := Size{Width: 1200, Height: 800}
	tags := map[int]LayoutTag{
		1: TagSingle,
		2: TagSideBySide,
		3: TagMainWithPair,
		4: TagQuad,
	}
	for n, want := range tags {
		a := assignmentOf(t, n, []string{"a", "b", "c", "d"}[:n]...)
		model, err := ComputeLayout(a, "a", DisplayModePanels, size, 1.0)
		require.NoError(t, err)
		assert.Equal(t, want, model.Tag, "%d stories", n)
	}
}

func TestComputeLayoutBandScenario(t *testing.T) {
	// Three stories, 900px wide, quantum 1.0, middle story focused.
	// spaces = 4, widthPerSpace = 225.
	a := assignmentOf(t, 3, "s0", "s1", "s2")
	model, err := ComputeLayout(a, "s1", DisplayModePanels, Size{Width: 900, Height: 600}, 1.0)
	require.NoError(t, err)
	require.Len(t, model.Stories, 3)

	s0, s1, s2 := model.Stories[0], model.Stories[1], model.Stories[2]

	assert.Equal(t, 0.0, s0.Bar.Left)
	assert.Equal(t, 675.0, s0.Bar.Right)

	assert.True(t, s1.Focused)
	assert.Equal(t, 225.0, s1.Bar.Left)
	assert.Equal(t, 225.0, s1.Bar.Right, "focused band is 450 wide and centered")

	assert.Equal(t, 675.0, s2.Bar.Left)
	assert.Equal(t, 0.0, s2.Bar.Right)

	// left + band + right must reconstruct the full width for every story.
	for i, sl := range model.Stories {
		band := 225.0
		if sl.Focused {
			band = 450.0
		}
		assert.InDelta(t, 900.0, sl.Bar.Left+band+sl.Bar.Right, Epsilon, "story %d", i)
	}
}

func TestComputeLayoutSingleStory(t *testing.T) {
	a := assignmentOf(t, 1, "solo")
	model, err := ComputeLayout(a, "solo", DisplayModePanels, Size{Width: 640, Height: 480}, 1.0)
	require.NoError(t, err)

	// spaces = 2, band = 2 x 320: the sole focused bar spans everything.
	assert.Equal(t, 0.0, model.Stories[0].Bar.Left)
	assert.Equal(t, 0.0, model.Stories[0].Bar.Right)
}

func TestComputeLayoutTabsMode(t *testing.T) {
	a := assignmentOf(t, 3, "a", "b", "c")
	model, err := ComputeLayout(a, "b", DisplayModeTabs, Size{Width: 900, Height: 600}, 1.0)
	require.NoError(t, err)

	assert.Equal(t, TagTabs, model.Tag)
	for _, sl := range model.Stories {
		assert.Equal(t, Insets{}, sl.Bar, "tabs mode zeroes all insets")
	}
}

func TestComputeLayoutIdempotent(t *testing.T) {
	a := assignmentOf(t, 4, "a", "b", "c", "d")
	size := Size{Width: 1024, Height: 768}

	first, err := ComputeLayout(a, "c", DisplayModePanels, size, 4.0)
	require.NoError(t, err)
	second, err := ComputeLayout(a, "c", DisplayModePanels, size, 4.0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeLayoutDegenerate(t *testing.T) {
	_, err := ComputeLayout(Assignment{}, "", DisplayModePanels, Size{Width: 100}, 1.0)
	assert.ErrorIs(t, err, ErrDegenerateCluster)

	five := make(Assignment, 5)
	for i := range five {
		five[i] = Placement{StoryID: string(rune('a' + i)), Panel: FullPanel}
	}
	_, err = ComputeLayout(five, "a", DisplayModePanels, Size{Width: 100}, 1.0)
	assert.ErrorIs(t, err, ErrDegenerateCluster)
}

func TestComputeLayoutNoFocus(t *testing.T) {
	// Without a focused story every bar gets a single band.
	a := assignmentOf(t, 2, "a", "b")
	model, err := ComputeLayout(a, "", DisplayModePanels, Size{Width: 300, Height: 200}, 1.0)
	require.NoError(t, err)

	assert.Equal(t, Insets{Left: 0, Right: 200}, model.Stories[0].Bar)
	assert.Equal(t, Insets{Left: 100, Right: 100}, model.Stories[1].Bar)
}
