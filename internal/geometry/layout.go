package geometry

import "fmt"

// DisplayMode selects how a cluster presents its stories.
type DisplayMode string

const (
	// DisplayModePanels tiles every story per its panel.
	DisplayModePanels DisplayMode = "panels"
	// DisplayModeTabs shows only the focused story; panel assignments stay
	// tracked for when the mode reverts.
	DisplayModeTabs DisplayMode = "tabs"
)

// Insets is the horizontal padding reserved around one story's title bar.
// A computed presentation value, never persisted.
type Insets struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// StoryLayout carries the per-story output of the classifier.
type StoryLayout struct {
	StoryID string `json:"story_id"`
	Panel   Panel  `json:"panel"`
	Bar     Insets `json:"bar"`
	Focused bool   `json:"focused"`
}

// Model is the classifier's result: a discrete tag selecting the rendering
// strategy plus per-story title-bar insets.
type Model struct {
	Tag     LayoutTag     `json:"tag"`
	Stories []StoryLayout `json:"stories"`
}

// ComputeLayout classifies a validated assignment of 1..4 stories and
// derives title-bar insets for the given physical width.
//
// In panels mode the width is divided into storyCount+1 bands, snapped to
// the grid quantum; unfocused bars get one band, the focused bar two, and
// each story's left offset accumulates one band per preceding story plus a
// bonus band if that preceding story is the focused one. The focused bar
// ends up visually widened and centered between its neighbors. Tabs mode
// zeroes all insets: the bar spans the full width.
func ComputeLayout(a Assignment, focusedID string, mode DisplayMode, size Size, quantum float64) (Model, error) {
	n := len(a)
	if n < 1 || n > MaxStories {
		return Model{}, fmt.Errorf("%w: %d stories", ErrDegenerateCluster, n)
	}

	tag, err := tagFor(n)
	if err != nil {
		return Model{}, err
	}
	if mode == DisplayModeTabs {
		tag = TagTabs
	}

	stories := make([]StoryLayout, n)
	widthPerSpace := ToGridValue(size.Width/float64(n+1), quantum)

	left := 0.0
	for i, pl := range a {
		focused := pl.StoryID == focusedID
		sl := StoryLayout{StoryID: pl.StoryID, Panel: pl.Panel, Focused: focused}

		if mode == DisplayModePanels {
			band := widthPerSpace
			if focused {
				band = 2 * widthPerSpace
			}
			right := size.Width - left - band
			sl.Bar = Insets{Left: clampNonNegative(left), Right: clampNonNegative(right)}

			left += widthPerSpace
			if focused {
				left += widthPerSpace
			}
		}

		stories[i] = sl
	}

	return Model{Tag: tag, Stories: stories}, nil
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
