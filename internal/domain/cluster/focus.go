package cluster

import (
	"fmt"

	"github.com/armadillo-os/shell/internal/shared/types"
)

// transition advances the focus state machine. Gesture reversals are legal:
// an in-flight focus may turn into a defocus and vice versa, matching how
// users abandon a half-completed drag.
func transition(state types.FocusState, event types.FocusEvent) (types.FocusState, error) {
	switch state {
	case types.StateUnfocused:
		if event == types.EventFocusStart {
			return types.StateFocusing, nil
		}
	case types.StateFocusing:
		switch event {
		case types.EventFocusComplete:
			return types.StateFocused, nil
		case types.EventDefocusStart:
			return types.StateDefocusing, nil
		}
	case types.StateFocused:
		if event == types.EventDefocusStart {
			return types.StateDefocusing, nil
		}
	case types.StateDefocusing:
		switch event {
		case types.EventDefocusComplete:
			return types.StateUnfocused, nil
		case types.EventFocusStart:
			return types.StateFocusing, nil
		}
	}
	return state, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, event, state)
}
