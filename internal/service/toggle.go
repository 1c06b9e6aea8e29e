package service

import (
	"context"

	"github.com/pageza/recipeshare/backend/internal/types"
)

// OptimisticToggle flips current, reports the flipped state to observers, then
// commits it. If the commit fails the observers are told the original state
// and current is returned alongside the error. There is no retry.
func OptimisticToggle(ctx context.Context, current types.ToggleState, commit func(ctx context.Context, active bool) error, observers ...func(types.ToggleState)) (types.ToggleState, error) {
	next := current.Flipped()
	notify(observers, next)

	if err := commit(ctx, next.Active); err != nil {
		notify(observers, current)
		return current, err
	}
	return next, nil
}

func notify(observers []func(types.ToggleState), state types.ToggleState) {
	for _, fn := range observers {
		fn(state)
	}
}
