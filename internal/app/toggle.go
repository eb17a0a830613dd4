package app

import (
	"context"
	"errors"
	"fmt"

	"gold-price-alerts/internal/controller"
)

// Toggle pauses or resumes the managed schedule.
func (a *App) Toggle(ctx context.Context) error {
	ctrl, _, _ := a.components(nil)

	if err := ctrl.RefreshSchedule(ctx); err != nil {
		return err
	}

	err := ctrl.ToggleSchedule(ctx)
	if errors.Is(err, controller.ErrNoSchedule) {
		return fmt.Errorf("no schedule to toggle; save settings first")
	}
	if err != nil {
		return err
	}

	printNotification(ctrl.Snapshot())
	return nil
}
