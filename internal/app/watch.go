package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Watch subscribes to the activity event stream and prints events until the
// context is cancelled or the stream closes.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	if !a.Config.Activity.Enabled {
		return errors.New("activity stream disabled in configuration")
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, store, _ := a.components(nil)

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = store.LastSessionID()
	}
	if sessionID == "" {
		fmt.Fprintln(os.Stdout, "no session recorded; watching the unscoped stream")
	}

	sub := a.subscribeActivity(ctx, sessionID)
	if sub == nil {
		return errors.New("could not connect to the activity stream")
	}
	defer sub.Close()

	a.Logger.Info().Str("session_id", sessionID).Msg("watching agent activity")

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-sub.Events():
			if !ok {
				fmt.Fprintln(os.Stdout, "stream closed")
				return nil
			}
			stamp := evt.Timestamp
			if stamp.IsZero() {
				stamp = time.Now()
			}
			fmt.Fprintf(os.Stdout, "%s [%s] %s\n", stamp.Format(time.RFC3339), evt.Type, evt.Content)
		}
	}
}
