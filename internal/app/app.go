package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gold-price-alerts/internal/agent"
	"gold-price-alerts/internal/alert"
	"gold-price-alerts/internal/config"
	"gold-price-alerts/internal/controller"
	"gold-price-alerts/internal/gateway"
	"gold-price-alerts/internal/schedule"
	"gold-price-alerts/internal/statestore"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// consolePrompter implements the gateway's recovery prompt on stdin. The
// decision to restart stays opt-in so a persistently down backend cannot
// cause a restart loop.
type consolePrompter struct {
	in *bufio.Reader
}

func newConsolePrompter() *consolePrompter {
	return &consolePrompter{in: bufio.NewReader(os.Stdin)}
}

func (p *consolePrompter) ConfirmReload(reason string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", reason)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

func (a *App) newGateway(timeout time.Duration) *gateway.Client {
	hooks := gateway.Hooks{
		Navigate: func(target string) {
			fmt.Fprintf(os.Stderr, "session expired; sign in again at %s\n", target)
		},
		Reload: func() {
			a.Logger.Info().Msg("restarting on user request")
			os.Exit(1)
		},
	}
	return gateway.New(gateway.Options{
		Timeout:   timeout,
		UserAgent: a.Config.Agent.UserAgent,
	}, newConsolePrompter(), hooks, a.Logger)
}

// components wires the store, clients, manager, and controller for one
// command invocation. processing may be nil when no activity stream is
// attached.
func (a *App) components(processing controller.ProcessingSetter) (*controller.Controller, *statestore.Store, *schedule.Manager) {
	store := statestore.Open(a.Config.State.Path, a.Logger)

	agentClient := agent.NewClient(agent.Options{
		BaseURL: a.Config.Agent.BaseURL,
	}, a.newGateway(a.Config.Agent.RequestTimeout), a.Logger)

	schedClient := schedule.NewClient(schedule.Options{
		BaseURL: a.Config.Scheduler.BaseURL,
	}, a.newGateway(a.Config.Scheduler.RequestTimeout), a.Logger)

	manager := schedule.NewManager(schedClient, store, a.Logger)

	ctrl := controller.New(agentClient, manager, store, processing, controller.Options{
		AgentID:      a.Config.Agent.AgentID,
		HistoryLimit: a.Config.History.Limit,
		Defaults:     a.defaultSettings(),
	}, a.Logger)

	return ctrl, store, manager
}

func (a *App) defaultSettings() alert.Settings {
	defaults := alert.DefaultSettings()
	if a.Config.Defaults.Frequency != "" {
		defaults.Frequency = alert.Frequency(a.Config.Defaults.Frequency)
	}
	if a.Config.Defaults.TriggerTime != "" {
		defaults.TriggerTime = a.Config.Defaults.TriggerTime
	}
	if a.Config.Defaults.Timezone != "" {
		defaults.Timezone = a.Config.Defaults.Timezone
	}
	if a.Config.Defaults.Unit != "" {
		defaults.Unit = alert.Unit(a.Config.Defaults.Unit)
	}
	return defaults.Normalized()
}

// printNotification renders the operation's notification, if one is live.
func printNotification(snap controller.Snapshot) {
	if snap.Notification == nil {
		return
	}
	prefix := "ok"
	if snap.Notification.Type == controller.NotificationError {
		prefix = "error"
	}
	fmt.Fprintf(os.Stdout, "[%s] %s\n", prefix, snap.Notification.Message)
}

// HistoryOptions configure the history command.
type HistoryOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting run history.
type ExportOptions struct {
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// WatchOptions configure the activity watch command.
type WatchOptions struct {
	SessionID string
}
