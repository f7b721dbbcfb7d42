package syncer

import "log/slog"

// Notifier receives the outcome of each controller operation. The rendering
// layer (toasts, CLI output) implements it; the controller only dispatches.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Failure(string) {}

// LogNotifier writes notifications to a structured logger, useful for
// headless runs.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(msg string) {
	n.Logger.Info(msg)
}

func (n LogNotifier) Failure(msg string) {
	n.Logger.Error(msg)
}
