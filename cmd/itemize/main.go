// Command itemize manages a local inventory of items, their photos,
// categories and tags.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	domainerrors "github.com/erazemk/itemize/internal/errors"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// levelRouter is a slog.Handler that sends records at or above the console
// level to stderr and every record to the log file, if one is open.
type levelRouter struct {
	console slog.Handler
	file    slog.Handler
}

func (lr *levelRouter) Enabled(ctx context.Context, level slog.Level) bool {
	if lr.console.Enabled(ctx, level) {
		return true
	}
	return lr.file != nil && lr.file.Enabled(ctx, level)
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if lr.console.Enabled(ctx, r.Level) {
		if err := lr.console.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	if lr.file != nil {
		return lr.file.Handle(ctx, r)
	}
	return nil
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &levelRouter{console: lr.console.WithAttrs(attrs)}
	if lr.file != nil {
		next.file = lr.file.WithAttrs(attrs)
	}
	return next
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	next := &levelRouter{console: lr.console.WithGroup(name)}
	if lr.file != nil {
		next.file = lr.file.WithGroup(name)
	}
	return next
}

// setupLogger configures structured logging. Records at level and above go
// to stderr; stdout is left for command output. If logPath is non-empty,
// all levels down to debug are also appended to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(level slog.Level, logPath string) (func(), error) {
	handler := &levelRouter{
		console: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	cleanup := func() {}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		handler.file = slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// exitCode maps a command error to the process exit status. Problems with
// the user's input exit with 1, everything else with 2.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeValidation, domainerrors.CodeNotFound,
		domainerrors.CodeConflict, domainerrors.CodeAlreadyExists:
		return exitUserError
	}
	var usage *usageError
	if domainerrors.As(err, &usage) {
		return exitUserError
	}
	return exitSysError
}

// usageError reports bad command-line input.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// PersistentPostRunE is skipped when a command fails.
	if serr := shutdown(); err == nil {
		err = serr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
