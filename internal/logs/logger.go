package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	slogmulti "github.com/samber/slog-multi"

	"codeberg.org/rileyq/kaleido/internal/config"
)

type Logger = *slog.Logger

// New returns a logger writing to w, plus a copy of every record as JSON to
// cfg.File when set. The returned close func releases the file.
func New(w io.Writer, cfg config.LogConfig) (Logger, func() error, error) {
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var handlers []slog.Handler

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "json":
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	default:
		handlers = append(handlers, slog.NewTextHandler(w, opts))
	}

	closeFn := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closeFn = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Stage logs the duration of a pipeline stage at debug level.
func Stage(ctx context.Context, logger Logger, stage string, start time.Time, attrs ...slog.Attr) {
	attrs = append([]slog.Attr{
		slog.String("stage", stage),
		slog.Duration("elapsed", time.Since(start)),
	}, attrs...)
	logger.LogAttrs(ctx, slog.LevelDebug, "stage done", attrs...)
}
