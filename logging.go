package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment overrides for logging
const (
	envLogLevel  = "NVG_LOG_LEVEL"
	envLogFile   = "NVG_LOG_FILE"
	envLogFormat = "NVG_LOG_FORMAT"
)

// LogOptions controls logger initialization
type LogOptions struct {
	Level  string // debug|info|warn|error
	Format string // auto|text|json for the console; auto picks json when stderr is not a terminal
	File   string // optional path; enables a rotating JSON log file
}

var (
	loggerMu      sync.RWMutex
	defaultLogger *slog.Logger

	isTerminal = term.IsTerminal
)

// initLogging installs the process-wide logger. Console output goes to
// stderr; when a file is configured, records are also written to it as JSON
// through a size-rotated writer. Every record carries a per-run id.
func initLogging(opts LogOptions) {
	initLoggingTo(os.Stderr, opts)
}

func initLoggingTo(w io.Writer, opts LogOptions) {
	if v := os.Getenv(envLogLevel); v != "" {
		opts.Level = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		opts.File = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		opts.Format = v
	}
	level := parseLogLevel(opts.Level)

	var console slog.Handler
	if consoleJSON(w, opts.Format) {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		console = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	handlers := []slog.Handler{console}
	if strings.TrimSpace(opts.File) != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: level}))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = &fanoutHandler{handlers: handlers}
	}

	l := slog.New(h).With(slog.String("app", "nvgallery"), slog.String("run", runID()))
	loggerMu.Lock()
	defaultLogger = l
	loggerMu.Unlock()
	slog.SetDefault(l)
}

// logger returns the process-wide logger, falling back to a warn-level
// console logger when initLogging has not run (tests, early startup)
func logger() *slog.Logger {
	loggerMu.RLock()
	l := defaultLogger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// withComponent returns a logger tagged with the component name
func withComponent(name string) *slog.Logger {
	return logger().With(slog.String("component", name))
}

// debugLog prints printf-style debug traces for cache and loader activity
func debugLog(format string, args ...any) {
	l := logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(fmt.Sprintf(format, args...))
}

// consoleJSON decides the console format. auto uses text for terminals and
// anything that is not a file, json for redirected stderr.
func consoleJSON(w io.Writer, format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return true
	case "text":
		return false
	}
	f, ok := w.(*os.File)
	return ok && !isTerminal(int(f.Fd()))
}

// runID is a short id that tells the records of one run apart in a shared
// log file
func runID() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()[:8]
	}
	s := u.String()
	return s[len(s)-12:]
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanoutHandler sends every record to all handlers
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: hs}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: hs}
}
