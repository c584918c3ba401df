package services

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ProductionLogger writes key/value records through slog. Every record carries
// the service name.
type ProductionLogger struct {
	logger *slog.Logger
}

// NewProductionLogger creates a logger writing to w. structured selects JSON
// output; otherwise records are human-readable text.
func NewProductionLogger(w io.Writer, service string, level slog.Level, structured bool) *ProductionLogger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if structured {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &ProductionLogger{logger: slog.New(handler).With("service", service)}
}

func (p *ProductionLogger) Info(msg string, keysAndValues ...interface{}) {
	p.logger.Info(msg, keysAndValues...)
}

func (p *ProductionLogger) Error(msg string, keysAndValues ...interface{}) {
	p.logger.Error(msg, keysAndValues...)
}

func (p *ProductionLogger) Debug(msg string, keysAndValues ...interface{}) {
	p.logger.Debug(msg, keysAndValues...)
}

func (p *ProductionLogger) Warn(msg string, keysAndValues ...interface{}) {
	p.logger.Warn(msg, keysAndValues...)
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the logger for a service from ENV and LOG_LEVEL.
func NewLogger(service string) Logger {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "test" {
		return &NoOpLogger{}
	}

	return NewProductionLogger(os.Stdout, service, ParseLevel(os.Getenv("LOG_LEVEL")), env == "production")
}
