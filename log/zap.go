package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// wrapper around zap, provides a process wide default logger plus
// constructors for json (prod) and console (dev) loggers

type Level = zapcore.Level

const (
	InfoLevel  Level = zap.InfoLevel
	WarnLevel  Level = zap.WarnLevel
	ErrorLevel Level = zap.ErrorLevel
	DebugLevel Level = zap.DebugLevel
	FatalLevel Level = zap.FatalLevel
)

type (
	Field  = zap.Field
	Option = zap.Option
)

// function aliases for the most common zap field types
var (
	Skip          = zap.Skip
	Binary        = zap.Binary
	Bool          = zap.Bool
	Duration      = zap.Duration
	Float64       = zap.Float64
	Int           = zap.Int
	Int32         = zap.Int32
	Int64         = zap.Int64
	Uint32        = zap.Uint32
	String        = zap.String
	Time          = zap.Time
	Any           = zap.Any
	ErrorField    = zap.Error
	WithCaller    = zap.WithCaller
	AddStack      = zap.AddStacktrace
	AddCallerSkip = zap.AddCallerSkip
)

type Logger struct {
	l     *zap.Logger
	level Level
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.l.Fatal(msg, fields...)
}

func (l *Logger) DebugEnabled() bool {
	return l.level.Enabled(DebugLevel)
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.l.Sugar()
}

// New creates a json logger writing to w with the given minimum level.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	return newLogger(w, level, prodEncoder(), opts...)
}

// DevLogger creates a console logger suited for development.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	return newLogger(w, level, devEncoder(), opts...)
}

// NewWithFilters creates a json logger whose output is restricted by
// zapfilter rules, for example "debug:simulation* info:*".
func NewWithFilters(w io.Writer, level Level, rules string, opts ...Option) *Logger {
	logger := newLogger(w, level, prodEncoder(), opts...)
	logger.l = zap.New(zapfilter.NewFilteringCore(
		logger.l.Core(),
		zapfilter.MustParseRules(rules)),
		opts...)
	return logger
}

func newLogger(w io.Writer, level Level, enc zapcore.Encoder, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return &Logger{l: zap.New(core, opts...), level: level}
}

func prodEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func devEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

var (
	std = New(os.Stderr, InfoLevel)
	mu  sync.Mutex
)

// Default returns the process wide default logger.
func Default() *Logger { return std }

// ResetDefault replaces the default logger and the package level functions.
func ResetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	std = l

	Info = std.Info
	Warn = std.Warn
	Error = std.Error
	Debug = std.Debug
	Fatal = std.Fatal
}

// GetLogger returns a named logger derived from the default logger.
func GetLogger(name string) *Logger {
	return std.Named(name)
}

var (
	Info  = std.Info
	Warn  = std.Warn
	Error = std.Error
	Debug = std.Debug
	Fatal = std.Fatal
)

func Sync() error {
	if std != nil {
		return std.Sync()
	}
	return nil
}
