package logger

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the shared sinks. File enables a rolling JSON log next to
// the console output.
type Config struct {
	Level      string
	Format     string
	Colors     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu       sync.RWMutex
	shared   zapcore.Core = defaultCore()
	fileSink *lumberjack.Logger
)

// Init builds the process-wide core once from cfg. Every logger returned by
// New afterwards writes through the same sinks, so a single lumberjack
// instance owns the log file and its rotation.
func Init(cfg Config) {
	level := parseLevel(cfg.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(cfg.Format, cfg.Colors), zapcore.Lock(os.Stdout), level),
	}

	var sink *lumberjack.Logger
	if cfg.File != "" {
		sink = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    nz(cfg.MaxSizeMB, 100),
			MaxBackups: nz(cfg.MaxBackups, 3),
			MaxAge:     nz(cfg.MaxAgeDays, 7),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(newEncoder("json", false), zapcore.AddSync(sink), level))
	}

	mu.Lock()
	previous := fileSink
	shared = zapcore.NewTee(cores...)
	fileSink = sink
	mu.Unlock()

	if previous != nil {
		previous.Close()
	}
}

// Logger is a printf-style facade over a named zap logger.
type Logger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New returns a logger named after service over the shared core.
func New(service string) *Logger {
	mu.RLock()
	core := shared
	mu.RUnlock()

	return newLogger(service, core)
}

func newLogger(service string, core zapcore.Core) *Logger {
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	if service != "" {
		base = base.Named(service)
	}
	return &Logger{
		base:  base,
		sugar: base.Sugar(),
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// With returns a child logger that attaches the given key/value pairs to
// every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	sugar := l.sugar.With(keysAndValues...)
	return &Logger{
		base:  sugar.Desugar(),
		sugar: sugar,
	}
}

// StdLogger adapts the logger for APIs that want a *log.Logger, such as
// http.Server.ErrorLog.
func (l *Logger) StdLogger() *log.Logger {
	std, err := zap.NewStdLogAt(l.base.WithOptions(zap.AddCallerSkip(-1)), zapcore.ErrorLevel)
	if err != nil {
		return log.Default()
	}
	return std
}

func (l *Logger) Sync() error {
	return l.base.Sync()
}

func defaultCore() zapcore.Core {
	return zapcore.NewCore(newEncoder("console", true), zapcore.Lock(os.Stdout), zapcore.InfoLevel)
}

func newEncoder(format string, colors bool) zapcore.Encoder {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "service",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	if strings.EqualFold(format, "json") {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(encCfg)
	}

	if colors {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func nz(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
