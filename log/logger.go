package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel = "VINYL_LOG_LEVEL"
	EnvLogFile  = "VINYL_LOG_FILE"
	EnvLogJSON  = "VINYL_LOG_JSON"
)

type Logger struct {
	writer io.Writer
	exit   func(int)

	Name  string
	Level LogLevel

	TimeFormat string
	File       string
	NoColor    bool
	JSON       bool
	NoTerminal bool
	Rotation   *LoggerRotation
}

type LoggerRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type Option func(*Logger)

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

// WithLevel sets the minimum level that is written.
func WithLevel(level LogLevel) Option {
	return func(l *Logger) {
		l.Level = level
	}
}

// WithFile additionally writes to a rotated log file.
func WithFile(file string) Option {
	return func(l *Logger) {
		l.File = file
	}
}

// WithRotation overrides the rotation settings of the log file.
func WithRotation(rotation LoggerRotation) Option {
	return func(l *Logger) {
		l.Rotation = &rotation
	}
}

// WithJSON writes one JSON object per line instead of text.
func WithJSON() Option {
	return func(l *Logger) {
		l.JSON = true
	}
}

func WithoutColor() Option {
	return func(l *Logger) {
		l.NoColor = true
	}
}

// WithoutTerminal disables stdout; output goes to the log file only.
func WithoutTerminal() Option {
	return func(l *Logger) {
		l.NoTerminal = true
	}
}

// WithWriter replaces stdout with w. Colors are disabled.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.writer = w
		l.NoColor = true
	}
}

func NewLogger(name string, opts ...Option) *Logger {
	l := &Logger{
		Name:  name,
		Level: Info,
		exit:  os.Exit,

		TimeFormat: "2006-01-02 15:04:05",
		Rotation: &LoggerRotation{
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
			Compress:   false,
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	l.setupWriter()

	return l
}

// FromEnv creates a logger configured from VINYL_LOG_LEVEL, VINYL_LOG_FILE
// and VINYL_LOG_JSON, followed by opts.
func FromEnv(name string, opts ...Option) (*Logger, error) {
	var envOpts []Option

	if value, ok := os.LookupEnv(EnvLogLevel); ok {
		level, err := Parse(value)
		if err != nil {
			return nil, err
		}
		envOpts = append(envOpts, WithLevel(level))
	}

	if value := os.Getenv(EnvLogFile); value != "" {
		envOpts = append(envOpts, WithFile(value))
	}

	if value, ok := os.LookupEnv(EnvLogJSON); ok {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("log: invalid value for %s: %w", EnvLogJSON, err)
		}
		if enabled {
			envOpts = append(envOpts, WithJSON())
		}
	}

	return NewLogger(name, append(envOpts, opts...)...), nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return NewLogger("", WithWriter(io.Discard), WithLevel(Fatal+1))
}

func (l *Logger) setupWriter() {
	var writers []io.Writer

	if l.writer != nil {
		writers = append(writers, l.writer)
	} else if !l.NoTerminal {
		writers = append(writers, os.Stdout)
		// Escape codes only make sense on a terminal
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			l.NoColor = true
		}
	}

	if l.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   l.File,
			MaxSize:    l.Rotation.MaxSize,
			MaxBackups: l.Rotation.MaxBackups,
			MaxAge:     l.Rotation.MaxAge,
			Compress:   l.Rotation.Compress,
		}
		writers = append(writers, fileWriter)
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	l.writer = io.MultiWriter(writers...)
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if level < l.Level {
		return
	}

	timestamp := time.Now().Format(l.TimeFormat)
	formattedMsg := fmt.Sprintf(msg, args...)

	if l.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Message:   formattedMsg,
		}
		if l.Name != "" {
			entry.Service = l.Name
		}

		jsonBytes, _ := json.Marshal(entry)
		fmt.Fprintf(l.writer, "%s\n", jsonBytes)
	} else {
		prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
		if l.Name != "" {
			prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
		}

		if !l.NoTerminal && !l.NoColor {
			fmt.Fprintf(l.writer, "%s%s %s\033[0m\n", level.Color(), prefix, formattedMsg)
		} else {
			fmt.Fprintf(l.writer, "%s %s\n", prefix, formattedMsg)
		}
	}

	if level == Fatal {
		l.exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}

// Named returns a child logger sharing the same writer, named
// "<parent>/<name>".
func (l *Logger) Named(name string) *Logger {
	if l.Name != "" {
		name = fmt.Sprintf("%s/%s", l.Name, name)
	}

	return &Logger{
		writer: l.writer, // Share the same writer
		exit:   l.exit,

		Name:  name,
		Level: l.Level,

		TimeFormat: l.TimeFormat,
		File:       l.File,
		NoColor:    l.NoColor,
		NoTerminal: l.NoTerminal,
		JSON:       l.JSON,
		Rotation:   l.Rotation,
	}
}
