// Package logger is the process-wide structured log. Entries go to a
// rotating file under <config dir>/logs, and to stderr as well with
// --verbose. Logging before Init is a no-op.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitsnap/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	logPath string
)

type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr receives the debug copy of each entry; nil means os.Stderr.
	Stderr io.Writer
}

func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(logDir, constants.AppName+".log")

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		out = io.MultiWriter(stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	logPath = path
	return nil
}

// Path returns the log file in use, or "" before Init.
func Path() string {
	if Logger == nil {
		return ""
	}
	return logPath
}

func logAt(level log.Level, msg string, keyvals []any) {
	if Logger != nil {
		Logger.Helper()
		Logger.Log(level, msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...any) { logAt(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...any) { logAt(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...any) { logAt(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...any) { logAt(log.ErrorLevel, msg, keyvals) }
