package util

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger is shared by every package. The helpers below do nothing until InitLogger runs.
var Logger *log.Logger

var prefixStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(orange).
	Bold(true).
	Padding(0, 1).
	MarginRight(1)

// InitLogger initializes the charmbracelet logger on stderr
func InitLogger() {
	InitLoggerTo(os.Stderr)
}

// InitLoggerTo initializes the logger on w. The TUI points it at a file while the
// alternate screen owns the terminal; files get no color codes.
func InitLoggerTo(w io.Writer) {
	level := log.InfoLevel
	if IsDebug {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportCaller:    IsDebug,
		ReportTimestamp: IsDebug,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefixStyle.Render("GoKino"),
		CallerOffset:    2,
	})
	if w == io.Writer(os.Stderr) {
		l.SetColorProfile(termenv.TrueColor)
	} else {
		l.SetColorProfile(termenv.Ascii)
	}
	Logger = l
	Debug("debug logging enabled")
}

func logAt(level log.Level, msg interface{}, keyvals []interface{}) {
	if l := Logger; l != nil {
		l.Log(level, msg, keyvals...)
	}
}

// Debug logs at debug level, shown with -debug only
func Debug(msg interface{}, keyvals ...interface{}) { logAt(log.DebugLevel, msg, keyvals) }

// Info logs at info level
func Info(msg interface{}, keyvals ...interface{}) { logAt(log.InfoLevel, msg, keyvals) }

// Warn logs at warn level
func Warn(msg interface{}, keyvals ...interface{}) { logAt(log.WarnLevel, msg, keyvals) }

// Error logs at error level
func Error(msg interface{}, keyvals ...interface{}) { logAt(log.ErrorLevel, msg, keyvals) }

func Debugf(format string, args ...interface{}) { logAt(log.DebugLevel, fmt.Sprintf(format, args...), nil) }

func Warnf(format string, args ...interface{}) { logAt(log.WarnLevel, fmt.Sprintf(format, args...), nil) }

func Errorf(format string, args ...interface{}) { logAt(log.ErrorLevel, fmt.Sprintf(format, args...), nil) }
