package layout

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Reporter receives free-text progress messages. Implementations must not block.
type Reporter interface {
	Report(msg string)
}

// NopReporter discards every message.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(string) {}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(msg string)

// Report implements Reporter.
func (f ReporterFunc) Report(msg string) { f(msg) }

// LogReporter forwards messages to a logrus logger at a fixed level.
type LogReporter struct {
	Logger logrus.FieldLogger
	Level  logrus.Level
}

// NewLogReporter returns a LogReporter logging at debug level.
func NewLogReporter(logger logrus.FieldLogger) *LogReporter {
	return &LogReporter{Logger: logger, Level: logrus.DebugLevel}
}

// Report implements Reporter.
func (r *LogReporter) Report(msg string) {
	if r == nil || r.Logger == nil {
		return
	}
	switch r.Level {
	case logrus.InfoLevel:
		r.Logger.Info(msg)
	case logrus.WarnLevel:
		r.Logger.Warn(msg)
	case logrus.TraceLevel:
		if l, ok := r.Logger.(*logrus.Entry); ok {
			l.Trace(msg)
			return
		}
		r.Logger.Debug(msg)
	default:
		r.Logger.Debug(msg)
	}
}

func (a *Analyzer) reportf(format string, args ...any) {
	a.reporter.Report(fmt.Sprintf(format, args...))
}
