package neat

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
)

// Level identifies the severity of a log line emitted by the engine.
type Level string

const (
	// LevelDebug emits every line, including the per-generation line goneat.Population.Epoch
	// logs before advancing.
	LevelDebug Level = "debug"
	// LevelInfo, the default, emits info, warn and error lines; the engine itself logs
	// nothing at info level.
	LevelInfo Level = "info"
	// LevelWarn emits warn and error lines, such as the warning for a genome
	// goneat.Population.BuildNetworks skips because its connection graph is cyclic.
	LevelWarn Level = "warn"
	// LevelError emits error lines only; the engine itself logs nothing at error level.
	LevelError Level = "error"
)

var severity = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var (
	active = LevelInfo

	debugLogger = log.New(os.Stdout, "DEBUG: ", log.Ltime|log.Lshortfile)
	infoLogger  = log.New(os.Stdout, "INFO: ", log.Ltime|log.Lshortfile)
	warnLogger  = log.New(os.Stdout, "WARN: ", log.Ltime|log.Lshortfile)
	errorLogger = log.New(os.Stderr, "ERROR: ", log.Ltime|log.Lshortfile)
)

// SetLevel sets the minimum level that will be emitted; returns an error for an unrecognized level name.
func SetLevel(level string) error {
	l := Level(level)
	if _, ok := severity[l]; !ok {
		return errors.Errorf("unsupported log level: %q", level)
	}
	active = l
	return nil
}

// SetOutput redirects all non-error levels to w; useful for capturing logs in tests.
func SetOutput(w io.Writer) {
	debugLogger.SetOutput(w)
	infoLogger.SetOutput(w)
	warnLogger.SetOutput(w)
}

func emit(logger *log.Logger, level Level, format string, args ...interface{}) {
	if severity[level] < severity[active] {
		return
	}
	_ = logger.Output(3, fmt.Sprintf(format, args...))
}

// Debugf logs a debug-level line.
func Debugf(format string, args ...interface{}) { emit(debugLogger, LevelDebug, format, args...) }

// Infof logs an info-level line.
func Infof(format string, args ...interface{}) { emit(infoLogger, LevelInfo, format, args...) }

// Warnf logs a warn-level line.
func Warnf(format string, args ...interface{}) { emit(warnLogger, LevelWarn, format, args...) }

// Errorf logs an error-level line.
func Errorf(format string, args ...interface{}) { emit(errorLogger, LevelError, format, args...) }
