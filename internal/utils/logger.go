package utils

import (
	"fmt"
	"os"
	"strings"
)

// LogLevel controls how much the console logger prints.
type LogLevel int

const (
	// LevelQuiet suppresses everything except errors.
	LevelQuiet LogLevel = iota
	// LevelNormal shows standard workflow progress.
	LevelNormal
	// LevelVerbose adds per-step detail.
	LevelVerbose
	// LevelDebug shows everything, including resolution internals.
	LevelDebug
)

// CurrentLogLevel is the global log level setting.
var CurrentLogLevel LogLevel = LevelNormal

// SetLogLevel sets the global logging level.
func SetLogLevel(level LogLevel) {
	CurrentLogLevel = level
}

// LogLevelFromString converts a level name to a LogLevel. Unknown names
// fall back to LevelNormal.
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "quiet", "q":
		return LevelQuiet
	case "normal", "n":
		return LevelNormal
	case "verbose", "v":
		return LevelVerbose
	case "debug", "d":
		return LevelDebug
	default:
		return LevelNormal
	}
}

// LogError logs an error message. Errors are printed at every level.
func LogError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s\n", Error(fmt.Sprintf(format, args...)))
}

// LogWarning logs a warning message at Normal+ level.
func LogWarning(format string, args ...interface{}) {
	if CurrentLogLevel >= LevelNormal {
		fmt.Fprintf(os.Stdout, "%s\n", Warning(fmt.Sprintf(format, args...)))
	}
}

// LogInfo logs an informational message at Normal+ level.
func LogInfo(format string, args ...interface{}) {
	if CurrentLogLevel >= LevelNormal {
		fmt.Fprintf(os.Stdout, "%s\n", Info(fmt.Sprintf(format, args...)))
	}
}

// LogSuccess logs a success message at Normal+ level.
func LogSuccess(format string, args ...interface{}) {
	if CurrentLogLevel >= LevelNormal {
		fmt.Fprintf(os.Stdout, "%s\n", Success(fmt.Sprintf(format, args...)))
	}
}

// LogVerbose logs a message at Verbose+ level.
func LogVerbose(format string, args ...interface{}) {
	if CurrentLogLevel >= LevelVerbose {
		fmt.Fprintf(os.Stdout, "\t%s\n", Info(fmt.Sprintf(format, args...)))
	}
}

// LogDebug logs a debug message at Debug level.
func LogDebug(format string, args ...interface{}) {
	if CurrentLogLevel >= LevelDebug {
		fmt.Fprintf(os.Stdout, "\t%s\n", Debug(fmt.Sprintf(format, args...)))
	}
}
