package utils

import "os"

// ANSI escape sequences used by the console logger.
const (
	ResetColor   = "\033[0m"
	RedColor     = "\033[31m"
	GreenColor   = "\033[32m"
	YellowColor  = "\033[33m"
	BlueColor    = "\033[34m"
	MagentaColor = "\033[35m"
	CyanColor    = "\033[36m"
)

// noColor disables ANSI sequences when the NO_COLOR convention is set.
var noColor = os.Getenv("NO_COLOR") != ""

func colorize(text string, color string) string {
	if noColor {
		return text
	}
	return color + text + ResetColor
}

// Info returns blue-colored text for progress messages.
func Info(text string) string {
	return colorize(text, BlueColor)
}

// Success returns green-colored text for completion messages.
func Success(text string) string {
	return colorize(text, GreenColor)
}

// Warning returns yellow-colored text.
func Warning(text string) string {
	return colorize(text, YellowColor)
}

// Error returns red-colored text.
func Error(text string) string {
	return colorize(text, RedColor)
}

// Highlight returns magenta-colored text for emphasized names.
func Highlight(text string) string {
	return colorize(text, MagentaColor)
}

// Debug returns cyan-colored text.
func Debug(text string) string {
	return colorize(text, CyanColor)
}
