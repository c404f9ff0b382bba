package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
	symWarn  = "!"
)

// Stdout and Stderr receive all CLI output; tests swap them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

var (
	forceColor   bool
	disableColor = os.Getenv("NO_COLOR") != ""
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// SetOutput redirects Stdout and Stderr and returns a func restoring them.
func SetOutput(out, errOut io.Writer) func() {
	prevOut, prevErr := Stdout, Stderr
	Stdout, Stderr = out, errOut
	return func() { Stdout, Stderr = prevOut, prevErr }
}

func isTTY() bool {
	f, ok := Stdout.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when writing to a terminal or when forced.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// Fg256 is the escape for a 256-color palette code such as "208".
func Fg256(code string) string { return "\033[38;5;" + code + "m" }

func OK(msg string)   { fmt.Fprintln(Stdout, C(fgGreen, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Stderr, C(fgRed, symCross+" "+msg)) }
func Warn(msg string) { fmt.Fprintln(Stderr, C(fgYellow, symWarn+" "+msg)) }
