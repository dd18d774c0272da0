// Package detector decides how output is presented based on the environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents how job output is rendered.
type OutputMode int

const (
	// ModeAuto leaves the decision to DetectEnvironment.
	ModeAuto OutputMode = iota
	// ModeColor renders ANSI colors and runs subprocesses in a PTY.
	ModeColor
	// ModePlain renders plain text with subprocess output over pipes.
	ModePlain
)

// ColorEnvVar overrides detection with "always", "never" or "auto".
const ColorEnvVar = "DEPS_COLOR"

// DetectEnvironment returns the recommended output mode.
// It checks if stdout is a TTY, if CI environment variables are set and whether NO_COLOR is present.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI || os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}
	return ModeColor
}

// ResolveMode applies a user override to auto-detection.
// userFlag should be one of: "auto", "always", "never", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "always":
		return ModeColor
	case "never":
		return ModePlain
	default:
		return autoDetected
	}
}

// Detect resolves the output mode from the terminal and ColorEnvVar.
func Detect() OutputMode {
	return ResolveMode(DetectEnvironment(), os.Getenv(ColorEnvVar))
}
