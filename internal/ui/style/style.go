// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
	Skip    = "-"
)

// StatusIcon returns the icon shown next to a job with the given status name.
func StatusIcon(status string) string {
	switch status {
	case "built", "installed":
		return Check
	case "up-to-date":
		return Circle
	case "outdated":
		return Tilde
	case "skipped":
		return Skip
	default:
		return Cross
	}
}
