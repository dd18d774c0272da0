package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/GrinlexGH/deps/internal/ui/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// writeSummary prints one line per job followed by the status counts.
func writeSummary(w io.Writer, profile termenv.Profile, report domain.RunReport) {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	width := 0
	for i := range report.Results {
		width = max(width, len(report.Results[i].Job.Name()))
	}

	for i := range report.Results {
		res := &report.Results[i]
		status := res.Status.String()
		st := statusStyle(r, res.Status)

		line := fmt.Sprintf("%s %-*s  %-6s  %s",
			st.Render(style.StatusIcon(status)), width, res.Job.Name(), res.Job.Kind, st.Render(status))
		if detail := resultDetail(res, report.Mode); detail != "" {
			line += "  " + r.NewStyle().Foreground(style.Slate).Render(detail)
		}
		_, _ = fmt.Fprintln(w, line)
	}

	_, _ = fmt.Fprintln(w, countsLine(report))
}

func statusStyle(r *lipgloss.Renderer, status domain.JobStatus) lipgloss.Style {
	switch status {
	case domain.StatusBuilt, domain.StatusInstalled:
		return r.NewStyle().Foreground(style.Green)
	case domain.StatusOutdated:
		return r.NewStyle().Foreground(style.Yellow)
	case domain.StatusFailed, domain.StatusCanceled:
		return r.NewStyle().Foreground(style.Red)
	default:
		return r.NewStyle().Foreground(style.Slate)
	}
}

func resultDetail(res *domain.JobResult, mode domain.ApplyMode) string {
	if res.Err != nil {
		var jobErr *domain.JobError
		if errors.As(res.Err, &jobErr) {
			return "(" + string(jobErr.Class) + " error)"
		}
		return ""
	}
	n := res.Install.Changes()
	if n == 0 {
		return ""
	}
	if mode == domain.ModeApply {
		return fmt.Sprintf("(%d file(s) changed)", n)
	}
	return fmt.Sprintf("(%d file(s) to copy)", n)
}

func countsLine(report domain.RunReport) string {
	var parts []string
	add := func(status domain.JobStatus, label string) {
		parts = append(parts, fmt.Sprintf("%d %s", report.Count(status), label))
	}

	if report.Mode == domain.ModeApply {
		add(domain.StatusBuilt, "built")
		add(domain.StatusInstalled, "installed")
		add(domain.StatusUpToDate, "up-to-date")
	} else {
		add(domain.StatusOutdated, "outdated")
		add(domain.StatusUpToDate, "up-to-date")
	}
	add(domain.StatusSkipped, "skipped")
	add(domain.StatusFailed, "failed")
	if n := report.Count(domain.StatusCanceled); n > 0 {
		parts = append(parts, fmt.Sprintf("%d canceled", n))
	}
	return "Summary: " + strings.Join(parts, ", ")
}
