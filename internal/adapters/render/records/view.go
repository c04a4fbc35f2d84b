package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/queuewatch/internal/application"
	"github.com/charmbracelet/lipgloss"
)

const progressWidth = 24

type RenderOptions struct {
	// Now enables relative ages. When zero, absolute times are shown.
	Now time.Time
	// Limit keeps only the most recent records. Zero keeps all.
	Limit int
}

func renderView(summaries []application.RecordSummary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Queue Sessions"),
		s.header.Render(fmt.Sprintf("records: %d", len(summaries))),
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No recorded sessions yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	shown := summaries
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[len(shown)-opts.Limit:]
	}

	for _, summary := range shown {
		lines = append(lines, s.section.Render(renderSummary(summary, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSummary(summary application.RecordSummary, opts RenderOptions, s styles) string {
	title := s.session.Render(sessionTitle(summary.At, opts.Now))
	if summary.ReachedFront {
		title += " " + s.reached.Render("[front reached]")
	}

	if summary.Samples == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, s.detail.Render("no positions reported"))
	}

	positions := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render("position:"),
		" ",
		renderProgressBar(summary, s),
		" ",
		s.detail.Render(fmt.Sprintf("%s -> %s", formatOptional(summary.FirstPosition), formatOptional(summary.LastPosition))),
	)

	meta := s.meta.Render(fmt.Sprintf(
		"samples: %d  queue: %s  watched: %s",
		summary.Samples,
		formatOptional(summary.MaxLength),
		formatDuration(summary.Duration),
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, positions, meta)
}

// renderProgressBar fills with the share of the queue covered between the
// first and last sample.
func renderProgressBar(summary application.RecordSummary, s styles) string {
	filled := int(math.Round(progressWidth * progressFraction(summary)))
	filled = max(0, min(filled, progressWidth))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", progressWidth-filled)),
		s.barBracket.Render("]"),
	)
}

func progressFraction(summary application.RecordSummary) float64 {
	if summary.FirstPosition == nil || summary.LastPosition == nil || *summary.FirstPosition <= 0 {
		return 0
	}
	covered := float64(*summary.FirstPosition-*summary.LastPosition) / float64(*summary.FirstPosition)
	return math.Max(0, math.Min(1, covered))
}

func sessionTitle(at, now time.Time) string {
	stamp := at.Format(time.DateTime)
	if now.IsZero() || at.After(now) {
		return "Session " + stamp
	}
	return fmt.Sprintf("Session %s (%s ago)", stamp, formatDuration(now.Sub(at)))
}

func formatOptional(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	if d < 24*time.Hour {
		return d.Round(time.Minute).String()
	}
	days := int(d / (24 * time.Hour))
	rest := (d % (24 * time.Hour)).Round(time.Hour)
	return fmt.Sprintf("%dd%s", days, rest)
}
