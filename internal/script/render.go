package script

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/crimson-sun/winnow/internal/engine/boundary"
	"github.com/crimson-sun/winnow/internal/model"
	"github.com/crimson-sun/winnow/internal/session"
)

var (
	colorSelected = lipgloss.Color("#2CD7C7")
	colorRejected = lipgloss.Color("#E74C3C")
	colorUnsure   = lipgloss.Color("#F4D03F")
	colorMuted    = lipgloss.Color("#2C4A54")
)

var styles = struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Selected lipgloss.Style
	Rejected lipgloss.Style
	Unsure   lipgloss.Style
	Muted    lipgloss.Style
	Box      lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(colorSelected),
	Label:    lipgloss.NewStyle().Bold(true),
	Selected: lipgloss.NewStyle().Foreground(colorSelected),
	Rejected: lipgloss.NewStyle().Foreground(colorRejected),
	Unsure:   lipgloss.NewStyle().Foreground(colorUnsure),
	Muted:    lipgloss.NewStyle().Foreground(colorMuted),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1),
}

// RenderStatus summarises a snapshot for the terminal.
func RenderStatus(snap session.Snapshot) string {
	counts := session.CountsOf(snap, snap.Thresholds).Current
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styles.Title.Render("stage"), snap.Stage)
	fmt.Fprintf(&b, "%s %d of %d\n", styles.Label.Render("commit"), snap.ActiveCommit, len(snap.Commits)-1)
	b.WriteString(RenderCounts(counts))
	b.WriteString("\n")
	if snap.Histogram != nil {
		fmt.Fprintf(&b, "%s select >= %.3f  reject <= %.3f\n",
			styles.Label.Render("thresholds"), snap.Thresholds.Select, snap.Thresholds.Reject)
	}
	if n := len(snap.FlipHistory); n > 0 {
		last := snap.FlipHistory[n-1]
		state := styles.Muted.Render("learning")
		if session.ConvergingOf(snap) {
			state = styles.Selected.Render("converging")
		}
		fmt.Fprintf(&b, "%s %d  flip rate %.1f%%  %s\n",
			styles.Label.Render("iteration"), last.Iteration, last.FlipRate*100, state)
	}
	if snap.Loading {
		b.WriteString(styles.Muted.Render("training...") + "\n")
	}
	return styles.Box.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderCounts prints the five category counts on one line.
func RenderCounts(c model.Counts) string {
	return strings.Join([]string{
		styles.Selected.Render(fmt.Sprintf("confirmed %d", c.Selected)),
		styles.Selected.Render(fmt.Sprintf("auto-selected %d", c.SelectedAuto)),
		styles.Rejected.Render(fmt.Sprintf("rejected %d", c.Rejected)),
		styles.Rejected.Render(fmt.Sprintf("auto-rejected %d", c.RejectedAuto)),
		styles.Unsure.Render(fmt.Sprintf("unsure %d", c.Unsure)),
	}, "  ")
}

// RenderBoundary lists up to limit marginal items on each side.
func RenderBoundary(r boundary.Result, limit int) string {
	var b strings.Builder
	side := func(title string, style lipgloss.Style, items []boundary.Ranked) {
		b.WriteString(style.Render(title) + "\n")
		if len(items) == 0 {
			b.WriteString(styles.Muted.Render("  (none)") + "\n")
			return
		}
		for i, it := range items {
			if i == limit {
				fmt.Fprintf(&b, "  ... %d more\n", len(items)-limit)
				break
			}
			fmt.Fprintf(&b, "  #%d  %+.3f\n", it.ID, it.Score)
		}
	}
	side("select above", styles.Selected, r.SelectAbove)
	side("reject below", styles.Rejected, r.RejectBelow)
	return strings.TrimRight(b.String(), "\n")
}

// RenderContent shows one item's code.
func RenderContent(c model.Content) string {
	header := styles.Title.Render(fmt.Sprintf("#%d", c.ID)) + " " + styles.Muted.Render(c.Language)
	return header + "\n" + c.Code
}
