package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/taskblaster/internal/orchestrator"
)

// columnPane renders one board column.
type columnPane struct {
	column   orchestrator.ColumnView
	selected int // -1 when the column is not focused
	width    int
	height   int
}

func (p columnPane) View() string {
	if p.width < 6 || p.height < 3 {
		return ""
	}
	inner := p.width - 2

	var b strings.Builder
	header := fmt.Sprintf("%s (%d)", p.column.Status, len(p.column.Tasks))
	b.WriteString(statusStyle(p.column.Status).Render(truncate(header, inner)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", inner))
	b.WriteString("\n")

	// Two lines per card; scroll so the selection stays visible.
	visible := max(1, (p.height-4)/2)
	start := 0
	if p.selected >= visible {
		start = p.selected - visible + 1
	}
	for i := start; i < len(p.column.Tasks) && i < start+visible; i++ {
		t := p.column.Tasks[i]
		style := StyleCard
		if i == p.selected {
			style = StyleCardSelected
		}
		title := truncate(t.Title, inner-2)
		if t.IsBlocked {
			title = StyleBlocked.Render(truncate("⊘ "+t.Title, inner-2))
		}
		meta := t.DisplayID + " " + string(t.Priority)
		if len(t.Tags) > 0 {
			meta += " #" + strings.Join(t.Tags, " #")
		}
		b.WriteString(style.Width(inner).Render(title))
		b.WriteString("\n")
		b.WriteString(style.Width(inner).Render(priorityStyle(t.Priority).Render(truncate(meta, inner-2))))
		b.WriteString("\n")
	}

	border := StyleUnfocusedBorder
	if p.selected >= 0 {
		border = StyleFocusedBorder
	}
	return border.
		Width(inner).
		Height(p.height - 2).
		Render(b.String())
}

// truncate shortens plain text s to width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
