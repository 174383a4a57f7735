package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chipkajb/mr-bot/internal/model"
)

// renderedLine is a single display line of a chunk view.
type renderedLine struct {
	OldNum  int // 0 means not applicable
	NewNum  int
	Kind    model.LineKind
	Content string
	Overlap bool // line is boundary context, not owned by this chunk
	Tokens  []token
}

// renderChunk produces display lines for one chunk: leading context, owned
// lines, trailing context.
func renderChunk(path string, c model.Chunk) []renderedLine {
	all := make([]model.LineRecord, 0, len(c.LeadingContext)+len(c.Lines)+len(c.TrailingContext))
	all = append(all, c.LeadingContext...)
	all = append(all, c.Lines...)
	all = append(all, c.TrailingContext...)

	highlighted := highlightRecords(path, all)

	lines := make([]renderedLine, 0, len(all))
	for i, rec := range all {
		lines = append(lines, renderedLine{
			OldNum:  rec.OldLine,
			NewNum:  rec.NewLine,
			Kind:    rec.Kind,
			Content: rec.Text,
			Overlap: i < len(c.LeadingContext) || i >= len(c.LeadingContext)+len(c.Lines),
			Tokens:  highlighted[i],
		})
	}
	return lines
}

// styleLine renders one display line with gutter numbers and diff coloring.
func styleLine(rl renderedLine, width int) string {
	oldNum, newNum := " ", " "
	if rl.OldNum > 0 {
		oldNum = fmt.Sprintf("%d", rl.OldNum)
	}
	if rl.NewNum > 0 {
		newNum = fmt.Sprintf("%d", rl.NewNum)
	}
	gutter := lineNumberStyle.Render(oldNum) + " " + lineNumberStyle.Render(newNum) + " "

	prefix := rl.Kind.Prefix()
	content := renderContent(rl, prefix)

	var style lipgloss.Style
	switch {
	case rl.Overlap:
		style = overlapLineStyle
	case rl.Kind == model.LineAdded:
		style = addedLineStyle
	case rl.Kind == model.LineRemoved:
		style = deletedLineStyle
	default:
		style = contextLineStyle
	}

	line := gutter + style.Render(content)
	if w := lipgloss.Width(line); w > width && width > 0 {
		line = truncateANSI(line, width)
	}
	return line
}

// renderContent applies syntax tokens to context lines; added and removed
// lines keep their uniform diff color so the change stays visible.
func renderContent(rl renderedLine, prefix string) string {
	if len(rl.Tokens) == 0 || rl.Kind != model.LineContext || rl.Overlap {
		return prefix + rl.Content
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, tok := range rl.Tokens {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

// truncateANSI cuts a styled string to the given display width.
func truncateANSI(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	// walk runes, skipping escape sequences, until the width is reached
	var b strings.Builder
	visible := 0
	inEscape := false
	for _, r := range s {
		if inEscape {
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			b.WriteRune(r)
			inEscape = true
			continue
		}
		if visible >= width-1 {
			b.WriteRune('…')
			break
		}
		b.WriteRune(r)
		visible++
	}
	return b.String() + "\x1b[0m"
}
