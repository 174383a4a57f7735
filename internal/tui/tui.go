// Package tui implements the Bubble Tea preview interface for a prepared
// review manifest.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chipkajb/mr-bot/internal/model"
)

// Model is the top-level Bubble Tea model for the manifest preview.
type Model struct {
	manifest *model.Manifest
	files    []model.ReviewFile // flattened, tier order

	// UI state
	width  int
	height int

	fileIndex    int
	chunkIndex   int
	scrollOffset int

	lines []renderedLine // rendered lines for the current chunk

	showHelp bool
}

// New creates a preview model from a manifest.
func New(man *model.Manifest) Model {
	m := Model{
		manifest: man,
		files:    man.Files(),
	}
	m.updateLines()
	return m
}

func (m *Model) currentFile() *model.ReviewFile {
	if len(m.files) == 0 {
		return nil
	}
	return &m.files[m.fileIndex]
}

func (m *Model) updateLines() {
	rf := m.currentFile()
	if rf == nil || len(rf.Chunks) == 0 {
		m.lines = nil
		return
	}
	c := rf.Chunks[m.chunkIndex]
	m.lines = renderChunk(rf.Change.Path, c)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.scrollOffset < len(m.lines)-1 {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.Up):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.NextFile):
			if m.fileIndex < len(m.files)-1 {
				m.fileIndex++
				m.chunkIndex = 0
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.PrevFile):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.chunkIndex = 0
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.NextChunk):
			if rf := m.currentFile(); rf != nil && m.chunkIndex < len(rf.Chunks)-1 {
				m.chunkIndex++
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.PrevChunk):
			if m.chunkIndex > 0 {
				m.chunkIndex--
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	fileListWidth := m.fileListWidth()
	chunkWidth := m.width - fileListWidth - 1

	fileList := m.renderFileList(fileListWidth, m.height-2)
	chunkView := m.renderChunkView(chunkWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", chunkView)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) fileListWidth() int {
	maxLen := 20
	for _, rf := range m.files {
		if n := len(rf.Change.Name()); n > maxLen {
			maxLen = n
		}
	}
	w := maxLen + 10
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	idx := 0
	for _, tier := range model.Tiers() {
		files := m.manifest.Kept[tier]
		if len(files) == 0 {
			continue
		}
		b.WriteString(tierHeaderStyle.Render(strings.ToUpper(tier.String())))
		b.WriteByte('\n')

		for range files {
			rf := m.files[idx]
			name := rf.Change.Name()
			maxName := width - 10
			if maxName > 0 && len(name) > maxName {
				name = "…" + name[len(name)-maxName+1:]
			}

			line := name
			if n := len(rf.Chunks); n > 1 {
				line = fmt.Sprintf("%s (%d)", name, n)
			}

			style := tierStyle(tier)
			if idx == m.fileIndex {
				style = fileItemSelectedStyle
			}
			b.WriteString(style.Width(width - 4).Render(line))
			b.WriteByte('\n')
			idx++
		}
	}

	if idx == 0 {
		b.WriteString(fileItemStyle.Render("No files to review"))
	}

	return fileListStyle.Width(width).Height(height - 2).Render(strings.TrimRight(b.String(), "\n"))
}

func tierStyle(t model.Tier) lipgloss.Style {
	switch t {
	case model.TierCritical:
		return tierCriticalStyle
	case model.TierLow:
		return tierLowStyle
	default:
		return tierNormalStyle
	}
}

func (m Model) renderChunkView(width, height int) string {
	innerHeight := height - 2
	rf := m.currentFile()
	if rf == nil {
		return chunkViewStyle.Width(width).Height(innerHeight).Render("No changes")
	}

	c := rf.Chunks[m.chunkIndex]
	header := rf.Change.Name()
	if c.Total > 1 {
		header = fmt.Sprintf("%s — chunk %d/%d", header, c.Seq, c.Total)
	}

	var b strings.Builder
	b.WriteString(chunkHeaderStyle.Render(header))
	b.WriteByte('\n')

	visible := innerHeight - 2
	if visible < 1 {
		visible = 1
	}
	end := m.scrollOffset + visible
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], width-4))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return chunkViewStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf(" File %d/%d", m.fileIndex+1, len(m.files))
	if rf := m.currentFile(); rf != nil && len(rf.Chunks) > 1 {
		left += fmt.Sprintf("  Chunk %d/%d", m.chunkIndex+1, len(rf.Chunks))
	}
	if len(m.lines) > 0 {
		left += fmt.Sprintf("  Line %d/%d", m.scrollOffset+1, len(m.lines))
	}

	right := fmt.Sprintf("%d kept  %d skipped  ? help ",
		m.manifest.TotalKept(), len(m.manifest.Skipped))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(chunkHeaderStyle.Render("mrbot preview — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Scroll up"},
		{"↓/j", "Scroll down"},
		{"n/Tab", "Next file"},
		{"N/S-Tab", "Previous file"},
		{"]", "Next chunk"},
		{"[", "Previous chunk"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run starts the preview application.
func Run(man *model.Manifest) error {
	m := New(man)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
