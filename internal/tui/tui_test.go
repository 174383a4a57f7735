package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chipkajb/mr-bot/internal/model"
)

func testManifest() *model.Manifest {
	man := model.NewManifest()
	man.Kept[model.TierCritical] = []model.ReviewFile{{
		Change: model.FileChange{Path: "auth/login.go"},
		Tier:   model.TierCritical,
		Chunks: []model.Chunk{
			{Path: "auth/login.go", Seq: 1, Total: 2, Lines: []model.LineRecord{{Kind: model.LineAdded, NewLine: 1, Text: "a := 1"}}},
			{Path: "auth/login.go", Seq: 2, Total: 2, Lines: []model.LineRecord{{Kind: model.LineAdded, NewLine: 2, Text: "b := 2"}}},
		},
	}}
	man.Kept[model.TierNormal] = []model.ReviewFile{{
		Change: model.FileChange{Path: "pkg/util.go"},
		Tier:   model.TierNormal,
		Chunks: []model.Chunk{
			{Path: "pkg/util.go", Seq: 1, Total: 1, Lines: []model.LineRecord{{Kind: model.LineContext, OldLine: 1, NewLine: 1, Text: "package util"}}},
		},
	}}
	return man
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewFlattensInTierOrder(t *testing.T) {
	m := New(testManifest())
	if len(m.files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(m.files))
	}
	if m.files[0].Change.Path != "auth/login.go" {
		t.Errorf("critical file should come first, got %s", m.files[0].Change.Path)
	}
}

func TestFileAndChunkNavigation(t *testing.T) {
	m := New(testManifest())

	// next chunk within the first file
	next, _ := m.Update(keyMsg("]"))
	m = next.(Model)
	if m.chunkIndex != 1 {
		t.Errorf("expected chunk index 1, got %d", m.chunkIndex)
	}

	// next file resets chunk index
	next, _ = m.Update(keyMsg("n"))
	m = next.(Model)
	if m.fileIndex != 1 || m.chunkIndex != 0 {
		t.Errorf("expected file 1 chunk 0, got file %d chunk %d", m.fileIndex, m.chunkIndex)
	}

	// navigation clamps at the end
	next, _ = m.Update(keyMsg("n"))
	m = next.(Model)
	if m.fileIndex != 1 {
		t.Errorf("file index should clamp, got %d", m.fileIndex)
	}
}

func TestViewShowsChunkPosition(t *testing.T) {
	m := New(testManifest())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "chunk 1/2") {
		t.Errorf("view should show chunk position:\n%s", view)
	}
	if !strings.Contains(view, "CRITICAL") {
		t.Errorf("view should show tier header")
	}
}

func TestHelpToggle(t *testing.T) {
	m := New(testManifest())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	next, _ = m.Update(keyMsg("?"))
	m = next.(Model)
	if !m.showHelp {
		t.Error("help should be shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help view missing shortcuts")
	}
}

func TestRenderChunkMarksOverlap(t *testing.T) {
	c := model.Chunk{
		Path:            "f.go",
		Seq:             2,
		Total:           2,
		Lines:           []model.LineRecord{{Kind: model.LineAdded, NewLine: 10, Text: "x"}},
		LeadingContext:  []model.LineRecord{{Kind: model.LineContext, OldLine: 9, NewLine: 9, Text: "prev"}},
		TrailingContext: nil,
	}

	lines := renderChunk("f.go", c)
	if len(lines) != 2 {
		t.Fatalf("expected 2 rendered lines, got %d", len(lines))
	}
	if !lines[0].Overlap {
		t.Error("leading context should be marked as overlap")
	}
	if lines[1].Overlap {
		t.Error("owned line should not be marked as overlap")
	}
}
