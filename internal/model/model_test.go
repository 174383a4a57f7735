package model

import (
	"testing"
)

func TestTierString(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierCritical, "critical"},
		{TierNormal, "normal"},
		{TierLow, "low"},
	}
	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestSkipCategoryString(t *testing.T) {
	tests := []struct {
		cat  SkipCategory
		want string
	}{
		{SkipLock, "lock"},
		{SkipBuildArtifact, "build-artifact"},
		{SkipGenerated, "generated"},
		{SkipBinary, "binary"},
		{SkipOversizedData, "oversized-data"},
		{SkipParseError, "parse-error"},
		{SkipCategory(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("SkipCategory(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestLineKindPrefix(t *testing.T) {
	if LineAdded.Prefix() != "+" || LineRemoved.Prefix() != "-" || LineContext.Prefix() != " " {
		t.Errorf("unexpected line prefixes: %q %q %q",
			LineAdded.Prefix(), LineRemoved.Prefix(), LineContext.Prefix())
	}
}

func TestFileChangeName(t *testing.T) {
	fc := FileChange{Path: "b.go", OldPath: "a.go", Kind: ChangeRenamed}
	if fc.Name() != "a.go → b.go" {
		t.Errorf("rename name = %q", fc.Name())
	}

	fc = FileChange{Path: "main.go", Kind: ChangeModified}
	if fc.Name() != "main.go" {
		t.Errorf("name = %q", fc.Name())
	}
}

func TestManifestTotals(t *testing.T) {
	m := NewManifest()
	m.Kept[TierCritical] = []ReviewFile{
		{Change: FileChange{Path: "auth.go"}, Tier: TierCritical, Chunks: make([]Chunk, 3)},
	}
	m.Kept[TierNormal] = []ReviewFile{
		{Change: FileChange{Path: "a.go"}, Tier: TierNormal, Chunks: make([]Chunk, 1)},
		{Change: FileChange{Path: "b.go"}, Tier: TierNormal, Chunks: make([]Chunk, 1)},
	}
	m.Skipped = []SkipEntry{{Change: FileChange{Path: "x.lock"}, Category: SkipLock}}

	if m.TotalKept() != 3 {
		t.Errorf("TotalKept = %d, want 3", m.TotalKept())
	}
	if m.TotalChunks() != 5 {
		t.Errorf("TotalChunks = %d, want 5", m.TotalChunks())
	}

	files := m.Files()
	if len(files) != 3 || files[0].Change.Path != "auth.go" {
		t.Errorf("Files() order wrong: %+v", files)
	}
}
