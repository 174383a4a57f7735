package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chipkajb/mr-bot/internal/model"
)

func TestChunkFileName(t *testing.T) {
	single := model.Chunk{Path: "src/auth/login.py", Seq: 1, Total: 1}
	assert.Equal(t, "src__auth__login.py.diff", ChunkFileName(single))

	multi := model.Chunk{Path: "src/auth/login.py", Seq: 2, Total: 3}
	assert.Equal(t, "src__auth__login.py_chunk_2.diff", ChunkFileName(multi))
}

func TestFormatChunk(t *testing.T) {
	c := model.Chunk{
		Path:  "a.go",
		Seq:   2,
		Total: 3,
		Lines: []model.LineRecord{
			{NewLine: 301, Kind: model.LineAdded, Text: "x := 1"},
		},
		LeadingContext: []model.LineRecord{
			{OldLine: 300, NewLine: 300, Kind: model.LineContext, Text: "func init() {"},
		},
		TrailingContext: []model.LineRecord{
			{NewLine: 302, Kind: model.LineAdded, Text: "y := 2"},
		},
	}

	out := FormatChunk(c, 301, 301)
	assert.Contains(t, out, "# Diff: a.go (Chunk 2 of 3)")
	assert.Contains(t, out, "# Lines 301-301")
	assert.Contains(t, out, "# ... context from previous chunk ...\n func init() {")
	assert.Contains(t, out, "+x := 1")
	assert.Contains(t, out, "# ... context continues in next chunk ...\n+y := 2")
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()

	man := model.NewManifest()
	man.Kept[model.TierCritical] = []model.ReviewFile{{
		Change: model.FileChange{Path: "auth/login.go", Additions: 2},
		Tier:   model.TierCritical,
		Chunks: []model.Chunk{
			{Path: "auth/login.go", Seq: 1, Total: 2, Lines: []model.LineRecord{{Kind: model.LineAdded, Text: "a", NewLine: 1}}},
			{Path: "auth/login.go", Seq: 2, Total: 2, Lines: []model.LineRecord{{Kind: model.LineAdded, Text: "b", NewLine: 2}}},
		},
	}}
	man.Skipped = []model.SkipEntry{
		{Change: model.FileChange{Path: "package-lock.json"}, Reason: "lock file", Category: model.SkipLock},
	}

	req := model.ReviewRequest{ID: "42", Title: "Add login", Author: "ada", SourceBranch: "feat", TargetBranch: "main"}

	g := New(dir, zap.NewNop())
	out, err := g.WriteAll(req, man)
	require.NoError(t, err)
	assert.Equal(t, dir, out)

	// metadata
	info, err := os.ReadFile(filepath.Join(dir, "MR_42_info.md"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "Add login")

	// prompt groups by priority and lists chunk artifacts
	prompt, err := os.ReadFile(filepath.Join(dir, "review_prompt.md"))
	require.NoError(t, err)
	assert.Contains(t, string(prompt), "Critical Priority (1 files)")
	assert.Contains(t, string(prompt), "diffs/auth__login.go_chunk_1.diff")

	// skip listing
	skipped, err := os.ReadFile(filepath.Join(dir, "skipped_files.md"))
	require.NoError(t, err)
	assert.Contains(t, string(skipped), "package-lock.json")
	assert.Contains(t, string(skipped), "(lock)")

	// one artifact per chunk, line ranges advance across chunks
	c1, err := os.ReadFile(filepath.Join(dir, "diffs", "auth__login.go_chunk_1.diff"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(c1), "# Lines 1-1"))

	c2, err := os.ReadFile(filepath.Join(dir, "diffs", "auth__login.go_chunk_2.diff"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(c2), "# Lines 2-2"))
}
