// Package output serializes a review manifest into the on-disk layout the
// review agent consumes: one diff artifact per chunk, a skip listing, a
// priority-grouped review prompt, and request metadata.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chipkajb/mr-bot/internal/diff"
	"github.com/chipkajb/mr-bot/internal/model"
)

// Generator writes review artifacts under Dir.
type Generator struct {
	Dir string
	log *zap.Logger
}

// New returns a generator writing under dir.
func New(dir string, log *zap.Logger) *Generator {
	return &Generator{Dir: dir, log: log}
}

// WriteAll writes every artifact for the run and returns the output
// directory path.
func (g *Generator) WriteAll(req model.ReviewRequest, man *model.Manifest) (string, error) {
	diffsDir := filepath.Join(g.Dir, "diffs")
	if err := os.MkdirAll(diffsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if err := g.writeRequestInfo(req); err != nil {
		return "", err
	}
	if err := g.writePrompt(req, man); err != nil {
		return "", err
	}
	if err := g.writeSkipped(man); err != nil {
		return "", err
	}
	if err := g.writeDiffs(diffsDir, man); err != nil {
		return "", err
	}

	g.log.Info("review artifacts written",
		zap.String("dir", g.Dir),
		zap.Int("kept", man.TotalKept()),
		zap.Int("chunks", man.TotalChunks()),
		zap.Int("skipped", len(man.Skipped)))

	return g.Dir, nil
}

// ChunkFileName returns the deterministic artifact name for a chunk. Path
// separators collapse to double underscores; the chunk index is appended
// only when the file was split.
func ChunkFileName(c model.Chunk) string {
	flat := strings.NewReplacer("/", "__", "\\", "__").Replace(c.Path)
	if c.Total > 1 {
		return fmt.Sprintf("%s_chunk_%d.diff", flat, c.Seq)
	}
	return flat + ".diff"
}

// FormatChunk renders one chunk as standalone diff-formatted text: a comment
// header, optional leading context, the owned lines, and optional trailing
// context.
func FormatChunk(c model.Chunk, startLine, endLine int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Diff: %s", c.Path)
	if c.Total > 1 {
		fmt.Fprintf(&b, " (Chunk %d of %d)", c.Seq, c.Total)
	}
	fmt.Fprintf(&b, "\n# Lines %d-%d\n\n", startLine, endLine)

	if len(c.LeadingContext) > 0 {
		b.WriteString("# ... context from previous chunk ...\n")
		b.WriteString(diff.Render(c.LeadingContext))
	}
	b.WriteString(diff.Render(c.Lines))
	if len(c.TrailingContext) > 0 {
		b.WriteString("# ... context continues in next chunk ...\n")
		b.WriteString(diff.Render(c.TrailingContext))
	}

	return b.String()
}

func (g *Generator) writeDiffs(diffsDir string, man *model.Manifest) error {
	for _, rf := range man.Files() {
		start := 1
		for _, c := range rf.Chunks {
			end := start + len(c.Lines) - 1
			if len(c.Lines) == 0 {
				end = start
			}
			path := filepath.Join(diffsDir, ChunkFileName(c))
			if err := os.WriteFile(path, []byte(FormatChunk(c, start, end)), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			start += len(c.Lines)
		}
	}
	return nil
}

func (g *Generator) writeRequestInfo(req model.ReviewRequest) error {
	var b strings.Builder

	b.WriteString("# Merge Request Information\n\n")
	b.WriteString("## Basic Info\n")
	fmt.Fprintf(&b, "- **ID**: %s\n", req.ID)
	fmt.Fprintf(&b, "- **Title**: %s\n", req.Title)
	fmt.Fprintf(&b, "- **Author**: %s\n", req.Author)
	if req.SourceBranch != "" {
		fmt.Fprintf(&b, "- **Source Branch**: `%s`\n", req.SourceBranch)
		fmt.Fprintf(&b, "- **Target Branch**: `%s`\n", req.TargetBranch)
	}
	if req.WebURL != "" {
		fmt.Fprintf(&b, "- **URL**: %s\n", req.WebURL)
	}
	if req.Description != "" {
		fmt.Fprintf(&b, "\n## Description\n\n%s\n", req.Description)
	}

	name := fmt.Sprintf("MR_%s_info.md", req.ID)
	return os.WriteFile(filepath.Join(g.Dir, name), []byte(b.String()), 0o644)
}

func (g *Generator) writeSkipped(man *model.Manifest) error {
	var b strings.Builder

	b.WriteString("# Skipped Files\n\n")
	if len(man.Skipped) == 0 {
		b.WriteString("No files were skipped.\n")
	} else {
		b.WriteString("These files were excluded from review:\n\n")
		for _, s := range man.Skipped {
			fmt.Fprintf(&b, "- `%s` — %s (%s)\n", s.Change.Path, s.Reason, s.Category)
		}
	}

	return os.WriteFile(filepath.Join(g.Dir, "skipped_files.md"), []byte(b.String()), 0o644)
}

func (g *Generator) writePrompt(req model.ReviewRequest, man *model.Manifest) error {
	var b strings.Builder

	b.WriteString("# Code Review Instructions\n\n")
	b.WriteString("## Role\n")
	b.WriteString("You are a senior code reviewer. Conduct a thorough, constructive review of the changes below.\n\n")
	b.WriteString("## What to Look For\n")
	b.WriteString("1. **Bugs & logic errors** — edge cases, off-by-one, state problems, race conditions\n")
	b.WriteString("2. **Security** — injection, auth flaws, sensitive data exposure\n")
	b.WriteString("3. **Performance** — inefficient algorithms, N+1 queries, resource cleanup\n")
	b.WriteString("4. **Maintainability** — duplication, unclear naming, missing tests\n\n")

	fmt.Fprintf(&b, "## Change Set\n\n**%s** by %s (`%s` → `%s`)\n\n",
		req.Title, req.Author, req.SourceBranch, req.TargetBranch)

	for _, tier := range model.Tiers() {
		files := man.Kept[tier]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s Priority (%d files)\n\n", titleCase(tier.String()), len(files))
		for _, rf := range files {
			fmt.Fprintf(&b, "- `%s` (+%d -%d", rf.Change.Path, rf.Change.Additions, rf.Change.Deletions)
			if len(rf.Chunks) > 1 {
				fmt.Fprintf(&b, ", %d chunks", len(rf.Chunks))
			}
			b.WriteString(")\n")
			for _, c := range rf.Chunks {
				fmt.Fprintf(&b, "  - diffs/%s\n", ChunkFileName(c))
			}
		}
		b.WriteByte('\n')
	}

	return os.WriteFile(filepath.Join(g.Dir, "review_prompt.md"), []byte(b.String()), 0o644)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
