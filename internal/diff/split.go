package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/chipkajb/mr-bot/internal/model"
)

// Split parses a raw multi-file unified diff (as produced by `git diff`) and
// returns one FileChange per file, preserving source order. Binary files are
// carried with empty diff text so the classifier can still skip them by path.
func Split(raw string) ([]model.FileChange, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	changes := make([]model.FileChange, 0, len(parsed))
	for _, f := range parsed {
		fc := model.FileChange{
			Path: f.NewName,
			Kind: model.ChangeModified,
		}
		switch {
		case f.IsNew:
			fc.Kind = model.ChangeAdded
		case f.IsDelete:
			fc.Kind = model.ChangeDeleted
			fc.Path = f.OldName
		case f.IsRename:
			fc.Kind = model.ChangeRenamed
			fc.OldPath = f.OldName
		}
		if fc.Path == "" {
			fc.Path = f.OldName
		}

		if !f.IsBinary {
			fc.Diff = formatFragments(f)
			for _, frag := range f.TextFragments {
				for _, line := range frag.Lines {
					switch line.Op {
					case gitdiff.OpAdd:
						fc.Additions++
					case gitdiff.OpDelete:
						fc.Deletions++
					}
				}
			}
		}
		fc.SizeBytes = int64(len(fc.Diff))

		changes = append(changes, fc)
	}

	return changes, nil
}

// formatFragments renders a parsed file back to standalone fragment text:
// `---`/`+++` headers followed by each hunk.
func formatFragments(f *gitdiff.File) string {
	var b strings.Builder

	oldName, newName := "/dev/null", "/dev/null"
	if !f.IsNew {
		oldName = "a/" + f.OldName
	}
	if !f.IsDelete {
		newName = "b/" + f.NewName
	}
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)

	for _, frag := range f.TextFragments {
		b.WriteString(formatHunkHeader(frag))
		b.WriteByte('\n')
		for _, line := range frag.Lines {
			b.WriteString(line.Op.String())
			b.WriteString(strings.TrimRight(line.Line, "\n"))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func formatHunkHeader(frag *gitdiff.TextFragment) string {
	old := fmt.Sprintf("-%d", frag.OldPosition)
	if frag.OldLines != 1 {
		old += fmt.Sprintf(",%d", frag.OldLines)
	}
	new := fmt.Sprintf("+%d", frag.NewPosition)
	if frag.NewLines != 1 {
		new += fmt.Sprintf(",%d", frag.NewLines)
	}

	header := fmt.Sprintf("@@ %s %s @@", old, new)
	if frag.Comment != "" {
		header += " " + frag.Comment
	}
	return header
}
