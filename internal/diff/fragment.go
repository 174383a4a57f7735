// Package diff handles parsing unified diff text into structured line records
// and splitting raw multi-file diffs into per-file changes.
package diff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chipkajb/mr-bot/internal/model"
)

// ErrMalformedDiff reports fragment text that does not start with a
// recognizable unified-diff header structure.
var ErrMalformedDiff = errors.New("malformed diff")

// hunkHeaderRe matches `@@ -old[,count] +new[,count] @@`.
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// metadata lines that may precede the first hunk of a git-style fragment
var fragmentHeaderPrefixes = []string{
	"diff --git",
	"index ",
	"new file mode",
	"deleted file mode",
	"old mode",
	"new mode",
	"similarity index",
	"dissimilarity index",
	"rename from",
	"rename to",
	"copy from",
	"copy to",
	"Binary files",
	"GIT binary patch",
	"--- ",
	"+++ ",
}

// ParseFragment parses the unified diff text for a single file into an
// ordered sequence of line records. Header and hunk lines are consumed to
// track line numbers on each side and are not emitted. Empty or
// whitespace-only input yields an empty sequence (a permissions-only or
// empty-file change), not an error. Text that begins with anything other
// than diff headers or a hunk header fails with ErrMalformedDiff.
func ParseFragment(text string) ([]model.LineRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var records []model.LineRecord

	// remaining line counts of the current hunk; the hunk is open while
	// either side still expects lines
	oldRem, newRem := 0, 0
	oldNext, newNext := 0, 0
	seenHunk := false

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
			oldNext = atoiDefault(m[1], 1)
			oldRem = atoiDefault(m[2], 1)
			newNext = atoiDefault(m[3], 1)
			newRem = atoiDefault(m[4], 1)
			seenHunk = true
			continue
		}

		inHunk := seenHunk && (oldRem > 0 || newRem > 0)
		if !inHunk {
			// between hunks only headers, hint lines, and trailing
			// blanks are expected
			if line == "" || strings.HasPrefix(line, "\\") {
				continue
			}
			if !seenHunk && isFragmentHeader(line) {
				continue
			}
			return nil, fmt.Errorf("%w: unexpected line %d: %q", ErrMalformedDiff, i+1, truncate(line, 60))
		}

		switch {
		case strings.HasPrefix(line, "\\"):
			// "\ No newline at end of file" is not a content line
		case strings.HasPrefix(line, "+"):
			records = append(records, model.LineRecord{
				NewLine: newNext,
				Kind:    model.LineAdded,
				Text:    line[1:],
			})
			newNext++
			newRem--
		case strings.HasPrefix(line, "-"):
			records = append(records, model.LineRecord{
				OldLine: oldNext,
				Kind:    model.LineRemoved,
				Text:    line[1:],
			})
			oldNext++
			oldRem--
		default:
			// " "-prefixed, or unprefixed within a hunk
			text := line
			if strings.HasPrefix(line, " ") {
				text = line[1:]
			}
			records = append(records, model.LineRecord{
				OldLine: oldNext,
				NewLine: newNext,
				Kind:    model.LineContext,
				Text:    text,
			})
			oldNext++
			newNext++
			oldRem--
			newRem--
		}
	}

	if !seenHunk {
		// headers only, e.g. a binary file or pure mode change
		return nil, nil
	}

	return records, nil
}

func isFragmentHeader(line string) bool {
	for _, p := range fragmentHeaderPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	// bare "---" / "+++" without a path
	return line == "---" || line == "+++"
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// Render serializes line records back to diff-formatted text, one prefixed
// line per record.
func Render(records []model.LineRecord) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.Kind.Prefix())
		b.WriteString(r.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
