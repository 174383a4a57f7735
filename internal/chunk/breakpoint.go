// Package chunk partitions parsed diff fragments into size-bounded chunks,
// preferring split points that fall on structural boundaries (blank lines,
// construct definitions, closing delimiters) over arbitrary positions.
package chunk

import (
	"regexp"
	"strings"

	"github.com/chipkajb/mr-bot/internal/model"
)

// Breakpoint scores. Construct boundaries beat closing delimiters beat blank
// lines; a forced split scores zero.
const (
	scoreBlank     = 3
	scoreClosing   = 4
	scoreConstruct = 5
)

// constructPatterns matches lines that begin a named construct in common
// languages. This is a heuristic over raw text, not a parser: false matches
// are acceptable, the chunker only prefers these positions.
var constructPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(async\s+)?def\s`),                               // Python
	regexp.MustCompile(`^class\s`),                                       // Python, Ruby, JS, Java...
	regexp.MustCompile(`^(export\s+)?(default\s+)?(async\s+)?function\b`), // JS/TS
	regexp.MustCompile(`^func\s`),                                        // Go
	regexp.MustCompile(`^(pub\s+)?(async\s+)?fn\s`),                      // Rust
	regexp.MustCompile(`^impl\b`),                                        // Rust
	regexp.MustCompile(`^(public|private|protected)\s`),                  // Java, C#, PHP
	regexp.MustCompile(`^(module|interface|struct|enum|trait)\s`),
	regexp.MustCompile(`^@\w`), // decorators and annotations
}

// closingDelimiterRe matches lines that consist solely of closing delimiters,
// optionally followed by punctuation: `}`, `});`, `]`, `),` and the like.
var closingDelimiterRe = regexp.MustCompile(`^[}\])]+[,;]?$`)

// Find returns the candidate split positions for a record sequence, sorted
// by index ascending, at most one per index. A breakpoint at index i
// proposes that a new chunk start with records[i]: construct definitions
// break before themselves, while blank lines and closing delimiters break
// after themselves so they close out the preceding chunk.
func Find(records []model.LineRecord) []model.Breakpoint {
	byIndex := make(map[int]model.Breakpoint)

	propose := func(bp model.Breakpoint) {
		if prev, ok := byIndex[bp.Index]; ok && prev.Score >= bp.Score {
			return
		}
		byIndex[bp.Index] = bp
	}

	for i, rec := range records {
		trimmed := strings.TrimSpace(rec.Text)
		switch {
		case trimmed == "":
			propose(model.Breakpoint{Index: i + 1, Score: scoreBlank, Kind: model.BreakBlank})
		case matchesConstruct(trimmed):
			propose(model.Breakpoint{Index: i, Score: scoreConstruct, Kind: model.BreakConstruct})
		case closingDelimiterRe.MatchString(trimmed):
			propose(model.Breakpoint{Index: i + 1, Score: scoreClosing, Kind: model.BreakClosing})
		}
	}

	out := make([]model.Breakpoint, 0, len(byIndex))
	for i := 0; i <= len(records); i++ {
		if bp, ok := byIndex[i]; ok {
			out = append(out, bp)
		}
	}
	return out
}

func matchesConstruct(trimmed string) bool {
	for _, re := range constructPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
