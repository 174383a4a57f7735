// Package model defines the core data types shared across mrbot.
package model

// ChangeKind categorizes how a file changed.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota
	ChangeAdded
	ChangeDeleted
	ChangeRenamed
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	case ChangeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// FileChange is one changed file in a merge request, with its raw diff text.
type FileChange struct {
	Path      string // new path; for deletions, the old path
	OldPath   string // set for renames
	Kind      ChangeKind
	Diff      string // unified diff fragment for this file only
	SizeBytes int64  // byte length of the diff text
	Additions int
	Deletions int
}

// Name returns the display name for the change.
func (fc FileChange) Name() string {
	if fc.Kind == ChangeRenamed && fc.OldPath != "" {
		return fc.OldPath + " → " + fc.Path
	}
	return fc.Path
}

// LineKind tags a diff line as context, added, or removed.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

func (k LineKind) String() string {
	switch k {
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "context"
	}
}

// Prefix returns the unified-diff prefix character for the line kind.
func (k LineKind) Prefix() string {
	switch k {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// LineRecord is one line of a parsed diff fragment. Text carries the line
// content without the diff prefix. OldLine and NewLine are 1-based positions
// in the old and new file; 0 means the line does not exist on that side.
type LineRecord struct {
	OldLine int
	NewLine int
	Kind    LineKind
	Text    string
}

// BreakKind categorizes a chunk split point.
type BreakKind int

const (
	BreakForced BreakKind = iota
	BreakBlank
	BreakConstruct
	BreakClosing
)

func (k BreakKind) String() string {
	switch k {
	case BreakBlank:
		return "blank-line"
	case BreakConstruct:
		return "construct-boundary"
	case BreakClosing:
		return "closing-delimiter"
	default:
		return "forced"
	}
}

// Breakpoint is a candidate split position in a line record sequence. A split
// at Index means the next chunk starts with the record at Index.
type Breakpoint struct {
	Index int
	Score int
	Kind  BreakKind
}

// Chunk is a size-bounded slice of a fragment's line records. Lines holds the
// records this chunk owns; concatenating Lines across a file's chunks in Seq
// order reproduces the parsed fragment exactly. LeadingContext and
// TrailingContext are display-only copies of neighboring records and are
// never counted toward the size limit.
type Chunk struct {
	Path            string
	Seq             int // 1-based, contiguous
	Total           int // same for every chunk of the file
	Lines           []LineRecord
	LeadingContext  []LineRecord
	TrailingContext []LineRecord
}

// Tier is the review priority bucket for a kept file.
type Tier int

const (
	TierCritical Tier = iota
	TierNormal
	TierLow
)

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierLow:
		return "low"
	default:
		return "normal"
	}
}

// Tiers lists all tiers in priority order. Iterating this instead of ranging
// over Manifest.Kept keeps output deterministic.
func Tiers() []Tier {
	return []Tier{TierCritical, TierNormal, TierLow}
}

// SkipCategory explains why a file was excluded from review.
type SkipCategory int

const (
	SkipLock SkipCategory = iota
	SkipBuildArtifact
	SkipGenerated
	SkipBinary
	SkipOversizedData
	SkipParseError
)

func (c SkipCategory) String() string {
	switch c {
	case SkipLock:
		return "lock"
	case SkipBuildArtifact:
		return "build-artifact"
	case SkipGenerated:
		return "generated"
	case SkipBinary:
		return "binary"
	case SkipOversizedData:
		return "oversized-data"
	case SkipParseError:
		return "parse-error"
	default:
		return "unknown"
	}
}

// ReviewFile is a kept file together with its chunks.
type ReviewFile struct {
	Change FileChange
	Tier   Tier
	Chunks []Chunk
}

// SkipEntry records a file excluded from review and why.
type SkipEntry struct {
	Change   FileChange
	Reason   string
	Category SkipCategory
}

// Manifest is the result of preparing a change set: kept files bucketed by
// tier (input order preserved within a tier) and skipped files in input order.
type Manifest struct {
	Kept    map[Tier][]ReviewFile
	Skipped []SkipEntry
}

// NewManifest returns an empty manifest with the tier map allocated.
func NewManifest() *Manifest {
	return &Manifest{Kept: map[Tier][]ReviewFile{}}
}

// Files returns all kept files in tier order, input order within a tier.
func (m *Manifest) Files() []ReviewFile {
	var out []ReviewFile
	for _, t := range Tiers() {
		out = append(out, m.Kept[t]...)
	}
	return out
}

// TotalKept returns the number of kept files.
func (m *Manifest) TotalKept() int {
	n := 0
	for _, t := range Tiers() {
		n += len(m.Kept[t])
	}
	return n
}

// TotalChunks returns the number of chunks across all kept files.
func (m *Manifest) TotalChunks() int {
	n := 0
	for _, t := range Tiers() {
		for _, rf := range m.Kept[t] {
			n += len(rf.Chunks)
		}
	}
	return n
}

// ReviewRequest holds merge request metadata passed through to output.
type ReviewRequest struct {
	ID           string
	Title        string
	Author       string
	SourceBranch string
	TargetBranch string
	Description  string
	WebURL       string
}
