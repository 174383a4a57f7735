package chunk

import (
	"errors"
	"fmt"

	"github.com/chipkajb/mr-bot/internal/model"
)

// ErrBadConfig reports invalid chunking parameters. It is a configuration
// error, fatal to the run; limits are never silently clamped.
var ErrBadConfig = errors.New("invalid chunk configuration")

// Validate checks chunking parameters before any processing begins.
func Validate(maxSize, contextSize int) error {
	if maxSize <= 0 {
		return fmt.Errorf("%w: max chunk size must be positive, got %d", ErrBadConfig, maxSize)
	}
	if contextSize < 0 {
		return fmt.Errorf("%w: context size must not be negative, got %d", ErrBadConfig, contextSize)
	}
	return nil
}

// lookbackDivisor bounds how far back from the size target the chunker will
// move a split to reach a structural boundary.
const lookbackDivisor = 4

// Split partitions records into chunks of at most maxSize lines each,
// splitting at the best structural boundary within the lookback window and
// forcing a split at the exact size limit when no boundary exists. Each
// interior boundary gets up to contextSize lines of overlap copied into the
// neighboring chunks' leading/trailing context. Concatenating the Lines of
// the returned chunks reproduces records exactly.
func Split(path string, records []model.LineRecord, maxSize, contextSize int) ([]model.Chunk, error) {
	if err := Validate(maxSize, contextSize); err != nil {
		return nil, err
	}

	if len(records) <= maxSize {
		return []model.Chunk{{
			Path:  path,
			Seq:   1,
			Total: 1,
			Lines: records,
		}}, nil
	}

	breakpoints := Find(records)

	var bounds []int // split positions, exclusive end of each chunk
	start := 0
	for len(records)-start > maxSize {
		target := start + maxSize
		bp := pick(breakpoints, start, target, maxSize/lookbackDivisor)
		bounds = append(bounds, bp.Index)
		start = bp.Index
	}
	bounds = append(bounds, len(records))

	chunks := make([]model.Chunk, 0, len(bounds))
	prev := 0
	for i, end := range bounds {
		c := model.Chunk{
			Path:  path,
			Seq:   i + 1,
			Total: len(bounds),
			Lines: records[prev:end],
		}
		if prev > 0 {
			lead := prev - contextSize
			if lead < 0 {
				lead = 0
			}
			c.LeadingContext = records[lead:prev]
		}
		if end < len(records) {
			trail := end + contextSize
			if trail > len(records) {
				trail = len(records)
			}
			c.TrailingContext = records[end:trail]
		}
		chunks = append(chunks, c)
		prev = end
	}

	return chunks, nil
}

// pick chooses the split position for a chunk starting at start with size
// target at target. Candidates must fall in (start, target] and within the
// lookback window before target; the highest score wins and ties go to the
// position closest to the target, keeping chunks as full as possible. With
// no eligible candidate the split is forced at the target.
func pick(breakpoints []model.Breakpoint, start, target, lookback int) model.Breakpoint {
	low := target - lookback
	if low < start+1 {
		low = start + 1
	}

	best := model.Breakpoint{Index: target, Score: 0, Kind: model.BreakForced}
	found := false
	for _, bp := range breakpoints {
		if bp.Index < low || bp.Index > target {
			continue
		}
		// later position wins a tie; iteration is index-ascending
		if !found || bp.Score > best.Score || (bp.Score == best.Score && bp.Index > best.Index) {
			best = bp
			found = true
		}
	}
	return best
}
