// Package pipeline drives the review-preparation flow: classify each changed
// file, parse the kept ones, chunk oversized fragments, and collect the
// results into a priority-bucketed manifest.
package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chipkajb/mr-bot/internal/chunk"
	"github.com/chipkajb/mr-bot/internal/diff"
	"github.com/chipkajb/mr-bot/internal/model"
	"github.com/chipkajb/mr-bot/internal/rules"
)

// Options controls chunking and parallelism.
type Options struct {
	MaxSize     int // maximum chunk size in lines
	ContextSize int // overlap lines copied across chunk boundaries
	Workers     int // parallel file workers; <=0 means GOMAXPROCS
}

// result is the per-file outcome, held in an indexed slot so parallel
// execution cannot reorder output.
type result struct {
	skip *model.SkipEntry
	kept *model.ReviewFile
}

// Process runs every file change through classification, parsing, and
// chunking, and returns the manifest. Files are processed in parallel; the
// manifest preserves input order within each tier. A fragment that fails to
// parse is recorded as a parse-error skip and never aborts the batch. Invalid
// chunking options fail immediately, before any file is touched.
func Process(ctx context.Context, changes []model.FileChange, set *rules.Set, opts Options) (*model.Manifest, error) {
	if err := chunk.Validate(opts.MaxSize, opts.ContextSize); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]result, len(changes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, fc := range changes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := processOne(fc, set, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// sequential pass groups tier buckets in input order
	man := model.NewManifest()
	for _, r := range results {
		if r.skip != nil {
			man.Skipped = append(man.Skipped, *r.skip)
			continue
		}
		man.Kept[r.kept.Tier] = append(man.Kept[r.kept.Tier], *r.kept)
	}

	return man, nil
}

func processOne(fc model.FileChange, set *rules.Set, opts Options) (result, error) {
	d := set.Classify(fc.Path, fc.SizeBytes)
	if d.Skip {
		return result{skip: &model.SkipEntry{Change: fc, Reason: d.Reason, Category: d.Category}}, nil
	}

	records, err := diff.ParseFragment(fc.Diff)
	if err != nil {
		// isolated per-file failure: downgrade to a skip entry
		return result{skip: &model.SkipEntry{Change: fc, Reason: err.Error(), Category: model.SkipParseError}}, nil
	}

	chunks, err := chunk.Split(fc.Path, records, opts.MaxSize, opts.ContextSize)
	if err != nil {
		// options were validated up front; a failure here is a bug
		return result{}, err
	}

	return result{kept: &model.ReviewFile{Change: fc, Tier: d.Tier, Chunks: chunks}}, nil
}
