// Package rules decides which changed files are worth reviewing and at what
// priority. Classification is a pure function of the file path, the diff size,
// and a compiled rule set; skip rules always win over priority rules.
package rules

import (
	"fmt"
	"regexp"

	"github.com/chipkajb/mr-bot/internal/model"
)

// Decision is the outcome of classifying one file. Either Skip is true and
// Reason/Category say why, or the file is kept at Tier.
type Decision struct {
	Skip     bool
	Reason   string
	Category model.SkipCategory
	Tier     model.Tier
}

// skipRule excludes matching paths from review. A rule with sizeGated set
// only fires when the diff exceeds the set's oversize limit.
type skipRule struct {
	pattern   *regexp.Regexp
	reason    string
	category  model.SkipCategory
	sizeGated bool
}

// tierRule assigns a priority tier to matching paths.
type tierRule struct {
	pattern *regexp.Regexp
	tier    model.Tier
}

// Set is a compiled, read-only rule set. Build one with New and share it
// freely; Classify never mutates it.
type Set struct {
	skip     []skipRule
	tiers    []tierRule
	oversize int64 // byte ceiling for size-gated rules
}

// Options configures rule compilation. Extra patterns are regular expressions
// matched against the full file path; an invalid pattern fails compilation.
type Options struct {
	MaxFileSize   int64 // byte ceiling for data-file diffs; <=0 disables
	ExtraSkip     []string
	ExtraCritical []string
	ExtraLow      []string
}

// Built-in skip rules, evaluated in order: cheap extension checks first,
// then generated-code conventions, lock files, and finally the size-gated
// bulk-data rule.
var builtinSkip = []skipRule{
	// binaries and media
	{pattern: regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|ico|webp|bmp)$`), reason: "image file", category: model.SkipBinary},
	{pattern: regexp.MustCompile(`(?i)\.(pdf|zip|tar|gz|bz2|xz|7z)$`), reason: "binary/archive file", category: model.SkipBinary},
	{pattern: regexp.MustCompile(`(?i)\.(mp3|mp4|avi|mov|wmv)$`), reason: "media file", category: model.SkipBinary},
	{pattern: regexp.MustCompile(`(?i)\.(woff2?|ttf|eot|otf)$`), reason: "font file", category: model.SkipBinary},
	{pattern: regexp.MustCompile(`\.(pyc|pyo|class|o|so|dylib|exe)$`), reason: "compiled object", category: model.SkipBinary},

	// generated code
	{pattern: regexp.MustCompile(`_pb2(_grpc)?\.py$`), reason: "generated protobuf code", category: model.SkipGenerated},
	{pattern: regexp.MustCompile(`\.pb\.(go|js|ts)$`), reason: "generated protobuf code", category: model.SkipGenerated},
	{pattern: regexp.MustCompile(`\.generated\.`), reason: "generated code", category: model.SkipGenerated},
	{pattern: regexp.MustCompile(`_gen\.go$`), reason: "generated code", category: model.SkipGenerated},

	// build artifacts
	{pattern: regexp.MustCompile(`\.min\.(js|css)$`), reason: "minified file", category: model.SkipBuildArtifact},
	{pattern: regexp.MustCompile(`(^|/)(dist|build|target|node_modules)/`), reason: "build artifact", category: model.SkipBuildArtifact},
	{pattern: regexp.MustCompile(`(^|/)__pycache__/`), reason: "Python cache file", category: model.SkipBuildArtifact},
	{pattern: regexp.MustCompile(`\.egg-info/`), reason: "build artifact", category: model.SkipBuildArtifact},

	// lock files
	{pattern: regexp.MustCompile(`\.lock$`), reason: "lock file", category: model.SkipLock},
	{pattern: regexp.MustCompile(`(^|/)(package-lock\.json|yarn\.lock|pnpm-lock\.yaml|poetry\.lock|Pipfile\.lock|composer\.lock|Gemfile\.lock|Cargo\.lock|go\.sum)$`), reason: "lock file", category: model.SkipLock},

	// bulk data, only when the diff is over the configured ceiling
	{pattern: regexp.MustCompile(`(?i)\.(csv|tsv|parquet|jsonl|json\.gz|sql\.gz|ndjson)$`), reason: "large data file", category: model.SkipOversizedData, sizeGated: true},
}

var builtinTiers = []tierRule{
	{pattern: regexp.MustCompile(`(?i)(auth|security|payment|billing|crypt)`), tier: model.TierCritical},
	{pattern: regexp.MustCompile(`(?i)(middleware|config|settings|database|migration)`), tier: model.TierCritical},
	{pattern: regexp.MustCompile(`(?i)(test|spec|fixture|mock)`), tier: model.TierLow},
	{pattern: regexp.MustCompile(`(?i)\.(md|rst|txt)$`), tier: model.TierLow},
}

// New compiles a rule set from the built-in tables plus any extra patterns.
// An unparsable extra pattern is a configuration error and fails the whole
// set, before any file is classified.
func New(opts Options) (*Set, error) {
	s := &Set{
		skip:     builtinSkip,
		tiers:    nil,
		oversize: opts.MaxFileSize,
	}

	for _, p := range opts.ExtraSkip {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling skip pattern %q: %w", p, err)
		}
		s.skip = append(s.skip, skipRule{pattern: re, reason: "matches skip pattern", category: model.SkipBuildArtifact})
	}

	// extra critical rules outrank the built-in tier table
	for _, p := range opts.ExtraCritical {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling critical pattern %q: %w", p, err)
		}
		s.tiers = append(s.tiers, tierRule{pattern: re, tier: model.TierCritical})
	}
	s.tiers = append(s.tiers, builtinTiers...)
	for _, p := range opts.ExtraLow {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling low-priority pattern %q: %w", p, err)
		}
		s.tiers = append(s.tiers, tierRule{pattern: re, tier: model.TierLow})
	}

	return s, nil
}

// Classify evaluates path and diff size against the rule set. The first
// matching skip rule wins; a path matching both a skip rule and a tier rule
// is always skipped. Kept files get the highest-priority matching tier,
// defaulting to normal.
func (s *Set) Classify(path string, sizeBytes int64) Decision {
	for _, r := range s.skip {
		if r.sizeGated && (s.oversize <= 0 || sizeBytes <= s.oversize) {
			continue
		}
		if r.pattern.MatchString(path) {
			return Decision{Skip: true, Reason: r.reason, Category: r.category}
		}
	}

	tier := model.TierNormal
	matched := false
	for _, r := range s.tiers {
		if !r.pattern.MatchString(path) {
			continue
		}
		if !matched || r.tier < tier {
			tier = r.tier
			matched = true
		}
	}

	return Decision{Tier: tier}
}
