// Package cli implements the mrbot command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chipkajb/mr-bot/internal/config"
	"github.com/chipkajb/mr-bot/internal/logging"
	"github.com/chipkajb/mr-bot/internal/model"
	"github.com/chipkajb/mr-bot/internal/pipeline"
	"github.com/chipkajb/mr-bot/internal/rules"
	"github.com/chipkajb/mr-bot/internal/source"
)

var rootCmd = &cobra.Command{
	Use:   "mrbot",
	Short: "Prepare merge request diffs for AI code review",
	Long: `mrbot fetches a change set, filters out files not worth reviewing,
splits oversized diffs into coherent chunks, and writes review-ready
artifacts grouped by priority.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to YAML config file")
	rootCmd.AddCommand(prepareCmd, previewCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Int("pr", 0, "GitHub pull request number (requires --repo or github.repo config)")
	cmd.Flags().String("repo", "", "GitHub repository as owner/name")
	cmd.Flags().StringP("branch", "b", "", "source branch for a local git diff")
	cmd.Flags().String("target", "main", "target branch for a local git diff")
	cmd.Flags().IntP("context", "C", 3, "lines of context around changes in the fetched diff")
}

func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, err
	}

	return cfg, log, nil
}

// gatherChanges resolves the diff source from flags: "-" reads a raw diff
// from stdin, --pr fetches a pull request, --branch diffs local branches.
func gatherChanges(cmd *cobra.Command, args []string, cfg config.Config, log *zap.Logger) (model.ReviewRequest, []model.FileChange, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return model.ReviewRequest{}, nil, fmt.Errorf("reading stdin: %w", err)
		}
		return stdinChanges(string(data))
	}

	prNumber, _ := cmd.Flags().GetInt("pr")
	if prNumber > 0 {
		repo, _ := cmd.Flags().GetString("repo")
		if repo == "" {
			repo = cfg.GitHub.Repo
		}
		gh, err := source.NewGitHub(repo, cfg.GitHub.Token, cfg.GitHub.BaseURL, log)
		if err != nil {
			return model.ReviewRequest{}, nil, err
		}
		return fetchPR(cmd, gh, prNumber)
	}

	branch, _ := cmd.Flags().GetString("branch")
	if branch == "" {
		return model.ReviewRequest{}, nil, fmt.Errorf("specify --pr, --branch, or pipe a diff with '-'")
	}
	target, _ := cmd.Flags().GetString("target")
	contextLines, _ := cmd.Flags().GetInt("context")

	repoDir, err := source.RepoRoot()
	if err != nil {
		return model.ReviewRequest{}, nil, err
	}

	changes, req, err := source.FromGit(repoDir, branch, target, contextLines)
	if err != nil {
		return model.ReviewRequest{}, nil, err
	}
	return req, changes, nil
}

func stdinChanges(raw string) (model.ReviewRequest, []model.FileChange, error) {
	if strings.TrimSpace(raw) == "" {
		return model.ReviewRequest{}, nil, fmt.Errorf("no diff on stdin")
	}
	changes, req, err := source.FromRaw(raw, "stdin")
	if err != nil {
		return model.ReviewRequest{}, nil, err
	}
	return req, changes, nil
}

func fetchPR(cmd *cobra.Command, gh *source.GitHub, number int) (model.ReviewRequest, []model.FileChange, error) {
	return gh.PullRequest(cmd.Context(), number)
}

// runPipeline builds the rule set from config and processes the change set.
func runPipeline(cmd *cobra.Command, cfg config.Config, changes []model.FileChange) (*model.Manifest, error) {
	set, err := rules.New(rules.Options{
		MaxFileSize:   cfg.MaxFileSize,
		ExtraSkip:     cfg.Rules.Skip,
		ExtraCritical: cfg.Rules.Critical,
		ExtraLow:      cfg.Rules.Low,
	})
	if err != nil {
		return nil, err
	}

	return pipeline.Process(cmd.Context(), changes, set, pipeline.Options{
		MaxSize:     cfg.ChunkSizeLines,
		ContextSize: cfg.ContextLines,
		Workers:     cfg.Workers,
	})
}
