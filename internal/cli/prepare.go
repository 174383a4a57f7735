package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chipkajb/mr-bot/internal/model"
	"github.com/chipkajb/mr-bot/internal/output"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare [-]",
	Short: "Classify and chunk a change set, then write review artifacts",
	Long: `Prepare fetches a change set from a local git repo, a GitHub pull
request, or stdin, drops files that don't need review, splits large diffs
into chunks, and writes the review prompt and diff artifacts to disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrepare,
}

func init() {
	addSourceFlags(prepareCmd)
	prepareCmd.Flags().StringP("output", "o", "", "output directory (overrides config)")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if dir, _ := cmd.Flags().GetString("output"); dir != "" {
		cfg.OutputDir = dir
	}

	req, changes, err := gatherChanges(cmd, args, cfg, log)
	if err != nil {
		return err
	}
	log.Info("change set loaded",
		zap.String("id", req.ID),
		zap.Int("files", len(changes)))

	man, err := runPipeline(cmd, cfg, changes)
	if err != nil {
		return err
	}

	gen := output.New(cfg.OutputDir, log)
	dir, err := gen.WriteAll(req, man)
	if err != nil {
		return err
	}

	printSummary(cmd, req, man, dir)
	return nil
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bd93f9"))
	summaryLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
	summaryWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb86c"))
)

func printSummary(cmd *cobra.Command, req model.ReviewRequest, man *model.Manifest, dir string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, summaryTitle.Render(fmt.Sprintf("Prepared %s", req.ID)))
	for _, tier := range model.Tiers() {
		files := man.Kept[tier]
		if len(files) == 0 {
			continue
		}
		chunks := 0
		for _, f := range files {
			chunks += len(f.Chunks)
		}
		fmt.Fprintf(out, "  %s %d files, %d chunks\n",
			summaryLabel.Render(tier.String()+":"), len(files), chunks)
	}
	if len(man.Skipped) > 0 {
		fmt.Fprintf(out, "  %s %d files\n", summaryWarn.Render("skipped:"), len(man.Skipped))
	}
	fmt.Fprintf(out, "  %s %s\n", summaryLabel.Render("output:"), dir)
}
