package cli

import (
	"github.com/spf13/cobra"

	"github.com/chipkajb/mr-bot/internal/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview [-]",
	Short: "Browse the prepared chunks in an interactive terminal viewer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

func init() {
	addSourceFlags(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	_, changes, err := gatherChanges(cmd, args, cfg, log)
	if err != nil {
		return err
	}

	man, err := runPipeline(cmd, cfg, changes)
	if err != nil {
		return err
	}

	return tui.Run(man)
}
