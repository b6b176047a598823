package cmd

import (
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [cleaner[.option]]...",
	Short: "Show what a cleanup would remove",
	Long: `Resolve and enumerate the selected cleaner options without deleting
anything. Every rule runs exactly as it would under 'clean', including
running-application checks and whitelist filtering, but no file is
touched.

Accepts the same selections and --all flag as 'clean'.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun = true
		return runClean(cmd, args)
	},
}

func init() {
	previewCmd.Flags().BoolVar(&cleanAll, "all", false, "Preview every option of every applicable cleaner")
}
