package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scourlabs/scour/internal/config"
)

var (
	// Global flags
	debug       bool
	configPath  string
	cleanersDir string

	// Process exit code chosen by a completed command. Zero unless a
	// run finished with failed actions.
	exitCode int

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// ExitCode reports the exit code a completed command selected: 0 on
// success, 2 when the run finished but some actions failed. Errors
// returned from Execute map to exit code 1 in main.
func ExitCode() int {
	return exitCode
}

var rootCmd = &cobra.Command{
	Use:   "scour",
	Short: "Clean disposable application data by rule",
	Long: `Scour deletes caches, logs, history and other disposable files the way
rule documents describe them: per application, per option, with running
programs detected first and protected paths left alone.

Rule documents are YAML files loaded from the cleaners directory.
Run 'scour list' to see what is loaded, 'scour preview' to see what a
cleanup would touch, and 'scour clean' to do it.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&cleanersDir, "cleaners", "", "Rule document directory (overrides config)")

	// Register all subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scour %s (%s) built %s\n", appVersion, appCommit, appDate)
	},
}
