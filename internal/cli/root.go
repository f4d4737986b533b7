package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cmv",
	Short: "Snapshot, branch, and trim Claude Code transcripts",
	Long: "cmv manages saved Claude Code conversation transcripts: snapshot the\n" +
		"current session, branch a snapshot into a fresh resumable session, export\n" +
		"the dialogue, and trim mechanical bloat before reuse.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(serveCmd)
}
