package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazypower/cmv/internal/transcript"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <snapshot>",
	Short: "Export a snapshot's dialogue as markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	snap, err := db.GetSnapshot(args[0])
	if err != nil {
		return err
	}

	entries, err := transcript.ParseFile(snap.Path)
	if err != nil {
		return err
	}

	md := transcript.ExportMarkdown(entries)
	if exportOut == "" {
		fmt.Print(md)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("exported %s → %s\n", shortID(snap.ID), exportOut)
	return nil
}
