package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <snapshot>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	snap, err := db.GetSnapshot(args[0])
	if err != nil {
		return err
	}

	if err := db.DeleteSnapshot(snap.ID); err != nil {
		return err
	}
	if err := os.Remove(snap.Path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: payload not removed: %v\n", err)
	}

	fmt.Printf("removed %s\n", shortID(snap.ID))
	return nil
}
