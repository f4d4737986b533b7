package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypower/cmv/internal/store"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show snapshot lineage",
	Long:  "Print every snapshot with the branches taken from it, as a tree.",
	RunE:  runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	roots, err := db.Roots()
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		fmt.Println("No snapshots. Run `cmv save` first.")
		return nil
	}

	for _, r := range roots {
		if err := printTree(db, &r, 0); err != nil {
			return err
		}
	}
	return nil
}

func printTree(db *store.DB, s *store.Snapshot, depth int) error {
	label := s.Name
	if label == "" {
		label = "session " + shortID(s.SessionID)
	}
	marker := ""
	if s.Trimmed {
		marker = " (trimmed)"
	}
	fmt.Printf("%s%s  %s%s  %s, %s\n",
		strings.Repeat("  ", depth), shortID(s.ID), label, marker,
		humanBytes(s.Bytes), humanAge(s.CreatedAt))

	children, err := db.Children(s.ID)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := printTree(db, &c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
