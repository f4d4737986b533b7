package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listAll   bool
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "List snapshots from every project")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum number of snapshots")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	project := ""
	if !listAll {
		project, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("get cwd: %w", err)
		}
	}

	snaps, err := db.ListSnapshots(project, listLimit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots. Run `cmv save` first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSESSION\tMSGS\tSIZE\tAGE\t")
	for _, s := range snaps {
		flags := ""
		if s.Trimmed {
			flags = " (trimmed)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s%s\t\n",
			shortID(s.ID), s.Name, shortID(s.SessionID), s.Messages,
			humanBytes(s.Bytes), humanAge(s.CreatedAt), flags)
	}
	return w.Flush()
}
