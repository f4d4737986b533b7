package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lazypower/cmv/internal/paths"
	"github.com/lazypower/cmv/internal/store"
	"github.com/lazypower/cmv/internal/transcript"
)

var saveName string

var saveCmd = &cobra.Command{
	Use:   "save [session-id]",
	Short: "Snapshot a session transcript",
	Long: "Copy a session transcript into the snapshot area and record it. With no\n" +
		"argument, the project's most recently active session is saved.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVarP(&saveName, "name", "n", "", "Label for the snapshot")
}

func runSave(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get cwd: %w", err)
	}
	projects, err := paths.ProjectsDir()
	if err != nil {
		return err
	}

	var src string
	if len(args) == 1 {
		src = paths.SessionFile(projects, cwd, args[0])
	} else {
		src, err = paths.LatestSession(projects, cwd)
		if err != nil {
			return err
		}
	}

	st, err := transcript.FileStats(src)
	if err != nil {
		return err
	}

	snapDir, err := store.SnapshotsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		return fmt.Errorf("create snapshots dir: %w", err)
	}

	id := uuid.NewString()
	dst := filepath.Join(snapDir, id+".jsonl")
	if err := copyFile(src, dst); err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	snap := &store.Snapshot{
		ID:        id,
		SessionID: paths.SessionID(src),
		Project:   cwd,
		Name:      saveName,
		Path:      dst,
		Bytes:     st.Bytes,
		Messages:  st.Users + st.Assistants,
	}
	if err := db.SaveSnapshot(snap); err != nil {
		os.Remove(dst)
		return err
	}

	fmt.Printf("saved %s  session %s  %d messages  %s\n",
		shortID(id), shortID(snap.SessionID), snap.Messages, humanBytes(snap.Bytes))
	return nil
}
