package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lazypower/cmv/internal/paths"
	"github.com/lazypower/cmv/internal/store"
	"github.com/lazypower/cmv/internal/transcript"
	"github.com/lazypower/cmv/internal/trim"
)

var (
	branchTrim      bool
	branchThreshold int
	branchExec      bool
)

var branchCmd = &cobra.Command{
	Use:   "branch <snapshot>",
	Short: "Start a new session from a snapshot",
	Long: "Materialize a snapshot as a brand-new session in the Claude projects dir,\n" +
		"so the original session stays untouched. With --trim, mechanical bloat is\n" +
		"removed on the way out.",
	Args: cobra.ExactArgs(1),
	RunE: runBranch,
}

func init() {
	branchCmd.Flags().BoolVarP(&branchTrim, "trim", "t", false, "Trim the transcript while branching")
	branchCmd.Flags().IntVar(&branchThreshold, "threshold", 0, "Stub threshold in characters (default 500)")
	branchCmd.Flags().BoolVar(&branchExec, "exec", false, "Launch `claude --resume` on the new session")
}

func runBranch(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	snap, err := db.GetSnapshot(args[0])
	if err != nil {
		return err
	}

	projects, err := paths.ProjectsDir()
	if err != nil {
		return err
	}

	newID := uuid.NewString()
	dst := paths.SessionFile(projects, snap.Project, newID)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}

	if branchTrim {
		m, err := trim.TrimFile(snap.Path, dst, trim.Options{Threshold: branchThreshold})
		if err != nil {
			return err
		}
		fmt.Printf("trimmed %s → %s (%.0f%% smaller)\n",
			humanBytes(m.OriginalBytes), humanBytes(m.TrimmedBytes), m.Reduction())
	} else {
		if err := copyFile(snap.Path, dst); err != nil {
			return err
		}
	}

	st, err := transcript.FileStats(dst)
	if err != nil {
		return err
	}

	child := &store.Snapshot{
		ID:        uuid.NewString(),
		SessionID: newID,
		Project:   snap.Project,
		Name:      snap.Name,
		ParentID:  &snap.ID,
		Path:      dst,
		Bytes:     st.Bytes,
		Messages:  st.Users + st.Assistants,
		Trimmed:   branchTrim,
	}
	if err := db.SaveSnapshot(child); err != nil {
		return err
	}

	fmt.Printf("branched %s → session %s\n", shortID(snap.ID), newID)

	if branchExec {
		claude := exec.Command("claude", "--resume", newID)
		claude.Env = filterEnv(os.Environ())
		claude.Stdin = os.Stdin
		claude.Stdout = os.Stdout
		claude.Stderr = os.Stderr
		claude.Dir = snap.Project
		return claude.Run()
	}

	fmt.Printf("resume with: claude --resume %s\n", newID)
	return nil
}
