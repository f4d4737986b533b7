package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypower/cmv/internal/estimate"
	"github.com/lazypower/cmv/internal/trim"
)

var (
	trimOut       string
	trimThreshold int
	trimJSON      bool
	trimModel     string
)

var trimCmd = &cobra.Command{
	Use:   "trim <transcript>",
	Short: "Trim mechanical bloat from a transcript file",
	Long: "Rewrite a JSONL transcript into a smaller, semantically equivalent one:\n" +
		"dead pre-compaction history, file-history snapshots, usage accounting,\n" +
		"thinking signatures, images, and oversized tool payloads are dropped or\n" +
		"stubbed. Dialogue is preserved byte-for-byte.",
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

func init() {
	trimCmd.Flags().StringVarP(&trimOut, "output", "o", "", "Output path (default: <input>.trimmed.jsonl)")
	trimCmd.Flags().IntVar(&trimThreshold, "threshold", 0, "Stub threshold in characters (default 500)")
	trimCmd.Flags().BoolVar(&trimJSON, "json", false, "Print metrics as JSON")
	trimCmd.Flags().StringVar(&trimModel, "model", "sonnet", "Model for the cost projection")
}

func runTrim(cmd *cobra.Command, args []string) error {
	src := args[0]
	dst := trimOut
	if dst == "" {
		dst = strings.TrimSuffix(src, ".jsonl") + ".trimmed.jsonl"
	}

	m, err := trim.TrimFile(src, dst, trim.Options{Threshold: trimThreshold})
	if err != nil {
		return err
	}

	proj, err := estimate.Project(m, trimModel)
	if err != nil {
		return err
	}

	if trimJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"output":     dst,
			"metrics":    m,
			"projection": proj,
		})
	}

	fmt.Printf("wrote %s\n", dst)
	fmt.Printf("  %s → %s (%.0f%% smaller)\n", humanBytes(m.OriginalBytes), humanBytes(m.TrimmedBytes), m.Reduction())
	if m.PreCompactionLinesSkipped > 0 {
		fmt.Printf("  pre-compaction lines skipped: %d\n", m.PreCompactionLinesSkipped)
	}
	if m.FileHistoryRemoved+m.QueueOperationsRemoved > 0 {
		fmt.Printf("  bookkeeping records removed: %d\n", m.FileHistoryRemoved+m.QueueOperationsRemoved)
	}
	if m.ToolResultsStubbed+m.ToolUseInputsStubbed > 0 {
		fmt.Printf("  tool payloads stubbed: %d results, %d inputs\n", m.ToolResultsStubbed, m.ToolUseInputsStubbed)
	}
	if m.ImagesStripped+m.SignaturesStripped > 0 {
		fmt.Printf("  stripped: %d images, %d thinking blocks\n", m.ImagesStripped, m.SignaturesStripped)
	}
	fmt.Printf("  ~%dk → ~%dk tokens on %s, breakeven after %d turns\n",
		proj.TokensBefore/1000, proj.TokensAfter/1000, proj.Model, proj.BreakevenTurns)
	return nil
}
