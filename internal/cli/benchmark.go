package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lazypower/cmv/internal/estimate"
	"github.com/lazypower/cmv/internal/paths"
	"github.com/lazypower/cmv/internal/trim"
)

// Sessions with fewer dialogue messages than this are noise (aborted
// runs, smoke tests) and are left out of the report.
const benchMinMessages = 10

var (
	benchAll   bool
	benchJSON  bool
	benchModel string
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure what a trim would save across saved sessions",
	Long: "Scan session transcripts, attribute their bytes to removable categories\n" +
		"(tool results, thinking signatures, file history, ...), and project the\n" +
		"token and cost impact of trimming each one. Nothing is modified.",
	Args: cobra.NoArgs,
	RunE: runBenchmark,
}

func init() {
	benchmarkCmd.Flags().BoolVar(&benchAll, "all", false, "Scan every project, not just the current one")
	benchmarkCmd.Flags().BoolVar(&benchJSON, "json", false, "Print the report as JSON")
	benchmarkCmd.Flags().StringVar(&benchModel, "model", "sonnet", "Model for the cost projection")
}

// benchSession is one transcript's report. The field names are the
// report's wire format; external tooling reads them, so they do not
// change casually.
type benchSession struct {
	SessionID         string          `json:"sessionId"`
	Project           string          `json:"project"`
	EstimatedTokens   int             `json:"estimatedTokens"`
	PostTrimTokens    int             `json:"postTrimTokens"`
	ReductionPercent  float64         `json:"reductionPercent"`
	MessageCount      int             `json:"messageCount"`
	CacheMissPenalty  float64         `json:"cacheMissPenalty"`
	SavingsPerTurn    float64         `json:"savingsPerTurn"`
	ToolResultBytePct int             `json:"toolResultBytePct"`
	TotalBytes        int64           `json:"totalBytes"`
	Breakdown         *trim.Breakdown `json:"breakdown"`
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	files, err := benchmarkFiles()
	if err != nil {
		return err
	}

	var sessions []*benchSession
	for _, path := range files {
		s, err := benchmarkSession(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		if s == nil {
			continue
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].EstimatedTokens > sessions[j].EstimatedTokens
	})

	if benchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"sessions": sessions})
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions with enough dialogue to measure")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tPROJECT\tMSGS\tTOKENS\tPOST-TRIM\tREDUCTION\tTOOL-RESULT%")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%dk\t%dk\t%.0f%%\t%d%%\n",
			shortID(s.SessionID), s.Project, s.MessageCount,
			s.EstimatedTokens/1000, s.PostTrimTokens/1000,
			s.ReductionPercent, s.ToolResultBytePct)
	}
	return w.Flush()
}

// benchmarkFiles lists the transcripts to measure: the current project's
// sessions, or every project's with --all. Subagent transcripts are
// excluded; their context windows live and die with the parent session.
func benchmarkFiles() ([]string, error) {
	projects, err := paths.ProjectsDir()
	if err != nil {
		return nil, err
	}

	root := projects
	if !benchAll {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working dir: %w", err)
		}
		root = filepath.Join(projects, paths.EncodeProjectPath(cwd))
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".jsonl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}

// benchmarkSession dry-runs a trim over one transcript and folds the
// result into a report row. Returns (nil, nil) for sessions too small to
// be worth reporting.
func benchmarkSession(path string) (*benchSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bd, err := trim.Measure(f)
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	m, err := trim.Trim(f, io.Discard, trim.Options{})
	if err != nil {
		return nil, err
	}
	if m.UserMessages+m.AssistantResponses < benchMinMessages {
		return nil, nil
	}

	// Pre-compaction history is dead weight the API never sees, so the
	// projection starts from the live region rather than the file size.
	proj, err := estimate.Project(&trim.Metrics{
		OriginalBytes: bd.TotalBytes,
		TrimmedBytes:  m.TrimmedBytes,
	}, benchModel)
	if err != nil {
		return nil, err
	}

	s := &benchSession{
		SessionID:        paths.SessionID(path),
		Project:          filepath.Base(filepath.Dir(path)),
		EstimatedTokens:  proj.TokensBefore,
		PostTrimTokens:   proj.TokensAfter,
		ReductionPercent: proj.ReductionPct,
		MessageCount:     m.UserMessages + m.AssistantResponses,
		CacheMissPenalty: proj.CacheMissCost,
		SavingsPerTurn:   proj.SavingsPerTurn,
		TotalBytes:       bd.TotalBytes,
		Breakdown:        bd,
	}
	if bd.TotalBytes > 0 {
		s.ToolResultBytePct = int(bd.ToolResults.Bytes * 100 / bd.TotalBytes)
	}
	return s, nil
}
