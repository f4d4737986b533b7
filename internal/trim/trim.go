// Package trim rewrites a Claude Code JSONL transcript into a smaller,
// semantically equivalent one. Human-authored dialogue is preserved
// byte-for-byte; mechanical overhead (dead pre-compaction history,
// file-history snapshots, usage accounting, thinking signatures, images,
// oversized tool payloads) is dropped or stubbed.
//
// A run makes three sequential passes over the input: locate the last
// compaction boundary, collect the tool_use ids answered after it, then
// rewrite the stream line by line. The later passes depend on facts only
// a full scan of the earlier region can produce, so the order is fixed.
package trim

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Trim reads a JSONL transcript from r, writes the trimmed transcript to
// w, and returns the run's metrics. Lines are never reordered, merged,
// or split; a line no rule fired on is emitted byte-identical.
func Trim(r io.Reader, w io.Writer, opts Options) (*Metrics, error) {
	lines, total, err := readLines(r)
	if err != nil {
		return nil, err
	}

	boundary := findBoundary(lines)
	ids := collectToolUseIDs(lines, boundary)

	m := &Metrics{OriginalBytes: total}
	bw := bufio.NewWriter(w)
	if err := rewrite(lines, boundary, ids, bw, opts.threshold(), m); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush output: %w", err)
	}
	return m, nil
}

// TrimFile trims the transcript at src into dst. It refuses to write in
// place and removes dst when the run fails partway.
func TrimFile(src, dst string, opts Options) (*Metrics, error) {
	if src == dst {
		return nil, fmt.Errorf("refusing to trim %s in place", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	m, err := Trim(in, out, opts)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	if err != nil {
		os.Remove(dst)
		return nil, err
	}
	return m, nil
}

// readLines reads the whole input up front so the three passes can share
// one in-memory view. Blank lines are dropped. The returned total counts
// each line in newline-terminated form, matching how the rewriter counts
// output bytes.
func readLines(r io.Reader) ([][]byte, int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	var lines [][]byte
	var total int64
	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		line := make([]byte, len(b))
		copy(line, b)
		lines = append(lines, line)
		total += int64(len(line)) + 1
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read transcript: %w", err)
	}
	return lines, total, nil
}
