// Package grep scans file contents line by line against a compiled regex,
// respecting the same candidate set the name search uses.
package grep

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"glancr/internal/domain"
)

// cancelCheckLines bounds how long a single huge file can starve
// cancellation.
const cancelCheckLines = 256

// maxLineBytes is the scanner token limit; longer lines are skipped with a
// warning rather than aborting the file.
const maxLineBytes = 1024 * 1024

// PatternError reports an invalid regular expression. The session
// continues; the UI shows the message and keeps the prior results.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Result is one content match. Column offsets are bytes relative to the
// start of the line; one line may contribute several results.
type Result struct {
	Path       string
	LineNumber int
	ColStart   int
	ColEnd     int
	Line       string
}

// Results is the outcome of one search pass.
type Results struct {
	Matches   []Result
	Truncated bool // the result cap was hit; shown in the status line
	Warnings  int  // unreadable or binary files skipped
}

// Options tune a search pass.
type Options struct {
	MaxResults int // cap on total matches; <=0 means unlimited
	Workers    int // parallel file scanners; <=0 means GOMAXPROCS
}

// Search scans every entry under root for pattern. An invalid pattern
// yields a *PatternError. Per-file read failures and binary files are
// skipped, never fatal. Results are ordered by path, then line, then
// column; when the cap is hit Truncated is set.
func Search(ctx context.Context, root string, entries []domain.FileEntry, pattern string, opts Options) (*Results, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sorted := make([]domain.FileEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	perFile := make([][]Result, len(sorted))
	var warnings atomic.Int64
	var total atomic.Int64
	var truncated atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, entry := range sorted {
		if gctx.Err() != nil {
			break
		}
		if opts.MaxResults > 0 && total.Load() >= int64(opts.MaxResults) {
			truncated.Store(true)
			break
		}

		g.Go(func() error {
			matches, err := scanFile(gctx, filepath.Join(root, filepath.FromSlash(entry.Path)), entry.Path, re)
			if err != nil {
				warnings.Add(1)
				return nil
			}
			perFile[i] = matches
			total.Add(int64(len(matches)))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Results{Warnings: int(warnings.Load())}
	for _, matches := range perFile {
		for _, m := range matches {
			if opts.MaxResults > 0 && len(res.Matches) >= opts.MaxResults {
				truncated.Store(true)
				break
			}
			res.Matches = append(res.Matches, m)
		}
	}
	res.Truncated = truncated.Load()
	return res, nil
}

// scanFile matches re against each line of the file. Binary content is
// detected by a NUL probe over the first kilobyte and skipped.
func scanFile(ctx context.Context, absPath, relPath string, re *regexp.Regexp) ([]Result, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	probe := make([]byte, 1024)
	n, err := f.Read(probe)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.IndexByte(probe[:n], 0) >= 0 {
		return nil, fmt.Errorf("binary file")
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	var out []Result
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%cancelCheckLines == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := scanner.Text()
		for _, span := range re.FindAllStringIndex(line, -1) {
			out = append(out, Result{
				Path:       relPath,
				LineNumber: lineNo,
				ColStart:   span[0],
				ColEnd:     span[1],
				Line:       line,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		// Oversized line or read error partway through; keep what matched.
		if len(out) == 0 {
			return nil, err
		}
	}
	return out, nil
}
