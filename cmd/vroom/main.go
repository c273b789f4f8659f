// Package main provides the vroom CLI: a single binary that indexes one or
// more delimited-text files and reports throughput and diagnostics (spec §6
// CLI surface).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/vroomgo/vroom"
	"github.com/vroomgo/vroom/internal/dialect"
	"github.com/vroomgo/vroom/internal/vrerrors"
)

// Exit codes (spec §6 "Exit codes").
const (
	exitSuccess        = 0
	exitFatalParse     = 1
	exitIO             = 2
	exitInvalidArgLike = 3
	exitCancelled      = 4
)

func main() {
	fs := flag.NewFlagSet("vroom", flag.ContinueOnError)

	delim := fs.String("delim", "", "explicit delimiter byte; default auto-detect")
	fs.StringVar(delim, "d", "", "shorthand for --delim")
	threads := fs.Int("threads", runtime.GOMAXPROCS(0), "worker count (1..1024)")
	fs.IntVar(threads, "t", runtime.GOMAXPROCS(0), "shorthand for --threads")
	quote := fs.String("quote", "\"", "quote byte")
	// --escape-double is accepted for symmetry with --escape-backslash; it
	// names the default and carries no effect of its own.
	_ = fs.Bool("escape-double", true, "use RFC-4180 doubled-quote escaping (default)")
	escapeBackslash := fs.Bool("escape-backslash", false, "use backslash-escape quoting instead of doubled-quote")
	comment := fs.String("comment", "", "leading lines (before the header) starting with this byte are skipped; later lines are not checked")
	skip := fs.Int("skip", 0, "skip leading lines before the data region")
	fs.IntVar(skip, "s", 0, "shorthand for --skip")
	nMax := fs.Int64("n-max", 0, "hard row cap (0 = unbounded)")
	skipEmptyRows := fs.Bool("skip-empty-rows", false, "drop empty rows")
	errorMode := fs.String("error-mode", "permissive", "one of strict|permissive|best-effort")
	maxErrors := fs.Int("max-errors", 0, "cap on accumulated recoverable errors (0 = default of 100)")
	noHeader := fs.Bool("no-header", false, "treat the first row as data, not a header")
	verbose := fs.Bool("verbose", false, "print a summary table after parsing")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(exitInvalidArgLike)
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "vroom: at least one input path (or - for stdin) is required")
		fs.PrintDefaults()
		os.Exit(exitInvalidArgLike)
	}

	opts, err := buildOptions(*delim, *quote, *comment, *threads, *skip, *nMax, *skipEmptyRows, *errorMode, *maxErrors, !*noHeader, *escapeBackslash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vroom: %v\n", err)
		os.Exit(exitInvalidArgLike)
	}

	if len(paths) > 1 && !containsStdin(paths) {
		os.Exit(runMerged(paths, opts, *verbose))
	}

	exit := exitSuccess
	for _, p := range paths {
		code := runOne(p, opts, *verbose)
		if code != exitSuccess {
			exit = code
		}
	}
	os.Exit(exit)
}

func containsStdin(paths []string) bool {
	for _, p := range paths {
		if p == "-" {
			return true
		}
	}
	return false
}

// runMerged parses every path and stitches the results into one
// internal/index.Collection-backed virtual row space (spec §4.G), reporting
// the merged row/column totals instead of per-file summaries.
func runMerged(paths []string, opts vroom.Options, verbose bool) int {
	start := time.Now()
	mr, err := vroom.ParseFiles(paths, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vroom: %v\n", err)
		return exitIO
	}
	defer mr.Close()
	elapsed := time.Since(start)

	exit := exitSuccess
	var bytesTotal int64
	for i, res := range mr.Results {
		bytesTotal += int64(len(res.Bytes()))
		if res.Cancelled {
			fmt.Fprintf(os.Stderr, "vroom: %s: parse cancelled by progress callback\n", paths[i])
			exit = exitCancelled
		}
		if res.Collector.HasFatal() {
			fmt.Fprintf(os.Stderr, "vroom: %s: %s\n", paths[i], res.Collector.Summary(10))
			exit = exitFatalParse
		} else if res.Collector.HasErrors() {
			fmt.Fprintf(os.Stderr, "vroom: %s: %s\n", paths[i], res.Collector.Summary(10))
		}
	}

	if verbose && exit == exitSuccess {
		mbPerSec := float64(bytesTotal) / 1024 / 1024 / elapsed.Seconds()
		fmt.Printf("--------------------------------------------------\n")
		fmt.Printf("Files:      %d\n", len(paths))
		fmt.Printf("Rows:       %d (merged)\n", mr.Rows())
		fmt.Printf("Columns:    %d\n", mr.Columns())
		fmt.Printf("Bytes:      %d\n", bytesTotal)
		fmt.Printf("Elapsed:    %v\n", elapsed)
		fmt.Printf("Throughput: %.2f MB/s\n", mbPerSec)
		fmt.Printf("--------------------------------------------------\n")
	}
	return exit
}

func buildOptions(delim, quote, comment string, threads, skip int, nMax int64, skipEmptyRows bool, errorMode string, maxErrors int, hasHeader, escapeBackslash bool) (vroom.Options, error) {
	opts := vroom.DefaultOptions

	if delim != "" {
		b, err := singleByte(delim)
		if err != nil {
			return opts, fmt.Errorf("--delim: %w", err)
		}
		q := byte('"')
		if quote != "" {
			qb, err := singleByte(quote)
			if err != nil {
				return opts, fmt.Errorf("--quote: %w", err)
			}
			q = qb
		}
		d := dialect.New(b, q, '"', true)
		if escapeBackslash {
			d = d.WithEscapeBackslash(0)
		}
		opts.Dialect = d
	} else {
		opts.Dialect = dialect.Dialect{}
	}

	if comment != "" {
		b, err := singleByte(comment)
		if err != nil {
			return opts, fmt.Errorf("--comment: %w", err)
		}
		opts.HasComment = true
		opts.Comment = b
	}

	if threads < 1 || threads > 1024 {
		return opts, fmt.Errorf("--threads must be in 1..1024, got %d", threads)
	}
	opts.Threads = threads
	opts.Skip = skip
	opts.NMax = nMax
	opts.SkipEmptyRows = skipEmptyRows
	opts.HasHeader = hasHeader

	mode, err := parseErrorMode(errorMode)
	if err != nil {
		return opts, err
	}
	opts.ErrorMode = mode
	opts.MaxErrors = maxErrors

	return opts, nil
}

func parseErrorMode(s string) (vrerrors.Mode, error) {
	switch s {
	case "strict":
		return vrerrors.FailFast, nil
	case "permissive":
		return vrerrors.Permissive, nil
	case "best-effort":
		return vrerrors.BestEffort, nil
	default:
		return 0, fmt.Errorf("--error-mode: unknown mode %q (want strict|permissive|best-effort)", s)
	}
}

func singleByte(s string) (byte, error) {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < 256 {
		return byte(n), nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("want a single byte, got %q", s)
	}
	return s[0], nil
}

func runOne(path string, opts vroom.Options, verbose bool) int {
	var res *vroom.Result
	var err error

	start := time.Now()
	if path == "-" {
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "vroom: reading stdin: %v\n", readErr)
			return exitIO
		}
		res, err = vroom.Parse(data, opts)
	} else {
		res, err = vroom.ParseFile(path, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vroom: %s: %v\n", path, err)
		return exitIO
	}
	defer res.Close()
	elapsed := time.Since(start)

	if res.Cancelled {
		fmt.Fprintf(os.Stderr, "vroom: %s: parse cancelled by progress callback\n", path)
		return exitCancelled
	}
	if res.Collector.HasFatal() {
		fmt.Fprintf(os.Stderr, "vroom: %s: %s\n", path, res.Collector.Summary(10))
		return exitFatalParse
	}

	if verbose {
		printSummary(path, res, elapsed)
	}
	if res.Collector.HasErrors() {
		fmt.Fprintln(os.Stderr, res.Collector.Summary(10))
	}
	return exitSuccess
}

func printSummary(path string, res *vroom.Result, elapsed time.Duration) {
	bytesTotal := int64(len(res.Bytes()))
	mbPerSec := float64(bytesTotal) / 1024 / 1024 / elapsed.Seconds()
	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Rows:       %d\n", res.Rows())
	fmt.Printf("Columns:    %d\n", res.Columns())
	fmt.Printf("Bytes:      %d\n", bytesTotal)
	fmt.Printf("Elapsed:    %v\n", elapsed)
	fmt.Printf("Throughput: %.2f MB/s\n", mbPerSec)
	if res.Detection != nil {
		fmt.Printf("Detected:   delimiter=%q confidence=%.2f\n", res.Detection.Dialect.Delimiter, res.Detection.Confidence)
	}
	fmt.Printf("--------------------------------------------------\n")
}
