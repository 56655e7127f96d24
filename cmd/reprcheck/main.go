package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/reprcheck/layout"
	"github.com/wippyai/reprcheck/linear"
	"github.com/wippyai/reprcheck/verify"
)

func main() {
	var (
		verbose     = flag.Bool("v", false, "Verbose logging and per-check output")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		policies    = flag.String("policy", "all", "Policies to check (all, tpr, strict; comma-separated)")
		scrub       = flag.String("scrub", "0xaa", "Byte written over padding before encoding")
		color       = flag.String("color", "auto", "Colorize output (auto, always, never)")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	verify.SetLogger(logger)
	linear.SetLogger(logger)

	opts, err := parseOptions(*policies, *scrub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	styled, err := useColor(*color, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := verify.DefaultSuite(opts).Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !report.OK() {
			os.Exit(1)
		}
		return
	}

	os.Exit(printReport(os.Stdout, os.Stderr, report, newPrinter(styled), *verbose))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func parseOptions(policies, scrub string) (verify.Options, error) {
	var opts verify.Options

	if policies != "" && policies != "all" {
		for _, name := range strings.Split(policies, ",") {
			p, err := layout.ParsePolicy(name)
			if err != nil {
				return opts, err
			}
			opts.Policies = append(opts.Policies, p)
		}
	}

	b, err := strconv.ParseUint(scrub, 0, 8)
	if err != nil {
		return opts, fmt.Errorf("invalid scrub byte %q: %w", scrub, err)
	}
	opts.Scrub = byte(b)

	return opts, nil
}

func useColor(mode string, out *os.File) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return term.IsTerminal(int(out.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode %q", mode)
	}
}

// printReport writes the outcome and returns the process exit code.
func printReport(stdout, stderr io.Writer, report *verify.Report, p printer, verbose bool) int {
	if verbose {
		group := ""
		for _, r := range report.Results {
			if r.Group != group {
				group = r.Group
				fmt.Fprintln(stdout, p.title(group))
			}
			if r.OK {
				fmt.Fprintf(stdout, "  %s %s\n", p.pass("ok"), r.Label)
			} else {
				fmt.Fprintf(stdout, "  %s %s\n", p.fail("FAIL"), r.Label)
			}
		}
	}

	failed := report.Failed()
	if len(failed) == 0 {
		fmt.Fprintln(stdout, p.pass("OK!"))
		return 0
	}

	for _, r := range failed {
		fmt.Fprintf(stderr, "%s %s\n", p.fail("Assertion failure:"), r.Err())
	}
	fmt.Fprintf(stderr, "%d of %d checks failed\n", len(failed), len(report.Results))
	return 1
}
