package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	output    string
	workers   int
	timeout   string
	format    string
	engine    string
	exclude   []string
	css       string
	name      string
	assetPath string
	page      pageFlags
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common    commonFlags
	addr      string
	noOpen    bool
	engine    string
	assetPath string
}

// fmtFlags holds flags for the fmt command.
type fmtFlags struct {
	write bool
	diff  bool
	quiet bool
}

// randFlags holds flags for the rand command.
type randFlags struct {
	common commonFlags
	min    int64
	max    int64
	count  int
	unique bool
	sort   bool
	stats  bool
	seed   uint64
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// newFlagSet returns a silent ContinueOnError FlagSet; commands print
// their own usage.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := newFlagSet("convert")

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "glob of files to skip in directories (repeatable)")

	// Export flags
	fs.StringVarP(&f.format, "format", "f", "", "export format: md, html, doc, print, pdf")
	fs.StringVarP(&f.engine, "engine", "e", "", "markdown engine: lite, gfm")
	fs.StringVar(&f.css, "css", "", "extra CSS file or inline CSS")
	fs.StringVar(&f.name, "name", "", "document title (default: file name)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	return fs
}

func newPreviewFlagSet(f *previewFlags) *flag.FlagSet {
	fs := newFlagSet("preview")
	fs.StringVar(&f.addr, "addr", "", "listen address (default: 127.0.0.1:3000)")
	fs.BoolVar(&f.noOpen, "no-open", false, "do not open a browser")
	fs.StringVarP(&f.engine, "engine", "e", "", "markdown engine: lite, gfm")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	addCommonFlags(fs, &f.common)
	return fs
}

func newFmtFlagSet(f *fmtFlags) *flag.FlagSet {
	fs := newFlagSet("fmt")
	fs.BoolVarP(&f.write, "write", "w", false, "write result to the source file")
	fs.BoolVarP(&f.diff, "diff", "d", false, "print a diff instead of the result")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	return fs
}

func newRandFlagSet(f *randFlags) *flag.FlagSet {
	fs := newFlagSet("rand")
	fs.Int64Var(&f.min, "min", 0, "lowest value (default: 1)")
	fs.Int64Var(&f.max, "max", 0, "highest value (default: 100)")
	fs.IntVarP(&f.count, "count", "n", 0, "how many numbers, 1-1000 (default: 1)")
	fs.BoolVarP(&f.unique, "unique", "u", false, "no repeated values")
	fs.BoolVarP(&f.sort, "sort", "s", false, "sort ascending")
	fs.BoolVar(&f.stats, "stats", false, "print sum, mean, min and max")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for a reproducible draw (0 = random)")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseWith parses args and wraps errors other than --help in ErrUsage.
func parseWith(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	positional, err := parseWith(newConvertFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

func parsePreviewFlags(args []string) (*previewFlags, []string, error) {
	f := &previewFlags{}
	positional, err := parseWith(newPreviewFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

func parseFmtFlags(args []string) (*fmtFlags, []string, error) {
	f := &fmtFlags{}
	positional, err := parseWith(newFmtFlagSet(f), args)
	if err != nil {
		return nil, nil, err
	}
	return f, positional, nil
}

// parseRandFlags also returns the FlagSet so callers can tell an explicit
// zero from an unset flag.
func parseRandFlags(args []string) (*randFlags, *flag.FlagSet, error) {
	f := &randFlags{}
	fs := newRandFlagSet(f)
	if _, err := parseWith(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}
