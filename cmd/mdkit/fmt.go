package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	flag "github.com/spf13/pflag"

	"github.com/aguakit/mdkit/internal/fileutil"
	"github.com/aguakit/mdkit/internal/markdown"
)

// stdinName reads the document from standard input.
const stdinName = "-"

// runFmtCmd formats Markdown files. Without -w or -d the result goes to
// stdout.
func runFmtCmd(args []string, env *Environment) int {
	flags, positional, err := parseFmtFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printFmtUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printFmtUsage(env.Stderr)
		return ExitUsage
	}
	if len(positional) == 0 {
		return reportError(env.Stderr, fmt.Errorf("%w: fmt needs a file (or - for stdin)", ErrNoInput))
	}

	code := ExitSuccess
	for _, path := range positional {
		if err := formatFile(path, flags, env); err != nil {
			code = max(code, reportError(env.Stderr, err))
		}
	}
	return code
}

func formatFile(path string, flags *fmtFlags, env *Environment) error {
	src, err := readSource(path, env.Stdin)
	if err != nil {
		return err
	}
	out := markdown.Format(src)

	if flags.diff {
		writeDiff(env.Stdout, path, src, out)
	}
	if flags.write {
		if path == stdinName {
			return fmt.Errorf("%w: cannot write back to stdin", ErrUsage)
		}
		if out == src {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := fileutil.WriteFileAtomic(path, []byte(out), info.Mode().Perm()); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if !flags.quiet {
			fmt.Fprintf(env.Stderr, "Formatted %s\n", path)
		}
		return nil
	}
	if !flags.diff {
		_, err = io.WriteString(env.Stdout, out)
	}
	return err
}

func readSource(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// writeDiff prints a line diff of a and b, changed lines only. Nothing is
// printed when they are equal.
func writeDiff(w io.Writer, name, a, b string) {
	if a == b {
		return
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	fmt.Fprintf(w, "--- %s\n+++ %s (formatted)\n", name, name)
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprint(w, prefix+strings.TrimSuffix(line, "\n")+"\n")
		}
	}
}
