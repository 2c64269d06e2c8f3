package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aguakit/mdkit"
	"github.com/aguakit/mdkit/internal/config"
	"github.com/aguakit/mdkit/internal/hints"
	"github.com/aguakit/mdkit/internal/random"
)

// reportError prints err with any matching hint and returns its exit code.
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hintFor returns an actionable suffix for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdkit.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdkit.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, mdkit.ErrUnknownFormat):
		return hints.ForChoices(formatNames())
	case errors.Is(err, mdkit.ErrUnknownEngine):
		return hints.ForChoices(engineNames)
	case errors.Is(err, random.ErrRangeTooSmall):
		return hints.ForRangeTooSmall()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, ErrUnsupportedShell):
		return hints.ForChoices(shellNames())
	}
	return ""
}

// userConfigPaths lists where a default config would be picked up from
// the user config directory.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "mdkit", config.DefaultName+".yaml")}
}

var engineNames = []string{mdkit.EngineLite, mdkit.EngineGFM}

func formatNames() []string {
	formats := mdkit.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
