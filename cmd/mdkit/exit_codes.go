package main

import (
	"errors"
	"os"

	"github.com/aguakit/mdkit"
	"github.com/aguakit/mdkit/internal/calc"
	"github.com/aguakit/mdkit/internal/config"
	"github.com/aguakit/mdkit/internal/random"
)

// Exit codes for the mdkit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// ErrUsage marks command-line parsing errors.
var ErrUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdkit.ErrBrowserConnect) ||
		errors.Is(err, mdkit.ErrPageCreate) ||
		errors.Is(err, mdkit.ErrPageLoad) ||
		errors.Is(err, mdkit.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdkit.ErrUnknownFormat) ||
		errors.Is(err, mdkit.ErrUnknownEngine) ||
		errors.Is(err, mdkit.ErrInvalidPageSize) ||
		errors.Is(err, mdkit.ErrInvalidOrientation) ||
		errors.Is(err, mdkit.ErrInvalidMargin) ||
		errors.Is(err, mdkit.ErrStyleNotFound) ||
		errors.Is(err, mdkit.ErrTemplateNotFound) ||
		errors.Is(err, mdkit.ErrInvalidAssetPath) ||
		errors.Is(err, random.ErrInvalidRange) ||
		errors.Is(err, random.ErrInvalidCount) ||
		errors.Is(err, random.ErrRangeTooSmall) ||
		errors.Is(err, calc.ErrSyntax) ||
		errors.Is(err, calc.ErrUnknownIdent) ||
		errors.Is(err, calc.ErrArity) ||
		errors.Is(err, calc.ErrDomain) ||
		errors.Is(err, calc.ErrEmpty) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrOverwriteInput) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
