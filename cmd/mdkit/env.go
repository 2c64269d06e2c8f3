package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/aguakit/mdkit"
	"github.com/aguakit/mdkit/internal/assets"
	"github.com/aguakit/mdkit/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, configuration, asset loading and the converter pool.
type Environment struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Stdin       io.Reader
	IsTerminal  func() bool // reports whether Stdin is interactive
	AssetLoader assets.AssetLoader
	Config      *config.Config // nil = look up mdkit.yaml
	NewPool     func(size int, opts ...mdkit.Option) Pool
}

// DefaultEnv returns production environment with embedded assets.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Stdin:       os.Stdin,
		IsTerminal:  stdinIsTerminal,
		AssetLoader: assets.NewEmbeddedLoader(),
		NewPool:     newConverterPool,
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
