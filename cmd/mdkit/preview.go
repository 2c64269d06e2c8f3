package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/aguakit/mdkit"
	"github.com/aguakit/mdkit/internal/assets"
	"github.com/aguakit/mdkit/internal/config"
	"github.com/aguakit/mdkit/internal/preview"
)

// runPreviewCmd serves a live preview of one file until interrupted.
func runPreviewCmd(args []string, env *Environment) int {
	flags, positional, err := parsePreviewFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printPreviewUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printPreviewUsage(env.Stderr)
		return ExitUsage
	}

	setMaxProcs(flags.common.verbose, env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runPreview(ctx, positional, flags, env); err != nil {
		return reportError(env.Stderr, err)
	}
	return ExitSuccess
}

func runPreview(ctx context.Context, positionalArgs []string, flags *previewFlags, env *Environment) error {
	switch len(positionalArgs) {
	case 0:
		return fmt.Errorf("%w: preview needs a file", ErrNoInput)
	case 1:
	default:
		return fmt.Errorf("%w: preview takes exactly one file", ErrUsage)
	}
	file := positionalArgs[0]
	if err := validateMarkdownExtension(file); err != nil {
		return err
	}

	cfg, _, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergePreviewFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	loader, err := resolveAssetLoader(cfg, env)
	if err != nil {
		return err
	}
	conv, err := mdkit.NewConverter(mdkit.WithEngine(cfg.Export.Engine), mdkit.WithAssetLoader(loader))
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	var log io.Writer = env.Stderr
	if flags.common.quiet {
		log = io.Discard
	}

	srv, err := preview.New(preview.Config{
		File:     file,
		Addr:     cfg.Preview.Addr,
		Open:     !cfg.Preview.NoOpen,
		Renderer: conv,
		Loader:   loader,
		Log:      log,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func mergePreviewFlags(flags *previewFlags, cfg *config.Config) {
	if flags.addr != "" {
		cfg.Preview.Addr = flags.addr
	}
	if flags.noOpen {
		cfg.Preview.NoOpen = true
	}
	if flags.engine != "" {
		cfg.Export.Engine = flags.engine
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
}

// resolveAssetLoader returns the loader for cfg.Assets.BasePath, or the
// environment's loader when none is set.
func resolveAssetLoader(cfg *config.Config, env *Environment) (assets.AssetLoader, error) {
	if cfg.Assets.BasePath != "" {
		resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mdkit.ErrInvalidAssetPath, err)
		}
		return resolver, nil
	}
	if env.AssetLoader != nil {
		return env.AssetLoader, nil
	}
	return assets.NewEmbeddedLoader(), nil
}
