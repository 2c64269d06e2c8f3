package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/aguakit/mdkit"
	"github.com/aguakit/mdkit/internal/config"
	"github.com/aguakit/mdkit/internal/fileutil"
)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	format mdkit.Format
	title  string // empty = file name
	css    string
	page   *mdkit.PageSettings
}

// runConvertCmd parses flags, runs the conversion and returns an exit code.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printConvertUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printConvertUsage(env.Stderr)
		return ExitUsage
	}

	setMaxProcs(flags.common.verbose, env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		return reportError(env.Stderr, err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, envCfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := mdkit.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	exclude, err := compileExcludes(cfg.Input.Exclude)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, resolveOutputDir(flags.output, cfg), format.Extension(), exclude)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	css, err := resolveCSSContent(cfg.Export.CSS)
	if err != nil {
		return err
	}

	params := &conversionParams{
		format: format,
		title:  cfg.Export.Title,
		css:    css,
		page:   cfg.Page.Settings(),
	}

	poolSize := mdkit.ResolvePoolSize(cfg.Export.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	newPool := env.NewPool
	if newPool == nil {
		newPool = newConverterPool
	}
	pool := newPool(poolSize, converterOptions(cfg, timeout, env)...)
	defer func() { _ = pool.Close() }()

	start := time.Now()
	results := convertBatch(ctx, pool, files, params)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Finished in %v\n", time.Since(start).Round(time.Millisecond))
	}

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Export.Format = flags.format
	}
	if flags.engine != "" {
		cfg.Export.Engine = flags.engine
	}
	if flags.css != "" {
		cfg.Export.CSS = flags.css
	}
	if flags.name != "" {
		cfg.Export.Title = flags.name
	}
	if flags.workers != 0 {
		cfg.Export.Workers = flags.workers
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
	if len(flags.exclude) > 0 {
		cfg.Input.Exclude = append(slices.Clone(cfg.Input.Exclude), flags.exclude...)
	}

	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}
}

// converterOptions builds library options from the merged config.
// A custom asset directory wins over the environment's loader.
func converterOptions(cfg *config.Config, timeout time.Duration, env *Environment) []mdkit.Option {
	opts := []mdkit.Option{mdkit.WithEngine(cfg.Export.Engine)}
	if timeout > 0 {
		opts = append(opts, mdkit.WithTimeout(timeout))
	}
	switch {
	case cfg.Assets.BasePath != "":
		opts = append(opts, mdkit.WithAssetPath(cfg.Assets.BasePath))
	case env.AssetLoader != nil:
		opts = append(opts, mdkit.WithAssetLoader(env.AssetLoader))
	}
	return opts
}

// resolveCSSContent reads the extra stylesheet, if any. A value that
// already looks like CSS is used inline.
func resolveCSSContent(cssFile string) (string, error) {
	if cssFile == "" {
		return "", nil
	}
	if fileutil.IsCSS(cssFile) {
		return cssFile, nil
	}
	content, err := os.ReadFile(cssFile) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}
