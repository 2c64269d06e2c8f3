package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/aguakit/mdkit/internal/random"
)

// runRandCmd draws random integers. Unset flags fall back to the random
// section of the config.
func runRandCmd(args []string, env *Environment) int {
	flags, fs, err := parseRandFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printRandUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printRandUsage(env.Stderr)
		return ExitUsage
	}

	if err := runRand(flags, fs, env); err != nil {
		return reportError(env.Stderr, err)
	}
	return ExitSuccess
}

func runRand(flags *randFlags, fs *flag.FlagSet, env *Environment) error {
	cfg, _, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}

	req := cfg.Random.Request()
	if fs.Changed("min") {
		req.Min = flags.min
	}
	if fs.Changed("max") {
		req.Max = flags.max
	}
	if fs.Changed("count") {
		req.Count = flags.count
	}
	req.Unique = req.Unique || flags.unique
	req.Sort = req.Sort || flags.sort

	var src *rand.Rand
	if flags.seed != 0 {
		src = rand.New(rand.NewPCG(flags.seed, flags.seed))
	}

	values, err := random.Generate(src, req)
	if err != nil {
		return err
	}

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatInt(v, 10)
	}
	fmt.Fprintln(env.Stdout, strings.Join(out, " "))

	if flags.stats && !flags.common.quiet {
		s := random.Summarize(values)
		fmt.Fprintf(env.Stdout, "sum %s, mean %s, min %d, max %d\n",
			humanize.Commaf(s.Sum), humanize.FtoaWithDigits(s.Mean, 4), s.Min, s.Max)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "drew %d from [%d, %d] unique=%t sort=%t\n", req.Count, req.Min, req.Max, req.Unique, req.Sort)
	}
	return nil
}
