package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aguakit/mdkit/internal/calc"
)

const calcPrompt = "> "

// runCalcCmd evaluates the expression in args. Without args it reads
// expressions line by line: as a REPL when stdin is a terminal, silently
// otherwise.
func runCalcCmd(args []string, env *Environment) int {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		printCalcUsage(env.Stdout)
		return ExitSuccess
	}

	if len(args) > 0 {
		v, err := calc.Eval(strings.Join(args, " "))
		if err != nil {
			return reportError(env.Stderr, err)
		}
		fmt.Fprintln(env.Stdout, calc.Format(v))
		return ExitSuccess
	}

	interactive := env.IsTerminal != nil && env.IsTerminal()
	return runCalcLoop(env.Stdin, env.Stdout, env.Stderr, interactive)
}

// runCalcLoop evaluates one expression per line. The REPL understands
// "history", "clear" and "exit"; errors do not end it. In batch mode the
// exit code reflects the last failure.
func runCalcLoop(in io.Reader, out, errOut io.Writer, interactive bool) int {
	var session calc.Session
	code := ExitSuccess
	scanner := bufio.NewScanner(in)

	if interactive {
		fmt.Fprintln(out, "mdkit calc: type an expression, \"history\", \"clear\" or \"exit\"")
		fmt.Fprint(out, calcPrompt)
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case interactive && (line == "exit" || line == "quit"):
			return code
		case interactive && line == "history":
			for _, entry := range session.History() {
				fmt.Fprintln(out, entry)
			}
		case interactive && line == "clear":
			session.Clear()
		default:
			v, err := session.Eval(line)
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				code = exitCodeFor(err)
				break
			}
			fmt.Fprintln(out, calc.Format(v))
		}
		if interactive {
			fmt.Fprint(out, calcPrompt)
		}
	}
	if err := scanner.Err(); err != nil {
		return reportError(errOut, err)
	}
	if interactive {
		fmt.Fprintln(out)
	}
	return code
}
