package main

import (
	"fmt"
	"io"
)

// commandList is the order commands appear in usage output.
var commandList = []struct {
	name  string
	desc  string
	usage func(io.Writer)
}{
	{"convert", "Export markdown files to md, html, doc, print or pdf", printConvertUsage},
	{"preview", "Live preview a markdown file in the browser", printPreviewUsage},
	{"fmt", "Format markdown files", printFmtUsage},
	{"calc", "Evaluate an arithmetic expression", printCalcUsage},
	{"rand", "Draw random integers", printRandUsage},
	{"doctor", "Check system configuration", printDoctorUsage},
	{"completion", "Generate shell completion script", printCompletionUsage},
	{"version", "Show version information", nil},
	{"help", "Show help for a command", nil},
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commandList {
		fmt.Fprintf(w, "  %-11s%s\n", c.name, c.desc)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdkit help <command>' for details on a specific command.")
}

// runHelpCmd prints usage for args[0], or the main usage.
func runHelpCmd(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	for _, c := range commandList {
		if c.name != args[0] {
			continue
		}
		if c.usage != nil {
			c.usage(env.Stdout)
		} else {
			printUsage(env.Stdout)
		}
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
	printUsage(env.Stderr)
	return ExitUsage
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export markdown files. Directories are walked for .md and .markdown files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --exclude <glob>      Skip matching files in directories (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -f, --format <s>          Format: md, html, doc, print, pdf (default: html)")
	fmt.Fprintln(w, "  -e, --engine <s>          Engine: lite, gfm (default: lite)")
	fmt.Fprintln(w, "      --css <path>          Extra stylesheet (file or inline CSS)")
	fmt.Fprintln(w, "      --name <s>            Document title (default: file name)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (pdf only):")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show sizes and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDKIT_CONFIG, MDKIT_FORMAT, MDKIT_ENGINE, MDKIT_TIMEOUT, MDKIT_WORKERS,")
	fmt.Fprintln(w, "  MDKIT_INPUT_DIR, MDKIT_OUTPUT_DIR, MDKIT_PAGE_SIZE")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdkit convert notes.md")
	fmt.Fprintln(w, "  mdkit convert -f pdf -p a4 -o out/ docs/")
	fmt.Fprintln(w, "  mdkit convert --exclude 'drafts/**' -f doc docs/")
}

func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit preview <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve an editor with live preview. The page reloads when the file changes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default: 127.0.0.1:3000)")
	fmt.Fprintln(w, "      --no-open             Do not open a browser")
	fmt.Fprintln(w, "  -e, --engine <s>          Engine: lite, gfm (default: lite)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

func printFmtUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit fmt <file>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tidy markdown: trailing spaces, blank runs, missing marker spaces.")
	fmt.Fprintln(w, "Code fences are left untouched. Use - to read stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -w, --write               Write the result back to the file")
	fmt.Fprintln(w, "  -d, --diff                Print changed lines instead of the result")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

func printCalcUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit calc [expression]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Evaluate an expression. Without one, read expressions from stdin;")
	fmt.Fprintln(w, "on a terminal this starts an interactive session.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Operators:  + - * / × ÷ ^ ! %")
	fmt.Fprintln(w, "Functions:  sin cos tan asin acos atan sqrt log ln abs exp pow min max")
	fmt.Fprintln(w, "Constants:  pi π e")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Session commands: history, clear, exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdkit calc '2^10 + sqrt(16)'")
	fmt.Fprintln(w, "  mdkit calc '5! / 3'")
}

func printRandUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit rand [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Draw random integers in [min, max].")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --min <n>             Lowest value (default: 1)")
	fmt.Fprintln(w, "      --max <n>             Highest value (default: 100)")
	fmt.Fprintln(w, "  -n, --count <n>           How many, 1-1000 (default: 1)")
	fmt.Fprintln(w, "  -u, --unique              No repeated values")
	fmt.Fprintln(w, "  -s, --sort                Sort ascending")
	fmt.Fprintln(w, "      --stats               Print sum, mean, min and max")
	fmt.Fprintln(w, "      --seed <n>            Reproducible draw (0 = random)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome (pdf export), the environment, temp directory and config.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output as JSON")
}

// printCompletionUsage prints usage for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdkit completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a completion script. Shells: bash, zsh, fish, powershell")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  mdkit completion bash > /etc/bash_completion.d/mdkit")
	fmt.Fprintln(w, "  mdkit completion zsh > \"${fpath[1]}/_mdkit\"")
	fmt.Fprintln(w, "  mdkit completion fish > ~/.config/fish/completions/mdkit.fish")
	fmt.Fprintln(w, "  mdkit completion powershell >> $PROFILE")
}
