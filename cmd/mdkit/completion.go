package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/aguakit/mdkit"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

func shellNames() []string {
	return []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}
}

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values, e.g. shell names
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments (e.g., "*.md")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format":      {Values: formatNames()},
	"engine":      {Values: engineNames},
	"page-size":   {Values: []string{mdkit.PageSizeLetter, mdkit.PageSizeA4, mdkit.PageSizeLegal}},
	"orientation": {Values: []string{mdkit.OrientationPortrait, mdkit.OrientationLandscape}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"css":    {FileGlob: "*.css"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	var names []string
	for _, c := range commandList {
		names = append(names, c.name)
	}

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Export markdown files",
			Flags:       extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})),
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:        "preview",
			Desc:        "Live preview in the browser",
			Flags:       extractFlagsFromFlagSet(newPreviewFlagSet(&previewFlags{})),
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:        "fmt",
			Desc:        "Format markdown files",
			Flags:       extractFlagsFromFlagSet(newFmtFlagSet(&fmtFlags{})),
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{Name: "calc", Desc: "Evaluate an expression"},
		{
			Name:  "rand",
			Desc:  "Draw random integers",
			Flags: extractFlagsFromFlagSet(newRandFlagSet(&randFlags{})),
		},
		{
			Name:  "doctor",
			Desc:  "Check system configuration",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "output as JSON"}},
		},
		{Name: "completion", Desc: "Generate shell completion script", Args: shellNames()},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: names},
	}
}

// runCompletionCmd prints the completion script for args[0].
func runCompletionCmd(args []string, env *Environment) int {
	if len(args) == 0 {
		printCompletionUsage(env.Stderr)
		return ExitUsage
	}
	if args[0] == "-h" || args[0] == "--help" {
		printCompletionUsage(env.Stdout)
		return ExitSuccess
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		return reportError(env.Stderr, err)
	}
	return ExitSuccess
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var sb strings.Builder
	commands := getCommands()

	switch shell {
	case ShellBash:
		writeBash(&sb, commands)
	case ShellZsh:
		writeZsh(&sb, commands)
	case ShellFish:
		writeFish(&sb, commands)
	case ShellPowerShell:
		writePowerShell(&sb, commands)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(shellNames(), ", "))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// flagWords returns "--long -s" style words for every flag of c.
func flagWords(c commandDef) []string {
	var words []string
	for _, f := range c.Flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func writeBash(sb *strings.Builder, commands []commandDef) {
	var names []string
	for _, c := range commands {
		names = append(names, c.Name)
	}

	sb.WriteString("# bash completion for mdkit\n\n")
	sb.WriteString("_mdkit_completions() {\n")
	sb.WriteString("    local cur prev cmd\n")
	sb.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	sb.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	sb.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	sb.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(sb, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(names, " "))
	sb.WriteString("        return\n")
	sb.WriteString("    fi\n\n")
	sb.WriteString("    case \"${cmd}\" in\n")

	for _, c := range commands {
		fmt.Fprintf(sb, "    %s)\n", c.Name)

		var valued []flagDef
		for _, f := range c.Flags {
			if f.takesValue() {
				valued = append(valued, f)
			}
		}
		if len(valued) > 0 {
			sb.WriteString("        case \"${prev}\" in\n")
			for _, f := range valued {
				pattern := "--" + f.Long
				if f.Short != "" {
					pattern += "|-" + f.Short
				}
				fmt.Fprintf(sb, "        %s)\n", pattern)
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(sb, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(f.Values, " "))
				case flagDir:
					sb.WriteString("            COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
				case flagFile:
					sb.WriteString("            COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
				default:
					sb.WriteString("            COMPREPLY=()\n")
				}
				sb.WriteString("            return\n")
				sb.WriteString("            ;;\n")
			}
			sb.WriteString("        esac\n")
		}

		switch {
		case len(c.Flags) > 0 && c.TakesFiles:
			sb.WriteString("        if [[ ${cur} == -* ]]; then\n")
			fmt.Fprintf(sb, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(flagWords(c), " "))
			sb.WriteString("        else\n")
			sb.WriteString("            COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
			sb.WriteString("        fi\n")
		case len(c.Flags) > 0:
			fmt.Fprintf(sb, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(flagWords(c), " "))
		case len(c.Args) > 0:
			fmt.Fprintf(sb, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			sb.WriteString("        COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
		default:
			sb.WriteString("        COMPREPLY=()\n")
		}
		sb.WriteString("        ;;\n")
	}

	sb.WriteString("    esac\n")
	sb.WriteString("}\n\n")
	sb.WriteString("complete -F _mdkit_completions mdkit\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshQuote escapes text for a single-quoted _arguments spec.
func zshQuote(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func zshGlob(patterns string) string {
	return strings.ReplaceAll(patterns, ",", " ")
}

func writeZsh(sb *strings.Builder, commands []commandDef) {
	sb.WriteString("#compdef mdkit\n\n")
	sb.WriteString("_mdkit() {\n")
	sb.WriteString("    local -a commands\n")
	sb.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(sb, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	sb.WriteString("    )\n\n")
	sb.WriteString("    if (( CURRENT == 2 )); then\n")
	sb.WriteString("        _describe 'command' commands\n")
	sb.WriteString("        return\n")
	sb.WriteString("    fi\n\n")
	sb.WriteString("    local cmd=$words[2]\n")
	sb.WriteString("    shift words\n")
	sb.WriteString("    (( CURRENT-- ))\n\n")
	sb.WriteString("    case $cmd in\n")

	for _, c := range commands {
		specs := zshSpecs(c)
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(sb, "    %s)\n", c.Name)
		sb.WriteString("        _arguments \\\n")
		for i, spec := range specs {
			sb.WriteString("            " + spec)
			if i < len(specs)-1 {
				sb.WriteString(" \\")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("        ;;\n")
	}

	sb.WriteString("    esac\n")
	sb.WriteString("}\n\n")
	sb.WriteString("_mdkit \"$@\"\n")
}

func zshSpecs(c commandDef) []string {
	var specs []string
	for _, f := range c.Flags {
		var action string
		switch f.Type {
		case flagBool:
		case flagEnum:
			action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
		case flagFile:
			action = ":file:_files -g \"" + zshGlob(f.FileGlob) + "\""
		case flagDir:
			action = ":directory:_files -/"
		default:
			action = ":" + f.Long + ":"
		}

		desc := "[" + zshQuote(f.Desc) + "]"
		if f.Short != "" {
			specs = append(specs, fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action))
		} else {
			specs = append(specs, fmt.Sprintf("'--%s%s%s'", f.Long, desc, action))
		}
	}
	switch {
	case len(c.Args) > 0:
		specs = append(specs, fmt.Sprintf("'1:%s:(%s)'", c.Name, strings.Join(c.Args, " ")))
	case c.TakesFiles:
		specs = append(specs, fmt.Sprintf("'*:file:_files -g \"%s\"'", zshGlob(c.FilePattern)))
	}
	return specs
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishQuote escapes text for a single-quoted fish string.
func fishQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

func writeFish(sb *strings.Builder, commands []commandDef) {
	sb.WriteString("# fish completion for mdkit\n\n")
	sb.WriteString("function __fish_mdkit_needs_command\n")
	sb.WriteString("    set -l cmd (commandline -opc)\n")
	sb.WriteString("    test (count $cmd) -eq 1\n")
	sb.WriteString("end\n\n")
	sb.WriteString("function __fish_mdkit_using_command\n")
	sb.WriteString("    set -l cmd (commandline -opc)\n")
	sb.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	sb.WriteString("end\n\n")
	sb.WriteString("complete -c mdkit -f\n\n")

	for _, c := range commands {
		fmt.Fprintf(sb, "complete -c mdkit -n __fish_mdkit_needs_command -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range commands {
		cond := fmt.Sprintf("'__fish_mdkit_using_command %s'", c.Name)
		sb.WriteString("\n")
		for _, f := range c.Flags {
			line := "complete -c mdkit -n " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishQuote(f.Desc))
			sb.WriteString(line + "\n")
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(sb, "complete -c mdkit -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		if c.TakesFiles {
			fmt.Fprintf(sb, "complete -c mdkit -n %s -F\n", cond)
		}
	}
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

// psQuote escapes text for a single-quoted PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + psQuote(s) + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func writePowerShell(sb *strings.Builder, commands []commandDef) {
	sb.WriteString("# powershell completion for mdkit\n\n")
	sb.WriteString("Register-ArgumentCompleter -Native -CommandName mdkit -ScriptBlock {\n")
	sb.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	sb.WriteString("    $commands = [ordered]@{\n")
	for _, c := range commands {
		fmt.Fprintf(sb, "        '%s' = '%s'\n", c.Name, psQuote(c.Desc))
	}
	sb.WriteString("    }\n")

	sb.WriteString("    $words = @{\n")
	for _, c := range commands {
		words := append(flagWords(c), c.Args...)
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(sb, "        '%s' = %s\n", c.Name, psList(words))
	}
	sb.WriteString("    }\n")

	sb.WriteString("    $values = @{\n")
	seen := make(map[string]bool)
	for _, c := range commands {
		for _, f := range c.Flags {
			if f.Type != flagEnum || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			fmt.Fprintf(sb, "        '--%s' = %s\n", f.Long, psList(f.Values))
			if f.Short != "" {
				fmt.Fprintf(sb, "        '-%s' = %s\n", f.Short, psList(f.Values))
			}
		}
	}
	sb.WriteString("    }\n\n")

	sb.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	sb.WriteString("    if ($elements.Count -lt 2 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	sb.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	sb.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	sb.WriteString("        }\n")
	sb.WriteString("        return\n")
	sb.WriteString("    }\n\n")
	sb.WriteString("    $prev = if ($wordToComplete -eq '') { $elements[-1] } else { $elements[-2] }\n")
	sb.WriteString("    if ($values.ContainsKey($prev)) {\n")
	sb.WriteString("        $values[$prev] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	sb.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	sb.WriteString("        }\n")
	sb.WriteString("        return\n")
	sb.WriteString("    }\n\n")
	sb.WriteString("    $cmd = $elements[1]\n")
	sb.WriteString("    if ($words.ContainsKey($cmd)) {\n")
	sb.WriteString("        $words[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	sb.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	sb.WriteString("        }\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
}
