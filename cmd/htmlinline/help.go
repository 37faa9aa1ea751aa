package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlinline <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  inline     Inline scripts, stylesheets, icons and images into HTML files")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'htmlinline help <command>' for details on a specific command.")
}

// printInlineUsage prints usage for the inline command.
func printInlineUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlinline inline <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Inline external resources referenced by HTML files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file or directory. A single file without --output is")
	fmt.Fprintln(w, "           written to stdout; otherwise each file becomes <name>.inline.html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>            Output file (single input) or directory")
	fmt.Fprintln(w, "  -c, --config <name>            Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>              Parallel documents (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>              Per-request timeout for remote resources")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Processing:")
	fmt.Fprintln(w, "      --tags <list>              Tags to inline (default: script,link,img)")
	fmt.Fprintln(w, "      --pretty                   Pretty-print the output (wins over --minify)")
	fmt.Fprintln(w, "      --minify                   Minify the output")
	fmt.Fprintln(w, "      --no-collapse-whitespace   Keep whitespace when minifying")
	fmt.Fprintln(w, "      --no-minify-css            Leave embedded CSS alone when minifying")
	fmt.Fprintln(w, "      --no-minify-js             Leave embedded JavaScript alone when minifying")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                    Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                  List inlined resources and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTMLINLINE_CONFIG, HTMLINLINE_TAGS, HTMLINLINE_TIMEOUT,")
	fmt.Fprintln(w, "  HTMLINLINE_WORKERS, HTMLINLINE_LOG_LEVEL")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "inline":
		printInlineUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: htmlinline version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: htmlinline help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
