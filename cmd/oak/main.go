/*
Oak parses source text with the bundled jsonlang grammar and prints the
resulting syntax tree, or runs an interactive incremental-parsing session.

Usage:

	oak <command> [flags]

Commands:

	parse FILE
	    Parse FILE once and print its syntax tree and any diagnostics.

	repl
	    Start an interactive incremental-parsing session: each submitted
	    line is appended to a running source buffer and reparsed
	    incrementally against the previous syntax tree.

The flags are:

	-v, --version
		Print the current version of oak and exit.

	--lang-config FILE
		Load grammar configuration (deadlock-retry count, incremental
		cursor-step budget) from a TOML file. Unset fields fall back to
		package defaults. Only the cursor-step budget reaches the bundled
		jsonlang grammar; its lexer always runs with the default
		deadlock-retry count.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/oak/internal/version"
	"github.com/dekarrin/oak/lang"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitParseError indicates a parse or REPL session ended in an I/O
	// error (not a parse diagnostic, which is reported but not fatal).
	ExitParseError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue before any parsing began: bad flags, missing files, an
	// unreadable --lang-config.
	ExitInitError
)

var (
	returnCode     = ExitSuccess
	flagVersion    = pflag.BoolP("version", "v", false, "Gives the version info")
	langConfigFile = pflag.String("lang-config", "", "TOML file of grammar configuration overrides")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := lang.Config{}
	if *langConfigFile != "" {
		loaded, err := lang.LoadConfig(*langConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: expected a command: parse or repl")
		returnCode = ExitInitError
		return
	}

	switch args[0] {
	case "parse":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "ERROR: parse requires a FILE argument")
			returnCode = ExitInitError
			return
		}
		if err := runParse(args[1], cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
		}
	case "repl":
		if err := runRepl(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
		}
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unknown command %q\n", args[0])
		returnCode = ExitInitError
	}
}
