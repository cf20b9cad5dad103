// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/shayne/yargs"
	"github.com/yeetrun/optparse/pkg/cli"
	"github.com/yeetrun/optparse/pkg/declfile"
	"github.com/yeetrun/optparse/pkg/optparse"
	"github.com/yeetrun/optparse/pkg/tui"
	"github.com/yeetrun/optparse/pkg/version"
)

const description = "Declare command-line options in a file and parse command lines against them"

var (
	// rawArgs holds everything after the first "--". They are kept away from
	// the router so that -h or --help in them reach the declarations.
	rawArgs      []string
	declOverride string
	logger       = newLogger(os.Stderr, false)
	colors       tui.Colorizer // stderr
	outColors    tui.Colorizer // stdout
	stdin        io.Reader     = os.Stdin
)

type globalFlagsParsed struct {
	Decl    string `flag:"decl" help:"Declaration file (OPTPARSE_DECL, default: nearest optparse.toml or optparse.yaml)"`
	Verbose bool   `flag:"verbose" short:"v" help:"Log debug output to stderr"`
	NoColor bool   `flag:"no-color" help:"Disable colored output"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix: "optparse",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// resolveDeclPath picks the declaration file: the --decl flag, then
// OPTPARSE_DECL, then the nearest file found walking up from dir.
func resolveDeclPath(flag string, getenv func(string) string, dir string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if p := getenv("OPTPARSE_DECL"); p != "" {
		return p, nil
	}
	p, err := declfile.Find(dir)
	if errors.Is(err, os.ErrNotExist) {
		return "", errors.New("no optparse.toml or optparse.yaml found; pass --decl or set OPTPARSE_DECL")
	}
	return p, err
}

func loadParser() (*optparse.Parser, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := resolveDeclPath(declOverride, os.Getenv, cwd)
	if err != nil {
		return nil, err
	}
	f, err := declfile.Load(path, version.Version())
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded declarations", "file", path, "options", len(f.Options), "positionals", len(f.Positionals))
	return f.Parser(), nil
}

type errorPrefixer interface {
	errorPrefix() string
}

// commandExitError reports a non-zero exit of the command run by exec. The
// command has already written its own diagnostics.
type commandExitError struct {
	name string
	code int
}

func (e *commandExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.name, e.code)
}

func (e *commandExitError) errorPrefix() string {
	return "exec: "
}

var parseErrors = []error{
	optparse.ErrOverlappingQuotes,
	optparse.ErrUnterminatedQuote,
	optparse.ErrMismatchedQuote,
	optparse.ErrUnexpectedOption,
	optparse.ErrMissingOptionValue,
	optparse.ErrUnknownAttribute,
	optparse.ErrMissingOptions,
}

func isParseError(err error) bool {
	for _, target := range parseErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// exitCode maps err to the process exit status: 2 for a rejected command
// line, the child's status for exec and 1 for everything else.
func exitCode(err error) int {
	var ce *commandExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ce):
		return ce.code
	case isParseError(err):
		return 2
	}
	return 1
}

func printCLIError(w io.Writer, c tui.Colorizer, err error) {
	if err == nil {
		return
	}
	prefix := "error: "
	var pref errorPrefixer
	switch {
	case errors.As(err, &pref):
		prefix = pref.errorPrefix()
	case isParseError(err):
		prefix = "parse error: "
	}
	if prefix != "" {
		fmt.Fprint(w, c.Error(prefix))
	}
	fmt.Fprintln(w, err)
}

// asExitError converts the exit of a child process into a commandExitError.
func asExitError(name string, err error) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &commandExitError{name: name, code: ee.ExitCode()}
	}
	return err
}

func main() {
	args, raw := cli.SplitAtDoubleDash(os.Args[1:])
	rawArgs = raw
	globalFlags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	declOverride = globalFlags.Decl
	logger = newLogger(os.Stderr, globalFlags.Verbose)
	colors = tui.NewColorizer(!globalFlags.NoColor, os.Stderr)
	outColors = tui.NewColorizer(!globalFlags.NoColor, os.Stdout)

	handlers := map[string]yargs.SubcommandHandler{
		"parse":    handleParse,
		"tokenize": handleTokenize,
		"usage":    handleUsage,
		"check":    handleCheck,
		"exec":     handleExec,
		"init":     handleInit,
		"version":  handleVersion,
	}
	err = yargs.RunSubcommands(context.Background(), remaining, cli.HelpConfig(description), globalFlagsParsed{}, handlers)
	var helpErr *optparse.HelpError
	if errors.As(err, &helpErr) {
		fmt.Print(helpErr.Help)
		return
	}
	if err != nil {
		printCLIError(os.Stderr, colors, err)
		os.Exit(exitCode(err))
	}
}
