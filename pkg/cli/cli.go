// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/shayne/yargs"
	"mvdan.cc/sh/v3/shell"
)

// Output formats accepted by --format.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatEnv   = "env"
)

var formats = []string{FormatPlain, FormatJSON, FormatYAML, FormatEnv}

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
}

// InputFlags select where the command line to parse comes from. Without
// --line the arguments after "--" are used. A line starting with '-' must be
// passed as --line=VALUE.
type InputFlags struct {
	Line  string
	Shell bool
}

type ParseFlags struct {
	InputFlags
	Format string
	Out    string
}

type TokenizeFlags struct {
	InputFlags
	Format string
}

type CheckFlags struct {
	Quiet bool
}

type ExecFlags struct {
	InputFlags
	Cmd string
}

type InitFlags struct {
	Name  string
	Force bool
}

type parseFlagsParsed struct {
	Line   string `flag:"line" short:"l" help:"Parse this string instead of the arguments after --"`
	Shell  bool   `flag:"shell" help:"Split --line with POSIX shell rules first"`
	Format string `flag:"format" short:"f" default:"plain" help:"Output format: plain, json, yaml or env"`
	Out    string `flag:"out" short:"o" help:"Write the result to a file instead of stdout"`
}

type tokenizeFlagsParsed struct {
	Line   string `flag:"line" short:"l" help:"Tokenize this string instead of the arguments after --"`
	Shell  bool   `flag:"shell" help:"Split --line with POSIX shell rules first"`
	Format string `flag:"format" short:"f" default:"plain" help:"Output format: plain, json or yaml"`
}

type checkFlagsParsed struct {
	Quiet bool `flag:"quiet" short:"q" help:"Only report invalid files"`
}

type execFlagsParsed struct {
	Line  string `flag:"line" short:"l" help:"Parse this string instead of the arguments after --"`
	Shell bool   `flag:"shell" help:"Split --line with POSIX shell rules first"`
	Cmd   string `flag:"cmd" short:"c" help:"Command to run with the bound values in its environment"`
}

type initFlagsParsed struct {
	Name  string `flag:"name" short:"n" help:"Command name for the template (default: directory name)"`
	Force bool   `flag:"force" help:"Overwrite an existing file without asking"`
}

var commandInfos = map[string]CommandInfo{
	"parse": {
		Name:        "parse",
		Description: "Parse a command line against the declarations and print the bound values",
		Usage:       "[--format FORMAT] [--line LINE [--shell]] [-- ARGS...]",
		Examples: []string{
			"optparse parse -- -c app.toml -f src dst",
			"optparse parse --format json --line='-c app.toml \"my file\"'",
			"optparse parse --format env --out opts.env -- -c app.toml src",
		},
	},
	"tokenize": {
		Name:        "tokenize",
		Description: "Print the logical tokens of a command line",
		Usage:       "[--format FORMAT] [--line LINE [--shell]] [-- ARGS...]",
		Examples: []string{
			"optparse tokenize --line='\"foo bar\" baz'",
		},
	},
	"usage": {
		Name:        "usage",
		Description: "Render the help text for the declarations",
		Examples:    []string{"optparse --decl cp.toml usage"},
	},
	"check": {
		Name:        "check",
		Description: "Validate declaration files",
		Usage:       "[FILE...]",
		Examples:    []string{"optparse check", "optparse check cp.toml mv.yaml"},
	},
	"exec": {
		Name:        "exec",
		Description: "Parse a command line and run a command with the bound values as OPT_* variables",
		Usage:       "--cmd COMMAND [--line LINE [--shell]] [-- ARGS...]",
		Examples: []string{
			"optparse exec --cmd ./deploy.sh -- -c prod.toml src",
		},
	},
	"init": {
		Name:        "init",
		Description: "Write a starter declaration file",
		Usage:       "[FILE]",
		Examples:    []string{"optparse init", "optparse init --name cp cp.yaml"},
	},
	"version": {
		Name:        "version",
		Description: "Print the optparse version",
	},
}

// HelpConfig builds the yargs help metadata for the optparse binary.
func HelpConfig(description string) yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo, len(commandInfos))
	for name, info := range commandInfos {
		subcommands[name] = toSubCommandInfo(name, info)
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "optparse",
			Description: description,
			Examples: []string{
				"optparse init cp.toml",
				"optparse --decl cp.toml parse -- -c app.toml src",
				"optparse --decl cp.toml usage",
			},
		},
		SubCommands: subcommands,
	}
}

func toSubCommandInfo(name string, info CommandInfo) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Hidden:      info.Hidden,
		Aliases:     info.Aliases,
	}
}

func ParseParse(args []string) (ParseFlags, []string, error) {
	parsed, err := parseFlags[parseFlagsParsed](stripCommand(args, "parse"))
	if err != nil {
		return ParseFlags{}, nil, err
	}
	flags := ParseFlags{
		InputFlags: InputFlags{Line: parsed.Flags.Line, Shell: parsed.Flags.Shell},
		Format:     parsed.Flags.Format,
		Out:        parsed.Flags.Out,
	}
	if err := checkFormat(flags.Format, formats); err != nil {
		return ParseFlags{}, nil, err
	}
	return flags, parsed.Args, nil
}

func ParseTokenize(args []string) (TokenizeFlags, []string, error) {
	parsed, err := parseFlags[tokenizeFlagsParsed](stripCommand(args, "tokenize"))
	if err != nil {
		return TokenizeFlags{}, nil, err
	}
	flags := TokenizeFlags{
		InputFlags: InputFlags{Line: parsed.Flags.Line, Shell: parsed.Flags.Shell},
		Format:     parsed.Flags.Format,
	}
	if err := checkFormat(flags.Format, formats[:3]); err != nil {
		return TokenizeFlags{}, nil, err
	}
	return flags, parsed.Args, nil
}

func ParseCheck(args []string) (CheckFlags, []string, error) {
	parsed, err := parseFlags[checkFlagsParsed](stripCommand(args, "check"))
	if err != nil {
		return CheckFlags{}, nil, err
	}
	return CheckFlags{Quiet: parsed.Flags.Quiet}, parsed.Args, nil
}

func ParseExec(args []string) (ExecFlags, []string, error) {
	parsed, err := parseFlags[execFlagsParsed](stripCommand(args, "exec"))
	if err != nil {
		return ExecFlags{}, nil, err
	}
	flags := ExecFlags{
		InputFlags: InputFlags{Line: parsed.Flags.Line, Shell: parsed.Flags.Shell},
		Cmd:        parsed.Flags.Cmd,
	}
	if strings.TrimSpace(flags.Cmd) == "" {
		return ExecFlags{}, nil, errors.New("exec requires --cmd")
	}
	return flags, parsed.Args, nil
}

func ParseInit(args []string) (InitFlags, []string, error) {
	parsed, err := parseFlags[initFlagsParsed](stripCommand(args, "init"))
	if err != nil {
		return InitFlags{}, nil, err
	}
	if err := RequireArgsAtMost("init", parsed.Args, 1); err != nil {
		return InitFlags{}, nil, err
	}
	return InitFlags{Name: parsed.Flags.Name, Force: parsed.Flags.Force}, parsed.Args, nil
}

// Input returns the command line selected by in. A plain --line is passed
// through as one joined string and tokenized later; with --shell it is split
// by shell rules first and the pieces are passed as separate arguments.
func Input(in InputFlags, raw []string) ([]string, error) {
	if in.Line == "" {
		if in.Shell {
			return nil, errors.New("--shell requires --line")
		}
		return raw, nil
	}
	if len(raw) > 0 {
		return nil, errors.New("use either --line or arguments after --, not both")
	}
	if !in.Shell {
		return []string{in.Line}, nil
	}
	fields, err := shell.Fields(in.Line, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to split --line: %w", err)
	}
	return fields, nil
}

// SplitAtDoubleDash splits args at the first "--". The separator itself is
// dropped.
func SplitAtDoubleDash(args []string) ([]string, []string) {
	return splitArgsAtDoubleDash(args)
}

type parsedFlags[T any] struct {
	Flags  T
	Args   []string
	Parser *yargs.Parser
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut, Parser: result.Parser}, nil
}

func splitArgsAtDoubleDash(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
	}
	return args, nil
}

func stripCommand(args []string, name string) []string {
	if len(args) > 0 && args[0] == name {
		return args[1:]
	}
	return args
}

func checkFormat(format string, allowed []string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return fmt.Errorf("unknown format %q: want one of %s", format, strings.Join(allowed, ", "))
}

func RequireArgsAtMost(subcmd string, args []string, count int) error {
	if len(args) > count {
		return fmt.Errorf("'%s' takes at most %d argument(s), got %d", subcmd, count, len(args))
	}
	return nil
}
