// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yeetrun/optparse/pkg/cli"
	"github.com/yeetrun/optparse/pkg/cmdutil"
	"github.com/yeetrun/optparse/pkg/declfile"
	"github.com/yeetrun/optparse/pkg/env"
	"github.com/yeetrun/optparse/pkg/fileutil"
	"github.com/yeetrun/optparse/pkg/optparse"
	"github.com/yeetrun/optparse/pkg/tui"
	"github.com/yeetrun/optparse/pkg/version"
	"golang.org/x/sync/errgroup"
)

func noExtraArgs(cmd string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("'%s' got unexpected arguments %q; put the command line after --", cmd, args)
	}
	return nil
}

func bind(in cli.InputFlags) (*optparse.Parser, *optparse.Result, error) {
	input, err := cli.Input(in, rawArgs)
	if err != nil {
		return nil, nil, err
	}
	p, err := loadParser()
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("parsing", "command", p.Name(), "args", len(input))
	res, err := p.Parse(input...)
	if err != nil {
		return nil, nil, err
	}
	return p, res, nil
}

func handleParse(_ context.Context, args []string) error {
	flags, extra, err := cli.ParseParse(args)
	if err != nil {
		return err
	}
	if err := noExtraArgs("parse", extra); err != nil {
		return err
	}
	p, res, err := bind(flags.InputFlags)
	if err != nil {
		return err
	}
	switch {
	case flags.Out == "":
		return writeResult(os.Stdout, flags.Format, p, res)
	case flags.Format == cli.FormatEnv:
		if err := env.Write(flags.Out, p, res); err != nil {
			return err
		}
		logger.Info("wrote result", "path", flags.Out, "format", flags.Format)
		return nil
	}
	var buf bytes.Buffer
	if err := writeResult(&buf, flags.Format, p, res); err != nil {
		return err
	}
	if err := fileutil.WriteFile(flags.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.Out, err)
	}
	logger.Info("wrote result", "path", flags.Out, "format", flags.Format)
	return nil
}

func handleTokenize(_ context.Context, args []string) error {
	flags, extra, err := cli.ParseTokenize(args)
	if err != nil {
		return err
	}
	if err := noExtraArgs("tokenize", extra); err != nil {
		return err
	}
	input, err := cli.Input(flags.InputFlags, rawArgs)
	if err != nil {
		return err
	}
	toks, err := optparse.Tokenize(input)
	if err != nil {
		return err
	}
	logger.Debug("tokenized", "tokens", len(toks))
	return writeTokens(os.Stdout, flags.Format, toks)
}

func handleUsage(_ context.Context, args []string) error {
	if len(args) > 0 && args[0] == "usage" {
		args = args[1:]
	}
	if len(args) > 0 {
		return fmt.Errorf("'usage' takes no arguments")
	}
	p, err := loadParser()
	if err != nil {
		return err
	}
	fmt.Print(p.Help())
	return nil
}

// checkFiles validates every file concurrently and reports each result on w.
// The returned error names how many files failed.
func checkFiles(ctx context.Context, w io.Writer, c tui.Colorizer, files []string, quiet bool) error {
	errs := make([]error, len(files))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range files {
		g.Go(func() error {
			_, errs[i] = declfile.Load(path, version.Version())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	failed := 0
	for i, path := range files {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(w, "%s %s\n", c.Error("FAIL"), c.Dim(errs[i].Error()))
			continue
		}
		if !quiet {
			fmt.Fprintf(w, "%s   %s\n", c.OK("ok"), c.Key(path))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d declaration files are invalid", failed, len(files))
	}
	return nil
}

func handleCheck(ctx context.Context, args []string) error {
	flags, files, err := cli.ParseCheck(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path, err := resolveDeclPath(declOverride, os.Getenv, cwd)
		if err != nil {
			return err
		}
		files = []string{path}
	}
	logger.Debug("checking", "files", len(files))
	return checkFiles(ctx, os.Stdout, outColors, files, flags.Quiet)
}

func handleExec(ctx context.Context, args []string) error {
	flags, cmdArgs, err := cli.ParseExec(args)
	if err != nil {
		return err
	}
	p, res, err := bind(flags.InputFlags)
	if err != nil {
		return err
	}
	id := uuid.New().String()
	extraEnv := append(env.Environ(p, res), "OPTPARSE_INVOCATION_ID="+id)
	logger.Debug("running", "cmd", flags.Cmd, "invocation", id)
	cmd := cmdutil.NewStdCmd(ctx, extraEnv, flags.Cmd, cmdArgs...)
	if err := cmd.Run(); err != nil {
		return asExitError(flags.Cmd, err)
	}
	return nil
}

func handleInit(_ context.Context, args []string) error {
	flags, rest, err := cli.ParseInit(args)
	if err != nil {
		return err
	}
	path := "optparse.toml"
	if len(rest) == 1 {
		path = rest[0]
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	name := flags.Name
	if name == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return err
		}
		name = filepath.Base(abs)
	}
	ok, err := fileutil.Exists(path)
	if err != nil {
		return err
	}
	if ok && !flags.Force {
		confirmed, err := cmdutil.Confirm(stdin, os.Stdout, fmt.Sprintf("%s exists. Overwrite?", path))
		if err != nil {
			return err
		}
		if !confirmed {
			return errors.New("aborted")
		}
	}
	if err := declfile.Save(path, declfile.Template(name)); err != nil {
		return err
	}
	logger.Info("wrote declaration template", "path", path, "name", name)
	return nil
}

func handleVersion(_ context.Context, _ []string) error {
	fmt.Printf("optparse %s (%s)\n", version.Version(), version.Commit())
	return nil
}
