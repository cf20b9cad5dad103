// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/optparse/pkg/cli"
	"github.com/yeetrun/optparse/pkg/declfile"
	"github.com/yeetrun/optparse/pkg/optparse"
	"github.com/yeetrun/optparse/pkg/tui"
)

func cpParser() *optparse.Parser {
	return optparse.New("cp", "Copy files").
		AddOption('f', "force", optparse.Optional, "false", "Overwrite").
		AddValueOption('c', "config", optparse.Required, "", "Config file").
		AddPositional("source", optparse.Required, "", "Source").
		AddPositional("target", optparse.Optional, ".", "Target")
}

func parseCP(t *testing.T) (*optparse.Parser, *optparse.Result) {
	t.Helper()
	p := cpParser()
	res, err := p.Parse("-c", "app.toml", "src")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p, res
}

func TestWriteResultPlain(t *testing.T) {
	p, res := parseCP(t)
	var buf bytes.Buffer
	if err := writeResult(&buf, cli.FormatPlain, p, res); err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}
	want := strings.Join([]string{
		"NAME           KIND       SOURCE    VALUE",
		"-f, --force    optional   default   false",
		"-c, --config   required   set       app.toml",
		"source         required   set       src",
		"target         optional   default   .",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("plain output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteResultEnv(t *testing.T) {
	p, res := parseCP(t)
	var buf bytes.Buffer
	if err := writeResult(&buf, cli.FormatEnv, p, res); err != nil {
		t.Fatalf("writeResult() error = %v", err)
	}
	want := strings.Join([]string{
		"OPT_FORCE=false",
		"OPT_CONFIG=app.toml",
		"OPT_CONFIG_SET=1",
		"OPT_SOURCE=src",
		"OPT_SOURCE_SET=1",
		"OPT_TARGET=.",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("env output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteResultStructured(t *testing.T) {
	p, res := parseCP(t)
	tests := []struct {
		format string
		want   []string
	}{
		{cli.FormatJSON, []string{`"command": "cp"`, `"name": "config"`, `"value": "app.toml"`, `"positional": true`}},
		{cli.FormatYAML, []string{"command: cp", "- name: target", "value: app.toml", "short: c"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeResult(&buf, tt.format, p, res); err != nil {
				t.Fatalf("writeResult() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestWriteTokens(t *testing.T) {
	toks, err := optparse.Tokenize([]string{`"foo bar" baz`})
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	var buf bytes.Buffer
	if err := writeTokens(&buf, cli.FormatPlain, toks); err != nil {
		t.Fatalf("writeTokens() error = %v", err)
	}
	want := "0\t\"\\\"foo bar\\\"\"\n1\t\" baz\"\n"
	if got := buf.String(); got != want {
		t.Errorf("writeTokens() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := writeTokens(&buf, cli.FormatJSON, nil); err != nil {
		t.Fatalf("writeTokens() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("writeTokens(nil) = %q, want %q", got, "[]")
	}
}

func TestResolveDeclPath(t *testing.T) {
	dir := t.TempDir()
	noEnv := func(string) string { return "" }

	if got, err := resolveDeclPath("flag.toml", func(string) string { return "env.toml" }, dir); err != nil || got != "flag.toml" {
		t.Errorf("resolveDeclPath(flag) = %q, %v, want flag.toml", got, err)
	}
	if got, err := resolveDeclPath("", func(string) string { return "env.toml" }, dir); err != nil || got != "env.toml" {
		t.Errorf("resolveDeclPath(env) = %q, %v, want env.toml", got, err)
	}
	if _, err := resolveDeclPath("", noEnv, dir); err == nil || !strings.Contains(err.Error(), "pass --decl") {
		t.Errorf("resolveDeclPath(none) error = %v, want a hint", err)
	}

	want := filepath.Join(dir, "optparse.toml")
	if err := declfile.Save(want, declfile.Template("tool")); err != nil {
		t.Fatal(err)
	}
	got, err := resolveDeclPath("", noEnv, dir)
	if err != nil {
		t.Fatalf("resolveDeclPath() error = %v", err)
	}
	if got != want {
		t.Errorf("resolveDeclPath() = %q, want %q", got, want)
	}
}

func TestExitCode(t *testing.T) {
	_, parseErr := cpParser().Parse("-x")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"parse", parseErr, 2},
		{"wrapped parse", fmt.Errorf("bind: %w", parseErr), 2},
		{"quote", &optparse.QuoteError{Quote: '"', Open: '"', Unterminated: true}, 2},
		{"child", &commandExitError{name: "run.sh", code: 3}, 3},
		{"other", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPrintCLIError(t *testing.T) {
	_, parseErr := cpParser().Parse("-x")
	tests := []struct {
		err  error
		want string
	}{
		{parseErr, "parse error: cp: unexpected option -x\n"},
		{&commandExitError{name: "run.sh", code: 3}, "exec: run.sh exited with status 3\n"},
		{errors.New("boom"), "error: boom\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		printCLIError(&buf, tui.Colorizer{}, tt.err)
		if got := buf.String(); got != tt.want {
			t.Errorf("printCLIError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := declfile.Save(good, declfile.Template("tool")); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("description = \"no name\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := checkFiles(context.Background(), &buf, tui.Colorizer{}, []string{good}, false); err != nil {
		t.Errorf("checkFiles(good) error = %v", err)
	}
	if got, want := buf.String(), "ok   "+good+"\n"; got != want {
		t.Errorf("checkFiles(good) output = %q, want %q", got, want)
	}

	buf.Reset()
	err := checkFiles(context.Background(), &buf, tui.Colorizer{}, []string{good, bad}, true)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("checkFiles(good, bad) error = %v, want 1 of 2 invalid", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "FAIL ") || strings.Contains(got, "ok   ") {
		t.Errorf("checkFiles(good, bad) quiet output = %q, want only the failure", got)
	}
}

func TestHandleParseEnvOut(t *testing.T) {
	oldDecl, oldRaw := declOverride, rawArgs
	t.Cleanup(func() { declOverride, rawArgs = oldDecl, oldRaw })

	dir := t.TempDir()
	declOverride = filepath.Join(dir, "tool.toml")
	if err := declfile.Save(declOverride, declfile.Template("tool")); err != nil {
		t.Fatal(err)
	}
	rawArgs = []string{"-v", "in.txt"}

	out := filepath.Join(dir, "opts.env")
	if err := handleParse(context.Background(), []string{"parse", "--format", "env", "--out", out}); err != nil {
		t.Fatalf("handleParse() error = %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"OPT_VERBOSE_SET=1\n", "OPT_INPUT=in.txt\n", "OPT_INPUT_SET=1\n"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("env file missing %q:\n%s", want, b)
		}
	}
}

func TestHandleInit(t *testing.T) {
	oldStdin := stdin
	t.Cleanup(func() { stdin = oldStdin })

	path := filepath.Join(t.TempDir(), "cp.toml")
	if err := os.WriteFile(path, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdin = strings.NewReader("n\n")
	if err := handleInit(context.Background(), []string{"init", "--name", "cp", path}); err == nil {
		t.Fatalf("handleInit() without confirmation succeeded")
	}
	if b, _ := os.ReadFile(path); string(b) != "keep" {
		t.Fatalf("file overwritten without confirmation: %q", b)
	}

	stdin = strings.NewReader("y\n")
	if err := handleInit(context.Background(), []string{"init", "--name", "cp", path}); err != nil {
		t.Fatalf("handleInit() error = %v", err)
	}
	f, err := declfile.Load(path, "1.0.0")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Name != "cp" {
		t.Errorf("Name = %q, want %q", f.Name, "cp")
	}
}

func TestHandleInitRejectsDirectory(t *testing.T) {
	oldStdin := stdin
	t.Cleanup(func() { stdin = oldStdin })
	stdin = strings.NewReader("")

	dir := t.TempDir()
	err := handleInit(context.Background(), []string{"init", "--force", dir})
	if err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("handleInit(%q) error = %v, want directory error", dir, err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("handleInit wrote into the directory: %v", entries)
	}
}
