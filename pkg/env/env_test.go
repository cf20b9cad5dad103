// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/optparse/pkg/optparse"
)

func testParser() *optparse.Parser {
	return optparse.New("cp", "Copy").
		AddOption('n', "dry-run", optparse.Optional, "false", "Dry run").
		AddValueOption('m', "mode", optparse.Optional, "0644", "Mode").
		AddPositional("source", optparse.Required, "", "Source").
		AddPositional("target", optparse.Optional, ".", "Target")
}

func TestKey(t *testing.T) {
	tests := map[string]string{
		"dry-run": "OPT_DRY_RUN",
		"path":    "OPT_PATH",
		"v2.name": "OPT_V2_NAME",
	}
	for in, want := range tests {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnviron(t *testing.T) {
	p := testParser()
	res, err := p.ParseString("-n 'my file'")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	want := []string{
		"OPT_MODE=0644",
		"OPT_DRY_RUN=",
		"OPT_DRY_RUN_SET=1",
		"OPT_SOURCE=my file",
		"OPT_SOURCE_SET=1",
		"OPT_TARGET=.",
	}
	if diff := cmp.Diff(want, Environ(p, res)); diff != "" {
		t.Errorf("Environ() mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite(t *testing.T) {
	p := testParser()
	res, err := p.ParseString("-n -m 600 'a $b'")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.env")
	if err := Write(path, p, res); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"OPT_MODE=600",
		"OPT_MODE_SET=1",
		`OPT_DRY_RUN=""`,
		"OPT_DRY_RUN_SET=1",
		"OPT_SOURCE='a $b'",
		"OPT_SOURCE_SET=1",
		"OPT_TARGET=.",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("env file mismatch (-want +got):\n%s", diff)
	}
}
