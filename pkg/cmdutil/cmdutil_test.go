// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"yes\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(strings.NewReader(tt.input), &out, "Overwrite?")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != "Overwrite? [y/N]: " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestNewStdCmdEnv(t *testing.T) {
	cmd := NewStdCmd(context.Background(), []string{"OPT_X=1"}, "true")
	if !slices.Contains(cmd.Env, "OPT_X=1") {
		t.Errorf("Env does not contain OPT_X=1")
	}
	if len(cmd.Args) != 1 || cmd.Args[0] != "true" {
		t.Errorf("Args = %v, want [true]", cmd.Args)
	}
}
