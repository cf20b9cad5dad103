// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Colorizer wraps text in terminal colors when enabled.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer for output written to f. Color is
// disabled when enabled is false, NO_COLOR is set, TERM is empty or "dumb",
// or f is not a terminal.
func NewColorizer(enabled bool, f *os.File) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) wrap(text string, attrs ...color.Attribute) string {
	if !c.Enabled {
		return text
	}
	col := color.New(attrs...)
	col.EnableColor()
	return col.Sprint(text)
}

// Error renders text as an error label.
func (c Colorizer) Error(text string) string { return c.wrap(text, color.FgRed, color.Bold) }

// OK renders text as a success marker.
func (c Colorizer) OK(text string) string { return c.wrap(text, color.FgGreen) }

// Dim renders secondary text.
func (c Colorizer) Dim(text string) string { return c.wrap(text, color.FgHiBlack) }

// Key renders a name, such as an option name.
func (c Colorizer) Key(text string) string { return c.wrap(text, color.FgCyan) }
