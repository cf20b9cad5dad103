// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"fmt"
	"strings"
)

// Help renders the usage text for the parser's current declarations.
//
//	Command: cp - Copy files
//	Usage: cp [options] "source" "target"  [mode]
//
//	Required options:
//		-c, --config    Config file (value required)
//
//	Optional options:
//		-f, --force     Overwrite existing files
func (p *Parser) Help() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Command: %s - %s\n", p.name, p.description)
	b.WriteString(p.usage())
	b.WriteString("\n\n")

	width := p.store.maxNameLen() + 4
	var required, optional strings.Builder
	for _, o := range p.store.options {
		w := &optional
		if o.IsRequired() {
			w = &required
		}
		writeOptionLine(w, o, width)
	}
	if required.Len() > 0 {
		b.WriteString("Required options:\n")
		b.WriteString(required.String())
		b.WriteString("\n")
	}
	if optional.Len() > 0 {
		b.WriteString("Optional options:\n")
		b.WriteString(optional.String())
		b.WriteString("\n")
	}
	return b.String()
}

// usage renders the "Usage:" line: required positionals quoted, optional
// positionals bracketed, both in declaration order.
func (p *Parser) usage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [options]", p.name)
	for _, o := range p.store.required {
		fmt.Fprintf(&b, " %q", o.Name)
	}
	if len(p.store.required) > 0 && len(p.store.optional) > 0 {
		b.WriteString(" ")
	}
	for _, o := range p.store.optional {
		fmt.Fprintf(&b, " [%s]", o.Name)
	}
	return b.String()
}

func writeOptionLine(b *strings.Builder, o *Option, width int) {
	b.WriteString("\t")
	if o.Short != 0 {
		fmt.Fprintf(b, "-%c, ", o.Short)
	} else {
		b.WriteString("    ")
	}
	b.WriteString("--")
	b.WriteString(o.Name)
	b.WriteString(strings.Repeat(" ", max(width-len(o.Name), 1)))
	b.WriteString(o.Description)
	if o.IsValueRequired() {
		b.WriteString(" (value required)")
	}
	b.WriteString("\n")
}
