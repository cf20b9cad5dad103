// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/optparse/pkg/cli"
	"github.com/yeetrun/optparse/pkg/env"
	"github.com/yeetrun/optparse/pkg/optparse"
	"gopkg.in/yaml.v3"
)

type binding struct {
	Name       string `json:"name" yaml:"name"`
	Short      string `json:"short,omitempty" yaml:"short,omitempty"`
	Kind       string `json:"kind" yaml:"kind"`
	Positional bool   `json:"positional,omitempty" yaml:"positional,omitempty"`
	Set        bool   `json:"set" yaml:"set"`
	Value      string `json:"value" yaml:"value"`
}

type resultDoc struct {
	Command  string    `json:"command" yaml:"command"`
	Bindings []binding `json:"bindings" yaml:"bindings"`
}

// bindings lists every declaration of p with its effective value: named
// options in canonical order, then required and optional positionals.
func bindings(p *optparse.Parser, res *optparse.Result) []binding {
	s := p.Store()
	decls := s.Options()
	decls = append(decls, s.Positionals(optparse.Required)...)
	decls = append(decls, s.Positionals(optparse.Optional)...)
	out := make([]binding, 0, len(decls))
	for _, o := range decls {
		b := binding{
			Name:       o.Name,
			Kind:       o.Kind.String(),
			Positional: o.IsPositional(),
			Set:        res.IsFilled(o.Name),
			Value:      res.EffectiveValue(o.Name),
		}
		if o.Short != 0 {
			b.Short = string(o.Short)
		}
		out = append(out, b)
	}
	return out
}

func writeResult(w io.Writer, format string, p *optparse.Parser, res *optparse.Result) error {
	switch format {
	case cli.FormatEnv:
		return env.Encode(w, p, res)
	case cli.FormatJSON, cli.FormatYAML:
		return encode(w, format, resultDoc{Command: p.Name(), Bindings: bindings(p, res)})
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tSOURCE\tVALUE")
	for _, b := range bindings(p, res) {
		name := b.Name
		if b.Short != "" {
			name = "-" + b.Short + ", --" + b.Name
		}
		source := "default"
		if b.Set {
			source = "set"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, b.Kind, source, displayValue(b.Value))
	}
	return tw.Flush()
}

func writeTokens(w io.Writer, format string, toks []string) error {
	if toks == nil {
		toks = []string{}
	}
	switch format {
	case cli.FormatJSON, cli.FormatYAML:
		return encode(w, format, toks)
	}
	for i, tok := range toks {
		if _, err := fmt.Fprintf(w, "%d\t%q\n", i, tok); err != nil {
			return err
		}
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	if format == cli.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayValue(v string) string {
	if v == "" || strings.TrimSpace(v) != v {
		return fmt.Sprintf("%q", v)
	}
	return v
}
