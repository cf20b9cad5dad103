// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yeetrun/optparse/pkg/fileutil"
	"github.com/yeetrun/optparse/pkg/optparse"
)

// Prefix is prepended to every exported variable name.
const Prefix = "OPT_"

// Key returns the variable name for a declaration: "dry-run" becomes
// "OPT_DRY_RUN".
func Key(name string) string {
	var b strings.Builder
	b.WriteString(Prefix)
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Environ returns KEY=value pairs for every declaration of p using the
// effective values in res. Filled declarations also get KEY_SET=1.
func Environ(p *optparse.Parser, res *optparse.Result) []string {
	var out []string
	for _, name := range declarationNames(p) {
		key := Key(name)
		out = append(out, key+"="+res.EffectiveValue(name))
		if res.IsFilled(name) {
			out = append(out, key+"_SET=1")
		}
	}
	return out
}

// Encode writes the Environ pairs to w in env-file form, quoting values that
// a shell would otherwise split or expand.
func Encode(w io.Writer, p *optparse.Parser, res *optparse.Result) error {
	for _, kv := range Environ(p, res) {
		k, v, _ := strings.Cut(kv, "=")
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, quote(v)); err != nil {
			return err
		}
	}
	return nil
}

// Write writes an environment file with the given name.
func Write(name string, p *optparse.Parser, res *optparse.Result) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p, res); err != nil {
		return fmt.Errorf("failed to marshal env: %v", err)
	}
	if err := fileutil.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	return nil
}

func declarationNames(p *optparse.Parser) []string {
	s := p.Store()
	var names []string
	for _, o := range s.Options() {
		names = append(names, o.Name)
	}
	for _, k := range []optparse.Kind{optparse.Required, optparse.Optional} {
		for _, o := range s.Positionals(k) {
			names = append(names, o.Name)
		}
	}
	return names
}

func quote(v string) string {
	if v == "" {
		return `""`
	}
	if !strings.ContainsAny(v, " \t\n'\"\\$`#;&|<>()*?[]{}~!") {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
