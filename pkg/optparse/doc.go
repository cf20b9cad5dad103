// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optparse parses command lines against a declared set of named
// options and ordered positional ("path or expression") slots.
//
// # Declaring
//
//	p := optparse.New("cp", "Copy files").
//	    AddOption('f', "force", optparse.Optional, "false", "Overwrite existing files").
//	    AddValueOption('m', "mode", optparse.Optional, "0644", "File mode").
//	    AddPositional("source", optparse.Required, "", "Source path").
//	    AddPositional("target", optparse.Optional, ".", "Target path")
//
// # Parsing
//
// Input may be one space-joined string or a slice of already split
// arguments. Both are joined with single spaces and tokenized again, so
// quoting decides token boundaries:
//
//	res, err := p.ParseString(`-m 0600 'my file.txt'`)
//	res, err := p.Parse(os.Args[1:]...)
//
// Tokens beginning with "-" are options; "--name" is looked up by full name
// and "-x" by its first character after the dash. Value-required options take
// the next token as their value, which must not itself start with "-".
// Remaining tokens fill required positionals first and optional positionals
// after them, in declaration order. Surrounding quotes are stripped from
// positional values only.
//
// # Results and errors
//
//	if errors.Is(err, optparse.ErrHelp) {
//	    var h *optparse.HelpError
//	    errors.As(err, &h)
//	    fmt.Print(h.Help)
//	}
//	force := res.IsFilled("force")
//	target := res.EffectiveValue("target") // "." unless given
//
// A parse either succeeds completely or returns exactly one error. When
// required declarations are missing the error is a *MissingOptionsError, or a
// *HelpError if -h or --help appeared anywhere in the input.
//
// Parsers are not safe for concurrent use.
package optparse
