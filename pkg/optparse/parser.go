// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	helpFlagShort = "-h"
	helpFlagLong  = "--help"
)

// Parser binds command-line tokens to a set of declarations.
//
// A Parser is not safe for concurrent use. Parse resets every declaration
// before binding, so one Parser may be reused for sequential parses.
type Parser struct {
	name        string
	description string
	store       Store
}

// New returns a Parser for the command called name.
func New(name, description string) *Parser {
	return &Parser{name: name, description: description}
}

// Name returns the command name.
func (p *Parser) Name() string { return p.name }

// Description returns the command description.
func (p *Parser) Description() string { return p.description }

// Store returns the parser's declaration store.
func (p *Parser) Store() *Store { return &p.store }

// AddOption declares a named option that takes no value.
func (p *Parser) AddOption(short rune, name string, kind Kind, def, description string) *Parser {
	return p.AddOptionWithPolicy(short, name, kind, def, description, NoValue)
}

// AddValueOption declares a named option whose value is the next token.
func (p *Parser) AddValueOption(short rune, name string, kind Kind, def, description string) *Parser {
	return p.AddOptionWithPolicy(short, name, kind, def, description, ValueRequired)
}

// AddOptionWithPolicy declares a named option with an explicit value policy.
func (p *Parser) AddOptionWithPolicy(short rune, name string, kind Kind, def, description string, policy ValuePolicy) *Parser {
	p.store.Register(&Option{
		Short:       short,
		Name:        name,
		Kind:        kind,
		Policy:      policy,
		Default:     def,
		Description: description,
	})
	return p
}

// AddPositional declares a positional ("path or expression") slot. Required
// slots are filled before optional ones, each in declaration order.
func (p *Parser) AddPositional(name string, kind Kind, def, description string) *Parser {
	p.store.RegisterPositional(&Option{
		Name:        name,
		Kind:        kind,
		Default:     def,
		Description: description,
	})
	return p
}

// RequiredNames returns the full names of all required declarations.
func (p *Parser) RequiredNames() []string {
	return p.store.RequiredNames()
}

// ParseString parses a single space-joined argument string.
func (p *Parser) ParseString(s string) (*Result, error) {
	return p.Parse(s)
}

// Parse tokenizes args (see Tokenize) and binds the tokens.
//
// Tokens starting with "-" are options: "--name" is looked up by full name
// and "-x" by the character after the dash. A value-required option takes
// the next token as its value. Every other token is positional and is
// assigned to the required positionals first, then to the optional ones.
//
// On failure no result is returned and the error is one of the types in
// errors.go.
func (p *Parser) Parse(args ...string) (*Result, error) {
	p.store.Reset()

	tokens, err := Tokenize(args)
	if err != nil {
		return nil, err
	}

	pending := make(map[string]bool)
	for _, name := range p.store.RequiredNames() {
		pending[name] = true
	}
	help := slices.ContainsFunc(tokens, func(t string) bool {
		return t == helpFlagShort || t == helpFlagLong
	})
	bound := make(map[string]*Option)

	var queue []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !isOptionMarker(tok) {
			queue = append(queue, tok)
			continue
		}
		o := p.resolve(tok)
		if o == nil {
			return nil, &UnexpectedOptionError{Command: p.name, Option: tok}
		}
		p.store.mark(o)
		if o.IsValueRequired() {
			if i+1 >= len(tokens) || isOptionMarker(tokens[i+1]) {
				return nil, &MissingValueError{Command: p.name, Short: o.Short, Name: o.Name}
			}
			p.store.fill(o, tokens[i+1])
			i++
		}
		if o.IsRequired() {
			delete(pending, o.Name)
		}
		bound[o.Name] = o
	}

	required := p.store.required
	optional := p.store.optional
	for _, entry := range queue {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		value := unquote(entry)
		var o *Option
		switch {
		case len(required) > 0:
			o, required = required[0], required[1:]
		case len(optional) > 0:
			o, optional = optional[0], optional[1:]
		default:
			return nil, &UnknownAttributeError{Command: p.name, Value: value}
		}
		p.store.fill(o, value)
		if o.IsRequired() {
			delete(pending, o.Name)
		}
		bound[o.Name] = o
	}

	if len(pending) > 0 {
		if help {
			return nil, &HelpError{Help: p.Help()}
		}
		return nil, &MissingOptionsError{
			Command: p.name,
			Missing: slices.Sorted(maps.Keys(pending)),
			Help:    p.Help(),
		}
	}
	return newResult(&p.store, bound), nil
}

// resolve finds the declaration named by an option token.
func (p *Parser) resolve(tok string) *Option {
	if name, ok := strings.CutPrefix(tok, "--"); ok {
		return p.store.FindLong(name)
	}
	r, size := utf8.DecodeRuneInString(tok[1:])
	if size == 0 {
		return nil
	}
	return p.store.FindShort(r)
}
