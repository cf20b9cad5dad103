// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"slices"
)

// Store holds the registered declarations of one parser.
//
// Named options are kept in canonical order (see compareOptions). Positionals
// are kept in two registration-ordered sequences, one per Kind; that order,
// not Position, drives assignment.
type Store struct {
	options  []*Option
	required []*Option
	optional []*Option
}

// Register inserts a named option in canonical order. A declaration that
// compares equal to one already registered is ignored.
func (s *Store) Register(o *Option) {
	o.Position = -1
	i, found := slices.BinarySearchFunc(s.options, o, compareOptions)
	if found {
		return
	}
	s.options = slices.Insert(s.options, i, o)
}

// RegisterPositional appends a positional declaration to the sequence for
// its Kind and assigns its Position.
func (s *Store) RegisterPositional(o *Option) {
	o.Short = 0
	o.Policy = NoValue
	if o.Kind == Required {
		o.Position = len(s.required)
		s.required = append(s.required, o)
		return
	}
	o.Position = len(s.optional)
	s.optional = append(s.optional, o)
}

// FindShort returns the first named option whose short name is r.
func (s *Store) FindShort(r rune) *Option {
	for _, o := range s.options {
		if o.Short == r {
			return o
		}
	}
	return nil
}

// FindLong returns the declaration whose full name is name. Named options
// are searched first, then required and optional positionals, so "--path"
// marks a positional called path as present.
func (s *Store) FindLong(name string) *Option {
	for _, list := range [][]*Option{s.options, s.required, s.optional} {
		for _, o := range list {
			if o.Name == name {
				return o
			}
		}
	}
	return nil
}

// RequiredNames returns the sorted full names of every required named option
// and every required positional.
func (s *Store) RequiredNames() []string {
	var names []string
	for _, o := range s.options {
		if o.IsRequired() {
			names = append(names, o.Name)
		}
	}
	for _, o := range s.required {
		names = append(names, o.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Options returns the named options in canonical order.
func (s *Store) Options() []*Option {
	return slices.Clone(s.options)
}

// Positionals returns the positionals of the given kind in registration order.
func (s *Store) Positionals(k Kind) []*Option {
	if k == Required {
		return slices.Clone(s.required)
	}
	return slices.Clone(s.optional)
}

// Reset clears the filled/value record of every declaration.
func (s *Store) Reset() {
	for _, list := range [][]*Option{s.options, s.required, s.optional} {
		for _, o := range list {
			o.filled = false
			o.value = ""
		}
	}
}

// mark records that o was present without binding a value.
func (s *Store) mark(o *Option) {
	o.filled = true
}

// fill records that o was bound to value.
func (s *Store) fill(o *Option, value string) {
	o.filled = true
	o.value = value
}

func (s *Store) maxNameLen() int {
	n := 0
	for _, o := range s.options {
		n = max(n, len(o.Name))
	}
	return n
}
