// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"maps"
	"slices"
)

// Result is the outcome of a successful parse. It holds copies of the
// declarations, so later parses on the same Parser leave it unchanged.
type Result struct {
	filled   map[string]Option // only declarations filled by this parse
	defaults map[string]string // every declaration
}

func newResult(s *Store, bound map[string]*Option) *Result {
	r := &Result{
		filled:   make(map[string]Option, len(bound)),
		defaults: make(map[string]string),
	}
	for name, o := range bound {
		r.filled[name] = *o
	}
	for _, list := range [][]*Option{s.options, s.required, s.optional} {
		for _, o := range list {
			if _, ok := r.defaults[o.Name]; !ok {
				r.defaults[o.Name] = o.Default
			}
		}
	}
	return r
}

// IsFilled reports whether the declaration called name was filled.
func (r *Result) IsFilled(name string) bool {
	_, ok := r.filled[name]
	return ok
}

// Value returns the value bound to name. ok is false when name was not
// filled. A filled option without a value yields "".
func (r *Result) Value(name string) (value string, ok bool) {
	o, ok := r.filled[name]
	if !ok {
		return "", false
	}
	return o.Value(), true
}

// EffectiveValue returns the bound value, or the declared default when name
// was not filled. Unknown names yield "".
func (r *Result) EffectiveValue(name string) string {
	if v, ok := r.Value(name); ok {
		return v
	}
	return r.defaults[name]
}

// Option returns a copy of the filled declaration called name, or nil.
func (r *Result) Option(name string) *Option {
	o, ok := r.filled[name]
	if !ok {
		return nil
	}
	return &o
}

// Names returns the sorted names of the filled declarations.
func (r *Result) Names() []string {
	return slices.Sorted(maps.Keys(r.filled))
}

// Declared reports whether name is a known declaration.
func (r *Result) Declared(name string) bool {
	_, ok := r.defaults[name]
	return ok
}
