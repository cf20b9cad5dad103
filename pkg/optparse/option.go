// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import "strings"

// Kind says whether a declaration must be supplied.
type Kind int

const (
	Optional Kind = 1
	Required Kind = 2
)

func (k Kind) String() string {
	switch k {
	case Optional:
		return "optional"
	case Required:
		return "required"
	}
	return "unknown"
}

// ValuePolicy says whether a named option consumes the token after it.
type ValuePolicy int

const (
	NoValue       ValuePolicy = 1
	ValueRequired ValuePolicy = 2
)

// Option is a single declaration: either a named option (-x, --name) or a
// positional ("path or expression") slot.
//
// The filled/value record is owned by the Store that registered the option
// and is only changed by Store.fill, Store.mark and Store.Reset.
type Option struct {
	Short       rune // 0 for positionals
	Name        string
	Kind        Kind
	Policy      ValuePolicy
	Default     string
	Description string
	// Position is the declaration order among positionals of the same Kind.
	// Named options have Position -1.
	Position int

	filled bool
	value  string
}

// IsPositional reports whether o is a positional declaration.
func (o *Option) IsPositional() bool { return o.Position >= 0 }

// IsRequired reports whether o must be filled for a parse to succeed.
func (o *Option) IsRequired() bool { return o.Kind == Required }

// IsValueRequired reports whether the named option consumes a value token.
func (o *Option) IsValueRequired() bool { return o.Policy == ValueRequired }

// Filled reports whether o received an explicit value in the last parse.
func (o *Option) Filled() bool { return o.filled }

// Value returns the bound value when filled and the default otherwise.
// A filled NoValue option has an empty value.
func (o *Option) Value() string {
	if !o.filled {
		return o.Default
	}
	return o.value
}

// Explicit returns the value bound by the last parse, if any.
func (o *Option) Explicit() (string, bool) {
	return o.value, o.filled
}

// compareOptions is the canonical declaration order: optional declarations
// before required ones, then short name, then full name.
func compareOptions(a, b *Option) int {
	if a.Kind != b.Kind {
		if a.Kind == Required {
			return 1
		}
		return -1
	}
	if a.Short != b.Short {
		return int(a.Short) - int(b.Short)
	}
	return strings.Compare(a.Name, b.Name)
}
