// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error returned by Parse matches exactly one of the
// kinds below with errors.Is; the quote errors additionally match
// ErrOverlappingQuotes.
var (
	// ErrOverlappingQuotes matches both quote failures.
	ErrOverlappingQuotes = errors.New("overlapping quotes")
	// ErrUnterminatedQuote is returned when a quote is still open at the end of input.
	ErrUnterminatedQuote = errors.New("unterminated quote")
	// ErrMismatchedQuote is returned when a quote opens inside the other kind of quote.
	ErrMismatchedQuote = errors.New("mismatched quote")

	ErrUnexpectedOption   = errors.New("unexpected option")
	ErrMissingOptionValue = errors.New("missing option value")
	ErrUnknownAttribute   = errors.New("unknown attribute")
	ErrMissingOptions     = errors.New("missing options")

	// ErrHelp is returned instead of ErrMissingOptions when -h or --help was
	// present in the input. The *HelpError carries the rendered help.
	ErrHelp = errors.New("help requested")
)

// QuoteError is returned by Tokenize for malformed quoting.
type QuoteError struct {
	Quote        rune // the quote that is unterminated, or the one that was found
	Open         rune // the quote already open when a mismatch was found
	Offset       int  // byte offset of the offending quote in the joined input; -1 when unterminated
	Unterminated bool
}

func (e *QuoteError) Error() string {
	if e.Unterminated {
		if e.Quote == '\'' {
			return "single quote not closed"
		}
		return "double quote not closed"
	}
	return fmt.Sprintf("quote %c at offset %d overlaps open %c", e.Quote, e.Offset, e.Open)
}

func (e *QuoteError) Is(target error) bool {
	switch target {
	case ErrOverlappingQuotes:
		return true
	case ErrUnterminatedQuote:
		return e.Unterminated
	case ErrMismatchedQuote:
		return !e.Unterminated
	}
	return false
}

// UnexpectedOptionError is returned when an option token matches no declaration.
type UnexpectedOptionError struct {
	Command string
	Option  string
}

func (e *UnexpectedOptionError) Error() string {
	return fmt.Sprintf("%s: unexpected option %s", e.Command, e.Option)
}

func (e *UnexpectedOptionError) Is(target error) bool { return target == ErrUnexpectedOption }

// MissingValueError is returned when a value-required option is the last
// token or is followed by another option.
type MissingValueError struct {
	Command string
	Short   rune
	Name    string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s: option %s requires a value", e.Command, optionLabel(e.Short, e.Name))
}

func (e *MissingValueError) Is(target error) bool { return target == ErrMissingOptionValue }

// UnknownAttributeError is returned when a positional value is left over after
// every positional slot was filled.
type UnknownAttributeError struct {
	Command string
	Value   string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%s: unknown attribute %q", e.Command, e.Value)
}

func (e *UnknownAttributeError) Is(target error) bool { return target == ErrUnknownAttribute }

// MissingOptionsError is returned when required declarations were not filled.
type MissingOptionsError struct {
	Command string
	Missing []string // sorted full names
	Help    string
}

func (e *MissingOptionsError) Error() string {
	return fmt.Sprintf("%s: missing options: %s", e.Command, strings.Join(e.Missing, ", "))
}

func (e *MissingOptionsError) Is(target error) bool { return target == ErrMissingOptions }

// HelpError replaces MissingOptionsError when help was requested.
type HelpError struct {
	Help string
}

func (e *HelpError) Error() string { return ErrHelp.Error() }

func (e *HelpError) Is(target error) bool { return target == ErrHelp }

func optionLabel(short rune, name string) string {
	if short == 0 {
		return "--" + name
	}
	return fmt.Sprintf("-%c (--%s)", short, name)
}
