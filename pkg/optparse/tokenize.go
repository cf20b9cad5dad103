// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optparse

import "strings"

const (
	singleQuote = '\''
	doubleQuote = '"'
)

// Tokenize joins args with single spaces and splits the result into logical
// tokens. Spaces inside quotes or after an odd run of backslashes do not
// split. Quotes are kept in the tokens they delimit, and a closing quote ends
// its token even without a following space.
//
// Backslashes are never removed; they only decide whether the next space or
// quote is literal. Input is scanned byte by byte, so arguments that are not
// valid UTF-8 pass through unchanged.
func Tokenize(args []string) ([]string, error) {
	in := strings.Join(args, " ")

	var (
		tokens     []string
		buf        strings.Builder
		escapes    int // consecutive backslashes right before the current rune
		singleOpen bool
		doubleOpen bool
	)
	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
		}
		buf.Reset()
		escapes = 0
	}

	for i := 0; i < len(in); i++ {
		c := in[i]
		escaped := escapes%2 == 1
		switch {
		case c == ' ' && !escaped && !singleOpen && !doubleOpen && buf.Len() > 0:
			flush()
		case c == '\\':
			buf.WriteByte(c)
			escapes++
		case (c == singleQuote || c == doubleQuote) && !escaped:
			open, other, otherQuote := &singleOpen, &doubleOpen, rune(doubleQuote)
			if c == doubleQuote {
				open, other, otherQuote = &doubleOpen, &singleOpen, singleQuote
			}
			switch {
			case *open:
				buf.WriteByte(c)
				flush()
				*open = false
			case *other:
				return nil, &QuoteError{Quote: rune(c), Open: otherQuote, Offset: i}
			default:
				*open = true
				flush()
				buf.WriteByte(c)
			}
		default:
			buf.WriteByte(c)
			escapes = 0
		}
	}
	flush()

	if singleOpen {
		return nil, &QuoteError{Quote: singleQuote, Offset: -1, Unterminated: true}
	}
	if doubleOpen {
		return nil, &QuoteError{Quote: doubleQuote, Offset: -1, Unterminated: true}
	}
	return tokens, nil
}

// isOptionMarker reports whether a token names an option. One or two leading
// dashes both count.
func isOptionMarker(tok string) bool {
	return strings.HasPrefix(tok, "-")
}

// unquote strips one leading and one trailing character from a token that
// starts with a quote.
func unquote(tok string) string {
	if len(tok) >= 2 && (tok[0] == singleQuote || tok[0] == doubleQuote) {
		return tok[1 : len(tok)-1]
	}
	return tok
}
