// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formula

import (
	"fmt"
	"strconv"
)

// parseLiteralList parses a flat Python-style list literal such as
// ['TiO2', "ZnO"] and returns its string elements, unescaped. Numbers and
// the bare names True, False, and None are valid syntax but are skipped:
// only strings can be formulas. Nested containers and any other syntax are
// errors; callers fall back to JSON on error.
func parseLiteralList(src string) ([]string, error) {
	p := &listParser{src: src}
	p.skipSpace()
	if !p.consume('[') {
		return nil, fmt.Errorf("expected '[' at offset %d", p.pos)
	}

	var items []string
	for {
		p.skipSpace()
		if p.consume(']') {
			return items, p.expectEnd()
		}

		item, isString, err := p.scalar()
		if err != nil {
			return nil, err
		}
		if isString {
			items = append(items, item)
		}

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return items, p.expectEnd()
		}
		return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
	}
}

// listParser walks a list literal byte by byte. Formula tokens are ASCII, so
// multi-byte runes only ever appear inside quoted strings, where they are
// copied through untouched.
type listParser struct {
	src string
	pos int
}

// skipSpace advances past whitespace.
func (p *listParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// consume advances past c if it is the next byte and reports whether it did.
func (p *listParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// expectEnd fails if anything but whitespace follows the closing bracket.
func (p *listParser) expectEnd() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return fmt.Errorf("trailing data after list at offset %d", p.pos)
	}
	return nil
}

// scalar parses one list element and reports whether it was a string.
func (p *listParser) scalar() (string, bool, error) {
	if p.pos >= len(p.src) {
		return "", false, fmt.Errorf("unexpected end of list literal")
	}

	switch c := p.src[p.pos]; {
	case c == '\'' || c == '"':
		s, err := p.quoted(c)
		return s, err == nil, err
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return "", false, p.number()
	case isNameByte(c):
		return "", false, p.name()
	default:
		return "", false, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

// quoted parses a string literal delimited by q, handling the common
// backslash escapes. Unknown escapes keep the backslash, as Python does.
func (p *listParser) quoted(q byte) (string, error) {
	p.pos++
	start := p.pos

	var buf []byte
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case q:
			if buf == nil {
				s := p.src[start:p.pos]
				p.pos++
				return s, nil
			}
			p.pos++
			return string(buf), nil
		case '\\':
			if buf == nil {
				buf = append(buf, p.src[start:p.pos]...)
			}
			p.pos++
			if p.pos >= len(p.src) {
				return "", fmt.Errorf("unterminated escape in string literal")
			}
			switch e := p.src[p.pos]; e {
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case 'r':
				buf = append(buf, '\r')
			case '\\', '\'', '"':
				buf = append(buf, e)
			default:
				buf = append(buf, '\\', e)
			}
			p.pos++
		default:
			if buf != nil {
				buf = append(buf, c)
			}
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string literal")
}

// number consumes a numeric literal. The token is validated so that
// malformed input fails the whole parse, mirroring strict literal
// evaluation.
func (p *listParser) number() error {
	start := p.pos
	for p.pos < len(p.src) && isNumberByte(p.src[p.pos]) {
		p.pos++
	}
	tok := p.src[start:p.pos]
	if _, err := strconv.ParseFloat(tok, 64); err != nil {
		return fmt.Errorf("invalid number literal %q", tok)
	}
	return nil
}

// name consumes a bare name. Only the constants a literal list may contain
// are accepted.
func (p *listParser) name() error {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	tok := p.src[start:p.pos]
	switch tok {
	case "True", "False", "None":
		return nil
	}
	return fmt.Errorf("unsupported name %q in list literal", tok)
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNumberByte(c byte) bool {
	switch c {
	case '+', '-', '.', 'e', 'E':
		return true
	}
	return c >= '0' && c <= '9'
}
