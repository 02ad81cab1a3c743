package listquery

import (
	"fmt"
	"strings"
)

// ParseFilter parses the wire filter grammar back into an expression tree.
// An empty input is an error: the contract is to omit the filter parameter
// entirely when no criteria are active.
func ParseFilter(input string) (Expr, error) {
	p := &filterParser{src: input}
	p.skipSpace()
	if p.eof() {
		return nil, fmt.Errorf("empty filter expression")
	}
	var parts []Expr
	for {
		clause, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		parts = append(parts, clause)
		p.skipSpace()
		if p.eof() {
			break
		}
		if !p.consumeKeyword("and") {
			return nil, fmt.Errorf("expected 'and' at position %d", p.pos)
		}
	}
	return Conj(parts...), nil
}

type filterParser struct {
	src string
	pos int
}

func (p *filterParser) eof() bool { return p.pos >= len(p.src) }

func (p *filterParser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *filterParser) consumeKeyword(kw string) bool {
	p.skipSpace()
	end := p.pos + len(kw)
	if end > len(p.src) {
		return false
	}
	if !strings.EqualFold(p.src[p.pos:end], kw) {
		return false
	}
	if end < len(p.src) && p.src[end] != ' ' && p.src[end] != '\t' {
		return false
	}
	p.pos = end
	return true
}

func (p *filterParser) parseClause() (Expr, error) {
	p.skipSpace()
	field := p.readToken()
	if field == "" {
		return nil, fmt.Errorf("expected field name at position %d", p.pos)
	}
	p.skipSpace()
	switch {
	case p.consume("~"):
		v, _, err := p.readValue()
		if err != nil {
			return nil, err
		}
		return Like{Field: field, Value: v}, nil
	case p.consume("="):
		v, _, err := p.readValue()
		if err != nil {
			return nil, err
		}
		return Eq{Field: field, Value: v}, nil
	case p.consumeKeyword("in"):
		return p.parseInValues(field)
	default:
		return nil, fmt.Errorf("expected operator after %q", field)
	}
}

func (p *filterParser) parseInValues(field string) (Expr, error) {
	p.skipSpace()
	if !p.consume("(") {
		return nil, fmt.Errorf("expected '(' after %s IN", field)
	}
	var values []string
	for {
		p.skipSpace()
		v, _, err := p.readValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		p.skipSpace()
		if p.consume(",") {
			continue
		}
		if p.consume(")") {
			break
		}
		return nil, fmt.Errorf("expected ',' or ')' in %s IN list", field)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty IN list for %s", field)
	}
	return In{Field: field, Values: values}, nil
}

func (p *filterParser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *filterParser) readToken() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '=' || c == '~' || c == ',' || c == '(' || c == ')' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// readValue reads either a single-quoted string (with '' as the escape for a
// literal quote) or a bare token.
func (p *filterParser) readValue() (string, bool, error) {
	p.skipSpace()
	if p.eof() {
		return "", false, fmt.Errorf("expected value at position %d", p.pos)
	}
	if p.src[p.pos] != '\'' {
		v := p.readToken()
		if v == "" {
			return "", false, fmt.Errorf("expected value at position %d", p.pos)
		}
		return v, false, nil
	}
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", false, fmt.Errorf("unterminated quoted value")
		}
		c := p.src[p.pos]
		if c == '\'' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'' {
				b.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return b.String(), true, nil
		}
		b.WriteByte(c)
		p.pos++
	}
}
