// Package listquery implements the list-request contract shared by the admin
// console and the API: the page/size/filter/sort query-string format and the
// small filter-expression grammar (`field ~ 'value'`, `field = value`,
// `field IN (v1,v2)`, clauses joined by `and`).
//
// Filters are built and consumed as a typed expression tree and only rendered
// to the wire grammar at the edge, so values are always escaped and columns
// always pass through an allowlist.
package listquery

import (
	"regexp"
	"sort"
	"strings"
)

// Expr is a filter-expression node.
type Expr interface {
	appendWire(b *strings.Builder)
}

// Eq matches a field exactly.
type Eq struct {
	Field string
	Value string
}

// Like matches a field by substring (rendered with the `~` operator).
type Like struct {
	Field string
	Value string
}

// In matches a field against a value set.
type In struct {
	Field  string
	Values []string
}

// And is a conjunction of clauses.
type And struct {
	Parts []Expr
}

var bareTokenRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func quoteValue(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// literal renders an equality/IN value: bare when it is a plain token, quoted
// otherwise so spaces and operators can never leak into the grammar.
func literal(v string) string {
	if bareTokenRe.MatchString(v) {
		return v
	}
	return quoteValue(v)
}

func (e Eq) appendWire(b *strings.Builder) {
	b.WriteString(e.Field)
	b.WriteString(" = ")
	b.WriteString(literal(e.Value))
}

func (e Like) appendWire(b *strings.Builder) {
	b.WriteString(e.Field)
	b.WriteString(" ~ ")
	b.WriteString(quoteValue(e.Value))
}

func (e In) appendWire(b *strings.Builder) {
	b.WriteString(e.Field)
	b.WriteString(" IN (")
	for i, v := range e.Values {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(literal(v))
	}
	b.WriteString(")")
}

func (e And) appendWire(b *strings.Builder) {
	for i, p := range e.Parts {
		if i > 0 {
			b.WriteString(" and ")
		}
		p.appendWire(b)
	}
}

// Conj joins clauses into a conjunction. It returns nil for zero clauses and
// the clause itself for one, so callers can test for "no filter" with == nil.
func Conj(parts ...Expr) Expr {
	flat := make([]Expr, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case nil:
			continue
		case And:
			flat = append(flat, v.Parts...)
		default:
			flat = append(flat, p)
		}
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return And{Parts: flat}
	}
}

// Render produces the wire form of an expression. Rendering a nil expression
// yields the empty string; callers must omit the filter parameter entirely in
// that case rather than sending `filter=`.
func Render(e Expr) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	e.appendWire(&b)
	return b.String()
}

// Fields returns the distinct field names referenced by an expression,
// sorted for stable output.
func Fields(e Expr) []string {
	set := map[string]struct{}{}
	collectFields(e, set)
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func collectFields(e Expr, set map[string]struct{}) {
	switch v := e.(type) {
	case Eq:
		set[v.Field] = struct{}{}
	case Like:
		set[v.Field] = struct{}{}
	case In:
		set[v.Field] = struct{}{}
	case And:
		for _, p := range v.Parts {
			collectFields(p, set)
		}
	}
}
