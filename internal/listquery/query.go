package listquery

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Sort is one `field,direction` term. Direction is "asc" or "desc".
type Sort struct {
	Field string
	Dir   string
}

func (s Sort) term() string { return s.Field + "," + s.Dir }

// TableState is the raw interaction snapshot a console table hands to its
// request callback: current page (1-based), page size, per-column search
// values, multi-select filters and sort directions.
type TableState struct {
	Current  int
	PageSize int
	Search   map[string]string   // column -> substring match
	Exact    map[string]string   // column -> equality match
	Selected map[string][]string // column -> IN(...) match
	Sort     map[string]string   // column -> "ascend" | "descend"
}

// FilterExpr collects the state's active criteria into one conjunction:
// search fields as substring clauses, exact fields as equality clauses,
// multi-select fields as IN clauses. Fields are visited in sorted order so
// the rendered string is stable. Returns nil when nothing is active.
func (st TableState) FilterExpr() Expr {
	var parts []Expr
	for _, f := range sortedKeys(st.Search) {
		if v := strings.TrimSpace(st.Search[f]); v != "" {
			parts = append(parts, Like{Field: f, Value: v})
		}
	}
	for _, f := range sortedKeys(st.Exact) {
		if v := strings.TrimSpace(st.Exact[f]); v != "" {
			parts = append(parts, Eq{Field: f, Value: v})
		}
	}
	for _, f := range sortedKeys(st.Selected) {
		if vs := st.Selected[f]; len(vs) > 0 {
			parts = append(parts, In{Field: f, Values: vs})
		}
	}
	return Conj(parts...)
}

// SortTerm resolves the single active sort term. It scans the priority list
// in order; the first field carrying a non-empty direction wins, so an
// explicit user sort always beats the default and earlier-listed fields beat
// later ones. With no explicit sort the default term is used, keeping result
// ordering deterministic across reloads.
func (st TableState) SortTerm(priority []string, def Sort) Sort {
	for _, f := range priority {
		switch st.Sort[f] {
		case "ascend", "asc":
			return Sort{Field: f, Dir: "asc"}
		case "descend", "desc":
			return Sort{Field: f, Dir: "desc"}
		}
	}
	return def
}

// BuildQuery renders the full query string for a table state:
// `page=<n>&size=<n>&filter=<expr>&sort=<field>,<dir>`. The filter segment is
// omitted entirely when no criteria are active; an empty `filter=` parameter
// is never emitted.
func BuildQuery(st TableState, priority []string, def Sort) string {
	page := st.Current
	if page < 1 {
		page = DefaultPage
	}
	size := st.PageSize
	if size < 1 {
		size = DefaultSize
	}

	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&size=")
	b.WriteString(strconv.Itoa(size))
	if expr := st.FilterExpr(); expr != nil {
		b.WriteString("&filter=")
		b.WriteString(url.QueryEscape(Render(expr)))
	}
	if term := st.SortTerm(priority, def); term.Field != "" {
		b.WriteString("&sort=")
		b.WriteString(url.QueryEscape(term.term()))
	}
	return b.String()
}

// ListRequest is a parsed, validated list request as the server sees it.
type ListRequest struct {
	Page   int
	Size   int
	Filter Expr
	Sort   Sort
}

// CacheKey is the canonical form of a request, used as the list-cache key so
// identical requests written differently still collapse to one entry.
func (r ListRequest) CacheKey() string {
	return fmt.Sprintf("page=%d&size=%d&filter=%s&sort=%s", r.Page, r.Size, Render(r.Filter), r.Sort.term())
}

// ParseOptions carries the per-resource list policy: the default sort term
// and the sortable-field allowlist.
type ParseOptions struct {
	DefaultSort Sort
	AllowedSort map[string]struct{}
}

// ParseValues parses and validates the list query parameters. A present but
// empty filter parameter is rejected: builders omit the segment when no
// criteria are active, so an empty value is always a caller bug.
func ParseValues(v url.Values, opts ParseOptions) (ListRequest, error) {
	req := ListRequest{Page: DefaultPage, Size: DefaultSize, Sort: opts.DefaultSort}

	if raw := strings.TrimSpace(v.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return ListRequest{}, errors.New("page must be a positive integer")
		}
		req.Page = n
	}
	if raw := strings.TrimSpace(v.Get("size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return ListRequest{}, errors.New("size must be a positive integer")
		}
		if n > MaxSize {
			return ListRequest{}, fmt.Errorf("size must be <= %d", MaxSize)
		}
		req.Size = n
	}

	if _, present := v["filter"]; present {
		expr, err := ParseFilter(v.Get("filter"))
		if err != nil {
			return ListRequest{}, fmt.Errorf("invalid filter: %w", err)
		}
		req.Filter = expr
	}

	if raw := strings.TrimSpace(v.Get("sort")); raw != "" {
		field, dir, ok := strings.Cut(raw, ",")
		if !ok {
			return ListRequest{}, errors.New("sort must be field,asc|desc")
		}
		field = strings.TrimSpace(field)
		dir = strings.ToLower(strings.TrimSpace(dir))
		if dir != "asc" && dir != "desc" {
			return ListRequest{}, errors.New("sort direction must be asc or desc")
		}
		if opts.AllowedSort != nil {
			if _, ok := opts.AllowedSort[field]; !ok {
				return ListRequest{}, fmt.Errorf("invalid sort field: %s", field)
			}
		}
		req.Sort = Sort{Field: field, Dir: dir}
	}

	return req, nil
}

// SequenceNumber is the 1-based row ordinal shown in the console's first
// column: zero-based row index on the current page, offset by the pages
// before it.
func SequenceNumber(index, page, size int) int {
	return (index + 1) + (page-1)*size
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
