package listquery

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrUnknownField marks a filter referencing a field outside the resource's
// allowlist. Handlers report it as a client error.
var ErrUnknownField = errors.New("unknown filter field")

// Apply translates an expression tree into bound WHERE clauses on a gorm
// query. The fields map is the per-resource allowlist from wire field name to
// column name; referencing a field outside it is an error. Values are always
// passed as bind parameters, never interpolated.
func Apply(db *gorm.DB, e Expr, fields map[string]string) (*gorm.DB, error) {
	if e == nil {
		return db, nil
	}
	switch v := e.(type) {
	case Eq:
		col, err := column(v.Field, fields)
		if err != nil {
			return nil, err
		}
		return db.Where(col+" = ?", v.Value), nil
	case Like:
		col, err := column(v.Field, fields)
		if err != nil {
			return nil, err
		}
		return db.Where(col+" LIKE ? ESCAPE '\\'", "%"+escapeLike(v.Value)+"%"), nil
	case In:
		col, err := column(v.Field, fields)
		if err != nil {
			return nil, err
		}
		vals := make([]any, 0, len(v.Values))
		for _, s := range v.Values {
			vals = append(vals, s)
		}
		return db.Where(col+" IN ?", vals), nil
	case And:
		var err error
		for _, p := range v.Parts {
			db, err = Apply(db, p, fields)
			if err != nil {
				return nil, err
			}
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported filter expression %T", e)
	}
}

func column(field string, fields map[string]string) (string, error) {
	col, ok := fields[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return col, nil
}

func escapeLike(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "%", `\%`)
	return strings.ReplaceAll(v, "_", `\_`)
}
