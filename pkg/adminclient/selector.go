package adminclient

// Selector is one option in a console reference dropdown: the label shown to
// the operator and the referenced record's id.
type Selector struct {
	Label string `json:"label"`
	Value uint   `json:"value"`
}

// Ref renders the selector as the `{id, name}` reference object upsert
// payloads embed for belongs-to fields.
func (s Selector) Ref() map[string]any {
	return map[string]any{"id": s.Value, "name": s.Label}
}

// SelectorsFrom builds dropdown options from any listed records.
func SelectorsFrom[T any](rows []T, option func(T) Selector) []Selector {
	out := make([]Selector, 0, len(rows))
	for _, row := range rows {
		out = append(out, option(row))
	}
	return out
}
