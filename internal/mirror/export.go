package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotAnArray reports an import payload whose top level is not a JSON
// array of sections.
var ErrNotAnArray = errors.New("import data is not an array of sections")

// Export serializes the mirror to the interchange format: a two-space
// indented JSON array of sections. Importing the output reproduces the
// mirror exactly, ids and done flags included.
func Export(m Mirror) ([]byte, error) {
	if m == nil {
		m = Mirror{}
	}
	return json.MarshalIndent(m, "", "  ")
}

// ParseImport reads an exported checklist. It tolerates the sloppiness the
// format has accumulated from hand-edited files: done may arrive as 0/1 or
// a string and is coerced to a strict boolean, empty titles and texts get
// the blur placeholders, and a missing items array means no items. Ids are
// passed through as-is; the store generates any that are absent.
func ParseImport(data []byte) (Mirror, error) {
	var raw []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Items []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
			Done any    `json:"done"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnArray, err)
	}

	m := make(Mirror, 0, len(raw))
	for _, sec := range raw {
		section := Section{
			ID:    sec.ID,
			Title: CommitTitle(sec.Title),
			Items: make([]Item, 0, len(sec.Items)),
		}
		for _, it := range sec.Items {
			section.Items = append(section.Items, Item{
				ID:   it.ID,
				Text: CommitText(it.Text),
				Done: coerceDone(it.Done),
			})
		}
		m = append(m, section)
	}
	return m, nil
}

func coerceDone(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "true"
	default:
		return false
	}
}
