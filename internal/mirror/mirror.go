// Package mirror holds the client-visible copy of the checklist and the
// rules that keep it consistent with the store. The mirror is rebuilt
// wholesale on load and patched through Reconcile after each confirmed
// mutation; a failed mutation is simply never reconciled, so the mirror
// cannot drift from what the store accepted.
//
// Everything here is pure: no storage, no HTTP, no shared state. Reconcile
// returns a fresh mirror and never mutates its input.
package mirror

import "strings"

// Section is the rendered view of a named group of items.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is the rendered view of a single checklist entry.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Mirror is the ordered list of sections currently shown to the user.
type Mirror []Section

// Placeholders committed when an edit is blurred with empty content.
const (
	UntitledSection = "Untitled"
	DefaultItemText = "New item"
)

// Change is a confirmed store mutation to fold into the mirror.
type Change interface {
	isChange()
}

// SectionCreated appends a newly created section.
type SectionCreated struct {
	Section Section
}

// SectionRenamed replaces a section's title.
type SectionRenamed struct {
	ID    string
	Title string
}

// SectionDeleted drops a section and, with it, all of its items.
type SectionDeleted struct {
	ID string
}

// ItemCreated appends an item to its section.
type ItemCreated struct {
	SectionID string
	Item      Item
}

// ItemUpdated applies a partial item update; nil fields are untouched.
type ItemUpdated struct {
	ID   string
	Text *string
	Done *bool
}

// ItemDeleted drops a single item.
type ItemDeleted struct {
	ID string
}

// ItemDuplicated inserts Item immediately after SourceID in its section.
type ItemDuplicated struct {
	SourceID string
	Item     Item
}

// AllUnchecked clears every done flag.
type AllUnchecked struct{}

// Replaced swaps the whole mirror for a new dataset (import, reset, reload).
type Replaced struct {
	Sections []Section
}

func (SectionCreated) isChange() {}
func (SectionRenamed) isChange() {}
func (SectionDeleted) isChange() {}
func (ItemCreated) isChange() {}
func (ItemUpdated) isChange() {}
func (ItemDeleted) isChange() {}
func (ItemDuplicated) isChange() {}
func (AllUnchecked) isChange() {}
func (Replaced) isChange() {}

// Reconcile computes the mirror that results from applying a confirmed
// change to prior. Prior is never modified. A change referencing an unknown
// id returns the prior contents unchanged rather than guessing.
func Reconcile(prior Mirror, change Change) Mirror {
	next := clone(prior)

	switch c := change.(type) {
	case SectionCreated:
		sec := c.Section
		if sec.Items == nil {
			sec.Items = []Item{}
		}
		next = append(next, sec)

	case SectionRenamed:
		for i := range next {
			if next[i].ID == c.ID {
				next[i].Title = c.Title
				break
			}
		}

	case SectionDeleted:
		for i := range next {
			if next[i].ID == c.ID {
				next = append(next[:i], next[i+1:]...)
				break
			}
		}

	case ItemCreated:
		for i := range next {
			if next[i].ID == c.SectionID {
				next[i].Items = append(next[i].Items, c.Item)
				break
			}
		}

	case ItemUpdated:
		for i := range next {
			for j := range next[i].Items {
				if next[i].Items[j].ID != c.ID {
					continue
				}
				if c.Text != nil {
					next[i].Items[j].Text = *c.Text
				}
				if c.Done != nil {
					next[i].Items[j].Done = *c.Done
				}
				return next
			}
		}

	case ItemDeleted:
		for i := range next {
			for j := range next[i].Items {
				if next[i].Items[j].ID == c.ID {
					next[i].Items = append(next[i].Items[:j], next[i].Items[j+1:]...)
					return next
				}
			}
		}

	case ItemDuplicated:
		for i := range next {
			for j := range next[i].Items {
				if next[i].Items[j].ID == c.SourceID {
					items := next[i].Items
					next[i].Items = append(items[:j+1], append([]Item{c.Item}, items[j+1:]...)...)
					return next
				}
			}
		}

	case AllUnchecked:
		for i := range next {
			for j := range next[i].Items {
				next[i].Items[j].Done = false
			}
		}

	case Replaced:
		return clone(Mirror(c.Sections))
	}

	return next
}

// Filter returns the sections visible for a search query: a section stays
// when its title matches (all items shown) or when at least one item text
// matches (only those items shown). Matching is case-insensitive substring.
// An empty query shows everything.
func Filter(m Mirror, query string) Mirror {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clone(m)
	}

	visible := Mirror{}
	for _, sec := range m {
		titleMatch := strings.Contains(strings.ToLower(sec.Title), q)
		items := []Item{}
		for _, item := range sec.Items {
			if titleMatch || strings.Contains(strings.ToLower(item.Text), q) {
				items = append(items, item)
			}
		}
		if !titleMatch && len(items) == 0 {
			continue
		}
		out := sec
		out.Items = items
		visible = append(visible, out)
	}
	return visible
}

// CommitTitle normalizes a section title edited in place: trimmed, with the
// placeholder substituted when the edit would commit emptiness.
func CommitTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if title == "" {
		return UntitledSection
	}
	return title
}

// CommitText normalizes an item text edited in place.
func CommitText(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return DefaultItemText
	}
	return text
}

// Progress reports done and total item counts across the whole mirror.
func Progress(m Mirror) (done, total int) {
	for _, sec := range m {
		d, t := SectionProgress(sec)
		done += d
		total += t
	}
	return done, total
}

// SectionProgress reports done and total item counts for one section.
func SectionProgress(sec Section) (done, total int) {
	for _, item := range sec.Items {
		if item.Done {
			done++
		}
	}
	return done, len(sec.Items)
}

func clone(m Mirror) Mirror {
	out := make(Mirror, len(m))
	for i, sec := range m {
		out[i] = sec
		out[i].Items = make([]Item, len(sec.Items))
		copy(out[i].Items, sec.Items)
	}
	return out
}
