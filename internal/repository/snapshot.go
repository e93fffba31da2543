package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"checklist-backend/internal/domain"
)

// SnapshotRepository persists the whole checklist as a single JSON array on
// disk, the local-storage shape of the export/import file format. It exists
// for single-user setups that want a plain readable file instead of a
// database. Mutations are applied to a working copy and only swapped into
// memory after the file write succeeds, which gives every bulk operation
// its all-or-nothing behavior for free.
type SnapshotRepository struct {
	path string

	mu       sync.Mutex
	sections []domain.Section
}

// snapshotSection/snapshotItem tolerate loosely typed files: a hand-edited
// snapshot may carry done as 0/1 or "true", and the loader coerces it to a
// strict boolean rather than failing.
type snapshotSection struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Items []snapshotItem `json:"items"`
}

type snapshotItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done any    `json:"done"`
}

// NewSnapshotRepository loads the snapshot at path, seeding the default
// template when the file is missing or unreadable.
func NewSnapshotRepository(path string) (*SnapshotRepository, error) {
	r := &SnapshotRepository{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: reading snapshot %s: %v", domain.ErrStorageUnavailable, path, err)
		}
		if err := r.seedLocked(); err != nil {
			return nil, err
		}
		return r, nil
	}

	var parsed []snapshotSection
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("Snapshot %s is not valid JSON, reseeding defaults: %v", path, err)
		if err := r.seedLocked(); err != nil {
			return nil, err
		}
		return r, nil
	}

	sections := make([]domain.Section, 0, len(parsed))
	for si, s := range parsed {
		sec := domain.Section{
			ID:       s.ID,
			Title:    s.Title,
			Position: si + 1,
			Items:    make([]domain.Item, 0, len(s.Items)),
		}
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		for ii, it := range s.Items {
			item := domain.Item{
				ID:        it.ID,
				SectionID: sec.ID,
				Text:      it.Text,
				Done:      coerceBool(it.Done),
				Position:  ii + 1,
			}
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			sec.Items = append(sec.Items, item)
		}
		sections = append(sections, sec)
	}
	r.sections = sections
	return r, nil
}

// coerceBool mirrors the Boolean() cast the browser variant applied on load.
func coerceBool(v any) bool {
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

func (r *SnapshotRepository) seedLocked() error {
	sections := make([]domain.Section, 0, len(domain.DefaultTemplate))
	for si, tpl := range domain.DefaultTemplate {
		sec := domain.Section{
			ID:       uuid.NewString(),
			Title:    tpl.Title,
			Position: si + 1,
			Items:    make([]domain.Item, 0, len(tpl.Items)),
		}
		for ii, text := range tpl.Items {
			sec.Items = append(sec.Items, domain.Item{
				ID:        uuid.NewString(),
				SectionID: sec.ID,
				Text:      text,
				Done:      false,
				Position:  ii + 1,
			})
		}
		sections = append(sections, sec)
	}
	if err := r.write(sections); err != nil {
		return err
	}
	r.sections = sections
	return nil
}

// write persists sections atomically: temp file in the same directory, then
// rename over the target.
func (r *SnapshotRepository) write(sections []domain.Section) error {
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".checklist-*.json")
	if err != nil {
		return fmt.Errorf("%w: creating temp snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// commit swaps next into memory after a successful file write.
func (r *SnapshotRepository) commit(next []domain.Section) error {
	if err := r.write(next); err != nil {
		return err
	}
	r.sections = next
	return nil
}

func cloneSections(sections []domain.Section) []domain.Section {
	out := make([]domain.Section, len(sections))
	for i, s := range sections {
		out[i] = s
		out[i].Items = make([]domain.Item, len(s.Items))
		copy(out[i].Items, s.Items)
	}
	return out
}

func (r *SnapshotRepository) ListAll(ctx context.Context) ([]domain.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSections(r.sections), nil
}

func (r *SnapshotRepository) CreateSection(ctx context.Context, title string) (*domain.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	section := domain.Section{
		ID:       uuid.NewString(),
		Title:    title,
		Position: len(next) + 1,
		Items:    []domain.Item{},
	}
	next = append(next, section)
	if err := r.commit(next); err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *SnapshotRepository) RenameSection(ctx context.Context, id, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	for i := range next {
		if next[i].ID == id {
			next[i].Title = title
			return r.commit(next)
		}
	}
	return fmt.Errorf("%w: section %s", domain.ErrNotFound, id)
}

func (r *SnapshotRepository) DeleteSection(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	for i := range next {
		if next[i].ID == id {
			next = append(next[:i], next[i+1:]...)
			return r.commit(next)
		}
	}
	return fmt.Errorf("%w: section %s", domain.ErrNotFound, id)
}

func (r *SnapshotRepository) CreateItem(ctx context.Context, sectionID, text string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	for i := range next {
		if next[i].ID != sectionID {
			continue
		}
		item := domain.Item{
			ID:        uuid.NewString(),
			SectionID: sectionID,
			Text:      text,
			Done:      false,
			Position:  len(next[i].Items) + 1,
		}
		next[i].Items = append(next[i].Items, item)
		if err := r.commit(next); err != nil {
			return nil, err
		}
		return &item, nil
	}
	return nil, fmt.Errorf("%w: section %s", domain.ErrNotFound, sectionID)
}

func (r *SnapshotRepository) UpdateItem(ctx context.Context, id string, text *string, done *bool) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	for i := range next {
		for j := range next[i].Items {
			if next[i].Items[j].ID != id {
				continue
			}
			if text == nil && done == nil {
				item := next[i].Items[j]
				return &item, nil
			}
			if text != nil {
				next[i].Items[j].Text = *text
			}
			if done != nil {
				next[i].Items[j].Done = *done
			}
			item := next[i].Items[j]
			if err := r.commit(next); err != nil {
				return nil, err
			}
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
}

func (r *SnapshotRepository) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	for i := range next {
		for j := range next[i].Items {
			if next[i].Items[j].ID == id {
				next[i].Items = append(next[i].Items[:j], next[i].Items[j+1:]...)
				return r.commit(next)
			}
		}
	}
	return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
}

func (r *SnapshotRepository) DuplicateItem(ctx context.Context, id string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	for i := range next {
		for j := range next[i].Items {
			if next[i].Items[j].ID != id {
				continue
			}
			source := next[i].Items[j]
			clone := domain.Item{
				ID:        uuid.NewString(),
				SectionID: source.SectionID,
				Text:      source.Text,
				Done:      false,
				Position:  source.Position + 1,
			}
			items := next[i].Items
			items = append(items[:j+1], append([]domain.Item{clone}, items[j+1:]...)...)
			for k := j + 2; k < len(items); k++ {
				items[k].Position++
			}
			next[i].Items = items
			if err := r.commit(next); err != nil {
				return nil, err
			}
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
}

func (r *SnapshotRepository) UncheckAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := cloneSections(r.sections)
	var changed int64
	for i := range next {
		for j := range next[i].Items {
			if next[i].Items[j].Done {
				next[i].Items[j].Done = false
				changed++
			}
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := r.commit(next); err != nil {
		return 0, err
	}
	return changed, nil
}

func (r *SnapshotRepository) SeedDefaultTemplate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sections) > 0 {
		return fmt.Errorf("%w: store is not empty", domain.ErrInvalidArgument)
	}
	return r.seedLocked()
}

func (r *SnapshotRepository) ImportReplaceAll(ctx context.Context, sections []domain.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.Section, 0, len(sections))
	for si, src := range sections {
		sec := domain.Section{
			ID:       src.ID,
			Title:    src.Title,
			Position: si + 1,
			Items:    make([]domain.Item, 0, len(src.Items)),
		}
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		for ii, it := range src.Items {
			item := domain.Item{
				ID:        it.ID,
				SectionID: sec.ID,
				Text:      it.Text,
				Done:      it.Done,
				Position:  ii + 1,
			}
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			sec.Items = append(sec.Items, item)
		}
		next = append(next, sec)
	}
	if err := r.commit(next); err != nil {
		return fmt.Errorf("%w: importing data: %v", domain.ErrTransactionFailed, err)
	}
	return nil
}

var _ ChecklistRepository = (*SnapshotRepository)(nil)
