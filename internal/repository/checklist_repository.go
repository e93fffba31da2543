// Package repository implements durable storage for checklist sections and
// items. Two implementations exist: a GORM-backed relational store and a
// JSON snapshot file for single-user local use. Both speak the domain error
// taxonomy so the layers above never see backend-specific errors.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"checklist-backend/internal/domain"
)

// ChecklistRepository defines the interface for checklist data operations.
type ChecklistRepository interface {
	// ListAll returns every section in display order, each with its items in
	// display order. Sections without items carry an empty, non-nil slice.
	ListAll(ctx context.Context) ([]domain.Section, error)

	CreateSection(ctx context.Context, title string) (*domain.Section, error)
	RenameSection(ctx context.Context, id, title string) error
	// DeleteSection removes the section and, atomically, all of its items.
	DeleteSection(ctx context.Context, id string) error

	CreateItem(ctx context.Context, sectionID, text string) (*domain.Item, error)
	// UpdateItem applies a partial update; nil fields are left untouched.
	UpdateItem(ctx context.Context, id string, text *string, done *bool) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	// DuplicateItem copies an item's text into a fresh unchecked item placed
	// immediately after the source in its section's display order.
	DuplicateItem(ctx context.Context, id string) (*domain.Item, error)

	// UncheckAll clears the done flag on every item and reports how many
	// items were previously checked.
	UncheckAll(ctx context.Context) (int64, error)
	// SeedDefaultTemplate fills an empty store with the built-in template.
	// It refuses to run on a non-empty store.
	SeedDefaultTemplate(ctx context.Context) error
	// ImportReplaceAll atomically replaces the entire store contents with the
	// supplied sections. Supplied ids are preserved; missing ids are
	// generated. Any failure leaves the prior contents intact.
	ImportReplaceAll(ctx context.Context, sections []domain.Section) error
}

// gormChecklistRepository implements ChecklistRepository using GORM.
type gormChecklistRepository struct {
	db *gorm.DB
}

// NewGormChecklistRepository creates a GORM-backed checklist repository.
func NewGormChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &gormChecklistRepository{db: db}
}

func (r *gormChecklistRepository) ListAll(ctx context.Context) ([]domain.Section, error) {
	var sections []domain.Section
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Order("position").
		Find(&sections).Error
	if err != nil {
		return nil, fmt.Errorf("%w: listing sections: %v", domain.ErrStorageUnavailable, err)
	}
	if sections == nil {
		sections = []domain.Section{}
	}
	for i := range sections {
		if sections[i].Items == nil {
			sections[i].Items = []domain.Item{}
		}
	}
	return sections, nil
}

func (r *gormChecklistRepository) CreateSection(ctx context.Context, title string) (*domain.Section, error) {
	section := &domain.Section{
		ID:    uuid.NewString(),
		Title: title,
		Items: []domain.Item{},
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx.Model(&domain.Section{}))
		if err != nil {
			return err
		}
		section.Position = pos
		return tx.Create(section).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating section: %v", domain.ErrStorageUnavailable, err)
	}
	return section, nil
}

func (r *gormChecklistRepository) RenameSection(ctx context.Context, id, title string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Section{}).
		Where("id = ?", id).
		Update("title", title)
	if res.Error != nil {
		return fmt.Errorf("%w: renaming section: %v", domain.ErrStorageUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: section %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *gormChecklistRepository) DeleteSection(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", id).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Section{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: section %s", domain.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: deleting section %s: %v", domain.ErrTransactionFailed, id, err)
	}
	return nil
}

func (r *gormChecklistRepository) CreateItem(ctx context.Context, sectionID, text string) (*domain.Item, error) {
	item := &domain.Item{
		ID:        uuid.NewString(),
		SectionID: sectionID,
		Text:      text,
		Done:      false,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section domain.Section
		if err := tx.First(&section, "id = ?", sectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: section %s", domain.ErrNotFound, sectionID)
			}
			return err
		}
		pos, err := nextPosition(tx.Model(&domain.Item{}).Where("section_id = ?", sectionID))
		if err != nil {
			return err
		}
		item.Position = pos
		return tx.Create(item).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: creating item: %v", domain.ErrStorageUnavailable, err)
	}
	return item, nil
}

func (r *gormChecklistRepository) UpdateItem(ctx context.Context, id string, text *string, done *bool) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
			}
			return err
		}
		if text == nil && done == nil {
			return nil // no-field update is a no-op, not an error
		}
		if text != nil {
			item.Text = *text
		}
		if done != nil {
			item.Done = *done
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: updating item %s: %v", domain.ErrStorageUnavailable, id, err)
	}
	return &item, nil
}

func (r *gormChecklistRepository) DeleteItem(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Item{})
	if res.Error != nil {
		return fmt.Errorf("%w: deleting item %s: %v", domain.ErrStorageUnavailable, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *gormChecklistRepository) DuplicateItem(ctx context.Context, id string) (*domain.Item, error) {
	var clone domain.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source domain.Item
		if err := tx.First(&source, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
			}
			return err
		}
		// Shift trailing items so the copy lands right after its source.
		err := tx.Model(&domain.Item{}).
			Where("section_id = ? AND position > ?", source.SectionID, source.Position).
			Update("position", gorm.Expr("position + 1")).Error
		if err != nil {
			return err
		}
		clone = domain.Item{
			ID:        uuid.NewString(),
			SectionID: source.SectionID,
			Text:      source.Text,
			Done:      false,
			Position:  source.Position + 1,
		}
		return tx.Create(&clone).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: duplicating item %s: %v", domain.ErrTransactionFailed, id, err)
	}
	return &clone, nil
}

func (r *gormChecklistRepository) UncheckAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("done = ?", true).
		Update("done", false)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: unchecking items: %v", domain.ErrStorageUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *gormChecklistRepository) SeedDefaultTemplate(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Section{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: store is not empty", domain.ErrInvalidArgument)
		}
		for si, tpl := range domain.DefaultTemplate {
			section := domain.Section{
				ID:       uuid.NewString(),
				Title:    tpl.Title,
				Position: si + 1,
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			for ii, text := range tpl.Items {
				item := domain.Item{
					ID:        uuid.NewString(),
					SectionID: section.ID,
					Text:      text,
					Done:      false,
					Position:  ii + 1,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return err
		}
		return fmt.Errorf("%w: seeding default template: %v", domain.ErrTransactionFailed, err)
	}
	return nil
}

func (r *gormChecklistRepository) ImportReplaceAll(ctx context.Context, sections []domain.Section) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&domain.Section{}).Error; err != nil {
			return err
		}
		for si, src := range sections {
			section := domain.Section{
				ID:       src.ID,
				Title:    src.Title,
				Position: si + 1,
			}
			if section.ID == "" {
				section.ID = uuid.NewString()
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			for ii, it := range src.Items {
				item := domain.Item{
					ID:        it.ID,
					SectionID: section.ID,
					Text:      it.Text,
					Done:      it.Done,
					Position:  ii + 1,
				}
				if item.ID == "" {
					item.ID = uuid.NewString()
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: importing data: %v", domain.ErrTransactionFailed, err)
	}
	return nil
}

// nextPosition returns max(position)+1 for the rows selected by query.
func nextPosition(query *gorm.DB) (int, error) {
	var max int
	if err := query.Select("COALESCE(MAX(position), 0)").Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}
