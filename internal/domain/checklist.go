// Package domain holds the persisted checklist entities and the error
// taxonomy shared by the repository, service, and HTTP layers.
package domain

import "time"

// Section is a named group of checklist items. Display order follows
// Position, which is assigned at creation time and never compacted.
type Section struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Position  int       `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Items     []Item    `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"items"`
}

// Item is a single checklist entry. An item belongs to exactly one section
// for its whole lifetime; there is no re-parenting operation.
//
// Position is dense within a section so that DuplicateItem can slot the copy
// immediately after its source. Creation-time ordering alone cannot express
// that placement.
type Item struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	SectionID string    `gorm:"not null;index" json:"-"`
	Text      string    `gorm:"not null" json:"text"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	Position  int       `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
