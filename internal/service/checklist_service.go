package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"checklist-backend/internal/domain"
	"checklist-backend/internal/repository"
)

// --- Request/Response DTOs ---

// CreateSectionRequest holds the data needed to create a new section.
type CreateSectionRequest struct {
	Title string `json:"title"`
}

// RenameSectionRequest holds the data for retitling a section.
type RenameSectionRequest struct {
	Title string `json:"title"`
}

// CreateItemRequest holds the data needed to create an item under a section.
type CreateItemRequest struct {
	Text string `json:"text"`
}

// UpdateItemRequest is a partial item update. Pointer fields distinguish an
// omitted field from one set to its zero value (done=false in particular).
type UpdateItemRequest struct {
	Text *string `json:"text"`
	Done *bool   `json:"done"`
}

// ImportRequest carries the full replacement dataset.
type ImportRequest struct {
	Data []ImportSection `json:"data"`
}

// ImportSection is one section of an import payload. IDs are optional and
// preserved when present.
type ImportSection struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Items []ImportItem `json:"items"`
}

// ImportItem is one item of an import payload.
type ImportItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// SectionResponse is the wire representation of a section with its items.
type SectionResponse struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Items []ItemResponse `json:"items"`
}

// ItemResponse is the wire representation of a single item.
type ItemResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// --- Service interface ---

// ChecklistService contains the business rules over the checklist store:
// presence validation before persistence and domain-error classification.
type ChecklistService interface {
	ListSections(ctx context.Context) ([]SectionResponse, error)
	CreateSection(ctx context.Context, req CreateSectionRequest) (*SectionResponse, error)
	RenameSection(ctx context.Context, id string, req RenameSectionRequest) error
	DeleteSection(ctx context.Context, id string) error

	CreateItem(ctx context.Context, sectionID string, req CreateItemRequest) (*ItemResponse, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
	DuplicateItem(ctx context.Context, id string) (*ItemResponse, error)

	UncheckAll(ctx context.Context) (int64, error)
	SeedDefaultTemplate(ctx context.Context) error
	ImportReplaceAll(ctx context.Context, req ImportRequest) error
}

type checklistService struct {
	repo repository.ChecklistRepository
}

// NewChecklistService creates a ChecklistService backed by the given repository.
func NewChecklistService(repo repository.ChecklistRepository) ChecklistService {
	return &checklistService{repo: repo}
}

// --- Method implementations ---

func (s *checklistService) ListSections(ctx context.Context) ([]SectionResponse, error) {
	sections, err := s.repo.ListAll(ctx)
	if err != nil {
		log.Printf("Error listing sections from repository: %v", err)
		return nil, err
	}
	responses := make([]SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, toSectionResponse(section))
	}
	return responses, nil
}

func (s *checklistService) CreateSection(ctx context.Context, req CreateSectionRequest) (*SectionResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	section, err := s.repo.CreateSection(ctx, title)
	if err != nil {
		log.Printf("Error creating section in repository: %v", err)
		return nil, err
	}
	resp := toSectionResponse(*section)
	return &resp, nil
}

func (s *checklistService) RenameSection(ctx context.Context, id string, req RenameSectionRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	return s.repo.RenameSection(ctx, id, title)
}

func (s *checklistService) DeleteSection(ctx context.Context, id string) error {
	return s.repo.DeleteSection(ctx, id)
}

func (s *checklistService) CreateItem(ctx context.Context, sectionID string, req CreateItemRequest) (*ItemResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidArgument)
	}
	item, err := s.repo.CreateItem(ctx, sectionID, text)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(*item)
	return &resp, nil
}

func (s *checklistService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*ItemResponse, error) {
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", domain.ErrInvalidArgument)
	}
	item, err := s.repo.UpdateItem(ctx, id, req.Text, req.Done)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(*item)
	return &resp, nil
}

func (s *checklistService) DeleteItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *checklistService) DuplicateItem(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.repo.DuplicateItem(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toItemResponse(*item)
	return &resp, nil
}

func (s *checklistService) UncheckAll(ctx context.Context) (int64, error) {
	return s.repo.UncheckAll(ctx)
}

func (s *checklistService) SeedDefaultTemplate(ctx context.Context) error {
	return s.repo.SeedDefaultTemplate(ctx)
}

// ImportReplaceAll validates the whole payload before any deletion happens;
// a malformed import must leave the existing store untouched.
func (s *checklistService) ImportReplaceAll(ctx context.Context, req ImportRequest) error {
	sections := make([]domain.Section, 0, len(req.Data))
	for i, src := range req.Data {
		if strings.TrimSpace(src.Title) == "" {
			return fmt.Errorf("%w: section %d has no title", domain.ErrInvalidArgument, i)
		}
		section := domain.Section{
			ID:    strings.TrimSpace(src.ID),
			Title: strings.TrimSpace(src.Title),
			Items: make([]domain.Item, 0, len(src.Items)),
		}
		for j, it := range src.Items {
			if strings.TrimSpace(it.Text) == "" {
				return fmt.Errorf("%w: item %d of section %d has no text", domain.ErrInvalidArgument, j, i)
			}
			section.Items = append(section.Items, domain.Item{
				ID:   strings.TrimSpace(it.ID),
				Text: it.Text,
				Done: it.Done,
			})
		}
		sections = append(sections, section)
	}
	return s.repo.ImportReplaceAll(ctx, sections)
}

func toSectionResponse(section domain.Section) SectionResponse {
	items := make([]ItemResponse, 0, len(section.Items))
	for _, item := range section.Items {
		items = append(items, toItemResponse(item))
	}
	return SectionResponse{
		ID:    section.ID,
		Title: section.Title,
		Items: items,
	}
}

func toItemResponse(item domain.Item) ItemResponse {
	return ItemResponse{
		ID:   item.ID,
		Text: item.Text,
		Done: item.Done,
	}
}
