package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-docstore-repo/internal/paging"
)

type PageType string

const (
	PageMarkdown PageType = "MARKDOWN"
	PageRAML     PageType = "RAML"
	PageSwagger  PageType = "SWAGGER"
)

func ParsePageType(s string) (PageType, error) {
	switch t := PageType(strings.ToUpper(strings.TrimSpace(s))); t {
	case PageMarkdown, PageRAML, PageSwagger:
		return t, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown page type %q", s)
	}
}

// Page is a documentation page owned by an API. Name is its identifier.
type Page struct {
	Name            string    `json:"name"`
	Type            PageType  `json:"type"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	LastContributor string    `json:"lastContributor"`
	Order           int       `json:"order"`
	API             string    `json:"api"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PageFields lists what an update may change on a stored page.
// A nil field is left as stored.
type PageFields struct {
	Type            *PageType  `json:"type,omitempty"`
	Title           *string    `json:"title,omitempty"`
	Content         *string    `json:"content,omitempty"`
	LastContributor *string    `json:"lastContributor,omitempty"`
	Order           *int       `json:"order,omitempty"`
	Published       *bool      `json:"published,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// MutableFields picks the non-zero allow-listed fields of p.
// Published is carried only when true; Patch clears it.
func (p Page) MutableFields() PageFields {
	var f PageFields
	if p.Type != "" {
		f.Type = &p.Type
	}
	if p.Title != "" {
		f.Title = &p.Title
	}
	if p.Content != "" {
		f.Content = &p.Content
	}
	if p.LastContributor != "" {
		f.LastContributor = &p.LastContributor
	}
	if p.Order != 0 {
		f.Order = &p.Order
	}
	if p.Published {
		f.Published = &p.Published
	}
	if !p.UpdatedAt.IsZero() {
		f.UpdatedAt = &p.UpdatedAt
	}
	return f
}

type PageRepository interface {
	FindByID(ctx context.Context, name string) (*Page, error)
	FindByAPI(ctx context.Context, api string) ([]Page, error)
	FindPublishedByAPI(ctx context.Context, api string) ([]Page, error)
	FindMaxOrderByAPI(ctx context.Context, api string) (int, error)
	Search(ctx context.Context, p paging.Pageable) (paging.Page[Page], error)
	Create(ctx context.Context, p *Page) (*Page, error)
	Update(ctx context.Context, p *Page) (*Page, error)
	Patch(ctx context.Context, name string, f PageFields) (*Page, error)
	Delete(ctx context.Context, name string) error
}
