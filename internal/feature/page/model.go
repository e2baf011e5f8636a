package page

import (
	"time"

	"go-docstore-repo/internal/domain"
	"go-docstore-repo/internal/mapper"
)

// Model is the stored shape of a domain.Page. ID carries the page name.
type Model struct {
	ID              string    `bson:"_id" cbor:"id,omitempty" gorm:"column:name;primaryKey;size:191"`
	Type            string    `bson:"type" cbor:"type" gorm:"size:16"`
	Title           string    `bson:"title" cbor:"title" gorm:"size:255"`
	Content         string    `bson:"content" cbor:"content" gorm:"type:text"`
	LastContributor string    `bson:"lastContributor" cbor:"last_contributor" gorm:"size:191"`
	Order           int       `bson:"order" cbor:"page_order" gorm:"column:page_order;index:idx_pages_api_order,priority:2"`
	API             string    `bson:"api" cbor:"api" gorm:"size:191;index:idx_pages_api_order,priority:1"`
	Published       bool      `bson:"published" cbor:"published" gorm:"not null;default:false"`
	CreatedAt       time.Time `bson:"createdAt" cbor:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt       time.Time `bson:"updatedAt" cbor:"updated_at" gorm:"autoUpdateTime:false"`
}

func (Model) TableName() string { return "pages" }

func (m Model) Key() string { return m.ID }

func (m Model) WithKey(id string) Model {
	m.ID = id
	return m
}

// Register installs the domain.Page <-> Model converters.
func Register(m *mapper.Mapper) {
	mapper.Register(m, FromDomain)
	mapper.Register(m, ToDomain)
}

func FromDomain(p domain.Page) (Model, error) {
	t, err := domain.ParsePageType(string(p.Type))
	if err != nil {
		return Model{}, err
	}
	return Model{
		ID:              p.Name,
		Type:            string(t),
		Title:           p.Title,
		Content:         p.Content,
		LastContributor: p.LastContributor,
		Order:           p.Order,
		API:             p.API,
		Published:       p.Published,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}

func ToDomain(m Model) (domain.Page, error) {
	t, err := domain.ParsePageType(m.Type)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{
		Name:            m.ID,
		Type:            t,
		Title:           m.Title,
		Content:         m.Content,
		LastContributor: m.LastContributor,
		Order:           m.Order,
		API:             m.API,
		Published:       m.Published,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

// Apply copies the set fields of f onto m. ID, API and CreatedAt are never touched.
func Apply(m *Model, f domain.PageFields) {
	if f.Type != nil {
		m.Type = string(*f.Type)
	}
	if f.Title != nil {
		m.Title = *f.Title
	}
	if f.Content != nil {
		m.Content = *f.Content
	}
	if f.LastContributor != nil {
		m.LastContributor = *f.LastContributor
	}
	if f.Order != nil {
		m.Order = *f.Order
	}
	if f.Published != nil {
		m.Published = *f.Published
	}
	if f.UpdatedAt != nil {
		m.UpdatedAt = *f.UpdatedAt
	}
}
