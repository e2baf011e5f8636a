package user

import (
	"time"

	"go-docstore-repo/internal/domain"
	"go-docstore-repo/internal/mapper"
)

// Model is the stored shape of a domain.User. LastConnectionAt is absent
// until the first connection.
type Model struct {
	ID               string     `bson:"_id" cbor:"id,omitempty" gorm:"primaryKey;size:64"`
	Source           string     `bson:"source" cbor:"source" gorm:"size:64;not null;uniqueIndex:idx_users_source,priority:1"`
	SourceID         string     `bson:"sourceId" cbor:"source_id" gorm:"size:191;not null;uniqueIndex:idx_users_source,priority:2"`
	Password         string     `bson:"password,omitempty" cbor:"password,omitempty" gorm:"size:100"`
	Email            string     `bson:"email" cbor:"email" gorm:"size:255;index"`
	Firstname        string     `bson:"firstname" cbor:"firstname" gorm:"size:64"`
	Lastname         string     `bson:"lastname" cbor:"lastname" gorm:"size:64"`
	Picture          string     `bson:"picture,omitempty" cbor:"picture,omitempty" gorm:"type:text"`
	CreatedAt        time.Time  `bson:"createdAt" cbor:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt        time.Time  `bson:"updatedAt" cbor:"updated_at" gorm:"autoUpdateTime:false"`
	LastConnectionAt *time.Time `bson:"lastConnectionAt,omitempty" cbor:"last_connection_at,omitempty"`
}

func (Model) TableName() string { return "users" }

func (m Model) Key() string { return m.ID }

func (m Model) WithKey(id string) Model {
	m.ID = id
	return m
}

func Register(m *mapper.Mapper) {
	mapper.Register(m, FromDomain)
	mapper.Register(m, ToDomain)
}

func FromDomain(u domain.User) (Model, error) {
	m := Model{
		ID:        u.ID,
		Source:    u.Source,
		SourceID:  u.SourceID,
		Password:  u.Password,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Picture:   u.Picture,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if !u.LastConnectionAt.IsZero() {
		t := u.LastConnectionAt
		m.LastConnectionAt = &t
	}
	return m, nil
}

func ToDomain(m Model) (domain.User, error) {
	u := domain.User{
		ID:        m.ID,
		Source:    m.Source,
		SourceID:  m.SourceID,
		Password:  m.Password,
		Email:     m.Email,
		Firstname: m.Firstname,
		Lastname:  m.Lastname,
		Picture:   m.Picture,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.LastConnectionAt != nil {
		u.LastConnectionAt = *m.LastConnectionAt
	}
	return u, nil
}

// Apply copies the set fields of f onto m. ID and CreatedAt are never touched.
func Apply(m *Model, f domain.UserFields) {
	for _, c := range []struct {
		dst *string
		src *string
	}{
		{&m.Source, f.Source},
		{&m.SourceID, f.SourceID},
		{&m.Password, f.Password},
		{&m.Email, f.Email},
		{&m.Firstname, f.Firstname},
		{&m.Lastname, f.Lastname},
		{&m.Picture, f.Picture},
	} {
		if c.src != nil {
			*c.dst = *c.src
		}
	}
	if f.UpdatedAt != nil {
		m.UpdatedAt = *f.UpdatedAt
	}
	if f.LastConnectionAt != nil {
		t := *f.LastConnectionAt
		m.LastConnectionAt = &t
	}
}
