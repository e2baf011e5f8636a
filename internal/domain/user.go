package domain

import (
	"context"
	"time"

	"go-docstore-repo/internal/paging"
)

// User is an account known through an external identity (Source, SourceID).
type User struct {
	ID               string    `json:"id"`
	Source           string    `json:"source"`
	SourceID         string    `json:"sourceId"`
	Password         string    `json:"password,omitempty"`
	Email            string    `json:"email"`
	Firstname        string    `json:"firstname"`
	Lastname         string    `json:"lastname"`
	Picture          string    `json:"picture"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	LastConnectionAt time.Time `json:"lastConnectionAt"`
}

// UserFields lists what an update may change on a stored user.
type UserFields struct {
	Source           *string    `json:"source,omitempty"`
	SourceID         *string    `json:"sourceId,omitempty"`
	Password         *string    `json:"password,omitempty"`
	Email            *string    `json:"email,omitempty"`
	Firstname        *string    `json:"firstname,omitempty"`
	Lastname         *string    `json:"lastname,omitempty"`
	Picture          *string    `json:"picture,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
	LastConnectionAt *time.Time `json:"lastConnectionAt,omitempty"`
}

func (u User) MutableFields() UserFields {
	var f UserFields
	set := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	set(&f.Source, u.Source)
	set(&f.SourceID, u.SourceID)
	set(&f.Password, u.Password)
	set(&f.Email, u.Email)
	set(&f.Firstname, u.Firstname)
	set(&f.Lastname, u.Lastname)
	set(&f.Picture, u.Picture)
	if !u.UpdatedAt.IsZero() {
		f.UpdatedAt = &u.UpdatedAt
	}
	if !u.LastConnectionAt.IsZero() {
		f.LastConnectionAt = &u.LastConnectionAt
	}
	return f
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindBySource(ctx context.Context, source, sourceID string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	Search(ctx context.Context, p paging.Pageable) (paging.Page[User], error)
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	Patch(ctx context.Context, id string, f UserFields) (*User, error)
	Delete(ctx context.Context, id string) error
}
