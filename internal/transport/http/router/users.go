package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-docstore-repo/internal/domain"
	httpez "go-docstore-repo/internal/transport/http/ez"
	"go-docstore-repo/pkg/utils"
)

type Users struct {
	Repo domain.UserRepository
	Log  *zap.Logger
}

func (Users) Priority() int { return 20 }

// UserView is a user as rendered over HTTP; the password hash never leaves.
type UserView struct {
	ID               string     `json:"id"`
	Source           string     `json:"source"`
	SourceID         string     `json:"sourceId"`
	Email            string     `json:"email"`
	Firstname        string     `json:"firstname"`
	Lastname         string     `json:"lastname"`
	Picture          string     `json:"picture"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	LastConnectionAt *time.Time `json:"lastConnectionAt,omitempty"`
}

func ViewUser(u domain.User) UserView {
	v := UserView{
		ID:        u.ID,
		Source:    u.Source,
		SourceID:  u.SourceID,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Picture:   u.Picture,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if !u.LastConnectionAt.IsZero() {
		v.LastConnectionAt = &u.LastConnectionAt
	}
	return v
}

func hashPassword(pw *string) error {
	if pw == nil || *pw == "" || utils.IsHashed(*pw) {
		return nil
	}
	h, err := utils.HashPassword(*pw)
	if err != nil {
		return httpez.BadRequest("password: " + err.Error())
	}
	*pw = h
	return nil
}

func (m Users) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g, m.Log)

	httpez.Crud(ez, httpez.CrudConfig[domain.User, domain.UserFields, UserView]{
		Path:  "/users",
		Repo:  m.Repo,
		SetID: func(u *domain.User, id string) { u.ID = id },
		View:  ViewUser,
		Hooks: httpez.CrudHooks[domain.User, domain.UserFields]{
			BeforeCreate: func(_ *gin.Context, u *domain.User) error {
				if u.ID == "" {
					u.ID = utils.NewID()
				}
				return hashPassword(&u.Password)
			},
			BeforeUpdate: func(_ *gin.Context, u *domain.User) error { return hashPassword(&u.Password) },
			BeforePatch:  func(_ *gin.Context, f *domain.UserFields) error { return hashPassword(f.Password) },
		},
	})

	type bySourceQuery struct {
		Source   string `form:"source" binding:"required"`
		SourceID string `form:"sourceId" binding:"required"`
	}
	httpez.RegisterAction(ez, httpez.Action[bySourceQuery, UserView]{
		Method: http.MethodGet,
		Path:   "/users/by-source",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *bySourceQuery) (UserView, error) {
			u, err := m.Repo.FindBySource(c.Request.Context(), in.Source, in.SourceID)
			if err != nil {
				return UserView{}, err
			}
			if u == nil {
				return UserView{}, httpez.NotFound("user not found")
			}
			return ViewUser(*u), nil
		},
	})

	type lookupIn struct {
		IDs []string `json:"ids" binding:"required,max=500"`
	}
	httpez.RegisterAction(ez, httpez.Action[lookupIn, []UserView]{
		Method: http.MethodPost,
		Path:   "/users/lookup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *lookupIn) ([]UserView, error) {
			us, err := m.Repo.FindByIDs(c.Request.Context(), in.IDs)
			if err != nil {
				return nil, err
			}
			out := make([]UserView, 0, len(us))
			for _, u := range us {
				out = append(out, ViewUser(u))
			}
			return out, nil
		},
	})
}
