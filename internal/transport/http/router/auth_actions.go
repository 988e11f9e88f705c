package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logframe-studio/internal/domain"
	"logframe-studio/internal/service"
	httpez "logframe-studio/internal/transport/http/ez"
	mdw "logframe-studio/internal/transport/http/middleware"
)

func MountAuthActions(api *gin.RouterGroup, d Deps) {
	ez := httpez.New(api)

	httpez.RegisterAction[service.RegisterInput, *service.Session](ez, httpez.Action[service.RegisterInput, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*service.Session, error) {
			return d.Users.Register(*in)
		},
	})

	type loginIn struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[loginIn, *service.Session](ez, httpez.Action[loginIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.Session, error) {
			return d.Users.Login(in.Email, in.Password)
		},
	})
}

// MountBadgeActions mounts the authenticated auth-scoped routes.
func MountBadgeActions(authed *gin.RouterGroup, d Deps) {
	ez := httpez.New(authed)

	type badgeIn struct {
		BadgeID string `json:"badgeId" binding:"required"`
	}
	httpez.RegisterAction[badgeIn, *domain.User](ez, httpez.Action[badgeIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/auth/badges",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *badgeIn) (*domain.User, error) {
			return d.Users.AddBadge(c.GetString(mdw.KeyUserID), in.BadgeID)
		},
	})

	httpez.RegisterAction[struct{}, *domain.User](ez, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return d.Users.Get(c.GetString(mdw.KeyUserID))
		},
	})
}
