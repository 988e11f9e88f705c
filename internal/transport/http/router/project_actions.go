package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"logframe-studio/internal/domain"
	"logframe-studio/internal/export"
	"logframe-studio/internal/feature/template"
	"logframe-studio/internal/service"
	httpez "logframe-studio/internal/transport/http/ez"
	mdw "logframe-studio/internal/transport/http/middleware"
	resp "logframe-studio/internal/transport/http/response"
)

func MountProjectActions(authed *gin.RouterGroup, d Deps) {
	ez := httpez.New(authed)
	uid := func(c *gin.Context) string { return c.GetString(mdw.KeyUserID) }

	httpez.RegisterAction[struct{}, []domain.Project](ez, httpez.Action[struct{}, []domain.Project]{
		Method: http.MethodGet,
		Path:   "/projects",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Project, error) {
			return d.Projects.List(uid(c))
		},
	})

	httpez.RegisterAction[service.CreateInput, *domain.Project](ez, httpez.Action[service.CreateInput, *domain.Project]{
		Method: http.MethodPost,
		Path:   "/projects",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.CreateInput) (*domain.Project, error) {
			return d.Projects.Create(uid(c), *in)
		},
	})

	// Static /projects/location must coexist with /projects/:id; gin
	// resolves the static segment first.
	type locQ struct {
		State    string `form:"state"`
		District string `form:"district"`
		Block    string `form:"block"`
		Cluster  string `form:"cluster"`
	}
	httpez.RegisterAction[locQ, []domain.Project](ez, httpez.Action[locQ, []domain.Project]{
		Method: http.MethodGet,
		Path:   "/projects/location",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *locQ) ([]domain.Project, error) {
			return d.Projects.Discover(c, domain.LocationQuery{
				State: in.State, District: in.District, Block: in.Block, Cluster: in.Cluster,
			})
		},
	})

	httpez.RegisterAction[struct{}, *domain.Project](ez, httpez.Action[struct{}, *domain.Project]{
		Method: http.MethodGet,
		Path:   "/projects/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Project, error) {
			return d.Projects.Get(uid(c), c.Param("id"))
		},
	})

	httpez.RegisterAction[service.UpdatePatch, *domain.Project](ez, httpez.Action[service.UpdatePatch, *domain.Project]{
		Method: http.MethodPut,
		Path:   "/projects/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.UpdatePatch) (*domain.Project, error) {
			return d.Projects.Update(uid(c), c.Param("id"), *in)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/projects/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := d.Projects.Delete(uid(c), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	type importIn struct {
		SourceID string `json:"sourceId" binding:"required"`
	}
	httpez.RegisterAction[importIn, *domain.Project](ez, httpez.Action[importIn, *domain.Project]{
		Method: http.MethodPost,
		Path:   "/projects/:id/import",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *importIn) (*domain.Project, error) {
			return d.Projects.Import(uid(c), c.Param("id"), in.SourceID)
		},
	})

	httpez.RegisterAction[struct{}, []template.Template](ez, httpez.Action[struct{}, []template.Template]{
		Method: http.MethodGet,
		Path:   "/templates",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]template.Template, error) {
			return d.Projects.Templates(), nil
		},
	})

	// Export streams raw bytes, so it bypasses the JSON envelope.
	authed.GET("/projects/:id/export/:format", func(c *gin.Context) {
		p, err := d.Projects.Get(uid(c), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "project not found"))
			return
		}
		data, contentType, filename, err := export.Render(c.Param("format"), p)
		if err != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, contentType, data)
	})
}
