package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"logframe-studio/internal/core/cache"
	"logframe-studio/internal/domain"
	"logframe-studio/internal/feature/template"
	"logframe-studio/pkg/utils"
)

type ProjectService struct {
	projects     domain.ProjectRepository
	cache        *cache.Cache
	discoveryTTL time.Duration
	log          *zap.Logger
}

func NewProjectService(projects domain.ProjectRepository, c *cache.Cache, discoveryTTL time.Duration, log *zap.Logger) *ProjectService {
	if discoveryTTL <= 0 {
		discoveryTTL = 30 * time.Second
	}
	return &ProjectService{projects: projects, cache: c, discoveryTTL: discoveryTTL, log: log}
}

func (s *ProjectService) List(userID string) ([]domain.Project, error) {
	return s.projects.ListByUser(userID)
}

type CreateInput struct {
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description" binding:"required"`
	Organization string              `json:"organization"`
	TemplateID   string              `json:"templateId"`
	Data         *domain.ProjectData `json:"data"`
}

func (s *ProjectService) Create(userID string, in CreateInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" || desc == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrInvalidInput)
	}

	var data domain.ProjectData
	switch {
	case in.Data != nil:
		data = in.Data.Clone()
	case in.TemplateID != "":
		if tpl, ok := template.Find(in.TemplateID); ok {
			data = tpl.Data.Clone()
		}
	}

	p := &domain.Project{
		ID:             utils.NewID(),
		UserID:         userID,
		Name:           name,
		Description:    desc,
		Organization:   in.Organization,
		TemplateID:     in.TemplateID,
		Status:         domain.StatusDraft,
		CurrentStep:    1,
		CompletedSteps: domain.IntList{},
		Data:           data,
	}
	p.Recompute()
	if err := s.projects.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the project only to its owner; missing and foreign are the
// same 404 to the caller.
func (s *ProjectService) Get(userID, id string) (*domain.Project, error) {
	p, err := s.projects.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.UserID != userID {
		return nil, ErrNotFound
	}
	return p, nil
}

// UpdatePatch carries the fields a PUT may merge. Progress is accepted on
// the wire but never trusted: it is rederived from completedSteps.
type UpdatePatch struct {
	Name           *string               `json:"name"`
	Description    *string               `json:"description"`
	Organization   *string               `json:"organization"`
	Status         *domain.ProjectStatus `json:"status"`
	CurrentStep    *int                  `json:"currentStep"`
	CompletedSteps *[]int                `json:"completedSteps"`
	Data           *domain.ProjectData   `json:"data"`
}

func (s *ProjectService) Update(userID, id string, patch UpdatePatch) (*domain.Project, error) {
	p, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Organization != nil {
		p.Organization = *patch.Organization
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.CurrentStep != nil {
		p.CurrentStep = *patch.CurrentStep
	}
	if patch.CompletedSteps != nil {
		p.CompletedSteps = domain.IntList(*patch.CompletedSteps)
	}
	if patch.Data != nil {
		p.Data = patch.Data.Clone()
	}
	p.Recompute()
	if err := s.projects.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(userID, id string) error {
	if _, err := s.Get(userID, id); err != nil {
		return err
	}
	return s.projects.Delete(id)
}

// Discover is the cross-owner geography query: visibility here is the
// template-sharing feature, scoped by location match rather than ownership.
// State is mandatory; results are cached briefly since the query fans out
// across all users.
func (s *ProjectService) Discover(ctx context.Context, q domain.LocationQuery) ([]domain.Project, error) {
	q.State = strings.TrimSpace(q.State)
	if q.State == "" {
		return nil, fmt.Errorf("%w: state is required", ErrInvalidInput)
	}
	key := fmt.Sprintf("discover:%s|%s|%s|%s", q.State, q.District, q.Block, q.Cluster)
	return cache.GetOrLoadJSON(s.cache, ctx, key, s.discoveryTTL, func(context.Context) ([]domain.Project, error) {
		return s.projects.FindByLocation(q)
	})
}

// Import deep-copies the source project's design document plus its
// completion state onto the owned target. The source may belong to any
// user; the target keeps its own name, description, organization and
// owner. Progress and status are rederived from the copied step set.
func (s *ProjectService) Import(userID, targetID, sourceID string) (*domain.Project, error) {
	target, err := s.Get(userID, targetID)
	if err != nil {
		return nil, err
	}
	source, err := s.projects.FindByID(sourceID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrNotFound
	}

	target.Data = source.Data.Clone()
	target.CompletedSteps = append(domain.IntList{}, source.CompletedSteps...)
	target.CurrentStep = source.CurrentStep
	target.Recompute()
	switch {
	case len(target.CompletedSteps) == domain.TotalSteps:
		target.Status = domain.StatusCompleted
	case len(target.CompletedSteps) > 0:
		target.Status = domain.StatusInProgress
	}

	if err := s.projects.Update(target); err != nil {
		return nil, err
	}
	s.log.Info("project data imported",
		zap.String("target", target.ID),
		zap.String("source", source.ID),
		zap.Bool("crossOwner", source.UserID != userID),
	)
	return target, nil
}

// Templates lists the built-in catalog.
func (s *ProjectService) Templates() []template.Template { return template.All() }
