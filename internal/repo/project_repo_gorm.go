package repo

import (
	"errors"

	"gorm.io/gorm"

	"logframe-studio/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(p *domain.Project) error { return r.db.Create(p).Error }

func (r *ProjectRepo) FindByID(id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProjectRepo) ListByUser(userID string) ([]domain.Project, error) {
	var ps []domain.Project
	err := r.db.Where("user_id = ?", userID).Order("updated_at desc").Find(&ps).Error
	return ps, err
}

func (r *ProjectRepo) Update(p *domain.Project) error { return r.db.Save(p).Error }

func (r *ProjectRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Project{}).Error
}

// FindByLocation is the cross-owner discovery query: no user filter on
// purpose, matching happens on the denormalized geography columns.
func (r *ProjectRepo) FindByLocation(q domain.LocationQuery) ([]domain.Project, error) {
	tx := r.db.Where("state = ?", q.State)
	if q.District != "" {
		tx = tx.Where("district = ?", q.District)
	}
	if q.Block != "" {
		tx = tx.Where("block = ?", q.Block)
	}
	if q.Cluster != "" {
		tx = tx.Where("cluster = ?", q.Cluster)
	}
	var ps []domain.Project
	err := tx.Order("updated_at desc").Find(&ps).Error
	return ps, err
}
