package service

import (
	"sync"
	"time"

	"logframe-studio/internal/domain"
)

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]domain.User{}, byEmail: map[string]string{}}
}

func (m *memUserRepo) Create(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = *u
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *memUserRepo) FindByID(id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUserRepo) FindByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byEmail[email]; ok {
		u := m.byID[id]
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUserRepo) Update(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.UpdatedAt = time.Now()
	m.byID[u.ID] = *u
	return nil
}

type memProjectRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{byID: map[string]domain.Project{}}
}

func (m *memProjectRepo) Create(p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.byID[p.ID] = *p
	return nil
}

func (m *memProjectRepo) FindByID(id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProjectRepo) ListByUser(userID string) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Project
	for _, p := range m.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProjectRepo) Update(p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.UpdatedAt = time.Now()
	m.byID[p.ID] = *p
	return nil
}

func (m *memProjectRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memProjectRepo) FindByLocation(q domain.LocationQuery) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Project
	for _, p := range m.byID {
		if p.State != q.State {
			continue
		}
		if q.District != "" && p.District != q.District {
			continue
		}
		if q.Block != "" && p.Block != q.Block {
			continue
		}
		if q.Cluster != "" && p.Cluster != q.Cluster {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
