package service

import (
	"fmt"
	"strings"

	"logframe-studio/internal/core/auth"
	"logframe-studio/internal/domain"
	"logframe-studio/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
	jwter *auth.JWTer
}

func NewUserService(users domain.UserRepository, jwter *auth.JWTer) *UserService {
	return &UserService{users: users, jwter: jwter}
}

// Session is what register/login hand back: the user record plus a signed
// 30-day token.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type RegisterInput struct {
	Name         string `json:"name" binding:"required,max=64"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Experience   string `json:"experience"`
}

func (s *UserService) Register(in RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Organization: in.Organization,
		Role:         in.Role,
		Experience:   in.Experience,
		Badges:       domain.StringList{},
		PasswordHash: utils.HashPassword(in.Password),
	}
	if err := s.users.Create(u); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *UserService) Login(email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *UserService) Get(userID string) (*domain.User, error) {
	u, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// AddBadge appends badgeID to the user's badge list if not already present.
// Re-granting is a no-op, not an error; the client retries grants freely.
func (s *UserService) AddBadge(userID, badgeID string) (*domain.User, error) {
	badgeID = strings.TrimSpace(badgeID)
	if badgeID == "" {
		return nil, fmt.Errorf("%w: empty badgeId", ErrInvalidInput)
	}
	u, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if u.HasBadge(badgeID) {
		return u, nil
	}
	u.Badges = append(u.Badges, badgeID)
	if err := s.users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) session(u *domain.User) (*Session, error) {
	tok, err := s.jwter.Issue(u.ID, "user")
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: tok}, nil
}
