package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cabmed/cabmed/internal/platform/auth"
)

var (
	ErrBadCredentials   = errors.New("invalid username or password")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
)

type Service struct {
	repo   Repository
	tokens *auth.TokenIssuer
}

func NewService(repo Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Create(ctx context.Context, u *User) error {
	if strings.TrimSpace(u.Username) == "" || u.Password == "" {
		return fmt.Errorf("username and password are required")
	}
	if u.Role == "" {
		u.Role = RoleSecretaire
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}
	if !BuiltinRole(u.Role) {
		return s.repo.SaveRole(ctx, u.Role)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*User, error) {
	u, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.Role != nil && !BuiltinRole(*patch.Role) {
		if err := s.repo.SaveRole(ctx, *patch.Role); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *Service) ReplaceAll(ctx context.Context, users []*User) error {
	return s.repo.ReplaceAll(ctx, users)
}

// Roles returns the fixed roles followed by the cached custom ones,
// for the role dropdown.
func (s *Service) Roles(ctx context.Context) ([]string, error) {
	custom, err := s.repo.SavedRoles(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{RoleAdmin, RoleDocteur, RoleSecretaire}, custom...), nil
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrBadCredentials
	}
	if u.Password != password {
		return "", nil, ErrBadCredentials
	}
	token, err := s.tokens.Issue(u.ID, u.Name, u.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u.Public(), nil
}

// ChangePassword requires the confirmation to match before anything is
// written.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, password, confirmation string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return s.repo.SetPassword(ctx, id, password)
}
