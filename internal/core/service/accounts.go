package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"pizzeria/internal/core/domain"
	"pizzeria/internal/port"
)

// AccountService is the accounts collaborator: registration, credential
// checks and nickname changes. Passwords are stored only as bcrypt hashes.
type AccountService struct {
	users port.UserRepository
	audit port.AuditLog
	log   *slog.Logger
}

func NewAccountService(users port.UserRepository, audit port.AuditLog, log *slog.Logger) *AccountService {
	if log == nil {
		log = slog.Default()
	}
	return &AccountService{users: users, audit: audit, log: log}
}

func (s *AccountService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id

	s.record(ctx, "user_registered", username, nil)
	return &u, nil
}

func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// SetNickname rejects changes to any account holding the admin role; the
// check is a capability on the user record, not a username comparison.
func (s *AccountService) SetNickname(ctx context.Context, username, nickname string) error {
	u, err := s.users.ByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		return fmt.Errorf("user %q: %w", username, domain.ErrAdminProtectedField)
	}

	if err := s.users.UpdateNickname(ctx, username, nickname); err != nil {
		return err
	}

	s.record(ctx, "nickname_updated", username, map[string]string{"nickname": nickname})
	return nil
}

// EnsureAdmin seeds the admin account at bootstrap if it does not exist yet.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.users.ByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUnknownUser) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = s.users.Create(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil && !errors.Is(err, domain.ErrUsernameTaken) {
		return err
	}
	return nil
}

func (s *AccountService) record(ctx context.Context, kind, actor string, detail map[string]string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Append(ctx, domain.AuditEvent{Kind: kind, Actor: actor, Detail: detail}); err != nil {
		s.log.Error("audit append failed", "kind", kind, "actor", actor, "error", err)
	}
}
