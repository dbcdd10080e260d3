package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-fee-portal/internal/domain"
)

// Store is the device key-value store the session lives in.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Service interface {
	// Token returns the persisted session token, or "" when there is none.
	Token(ctx context.Context) (string, error)
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) Token(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, domain.KeyAuthToken)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", domain.KeyAuthToken, err)
	}
	return v, nil
}

func (s *service) Load(ctx context.Context) (*domain.Session, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("no session: %w", domain.ErrNotFound)
	}
	userID, _, err := s.store.Get(ctx, domain.KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", domain.KeyUserID, err)
	}
	return &domain.Session{Token: token, UserID: userID}, nil
}

// Save writes the token first, then the user id.
func (s *service) Save(ctx context.Context, sess domain.Session) error {
	if err := s.store.Set(ctx, domain.KeyAuthToken, sess.Token); err != nil {
		return fmt.Errorf("write %s: %w", domain.KeyAuthToken, err)
	}
	if err := s.store.Set(ctx, domain.KeyUserID, sess.UserID); err != nil {
		return fmt.Errorf("write %s: %w", domain.KeyUserID, err)
	}
	return nil
}

// Clear removes both keys. Both removals are attempted even if the first fails.
func (s *service) Clear(ctx context.Context) error {
	return errors.Join(
		s.remove(ctx, domain.KeyAuthToken),
		s.remove(ctx, domain.KeyUserID),
	)
}

func (s *service) remove(ctx context.Context, key string) error {
	if err := s.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
