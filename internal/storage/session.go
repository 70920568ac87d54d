package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// AuthTokenKey is the durable key holding the current auth token.
	AuthTokenKey = "authToken"
	UserKey      = "user"
)

// Session keeps the signed-in state in a Repository: the auth token and the
// profile returned at login.
type Session struct {
	repo Repository
}

func NewSession(repo Repository) *Session {
	return &Session{repo: repo}
}

// LoadToken returns "" when no token is stored.
func (s *Session) LoadToken(ctx context.Context) (string, error) {
	item, err := s.repo.GetSetting(ctx, AuthTokenKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return item.Value, nil
}

// SaveToken stores token; an empty token clears it.
func (s *Session) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	if err := s.repo.PutSetting(ctx, Setting{Key: AuthTokenKey, Value: token}); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *Session) ClearToken(ctx context.Context) error {
	return s.deleteIfPresent(ctx, AuthTokenKey)
}

// SaveUser persists the login profile as JSON. v must be JSON-encodable.
func (s *Session) SaveUser(ctx context.Context, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.PutSetting(ctx, Setting{Key: UserKey, Value: string(raw)}); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// LoadUser decodes the stored profile into dst. It reports false when nothing
// is stored.
func (s *Session) LoadUser(ctx context.Context, dst any) (bool, error) {
	item, err := s.repo.GetSetting(ctx, UserKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load user: %w", err)
	}
	if err := json.Unmarshal([]byte(item.Value), dst); err != nil {
		return false, fmt.Errorf("decode user: %w", err)
	}
	return true, nil
}

// Clear forgets both the token and the profile.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.ClearToken(ctx); err != nil {
		return err
	}
	return s.deleteIfPresent(ctx, UserKey)
}

func (s *Session) deleteIfPresent(ctx context.Context, key string) error {
	if err := s.repo.DeleteSetting(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
