package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/repository"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeDark
	themeKey     = "theme"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", &models.ValidationError{Field: "theme", Reason: fmt.Sprintf("must be %q or %q", ThemeLight, ThemeDark)}
	}
}

// Manager gates the admin pages behind a login and remembers the
// operator's theme.
type Manager struct {
	sessions repository.SessionRepository
	prefs    repository.PreferenceRepository
	auth     Authenticator
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(sessions repository.SessionRepository, prefs repository.PreferenceRepository, auth Authenticator, ttl time.Duration) *Manager {
	return &Manager{
		sessions: sessions,
		prefs:    prefs,
		auth:     auth,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Manager) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if err := m.auth.Authenticate(ctx, username, password); err != nil {
		slog.Warn("login rejected", "username", username)
		return nil, err
	}

	now := m.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	slog.Info("login", "username", username, "expires_at", sess.ExpiresAt)
	return sess, nil
}

// Validate returns the live session for id. Unknown and expired sessions
// are ErrUnauthorized.
func (m *Manager) Validate(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrUnauthorized
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUnauthorized
	}

	sess, err := m.sessions.GetSession(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if sess.Expired(m.now()) {
		if err := m.sessions.DeleteSession(ctx, id); err != nil {
			slog.Warn("error deleting expired session", "error", err)
		}
		return nil, ErrUnauthorized
	}
	return sess, nil
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.sessions.DeleteSession(ctx, id)
}

func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx, m.now())
}

// Theme returns the stored theme, or DefaultTheme when none was saved.
func (m *Manager) Theme(ctx context.Context, username string) (Theme, error) {
	v, err := m.prefs.GetPreference(ctx, username, themeKey)
	if errors.Is(err, repository.ErrNotFound) {
		return DefaultTheme, nil
	}
	if err != nil {
		return "", err
	}
	t, err := ParseTheme(v)
	if err != nil {
		return DefaultTheme, nil
	}
	return t, nil
}

func (m *Manager) SetTheme(ctx context.Context, username string, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return m.prefs.SetPreference(ctx, username, themeKey, string(t))
}
