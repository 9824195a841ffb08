package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

var ErrNotFound = errors.New("not found")

type SessionRepository interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PreferenceRepository stores small per-user settings such as the theme.
type PreferenceRepository interface {
	GetPreference(ctx context.Context, username, key string) (string, error)
	SetPreference(ctx context.Context, username, key, value string) error
}
