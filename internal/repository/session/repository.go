package session

import (
	"time"

	"gurkerl-cli/internal/domain"
)

// Repository persists the single login session of the local user.
type Repository interface {
	Save(token, email string, issuedAt time.Time) (*domain.Session, error)
	Load() (*domain.Session, bool)
	Clear() error
}
