package storage

import (
	"context"
	"medscan/pkg/domain"
)

// ProfileStorage keeps the single current health profile.
type ProfileStorage interface {
	// CurrentProfile returns the saved profile, or nil when none was saved yet.
	CurrentProfile(ctx context.Context) (*domain.HealthProfile, error)
	// SaveProfile replaces the current profile and returns it with UpdatedAt set.
	SaveProfile(ctx context.Context, profile domain.HealthProfile) (*domain.HealthProfile, error)
}
