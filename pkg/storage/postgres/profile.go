package postgres

import (
	"context"
	"fmt"
	"medscan/pkg/domain"

	"github.com/doug-martin/goqu/v9"
)

const (
	profilesTable = "profiles"
)

// CurrentProfile returns the saved profile or nil when none exists.
func (p *PgSQL) CurrentProfile(ctx context.Context) (*domain.HealthProfile, error) {
	var row PgProfile
	found, err := p.Builder.From(profilesTable).
		Where(goqu.I("id").Eq(currentProfileID)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch profile from pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// SaveProfile upserts the single profile row. updated_at is set by the database.
func (p *PgSQL) SaveProfile(ctx context.Context, profile domain.HealthProfile) (*domain.HealthProfile, error) {
	profile = profile.Normalized()

	var row PgProfile
	if _, err := p.Builder.Insert(profilesTable).
		Rows(goqu.Record{
			"id":         currentProfileID,
			"allergies":  profile.Allergies,
			"conditions": profile.Conditions,
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"allergies":  goqu.L("EXCLUDED.allergies"),
			"conditions": goqu.L("EXCLUDED.conditions"),
			"updated_at": goqu.L("EXCLUDED.updated_at"),
		})).
		Returning(&PgProfile{}).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return nil, fmt.Errorf("could not save profile into pg: %w", err)
	}

	return row.ToDomain(), nil
}
