package postgres

import (
	"context"
	"fmt"
	"medscan/pkg/domain"
	"medscan/pkg/storage"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	scansTable = "scans"
)

// StoreScan inserts the scan, or overwrites the row with the same ID so a
// scan recorded twice keeps its latest snapshot.
func (p *PgSQL) StoreScan(ctx context.Context, scan domain.Scan) error {
	var row PgScan
	if err := row.FromDomain(scan); err != nil {
		return err
	}

	_, err := p.Builder.Insert(scansTable).
		Rows(row).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"seq":             goqu.L("EXCLUDED.seq"),
			"state":           goqu.L("EXCLUDED.state"),
			"barcode":         goqu.L("EXCLUDED.barcode"),
			"allergies":       goqu.L("EXCLUDED.allergies"),
			"conditions":      goqu.L("EXCLUDED.conditions"),
			"product":         goqu.L("EXCLUDED.product"),
			"verdict":         goqu.L("EXCLUDED.verdict"),
			"verdict_status":  goqu.L("EXCLUDED.verdict_status"),
			"failure_kind":    goqu.L("EXCLUDED.failure_kind"),
			"failure_message": goqu.L("EXCLUDED.failure_message"),
			"updated_at":      goqu.L("EXCLUDED.updated_at"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not store scan into pg: %w", err)
	}

	return nil
}

// Scans returns a list of scans filtered by optional state and cursor and limited by limit.
// Results are ordered by started_at DESC, id DESC.
func (p *PgSQL) Scans(ctx context.Context,
	state domain.ScanState,
	cursor time.Time,
	limit uint) (storage.ScanPage, error) {
	if limit == 0 {
		return storage.ScanPage{}, nil
	}

	var w []goqu.Expression
	if state != "" {
		w = append(w, goqu.I("state").Eq(string(state)))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("started_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	fetch := limit + 1
	ds := p.Builder.From(scansTable).
		Where(w...).
		Order(goqu.I("started_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch)

	var rows []PgScan
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.ScanPage{}, fmt.Errorf("could not fetch scans from pg: %w", err)
	}

	// if we fetched more than the limit, there is a next page
	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		trimmed := rows[:limit]
		nextCursor = &trimmed[len(trimmed)-1].StartedAt
		rows = trimmed
	}

	domainRows, err := pgScansToDomain(rows)
	if err != nil {
		return storage.ScanPage{}, err
	}

	return storage.ScanPage{
		Scans:      domainRows,
		NextCursor: nextCursor,
	}, nil
}

// ScanByID returns a scan by its ID.
func (p *PgSQL) ScanByID(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	var row PgScan
	found, err := p.Builder.From(scansTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch scan by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// PruneScans keeps the newest keep scans, ordered like Scans, and deletes the rest.
func (p *PgSQL) PruneScans(ctx context.Context, keep uint) (int64, error) {
	if keep == 0 {
		return 0, nil
	}

	newest := p.Builder.From(scansTable).
		Select("id").
		Order(goqu.I("started_at").Desc(), goqu.I("id").Desc()).
		Limit(keep)

	res, err := p.Builder.Delete(scansTable).
		Where(goqu.I("id").NotIn(newest)).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not prune scans in pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not count pruned scans: %w", err)
	}

	return n, nil
}
