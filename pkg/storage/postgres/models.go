package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"medscan/pkg/domain"
	"time"

	"github.com/google/uuid"
)

// currentProfileID is the key of the only row in the profiles table.
const currentProfileID = "current"

type PgProfile struct {
	ID         string    `db:"id"`
	Allergies  string    `db:"allergies"`
	Conditions string    `db:"conditions"`
	UpdatedAt  time.Time `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgProfile) ToDomain() *domain.HealthProfile {
	return &domain.HealthProfile{
		Allergies:  p.Allergies,
		Conditions: p.Conditions,
		UpdatedAt:  p.UpdatedAt,
	}
}

type PgScan struct {
	ID    uuid.UUID `db:"id"`
	Seq   int64     `db:"seq"`
	State string    `db:"state"`

	Barcode    string `db:"barcode"`
	Allergies  string `db:"allergies"`
	Conditions string `db:"conditions"`

	// Product and Verdict hold JSON documents.
	Product sql.NullString `db:"product"`
	Verdict sql.NullString `db:"verdict"`

	VerdictStatus  sql.NullString `db:"verdict_status"`
	FailureKind    sql.NullString `db:"failure_kind"`
	FailureMessage sql.NullString `db:"failure_message"`

	StartedAt time.Time `db:"started_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (p *PgScan) ToDomain() (*domain.Scan, error) {
	scan := &domain.Scan{
		ID:      domain.ScanID(p.ID),
		Seq:     uint64(p.Seq), //nolint: gosec
		State:   domain.ScanState(p.State),
		Barcode: domain.BarcodeCode(p.Barcode),
		Profile: domain.HealthProfile{
			Allergies:  p.Allergies,
			Conditions: p.Conditions,
		},
		StartedAt: p.StartedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if p.Product.Valid {
		var product domain.ProductRecord
		if err := json.Unmarshal([]byte(p.Product.String), &product); err != nil {
			return nil, fmt.Errorf("could not unmarshal scan product: %w", err)
		}
		scan.Product = &product
	}
	if p.Verdict.Valid {
		var verdict domain.SafetyVerdict
		if err := json.Unmarshal([]byte(p.Verdict.String), &verdict); err != nil {
			return nil, fmt.Errorf("could not unmarshal scan verdict: %w", err)
		}
		scan.Verdict = &verdict
	}
	if p.FailureKind.Valid {
		scan.Failure = &domain.ScanFailure{
			Kind:    p.FailureKind.String,
			Message: p.FailureMessage.String,
		}
	}

	return scan, nil
}

func (p *PgScan) FromDomain(scan domain.Scan) error {
	*p = PgScan{
		ID:         uuid.UUID(scan.ID),
		Seq:        int64(scan.Seq), //nolint: gosec
		State:      string(scan.State),
		Barcode:    scan.Barcode.String(),
		Allergies:  scan.Profile.Allergies,
		Conditions: scan.Profile.Conditions,
		StartedAt:  scan.StartedAt,
		UpdatedAt:  scan.UpdatedAt,
	}

	if scan.Product != nil {
		b, err := json.Marshal(scan.Product)
		if err != nil {
			return fmt.Errorf("could not marshal scan product: %w", err)
		}
		p.Product = sql.NullString{String: string(b), Valid: true}
	}
	if scan.Verdict != nil {
		b, err := json.Marshal(scan.Verdict)
		if err != nil {
			return fmt.Errorf("could not marshal scan verdict: %w", err)
		}
		p.Verdict = sql.NullString{String: string(b), Valid: true}
		p.VerdictStatus = sql.NullString{String: string(scan.Verdict.Status), Valid: true}
	}
	if scan.Failure != nil {
		p.FailureKind = sql.NullString{String: scan.Failure.Kind, Valid: true}
		p.FailureMessage = sql.NullString{String: scan.Failure.Message, Valid: true}
	}

	return nil
}

func pgScansToDomain(scans []PgScan) ([]domain.Scan, error) {
	out := make([]domain.Scan, 0, len(scans))
	for _, scan := range scans {
		d, err := scan.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
