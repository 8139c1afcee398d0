package postgres_test

import (
	"context"
	"medscan/pkg/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func doneScan(seq uint64, startedAt time.Time) domain.Scan {
	return domain.Scan{
		ID:      domain.NewScanID(),
		Seq:     seq,
		State:   domain.ScanStateDone,
		Barcode: "1234567890123",
		Profile: domain.HealthProfile{Allergies: "penicillin"},
		Product: &domain.ProductRecord{Title: "Amoxicillin 500mg", Brand: "Generic"},
		Verdict: &domain.SafetyVerdict{
			Status:      domain.VerdictNotAllowed,
			Explanation: "contains penicillin derivative.",
			RawResponse: "Not allowed: contains penicillin derivative.",
		},
		StartedAt: startedAt,
		UpdatedAt: startedAt.Add(time.Second),
	}
}

func TestPgSQL_StoreScan(t *testing.T) {
	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("store and fetch done scan", func(t *testing.T) {
		s := doneScan(1, now)
		require.NoError(t, pgSQL.StoreScan(ctx, s))

		got, err := pgSQL.ScanByID(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, s.ID, got.ID)
		require.Equal(t, s.Seq, got.Seq)
		require.Equal(t, s.Barcode, got.Barcode)
		require.Equal(t, s.Profile.Allergies, got.Profile.Allergies)
		require.Equal(t, s.Product, got.Product)
		require.Equal(t, s.Verdict, got.Verdict)
		require.Nil(t, got.Failure)
		require.True(t, s.StartedAt.Equal(got.StartedAt))
	})

	t.Run("store failed scan", func(t *testing.T) {
		s := domain.Scan{
			ID:        domain.NewScanID(),
			Seq:       2,
			State:     domain.ScanStateFailed,
			Failure:   &domain.ScanFailure{Kind: "CREDENTIAL_MISSING", Message: "CREDENTIAL_MISSING"},
			StartedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, pgSQL.StoreScan(ctx, s))

		got, err := pgSQL.ScanByID(ctx, s.ID)
		require.NoError(t, err)
		require.Equal(t, s.Failure, got.Failure)
		require.Nil(t, got.Verdict)
		require.Nil(t, got.Product)
	})

	t.Run("storing again overwrites", func(t *testing.T) {
		s := doneScan(3, now)
		s.State = domain.ScanStateAnalyzing
		s.Verdict = nil
		require.NoError(t, pgSQL.StoreScan(ctx, s))

		s.State = domain.ScanStateDone
		s.Verdict = &domain.SafetyVerdict{Status: domain.VerdictAllowed, RawResponse: "Allowed"}
		require.NoError(t, pgSQL.StoreScan(ctx, s))

		got, err := pgSQL.ScanByID(ctx, s.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ScanStateDone, got.State)
		require.Equal(t, domain.VerdictAllowed, got.Verdict.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		got, err := pgSQL.ScanByID(ctx, domain.NewScanID())
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestPgSQL_Scans(t *testing.T) {
	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := range 5 {
		require.NoError(t, pgSQL.StoreScan(ctx, doneScan(uint64(i+1), base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, pgSQL.StoreScan(ctx, domain.Scan{
		ID:        domain.NewScanID(),
		Seq:       6,
		State:     domain.ScanStateFailed,
		Failure:   &domain.ScanFailure{Kind: "TRANSPORT", Message: "timeout"},
		StartedAt: base.Add(10 * time.Minute),
		UpdatedAt: base.Add(10 * time.Minute),
	}))

	t.Run("pagination newest first", func(t *testing.T) {
		page, err := pgSQL.Scans(ctx, "", time.Time{}, 4)
		require.NoError(t, err)
		require.Len(t, page.Scans, 4)
		require.Equal(t, uint64(6), page.Scans[0].Seq)
		require.Equal(t, uint64(5), page.Scans[1].Seq)
		require.NotNil(t, page.NextCursor)

		next, err := pgSQL.Scans(ctx, "", *page.NextCursor, 4)
		require.NoError(t, err)
		require.Len(t, next.Scans, 2)
		require.Equal(t, uint64(2), next.Scans[0].Seq)
		require.Nil(t, next.NextCursor)
	})

	t.Run("filter by state", func(t *testing.T) {
		page, err := pgSQL.Scans(ctx, domain.ScanStateFailed, time.Time{}, 10)
		require.NoError(t, err)
		require.Len(t, page.Scans, 1)
		require.Equal(t, "TRANSPORT", page.Scans[0].Failure.Kind)
	})

	t.Run("zero limit", func(t *testing.T) {
		page, err := pgSQL.Scans(ctx, "", time.Time{}, 0)
		require.NoError(t, err)
		require.Empty(t, page.Scans)
	})
}

func TestPgSQL_PruneScans(t *testing.T) {
	pgSQL, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	var scans []domain.Scan
	for i := range 4 {
		s := doneScan(uint64(i+1), now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, pgSQL.StoreScan(ctx, s))
		scans = append(scans, s)
	}

	n, err := pgSQL.PruneScans(ctx, 0)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = pgSQL.PruneScans(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	page, err := pgSQL.Scans(ctx, "", time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, page.Scans, 2)
	require.Equal(t, scans[3].ID, page.Scans[0].ID)
	require.Equal(t, scans[2].ID, page.Scans[1].ID)

	n, err = pgSQL.PruneScans(ctx, 5)
	require.NoError(t, err)
	require.Zero(t, n)
}
