package v1handler

import (
	"context"
	"errors"
	"medscan/internal/pipeline"
	"medscan/pkg/domain"
	"medscan/pkg/logger"
	"medscan/pkg/serrors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// CreateScan starts a scan, superseding the one in flight. By default the
// request waits for the terminal state and returns it with 200, whether the
// scan ended Done or Failed. With wait=false it returns the AwaitingScan
// snapshot with 202 and the scan keeps running after the response.
func (h *Handler) CreateScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wait := true
	if v := r.URL.Query().Get("wait"); v != "" {
		var err error
		if wait, err = strconv.ParseBool(v); err != nil {
			h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "wait must be a boolean"))

			return
		}
	}

	b, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	req, err := decodeCreateScan(b)
	if err != nil {
		h.writeError(w, r, badBody(err))

		return
	}

	profile := req.Profile
	if req.UseStoredProfile {
		stored, err := h.deps.Storage.CurrentProfile(ctx)
		if err != nil {
			h.writeError(w, r, err)

			return
		}
		profile = domain.HealthProfile{}
		if stored != nil {
			profile = *stored
		}
	}

	if !wait {
		scan := h.deps.Pipeline.Begin(context.WithoutCancel(ctx))
		accepted := scan.Snapshot()
		go feed(scan, req, profile)

		writeJSON(ctx, w, http.StatusAccepted, func(e *jx.Encoder) {
			encodeScan(e, accepted)
		})

		return
	}

	final, err := feed(h.deps.Pipeline.Begin(ctx), req, profile)
	if err != nil {
		logger.Debug(ctx, "scan did not produce a verdict", zap.String("state", string(final.State)), zap.Error(err))
	}

	writeJSON(ctx, w, http.StatusOK, func(e *jx.Encoder) {
		encodeScan(e, final)
	})
}

func feed(scan *pipeline.Scan, req createScanRequest, profile domain.HealthProfile) (domain.Scan, error) {
	if req.DecodeError != "" {
		return scan.DecodeFailed(errors.New(req.DecodeError))
	}

	return scan.Decoded(req.Barcode, profile)
}

// ListScans returns recorded scans, newest first. Query parameters: state,
// cursor (RFC 3339, exclusive) and limit.
func (h *Handler) ListScans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	state := domain.ScanState(q.Get("state"))
	switch state {
	case "", domain.ScanStateDone, domain.ScanStateFailed:
	default:
		h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "state must be DONE or FAILED"))

		return
	}

	var cursor time.Time
	if v := q.Get("cursor"); v != "" {
		var err error
		if cursor, err = time.Parse(time.RFC3339Nano, v); err != nil {
			h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "cursor must be an RFC 3339 timestamp"))

			return
		}
	}

	maxLimit := h.deps.HistoryLimit
	limit := min(DefaultLimit, maxLimit)
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", maxLimit))

			return
		}
		limit = n
	}

	page, err := h.deps.Storage.Scans(r.Context(), state, cursor, uint(limit)) //nolint: gosec
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(r.Context(), w, http.StatusOK, func(e *jx.Encoder) {
		encodeScanPage(e, page)
	})
}

// CurrentScan returns the pipeline's current state.
func (h *Handler) CurrentScan(w http.ResponseWriter, r *http.Request) {
	current := h.deps.Pipeline.Snapshot()
	writeJSON(r.Context(), w, http.StatusOK, func(e *jx.Encoder) {
		encodeScan(e, current)
	})
}

// GetScan returns a scan by ID, preferring the live state over the record.
func (h *Handler) GetScan(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseScanID(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	scan := h.deps.Pipeline.Snapshot()
	if scan.ID != id {
		stored, err := h.deps.Storage.ScanByID(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)

			return
		}
		if stored == nil {
			h.writeError(w, r, serrors.With(serrors.ErrNotFound, "scan %s not found", id))

			return
		}
		scan = *stored
	}

	writeJSON(r.Context(), w, http.StatusOK, func(e *jx.Encoder) {
		encodeScan(e, scan)
	})
}
