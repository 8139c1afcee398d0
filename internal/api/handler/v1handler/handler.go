// Package v1handler implements the /v1 HTTP API: credential status and
// input, the health profile, scan submission and history, and the live scan
// state stream.
package v1handler

import (
	"context"
	"errors"
	"io"
	"medscan/internal/pipeline"
	"medscan/pkg/logger"
	"medscan/pkg/serrors"
	"medscan/pkg/storage"
	"medscan/pkg/vault"
	"net/http"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

const (
	// DefaultLimit is the page size used when a list request does not set one.
	DefaultLimit = 20
	// MaxLimit caps the page size of list requests unless Deps.HistoryLimit is set.
	MaxLimit = 100

	maxBodyBytes = 64 << 10
)

// Deps are the services the handlers operate on.
type Deps struct {
	Pipeline pipeline.Pipeline
	Vault    vault.Vault
	Storage  storage.AllStorage

	// HistoryLimit overrides MaxLimit when positive.
	HistoryLimit int
}

// Handler serves the v1 API.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = MaxLimit
	}

	return &Handler{deps: deps}
}

// Routes returns the request/response endpoints of the API. The live stream
// is served separately by Live because it must not run under a request
// timeout.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/credential", h.GetCredential)
	mux.HandleFunc("PUT /v1/credential", h.PutCredential)
	mux.HandleFunc("GET /v1/profile", h.GetProfile)
	mux.HandleFunc("PUT /v1/profile", h.PutProfile)
	mux.HandleFunc("POST /v1/scans", h.CreateScan)
	mux.HandleFunc("GET /v1/scans", h.ListScans)
	mux.HandleFunc("GET /v1/scans/current", h.CurrentScan)
	mux.HandleFunc("GET /v1/scans/{id}", h.GetScan)

	return mux
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string
	Message string
}

// ErrorResponse is an error mapped to its HTTP status.
type ErrorResponse struct {
	StatusCode int
	Response   ErrorBody
}

type errorMapping struct {
	status  int
	message string
}

var errorMappings = map[serrors.Kind]errorMapping{ //nolint: gochecknoglobals
	serrors.ErrBadRequest:        {http.StatusBadRequest, "bad request"},
	serrors.ErrValidation:        {http.StatusBadRequest, "invalid input"},
	serrors.ErrScanFailed:        {http.StatusBadRequest, "scan failed"},
	serrors.ErrUnauthorized:      {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrNotFound:          {http.StatusNotFound, "resource not found"},
	serrors.ErrCanceled:          {http.StatusConflict, "request canceled"},
	serrors.ErrCredentialMissing: {http.StatusPreconditionFailed, "analysis credential is not configured"},
	serrors.ErrTransport:         {http.StatusBadGateway, "upstream service unavailable"},
	serrors.ErrDecode:            {http.StatusBadGateway, "upstream service returned an unexpected response"},
	serrors.ErrEmptyReply:        {http.StatusBadGateway, "upstream service returned an empty reply"},
	serrors.ErrStorage:           {http.StatusInternalServerError, "internal error"},
	serrors.ErrInternal:          {http.StatusInternalServerError, "internal error"},
}

// NewError maps err to a status code and a client-safe body. Messages of
// client errors are passed through; server errors only expose their kind.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	kind := serrors.KindOf(err)
	mapping, ok := errorMappings[kind]
	if !ok {
		kind, mapping = serrors.ErrInternal, errorMappings[serrors.ErrInternal]
	}

	message := mapping.message
	var se *serrors.Error
	if mapping.status < http.StatusInternalServerError && errors.As(err, &se) && se.Message() != "" {
		message = se.Message()
	}

	if mapping.status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.Error(err))
	}

	return &ErrorResponse{
		StatusCode: mapping.status,
		Response:   ErrorBody{Code: kind.Error(), Message: message},
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(r.Context(), w, res.StatusCode, func(e *jx.Encoder) {
		encodeError(e, res.Response)
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		logger.Warn(ctx, "could not write response", zap.Error(err))
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
	}

	return b, nil
}

func badBody(err error) error {
	return serrors.With(serrors.ErrBadRequest, "invalid request body: %s", err)
}
