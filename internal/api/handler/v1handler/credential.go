package v1handler

import (
	"errors"
	"medscan/pkg/logger"
	"medscan/pkg/serrors"
	"net/http"

	"github.com/go-faster/jx"
)

// GetCredential reports whether an analysis credential is configured. The
// secret itself is never returned.
func (h *Handler) GetCredential(w http.ResponseWriter, r *http.Request) {
	_, err := h.deps.Vault.Get(r.Context())
	if err != nil && !errors.Is(err, serrors.ErrCredentialMissing) {
		h.writeError(w, r, err)

		return
	}

	writeJSON(r.Context(), w, http.StatusOK, func(e *jx.Encoder) {
		encodeCredentialStatus(e, err == nil)
	})
}

// PutCredential stores the analysis credential from {"apiKey": "..."}.
func (h *Handler) PutCredential(w http.ResponseWriter, r *http.Request) {
	b, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	secret, err := decodeCredential(b)
	if err != nil {
		h.writeError(w, r, badBody(err))

		return
	}

	if err := h.deps.Vault.Set(r.Context(), secret); err != nil {
		h.writeError(w, r, err)

		return
	}
	logger.Info(r.Context(), "credential updated", logger.Secret("credential", secret))

	w.WriteHeader(http.StatusNoContent)
}
