package v1handler

import (
	"medscan/pkg/domain"
	"net/http"

	"github.com/go-faster/jx"
)

// GetProfile returns the saved health profile, or an empty one.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Storage.CurrentProfile(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	if p == nil {
		p = &domain.HealthProfile{}
	}

	writeJSON(r.Context(), w, http.StatusOK, func(e *jx.Encoder) {
		encodeProfile(e, *p)
	})
}

// PutProfile replaces the saved health profile.
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	b, err := readBody(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	in, err := decodeProfileBody(b)
	if err != nil {
		h.writeError(w, r, badBody(err))

		return
	}

	saved, err := h.deps.Storage.SaveProfile(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(r.Context(), w, http.StatusOK, func(e *jx.Encoder) {
		encodeProfile(e, *saved)
	})
}
