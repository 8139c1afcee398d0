package v1handler_test

import (
	"errors"
	"medscan/pkg/domain"
	"medscan/pkg/serrors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGetCredential(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		configured any
	}{
		{name: "configured", status: http.StatusOK, configured: true},
		{name: "missing", err: serrors.KindOnly(serrors.ErrCredentialMissing), status: http.StatusOK, configured: false},
		{name: "backend failure", err: serrors.Wrap(serrors.ErrStorage, errors.New("locked"), "could not read credential"),
			status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var cred domain.APICredential
			if tt.err == nil {
				cred = "sk-or-test123"
			}
			f.vault.EXPECT().Get(gomock.Any()).Return(cred, tt.err)

			rec := f.do(t, http.MethodGet, "/v1/credential", "")
			require.Equal(t, tt.status, rec.Code)
			require.NotContains(t, rec.Body.String(), "sk-or-test123")
			if tt.configured != nil {
				require.Equal(t, tt.configured, decodeJSON(t, rec)["configured"])
			}
		})
	}
}

func TestPutCredential(t *testing.T) {
	f := newFixture(t)
	f.vault.EXPECT().Set(gomock.Any(), "sk-or-test123").Return(nil)

	rec := f.do(t, http.MethodPut, "/v1/credential", `{"apiKey":"sk-or-test123"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestPutCredential_Rejected(t *testing.T) {
	t.Run("malformed body keeps secret out of the error", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPut, "/v1/credential", `{"apiKey":sk-or-test123}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotContains(t, rec.Body.String(), "sk-or-test123")
		require.Equal(t, "BAD_REQUEST", decodeJSON(t, rec)["code"])
	})

	t.Run("empty secret", func(t *testing.T) {
		f := newFixture(t)
		f.vault.EXPECT().Set(gomock.Any(), "").
			Return(serrors.With(serrors.ErrValidation, "credential must not be empty"))

		rec := f.do(t, http.MethodPut, "/v1/credential", `{"apiKey":""}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeJSON(t, rec)
		require.Equal(t, "VALIDATION", body["code"])
		require.Equal(t, "credential must not be empty", body["message"])
	})
}
