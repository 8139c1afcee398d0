package serrors_test

import (
	"context"
	"errors"
	"fmt"
	"medscan/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrScanFailed,
		serrors.ErrValidation,
		serrors.ErrNotFound,
		serrors.ErrTransport,
		serrors.ErrDecode,
		serrors.ErrCredentialMissing,
		serrors.ErrEmptyReply,
		serrors.ErrStorage,
		serrors.ErrCanceled,
		serrors.ErrUnauthorized,
		serrors.ErrBadRequest,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}

	require.NotEqual(t, serrors.ErrTransport, serrors.ErrCredentialMissing)
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection refused")

	e1 := serrors.With(serrors.ErrValidation, "barcode %q is not EAN-8 or EAN-13", "12ab")
	require.Equal(t, `barcode "12ab" is not EAN-8 or EAN-13`, e1.Error())

	e2 := serrors.Wrap(serrors.ErrTransport, base, "could not reach analysis service")
	require.Equal(t, "could not reach analysis service: connection refused", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrEmptyReply)
	require.Equal(t, "EMPTY_REPLY", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrDecode, base, "reading")

	require.ErrorIs(t, e, serrors.ErrDecode)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrTransport)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrStorage, base, "writing")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrStorage, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(nil))
	require.Equal(t, serrors.ErrInternal, serrors.KindOf(errors.New("plain")))
	require.Equal(t, serrors.ErrCredentialMissing, serrors.KindOf(serrors.KindOnly(serrors.ErrCredentialMissing)))

	wrapped := fmt.Errorf("analyze: %w", serrors.Wrap(serrors.ErrTransport, context.DeadlineExceeded, "timeout"))
	require.Equal(t, serrors.ErrTransport, serrors.KindOf(wrapped))

	// a bare sentinel is recognised too
	require.Equal(t, serrors.ErrNotFound, serrors.KindOf(fmt.Errorf("lookup: %w", serrors.ErrNotFound)))
}

func TestAccessors(t *testing.T) {
	base := errors.New("disk full")
	e := serrors.Wrap(serrors.ErrStorage, base, "could not store credential")
	require.Equal(t, serrors.ErrStorage, e.Kind())
	require.Equal(t, "could not store credential", e.Message())
	require.Equal(t, base, e.Cause())
}
