package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "resource missing")
	assert.Equal(t, "[NOT_FOUND] resource missing", err.Error())

	wrapped := Wrap(errors.New("row gone"), ErrCodeDatabaseError, "query failed")
	assert.Equal(t, "[DATABASE_ERROR] query failed: row gone", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ErrCodeServiceUnavailable, "relay down")

	assert.ErrorIs(t, err, cause)
}

func TestAsAppError(t *testing.T) {
	appErr := NewUserNotFound("alice-01")
	chained := fmt.Errorf("loading user: %w", appErr)

	got, ok := AsAppError(chained)
	require.True(t, ok)
	assert.Equal(t, ErrCodeUserNotFound, got.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	assert.True(t, NewUserNotFound("u").IsNotFound())
	assert.True(t, NewTokenNotFound("t").IsNotFound())
	assert.True(t, NewValidationError("field", "bad").IsBadRequest())
	assert.True(t, NewWalletMismatch().IsBadRequest())
	assert.True(t, NewRelayerRejected("rejected", -1, "nope").IsUpstream())
	assert.True(t, NewServiceUnavailable(errors.New("refused")).IsUpstream())

	assert.False(t, NewWalletMismatch().IsNotFound())
	assert.False(t, NewUserNotFound("u").IsUpstream())
}

func TestRelayerRejectedCarriesRelayVerdict(t *testing.T) {
	err := NewRelayerRejected("token registration failed", -1, "merkle proof invalid")

	assert.Equal(t, ErrCodeRelayerRejected, err.Code)
	assert.Equal(t, -1, err.RelayStatus)
	assert.Equal(t, "merkle proof invalid", err.RelayMessage)
}

func TestWithDetail(t *testing.T) {
	err := NewValidationError("walletAddress", "invalid format")

	require.NotNil(t, err.Details)
	assert.Equal(t, "walletAddress", err.Details["field"])

	err.WithDetail("got", "0x123")
	assert.Equal(t, "0x123", err.Details["got"])
}
