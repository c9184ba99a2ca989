package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestProviderErrorMatchesSentinel(t *testing.T) {
	cause := stderrors.New("dial tcp: timeout")
	err := NewProviderError(ErrRefreshFailed, "youtube", "invalid_grant", cause)

	assert.True(t, stderrors.Is(err, ErrRefreshFailed))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrProviderExchangeFailed))
	assert.Equal(t, "refreshing the provider token failed (youtube): invalid_grant", err.Error())

	wrapped := fmt.Errorf("comment: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrRefreshFailed))
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))
	assert.Equal(t, ErrInternalServer, From(stderrors.New("boom")))
	assert.Equal(t, ErrInvalidFlowState, From(fmt.Errorf("callback: %w", ErrInvalidFlowState)))

	rendered := From(Wrapf(ErrProviderExchangeFailed, "linkedin", nil, "status %d: %s", 400, `{"error":"invalid_request"}`))
	assert.Equal(t, "provider_exchange_failed", rendered.Code)
	assert.Equal(t, http.StatusInternalServerError, rendered.Status)
	assert.Contains(t, rendered.Message, "invalid_request")
}

func TestProviderErrorTruncatesDetail(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	err := NewProviderError(ErrProviderCallFailed, "instagram", string(long), nil)
	assert.Len(t, err.Detail, 515)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23514"}))
	assert.True(t, IsUniqueViolation(stderrors.New("duplicate key value violates unique constraint")))
}
