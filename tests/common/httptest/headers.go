//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertRetryAfter checks the back-off hint sent with retryable failures.
func AssertRetryAfter(t *testing.T, w *httptest.ResponseRecorder, seconds int) {
	t.Helper()
	assert.Equal(t, strconv.Itoa(seconds), w.Header().Get("Retry-After"))
}

// LocationID returns the trailing id of the Location header, which must start with prefix.
func LocationID(t *testing.T, w *httptest.ResponseRecorder, prefix string) uuid.UUID {
	t.Helper()
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, prefix+"/"), "Location %q does not start with %q", loc, prefix)
	id, err := uuid.Parse(strings.TrimPrefix(loc, prefix+"/"))
	require.NoError(t, err)
	return id
}
