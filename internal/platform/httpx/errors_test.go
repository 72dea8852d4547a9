package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", shared.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", shared.Forbidden("admins:write"), http.StatusForbidden},
		{"not found", fmt.Errorf("merchant M1: %w", shared.ErrNotFound), http.StatusNotFound},
		{"conflict", shared.ErrConflict, http.StatusConflict},
		{"validation", shared.Invalid("name required"), http.StatusBadRequest},
		{"rate limited", shared.ErrRateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err)
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestRespondErrorNamesCapability(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, shared.Forbidden("admins:write"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "missing capability admins:write", body.Detail)
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("pq: connection refused"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Empty(t, body.Detail)
}

func TestFailLogsOnlyServerErrors(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	req := httptest.NewRequest(http.MethodGet, "/merchants/M1", nil)

	rr := httptest.NewRecorder()
	Fail(rr, req, logger, fmt.Errorf("merchant: %w", shared.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, logs.String())

	rr = httptest.NewRecorder()
	Fail(rr, req, logger, errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, logs.String(), "connection refused")
	assert.NotContains(t, rr.Body.String(), "connection refused")
}
