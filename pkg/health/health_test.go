package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNoChecksIsHealthy(t *testing.T) {
	c := New()
	status, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Empty(t, status.Checks)
}

func TestRunAggregatesFailures(t *testing.T) {
	c := New()
	c.Add(NewCheckFunc("ok", func(context.Context) error { return nil }))
	c.Add(NewCheckFunc("broken", func(context.Context) error { return errors.New("down") }))

	status, err := c.Run(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
	assert.Contains(t, err.Error(), "broken")
	assert.Len(t, status.Checks, 2)
}

func TestRunHonoursTimeout(t *testing.T) {
	c := New(WithTimeout(20 * time.Millisecond))
	c.Add(NewCheckFunc("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}))

	status, err := c.Run(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
}

func TestHandlerStatusCodes(t *testing.T) {
	healthy := New()
	healthy.Add(NewCheckFunc("ok", func(context.Context) error { return nil }))

	unhealthy := New()
	unhealthy.Add(NewCheckFunc("bad", func(context.Context) error { return errors.New("down") }))

	tests := []struct {
		name     string
		checker  *Checker
		wantCode int
		wantBody string
	}{
		{"healthy", healthy, http.StatusOK, "healthy"},
		{"unhealthy", unhealthy, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			tt.checker.Handler()(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
		})
	}
}
