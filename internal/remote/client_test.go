package remote

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL+"/", zerolog.Nop())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestFetchNotifications(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/payments/notifications", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications":[
			{"id":2,"title":"Booking confirmed","type":"booking","is_read":false,"extra_data":{"type":"booking","event_id":99}},
			{"title":"no id"},
			{"id":1,"title":"Hi","type":"chat","is_read":true,"extra_data":{"sender_id":42}}
		]}`))
	})

	list, err := c.FetchNotifications(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Len(t, list, 2, "entries without id are dropped")

	assert.Equal(t, model.ID("2"), list[0].ID)
	assert.Equal(t, "booking", list[0].Payload.References().Kind)
	assert.Equal(t, model.ID("1"), list[1].ID)
	assert.True(t, list[1].IsRead)
}

func TestFetchNotifications_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications":null}`))
	})

	list, err := c.FetchNotifications(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFetchNotifications_BadRecordDoesNotFailPoll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications":[
			{"id":1,"title":"ok","type":"chat"},
			{"id":2,"title":42,"is_read":"true"},
			"garbage",
			{"id":3,"message":{"nested":true}}
		]}`))
	})

	list, err := c.FetchNotifications(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "ok", list[0].Title)
	assert.Equal(t, model.ID("2"), list[1].ID)
	assert.Equal(t, "42", list[1].Title)
	assert.True(t, list[1].IsRead)
	assert.Equal(t, model.ID("3"), list[2].ID)
	assert.Empty(t, list[2].Message)
}

func TestHTTPClient_RestyDiagnosticsGoToLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"notifications":[]}`))
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	c := NewHTTPClient(srv.URL, zerolog.New(&buf))
	t.Cleanup(func() { _ = c.Close() })

	// A bearer token over plain http makes resty warn.
	_, err := c.FetchNotifications(context.Background(), "tok")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "sensitive credentials")
	assert.Contains(t, out, `"component":"remote"`)
	assert.Contains(t, out, `"source":"resty"`)
}

func TestFetchNotifications_Errors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := c.FetchNotifications(context.Background(), "stale")
		require.Error(t, err)
		assert.True(t, IsAuthError(err))
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		_, err := c.FetchNotifications(context.Background(), "tok")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "boom", statusErr.Body)
		assert.False(t, IsAuthError(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.FetchNotifications(ctx, "tok")
		assert.Error(t, err)
	})
}

func TestMarkRead(t *testing.T) {
	var gotPath, gotAuth, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.MarkRead(context.Background(), "tok", "17"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/payments/notifications/17/read", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestMarkRead_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.MarkRead(context.Background(), "tok", "17")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClearAll(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/payments/notifications/clear-all", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.ClearAll(context.Background(), "tok"))
	assert.Equal(t, 1, calls, "a single request, no retries")
}
