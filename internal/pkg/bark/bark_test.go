package bark

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushWithoutKeyIsNoop(t *testing.T) {
	s := New(Config{})
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Push(context.Background(), "t", "b", ""))
}

func TestPushSendsPayload(t *testing.T) {
	var got pushPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/push", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	s := New(Config{Key: "device", ServerURL: srv.URL, SiteTitle: "Prometey"})
	require.NoError(t, s.Push(context.Background(), "New lead", "Olena via landing", "https://example.com"))

	assert.Equal(t, "device", got.DeviceKey)
	assert.Equal(t, "[Prometey] New lead", got.Title)
	assert.Equal(t, "https://example.com", got.URL)
}

func TestPushReportsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := New(Config{Key: "device", ServerURL: srv.URL})
	assert.Error(t, s.Push(context.Background(), "t", "b", ""))
}

func TestThrottlePushOncePerWindow(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	s := New(Config{Key: "device", ServerURL: srv.URL})
	s.ThrottlePush("1.2.3.4", "/landing/submit-form/")
	s.ThrottlePush("1.2.3.4", "/landing/submit-form/")
	s.ThrottlePush("1.2.3.5", "/landing/submit-form/")

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
