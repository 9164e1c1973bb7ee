package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestPing_OK(t *testing.T) {
	srv := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	c := NewRosterClient(srv.URL, time.Second)
	require.NoError(t, c.Ping(context.Background()))
}

func TestPing_NotOK_ReturnsUnavailable(t *testing.T) {
	srv := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))

	c := NewRosterClient(srv.URL, time.Second)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPing_GarbageBody_ReturnsUnexpectedStatus(t *testing.T) {
	srv := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>proxy error</html>`))
	}))

	c := NewRosterClient(srv.URL, time.Second)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnexpectedStatus)
}

func TestPing_ServerDown_ReturnsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewRosterClient(addr, time.Second)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPublicKey_ReturnsBody(t *testing.T) {
	const pem = "-----BEGIN PUBLIC KEY-----\nabc\n-----END PUBLIC KEY-----\n"
	srv := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/public-key", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(pem))
	}))

	c := NewRosterClient(srv.URL, time.Second)
	got, err := c.PublicKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, pem, got)
}

func TestPublicKey_Non200_ReturnsUnexpectedStatus(t *testing.T) {
	srv := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))

	c := NewRosterClient(srv.URL, time.Second)
	_, err := c.PublicKey(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.ErrorContains(t, err, "503")
}

func TestFetchExport_ReturnsRawBytes(t *testing.T) {
	payload := []byte{0x0a, 0x05, 0xff, 0x00, 0x42}
	srv := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/export", r.URL.Path)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))

	c := NewRosterClient(srv.URL, time.Second)
	got, err := c.FetchExport(context.Background())
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestNewRosterClient_TrimsTrailingSlash(t *testing.T) {
	srv := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	c := NewRosterClient(srv.URL+"/", time.Second)
	require.NoError(t, c.Ping(context.Background()))
}

func TestClose_IsIdempotent(t *testing.T) {
	c := NewRosterClient("http://127.0.0.1:1", time.Second)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
