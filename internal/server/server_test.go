package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eathaven/backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:      "127.0.0.1",
		ServerPort:      "0",
		ShutdownTimeout: 2 * time.Second,
		RequestTimeout:  5 * time.Second,
	}
}

func TestNew(t *testing.T) {
	srv := New(testConfig(), http.NotFoundHandler())
	require.NotNil(t, srv)

	assert.Equal(t, "127.0.0.1:0", srv.http.Addr)
	assert.Equal(t, 5*time.Second, srv.http.ReadTimeout)
	assert.Equal(t, 15*time.Second, srv.http.WriteTimeout)
	assert.Equal(t, readHeaderTimeout, srv.http.ReadHeaderTimeout)
}

func TestServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := New(testConfig(), handler)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartInvalidAddress(t *testing.T) {
	cfg := testConfig()
	cfg.ServerPort = "99999"
	srv := New(cfg, http.NotFoundHandler())

	err := srv.Start(context.Background())
	assert.Error(t, err)
}
