package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"FinDash/pkg/config"
	xhttp "FinDash/pkg/http"
	applogger "FinDash/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func testConfig() *config.Config {
	cfg := &config.Config{Environment: "test"}
	cfg.Sessions.Backend = "memory"
	return cfg
}

func TestApp_RunContextShutsDownAndCloses(t *testing.T) {
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second))

	closed := 0
	app := New(testConfig(), applogger.Nop(), srv,
		closerFunc(func() error { closed++; return nil }),
		closerFunc(func() error { closed++; return errors.New("ignored") }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, 2, closed)
}

func TestApp_StartFailureReleasesResources(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(port))
	closed := false
	app := New(testConfig(), applogger.Nop(), srv, closerFunc(func() error { closed = true; return nil }))

	err = app.RunContext(context.Background())
	assert.ErrorContains(t, err, "start http server")
	assert.True(t, closed)
}
