package main

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestRunServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunServerReportsListenError(t *testing.T) {
	srv := &http.Server{Addr: "invalid-address:-1", Handler: http.NotFoundHandler()}

	if err := runServer(context.Background(), srv); err == nil {
		t.Fatal("expected listen error")
	}
}
