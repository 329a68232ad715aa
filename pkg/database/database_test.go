package database_test

import (
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/filevault/pkg/database"
	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := &database.Config{Host: "localhost", Port: 5432, User: "vault", Name: "filevault", SSLMode: "bogus"}
	if _, err := database.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStartReportsUnreachableServer(t *testing.T) {
	cfg := &database.Config{
		Host:            "127.0.0.1",
		Port:            closedPort(t),
		Name:            "filevault",
		User:            "vault",
		SSLMode:         "disable",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: "1m",
		ConnTimeout:     "200ms",
	}

	db, err := database.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if db.Connection() == nil {
		t.Fatal("Connection() returned nil")
	}

	lc := lifecycle.New()
	if err := db.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()

	failure, ok := lc.Failures()["database"]
	if !ok {
		t.Fatal("expected database startup failure")
	}
	if !strings.Contains(failure.Error(), "after 3 attempts") {
		t.Errorf("failure %q does not report attempts", failure)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
