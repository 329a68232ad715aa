package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const testCorrelationID = "5f0c9f62-8f0e-4a53-9d4b-3b8a6f3c2e11"

// fakeAPI serves the vault endpoints with one fixed record.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	record := map[string]any{
		"id":                7,
		"user_id":           "cli-user",
		"filing_status":     "Single",
		"w2_wages":          52000,
		"total_deductions":  13850,
		"ira_distributions": nil,
		"capital_gain_loss": -1200.5,
	}

	respond := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]string{
			"status":         "pending_approval",
			"correlation_id": testCorrelationID,
			"preview_url":    "https://storage.example/preview",
		})
	})
	mux.HandleFunc("POST /api/approve/{cid}", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]any{"status": "approved", "record_id": 7})
	})
	mux.HandleFunc("DELETE /api/quarantine/{cid}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/records", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, []any{record})
	})
	mux.HandleFunc("GET /api/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			respond(w, http.StatusNotFound, map[string]string{"error": "record not found"})
			return
		}
		respond(w, http.StatusOK, record)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-ID") != "cli-user" {
			respond(w, http.StatusUnauthorized, map[string]string{"error": "missing X-User-ID header"})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// useAPI points the client config at srv from an empty working directory.
func useAPI(t *testing.T, srv *httptest.Server) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv(EnvClientBaseURL, srv.URL+"/api")
	t.Setenv(EnvClientUserID, "cli-user")
	t.Setenv(EnvClientApproveBackoff, "10ms")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "w2.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7\n%%EOF\n"), 0644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// syncBuffer is a bytes.Buffer safe for the session's concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, b.String())
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
