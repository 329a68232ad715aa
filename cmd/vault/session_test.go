package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/filevault/internal/client"
	"github.com/JaimeStill/filevault/internal/workflow"
)

func newCoordinator(t *testing.T, baseURL string) *workflow.Coordinator {
	t.Helper()
	c, err := client.New(baseURL+"/api", "cli-user")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return workflow.New(c, workflow.Config{ApproveAttempts: 1}, slog.New(slog.DiscardHandler))
}

func TestSessionUploadApproveHistory(t *testing.T) {
	srv := fakeAPI(t)
	co := newCoordinator(t, srv.URL)
	path := writePDF(t)

	in, feed := io.Pipe()
	out := &syncBuffer{}

	done := make(chan error, 1)
	go func() { done <- runSession(context.Background(), co, in, out, false) }()

	send := func(line string) {
		t.Helper()
		if _, err := io.WriteString(feed, line+"\n"); err != nil {
			t.Fatalf("write %q: %v", line, err)
		}
	}

	waitForOutput(t, out, "Ready for upload.")

	send("upload " + path)
	waitForOutput(t, out, testCorrelationID)
	waitForOutput(t, out, "Approve or reject the document.")

	send("approve")
	waitForOutput(t, out, "Extracted record:")
	waitForOutput(t, out, "$52,000.00")

	send("history")
	waitForOutput(t, out, "Records:")

	send("restart")
	send("quit")

	if err := <-done; err != nil {
		t.Fatalf("session: %v", err)
	}
	feed.Close()

	if co.Snapshot().Phase != workflow.AwaitingUpload {
		t.Errorf("phase after restart: got %s", co.Snapshot().Phase)
	}
}

func TestSessionRefusalsAndUnknownCommands(t *testing.T) {
	srv := fakeAPI(t)
	co := newCoordinator(t, srv.URL)

	input := strings.Join([]string{
		"approve",
		"retry",
		"refresh",
		"upload",
		"upload /does/not/exist.pdf",
		"dance",
		"help",
		"status",
		"quit",
	}, "\n")
	out := &syncBuffer{}

	if err := runSession(context.Background(), co, strings.NewReader(input), out, false); err != nil {
		t.Fatalf("session: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"error: " + workflow.ErrNoPending.Error(),
		"error: " + workflow.ErrNotAccepting.Error(),
		"error: usage: upload <path>",
		"error: read /does/not/exist.pdf",
		`error: unknown command "dance"`,
		"upload <path>  upload a PDF for review",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}

	if n := strings.Count(got, "Ready for upload."); n != 2 {
		t.Errorf("status should re-render the current state, saw it %d times", n)
	}
}

func TestSessionUnsupportedFile(t *testing.T) {
	srv := fakeAPI(t)
	co := newCoordinator(t, srv.URL)

	path := writePDF(t)
	txt := strings.TrimSuffix(path, ".pdf") + ".txt"
	if err := copyFile(path, txt); err != nil {
		t.Fatal(err)
	}

	out := &syncBuffer{}
	input := "upload " + txt + "\nquit\n"
	if err := runSession(context.Background(), co, strings.NewReader(input), out, false); err != nil {
		t.Fatalf("session: %v", err)
	}

	if !strings.Contains(out.String(), "error: "+workflow.ErrUnsupportedType.Error()) {
		t.Errorf("expected unsupported type refusal, got:\n%s", out.String())
	}
}

func TestSessionEndsOnEOFAndCancel(t *testing.T) {
	srv := fakeAPI(t)

	if err := runSession(context.Background(), newCoordinator(t, srv.URL), strings.NewReader(""), io.Discard, false); err != nil {
		t.Errorf("eof: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in, feed := io.Pipe()
	defer feed.Close()
	if err := runSession(ctx, newCoordinator(t, srv.URL), in, io.Discard, false); err != nil {
		t.Errorf("cancelled: %v", err)
	}
}

func TestSessionPrompt(t *testing.T) {
	srv := fakeAPI(t)
	out := &syncBuffer{}

	if err := runSession(context.Background(), newCoordinator(t, srv.URL), strings.NewReader("quit\n"), out, true); err != nil {
		t.Fatalf("session: %v", err)
	}
	if !strings.Contains(out.String(), "vault> ") {
		t.Errorf("expected prompt, got:\n%s", out.String())
	}
}
