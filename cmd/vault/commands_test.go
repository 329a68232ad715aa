package main

import (
	"strings"
	"testing"
)

func TestRecordsCommand(t *testing.T) {
	useAPI(t, fakeAPI(t))

	out, err := execute(t, "records")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	for _, want := range []string{"Filing status", "Single", "$52,000.00", "-$1,200.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRecordsCommandSingle(t *testing.T) {
	useAPI(t, fakeAPI(t))

	out, err := execute(t, "records", "7")
	if err != nil {
		t.Fatalf("records 7: %v", err)
	}
	if !strings.Contains(out, "W-2 wages") || !strings.Contains(out, "$13,850.00") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "records", "8"); err == nil {
		t.Error("expected error for unknown record")
	}
	if _, err := execute(t, "records", "abc"); err == nil || !strings.Contains(err.Error(), "invalid record id") {
		t.Errorf("expected invalid id error, got %v", err)
	}
}

func TestUploadApproveDiscardCommands(t *testing.T) {
	useAPI(t, fakeAPI(t))

	out, err := execute(t, "upload", writePDF(t))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.Contains(out, testCorrelationID) || !strings.Contains(out, "pending_approval") {
		t.Errorf("upload output:\n%s", out)
	}

	out, err = execute(t, "approve", testCorrelationID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !strings.Contains(out, "$52,000.00") {
		t.Errorf("approve output:\n%s", out)
	}

	out, err = execute(t, "discard", testCorrelationID)
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if !strings.Contains(out, "Discarded "+testCorrelationID) {
		t.Errorf("discard output:\n%s", out)
	}
}

func TestCommandsRequireUser(t *testing.T) {
	srv := fakeAPI(t)
	useAPI(t, srv)
	t.Setenv(EnvClientUserID, "")

	_, err := execute(t, "records")
	if err == nil || !strings.Contains(err.Error(), "user_id required") {
		t.Errorf("expected missing user error, got %v", err)
	}
}

func TestCommandArgs(t *testing.T) {
	useAPI(t, fakeAPI(t))

	for _, args := range [][]string{
		{"upload"},
		{"approve"},
		{"discard", "a", "b"},
		{"records", "1", "2"},
		{"session", "extra"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected argument error", args)
		}
	}
}
