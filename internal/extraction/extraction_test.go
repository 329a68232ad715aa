package extraction_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/filevault/internal/extraction"
	"github.com/JaimeStill/filevault/pkg/formatting"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "raw json",
			text: `{"filing_status": "single", "w2_wages": 50000, "total_deductions": 12000, "ira_distributions": null, "capital_gain_loss": 500}`,
		},
		{
			name: "fenced json",
			text: "```json\n{\"filing_status\": \"single\", \"w2_wages\": 50000, \"total_deductions\": 12000, \"capital_gain_loss\": 500}\n```",
		},
		{
			name: "prose around object",
			text: `Here is the data: {"filing_status": "single", "w2_wages": 50000, "total_deductions": 12000, "capital_gain_loss": 500} Let me know.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extraction.Decode(tt.text)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			f := got.Fields
			if f.FilingStatus == nil || *f.FilingStatus != "single" {
				t.Errorf("filing_status: got %v", f.FilingStatus)
			}
			if f.W2Wages == nil || *f.W2Wages != 50000 {
				t.Errorf("w2_wages: got %v", f.W2Wages)
			}
			if f.IRADistributions != nil {
				t.Errorf("ira_distributions: got %v, want nil", *f.IRADistributions)
			}
			if got.Data["filing_status"] != "single" {
				t.Errorf("data: got %v", got.Data)
			}
		})
	}
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	_, err := extraction.Decode("I could not read this document.")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Errorf("got %v, want ErrParseFailed", err)
	}
}

func TestStaticExtractor(t *testing.T) {
	cfg := &extraction.Config{Provider: extraction.ProviderStatic}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sys, err := extraction.New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := sys.Extract(context.Background(), nil); !errors.Is(err, extraction.ErrEmptyDocument) {
		t.Errorf("empty document: got %v, want ErrEmptyDocument", err)
	}

	got, err := sys.Extract(context.Background(), []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Fields.CapitalGainLoss == nil || *got.Fields.CapitalGainLoss != -3000 {
		t.Errorf("capital_gain_loss: got %v", got.Fields.CapitalGainLoss)
	}
	if got.Fields.IRADistributions != nil {
		t.Error("ira_distributions should be nil")
	}
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     extraction.Config
		wantErr bool
	}{
		{name: "vertex with project", cfg: extraction.Config{Project: "tax-vault"}},
		{name: "vertex without project", cfg: extraction.Config{}, wantErr: true},
		{name: "static needs no project", cfg: extraction.Config{Provider: extraction.ProviderStatic}},
		{name: "unknown provider", cfg: extraction.Config{Provider: "openai"}, wantErr: true},
		{name: "bad timeout", cfg: extraction.Config{Project: "p", Timeout: "soon"}, wantErr: true},
		{name: "negative timeout", cfg: extraction.Config{Project: "p", Timeout: "-1s"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("err: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("TEST_EXTRACTION_MODEL", "gemini-2.5-pro")

	cfg := extraction.Config{Project: "tax-vault"}
	if err := cfg.Finalize(&extraction.Env{Model: "TEST_EXTRACTION_MODEL"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Provider != extraction.ProviderVertex {
		t.Errorf("provider: got %q", cfg.Provider)
	}
	if cfg.Location != "us-central1" {
		t.Errorf("location: got %q", cfg.Location)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("model: got %q", cfg.Model)
	}
	if cfg.TimeoutDuration().Minutes() != 2 {
		t.Errorf("timeout: got %v", cfg.TimeoutDuration())
	}
}

func TestConfigMerge(t *testing.T) {
	base := extraction.Config{Project: "dev", Model: "gemini-2.0-flash"}
	base.Merge(&extraction.Config{Project: "prod"})

	if base.Project != "prod" || base.Model != "gemini-2.0-flash" {
		t.Errorf("merged: got %+v", base)
	}
}
