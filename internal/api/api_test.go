package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/filevault/internal/api"
	"github.com/JaimeStill/filevault/internal/config"
	"github.com/JaimeStill/filevault/internal/extraction"
	"github.com/JaimeStill/filevault/internal/infrastructure"
	"github.com/JaimeStill/filevault/internal/redaction"
	"github.com/JaimeStill/filevault/pkg/database"
	"github.com/JaimeStill/filevault/pkg/openapi"
	"github.com/JaimeStill/filevault/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  "1m",
			WriteTimeout: "5m",
			DrainTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "filevault",
			User:            "filevault",
			Password:        "filevault",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Quarantine: storage.Config{
			Provider:         storage.ProviderAzure,
			Container:        "quarantine",
			ConnectionString: azuriteConnString,
			SignedURLTTL:     "10m",
		},
		Vault: storage.Config{
			Provider:         storage.ProviderAzure,
			Container:        "vault",
			ConnectionString: azuriteConnString,
			SignedURLTTL:     "15m",
		},
		Extraction: extraction.Config{
			Provider: extraction.ProviderStatic,
			Timeout:  "1m",
		},
		Redaction: redaction.Config{
			Provider: redaction.ProviderStatic,
			Timeout:  "1m",
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "25MB",
			OpenAPI: openapi.Config{
				Title:       "FileVault API",
				Description: "Tax document quarantine and approval",
			},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestSpecServedWithoutIdentity(t *testing.T) {
	cfg := validConfig()
	m, err := api.NewModule(cfg, setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil)
	rec := httptest.NewRecorder()
	m.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var spec struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths      map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	if spec.Info.Title != "FileVault API" {
		t.Errorf("title: got %q", spec.Info.Title)
	}
	if spec.Info.Version != "0.1.0" {
		t.Errorf("version: got %q", spec.Info.Version)
	}

	for _, path := range []string{
		"/upload",
		"/approve/{correlation_id}",
		"/quarantine/{correlation_id}",
		"/records",
		"/records/{id}",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}

	for _, name := range []string{"Descriptor", "Approval", "Record"} {
		if _, ok := spec.Components.Schemas[name]; !ok {
			t.Errorf("spec missing schema %s", name)
		}
	}
}

func TestRoutesRequireIdentity(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"upload", http.MethodPost, "/api/upload"},
		{"approve", http.MethodPost, "/api/approve/4c1c3f3e-7d52-4f7e-9a39-0f4d1f6ad6a1"},
		{"discard", http.MethodDelete, "/api/quarantine/4c1c3f3e-7d52-4f7e-9a39-0f4d1f6ad6a1"},
		{"list records", http.MethodGet, "/api/records"},
		{"find record", http.MethodGet, "/api/records/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.Serve(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.PreviewTTL.Minutes() != 10 {
		t.Errorf("preview ttl: got %s, want 10m", runtime.PreviewTTL)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Quarantine == nil || runtime.Vault == nil {
		t.Error("runtime storage is nil")
	}
	if runtime.Extractor == nil {
		t.Error("runtime extractor is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	runtime := api.NewRuntime(cfg, setupInfra(t))

	domain := api.NewDomain(runtime)
	if domain == nil {
		t.Fatal("NewDomain() returned nil")
	}
	if domain.Documents == nil || domain.Records == nil {
		t.Error("domain systems are nil")
	}
}
