package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/filevault/internal/config"
	"github.com/JaimeStill/filevault/internal/extraction"
	"github.com/JaimeStill/filevault/internal/infrastructure"
	"github.com/JaimeStill/filevault/internal/redaction"
	"github.com/JaimeStill/filevault/pkg/database"
	"github.com/JaimeStill/filevault/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
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
			SignedURLTTL:     "15m",
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
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Quarantine == nil || infra.Vault == nil {
		t.Error("storage systems are nil")
	}
	if infra.Extractor == nil {
		t.Error("Extractor is nil")
	}
	if infra.Redactor == nil {
		t.Error("Redactor is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database.Connection() == nil {
		t.Error("Database.Connection() is nil")
	}
}

func TestNewUnknownStorageProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Vault.Provider = "s3"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Error("expected error for unknown storage provider")
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := validConfig()
	cfg.Quarantine.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Error("expected error for invalid connection string")
	}
}
