package api

import (
	"github.com/JaimeStill/filevault/internal/documents"
	"github.com/JaimeStill/filevault/internal/records"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Records   records.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	recordsSystem := records.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	docsSystem := documents.New(
		runtime.Quarantine,
		runtime.Vault,
		runtime.Extractor,
		runtime.Redactor,
		recordsSystem,
		runtime.PreviewTTL,
		runtime.Logger,
	)

	return &Domain{
		Documents: docsSystem,
		Records:   recordsSystem,
	}
}
