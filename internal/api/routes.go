package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/filevault/internal/config"
	"github.com/JaimeStill/filevault/internal/documents"
	"github.com/JaimeStill/filevault/internal/records"
	"github.com/JaimeStill/filevault/pkg/middleware"
	"github.com/JaimeStill/filevault/pkg/openapi"
	"github.com/JaimeStill/filevault/pkg/routes"
)

// specPath is served without an identity header.
const specPath = "/openapi.json"

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) error {
	groups := []routes.Group{
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Records.Handler().Routes(),
	}

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return err
	}

	routes.Register(mux, groups...)
	mux.HandleFunc("GET "+specPath, openapi.ServeSpec(spec))
	return nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(documents.Schemas())
	spec.Components.AddSchemas(records.Schemas())

	routes.Describe(spec, groups...)
	spec.AddCommonParameter(openapi.HeaderParam(middleware.UserHeader, "Caller identity", true))

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
