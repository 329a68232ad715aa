package main

import (
	"net/http"

	"github.com/JaimeStill/filevault/internal/api"
	"github.com/JaimeStill/filevault/internal/config"
	"github.com/JaimeStill/filevault/internal/infrastructure"
	"github.com/JaimeStill/filevault/pkg/handlers"
	"github.com/JaimeStill/filevault/pkg/lifecycle"
	"github.com/JaimeStill/filevault/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", readiness(infra.Lifecycle))

	return router
}

type readinessBody struct {
	Status   string            `json:"status"`
	Failures map[string]string `json:"failures,omitempty"`
}

func readiness(lc *lifecycle.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lc.Ready() {
			handlers.RespondJSON(w, http.StatusOK, readinessBody{Status: "ready"})
			return
		}

		body := readinessBody{Status: "not ready"}
		if failures := lc.Failures(); len(failures) > 0 {
			body.Failures = make(map[string]string, len(failures))
			for name, err := range failures {
				body.Failures[name] = err.Error()
			}
		}
		handlers.RespondJSON(w, http.StatusServiceUnavailable, body)
	}
}
