package main

import (
	"time"

	"github.com/JaimeStill/filevault/internal/config"
	"github.com/JaimeStill/filevault/internal/infrastructure"
)

// Server wires the infrastructure, the API module, and the HTTP listener.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"vault service initialized",
		"env", cfg.Env(),
		"version", cfg.Version,
		"quarantine", cfg.Quarantine.Provider+"/"+cfg.Quarantine.Container,
		"vault", cfg.Vault.Provider+"/"+cfg.Vault.Container,
		"extraction", cfg.Extraction.Provider,
		"redaction", cfg.Redaction.Provider,
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start registers every subsystem, binds the listener, and reports the
// outcome of the startup hooks in the background. Failed hooks leave the
// process serving with /readyz returning 503.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		lc := s.infra.Lifecycle
		lc.WaitForStartup()

		if lc.Ready() {
			s.infra.Logger.Info("all subsystems ready")
			return
		}
		for name, err := range lc.Failures() {
			s.infra.Logger.Error("subsystem unavailable", "subsystem", name, "error", err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("shutting down", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
