// Package database owns the PostgreSQL pool that backs the records store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/filevault/pkg/lifecycle"
)

const (
	pingAttempts = 3
	pingBackoff  = 250 * time.Millisecond
)

// System exposes the pool and registers it with the lifecycle coordinator.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	pool    *sql.DB
	target  string
	timeout time.Duration
	logger  *slog.Logger
}

// New parses the connection URL and builds a pooled *sql.DB over pgx.
// No connection is made until the startup hook pings the server.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	connCfg, err := pgx.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	connCfg.ConnectTimeout = cfg.ConnTimeoutDuration()

	pool := stdlib.OpenDB(*connCfg)
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		pool:    pool,
		target:  fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name),
		timeout: cfg.ConnTimeoutDuration(),
		logger:  logger.With("system", "database"),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.pool
}

// Start pings the server during startup, retrying a few times so the
// service tolerates a database container that comes up after it. The pool
// is closed once the coordinator shuts down.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("connecting", "target", d.target)

	lc.OnStartup("database", func() error {
		if err := d.ping(lc.Context()); err != nil {
			d.logger.Error("records store unreachable", "target", d.target, "error", err)
			return err
		}
		d.logger.Info("records store reachable", "target", d.target)
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := d.pool.Close(); err != nil {
			d.logger.Error("pool close failed", "error", err)
			return
		}
		d.logger.Info("pool closed")
	})

	return nil
}

func (d *database) ping(ctx context.Context) error {
	delay := pingBackoff
	var err error

	for attempt := 1; attempt <= pingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err = d.pool.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == pingAttempts {
			break
		}

		d.logger.Warn("ping failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("ping %s after %d attempts: %w", d.target, pingAttempts, err)
}
