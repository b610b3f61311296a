package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/fila-atendimento/internal/audit"
	"github.com/BruksfildServices01/fila-atendimento/internal/cache"
	"github.com/BruksfildServices01/fila-atendimento/internal/config"
	dbpkg "github.com/BruksfildServices01/fila-atendimento/internal/db"
	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/infra/upstream"
	"github.com/BruksfildServices01/fila-atendimento/internal/mapper"
	"github.com/BruksfildServices01/fila-atendimento/internal/metrics"
	"github.com/BruksfildServices01/fila-atendimento/internal/notify"
	"github.com/BruksfildServices01/fila-atendimento/internal/refresh"
)

// app reúne as dependências montadas a partir da configuração.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	db        *gorm.DB
	metrics   *metrics.Metrics
	events    *audit.Dispatcher
	refresher *refresh.Refresher

	closers []func()
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, metrics: metrics.New()}

	// ======================================================
	// 🔧 CACHE
	// ======================================================
	var store cache.Store = cache.NewMemoryStore(cache.SystemClock{})
	if cfg.RedisURL != "" {
		client, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		store = cache.NewRedisStore(client)
		log.Info().Msg("queue cache on redis")
	}

	// ======================================================
	// 🌐 ORIGEM DOS DADOS
	// ======================================================
	source, err := newSource(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	// ======================================================
	// 📝 HISTÓRICO DE BUSCAS
	// ======================================================
	var recorder audit.Recorder = audit.NewLogRecorder(log)
	if cfg.DBUrl != "" {
		db, err := dbpkg.NewDB(cfg.DBUrl)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		recorder = audit.New(db)
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
	}
	a.events = audit.NewDispatcher(recorder, log)

	// ======================================================
	// 🔄 REFRESHER
	// ======================================================
	deps := refresh.Deps{
		Source:  source,
		Mapper:  mapper.New(cfg.ClinicTimezone),
		Cache:   cache.NewQueryCache(store, cfg.CacheTTL),
		Events:  a.events,
		Metrics: a.metrics,
		Log:     log,
	}

	// ======================================================
	// 📣 NOTIFICAÇÃO
	// ======================================================
	if cfg.NatsURL != "" {
		nc, err := notify.Connect(cfg.NatsURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = nc.Drain() })
		deps.Notifier = notify.New(nc)
	}

	a.refresher = refresh.New(deps, cfg.RefreshInterval)
	return a, nil
}

func newSource(cfg *config.Config, log zerolog.Logger) (queue.Source, error) {
	switch cfg.UpstreamMode {
	case config.UpstreamFixture:
		return upstream.NewFixture(), nil
	case config.UpstreamHTTP:
		if cfg.UpstreamBaseURL == "" {
			return nil, fmt.Errorf("UPSTREAM_BASE_URL is required when UPSTREAM_MODE=%s", config.UpstreamHTTP)
		}
		return upstream.NewClient(cfg.AppointmentsURL(), cfg.UpstreamTimeout, cfg.RetryAttempts, log), nil
	default:
		return nil, fmt.Errorf("unknown UPSTREAM_MODE %q", cfg.UpstreamMode)
	}
}

// Close libera as conexões na ordem inversa da abertura.
func (a *app) Close() {
	if a.events != nil {
		a.events.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
