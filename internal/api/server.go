package api

import (
	"golang.org/x/time/rate"

	"optiroute/internal/config"
	"optiroute/internal/metrics"
	"optiroute/internal/notify"
	"optiroute/internal/routing"
	"optiroute/internal/store"
)

type Server struct {
	Store   store.Store
	Engine  *routing.Engine
	Pub     *notify.Publisher
	Broker  EventBroker
	Limiter *rate.Limiter

	webhookMaxAttempts int
}

// NewServer wires the store, broker and routing engine from config. An
// unset DATABASE_URL selects the in-memory store; an unset REDIS_URL
// the in-process broker.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if cfg.DatabaseURL == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s = sp
	}

	var broker EventBroker
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		broker = rb
	} else {
		broker = NewBroker()
	}

	eng := routing.NewEngine(nil)
	metrics.RegisterDefault()
	metrics.RegisterCacheStats(func() (int64, int64, int64) {
		st := eng.Paths.Cache().Stats()
		return int64(st.Size), st.Hits, st.Misses
	})

	return &Server{
		Store:              s,
		Engine:             eng,
		Pub:                notify.NewPublisher(s),
		Broker:             broker,
		Limiter:            rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst),
		webhookMaxAttempts: cfg.WebhookMaxAttempts,
	}, nil
}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *notify.Worker {
	return notify.NewWorker(s.Store, s.webhookMaxAttempts)
}
