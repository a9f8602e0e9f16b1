package svc

import (
	"context"
	"fmt"

	"github.com/neboloop/mindsort/internal/ai"
	"github.com/neboloop/mindsort/internal/config"
	"github.com/neboloop/mindsort/internal/db"
	"github.com/neboloop/mindsort/internal/defaults"
	"github.com/neboloop/mindsort/internal/events"
	"github.com/neboloop/mindsort/internal/extraction"
	"github.com/neboloop/mindsort/internal/keyring"
	"github.com/neboloop/mindsort/internal/logging"
	"github.com/neboloop/mindsort/internal/logic/tasks"
	"github.com/neboloop/mindsort/internal/pipeline"
	"github.com/neboloop/mindsort/internal/realtime"
	"github.com/neboloop/mindsort/internal/store"
	"github.com/neboloop/mindsort/internal/summary"
)

type ServiceContext struct {
	Config  config.Config
	Version string // Build version (e.g. "v0.2.0" or "dev")

	Store store.Store
	DB    *db.Store // nil unless Database.Driver is sqlite

	Completer  ai.Completer
	Extractor  *extraction.Extractor
	Pipeline   *pipeline.Pipeline
	Summarizer *summary.Summarizer
	Tasks      *tasks.Service

	Bus *events.Subject
	Hub *realtime.Hub

	detachHub func()
}

// Option adjusts how NewServiceContext builds its dependencies.
type Option func(*options)

type options struct {
	completer ai.Completer
}

// WithCompleter skips provider construction and uses completer instead.
func WithCompleter(completer ai.Completer) Option {
	return func(o *options) { o.completer = completer }
}

// NewServiceContext opens the configured store, builds the completion
// provider and wires the services on top of them.
func NewServiceContext(ctx context.Context, c config.Config, opts ...Option) (*ServiceContext, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		st       store.Store
		database *db.Store
	)
	switch c.Database.Driver {
	case config.DriverMemory:
		st = store.NewMemoryStore()
		logging.Info("In-memory task store initialized")
	default:
		path := c.Database.SQLitePath
		if path == "" {
			var err error
			if path, err = defaults.DatabasePath(); err != nil {
				return nil, err
			}
		}
		var err error
		database, err = db.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		st = database
	}

	completer := o.completer
	if completer == nil {
		var err error
		completer, err = ai.New(ctx, ai.Options{
			Provider:  c.AI.Provider,
			Model:     c.AI.Model,
			BaseURL:   c.AI.BaseURL,
			APIKey:    keyring.ResolveAPIKey(c.AI.Provider, c.AI.APIKey),
			MaxTokens: c.AI.MaxTokens,
			Timeout:   c.AITimeout(),
		})
		if err != nil {
			if database != nil {
				database.Close()
			}
			return nil, err
		}
		logging.Infof("Completion provider %s initialized", c.AI.Provider)
	}

	svc := New(c, st, completer)
	svc.DB = database
	return svc, nil
}

// New wires the services around an existing store and completer.
func New(c config.Config, st store.Store, completer ai.Completer) *ServiceContext {
	bus := events.NewSubject(events.WithLogger(logging.Slog()))
	hub := realtime.NewHub()

	var opts []extraction.Option
	if c.AI.ExtractionTemperature > 0 {
		opts = append(opts, extraction.WithTemperature(c.AI.ExtractionTemperature))
	}
	extractor := extraction.NewExtractor(completer, opts...)
	return &ServiceContext{
		Config:     c,
		Version:    "dev",
		Store:      st,
		Completer:  completer,
		Extractor:  extractor,
		Pipeline:   pipeline.New(extractor, st, bus),
		Summarizer: summary.NewSummarizer(completer, st, c.AI.SummaryTemperature),
		Tasks:      tasks.NewService(st, bus),
		Bus:        bus,
		Hub:        hub,
		detachHub:  hub.Bridge(bus),
	}
}

func (svc *ServiceContext) Close() {
	if svc.detachHub != nil {
		svc.detachHub()
	}
	events.Complete(svc.Bus)
	if closer, ok := svc.Completer.(interface{ Close() error }); ok {
		closer.Close()
	}
	if svc.DB != nil {
		svc.DB.Close()
		logging.Info("SQLite database connection closed")
	}
	logging.Info("Service context closed")
}
