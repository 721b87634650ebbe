package cli

import (
	"log/slog"

	"github.com/aretw0/formflow"
	"github.com/aretw0/formflow/internal/config"
	"github.com/aretw0/formflow/pkg/adapters/file"
	formhttp "github.com/aretw0/formflow/pkg/adapters/http"
	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/adapters/pdftk"
	"github.com/aretw0/formflow/pkg/adapters/redis"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/materialize"
	"github.com/aretw0/formflow/pkg/ports"
)

// Backend bundles the adapters selected by the configuration.
type Backend struct {
	Filler   ports.Filler
	Writer   ports.OutputWriter
	Reserver ports.NameReserver

	redis *redis.Reserver
}

// NewBackend wires pdftk and the file store, or in-memory fakes for dry runs.
// When a redis address is configured, names are claimed in redis first and
// then on disk.
func NewBackend(cfg config.Config, dryRun bool, logger *slog.Logger) *Backend {
	if dryRun {
		store := memory.NewStore()
		return &Backend{Filler: memory.NewFiller(nil), Writer: store, Reserver: store}
	}

	store := file.New(cfg.OutputDir)
	b := &Backend{
		Filler: pdftk.New(
			pdftk.WithBinary(cfg.Pdftk),
			pdftk.WithLanes(cfg.Lanes),
			pdftk.WithLogger(logger),
		),
		Writer:   store,
		Reserver: store,
	}
	if cfg.RedisAddr != "" {
		b.redis = redis.New(cfg.RedisAddr, "", 0,
			redis.WithTTL(cfg.RedisTTL),
			redis.WithGuard(store),
		)
		b.Reserver = b.redis
	}
	return b
}

// Close releases network clients.
func (b *Backend) Close() error {
	if b.redis != nil {
		return b.redis.Close()
	}
	return nil
}

// MaterializerFactory builds materializers sharing the backend's adapters.
func (b *Backend) MaterializerFactory(hooks domain.LifecycleHooks, logger *slog.Logger) formhttp.MaterializerFactory {
	return func(f catalog.Form) (*materialize.Materializer, error) {
		return materialize.New(f.Template, b.Filler, b.Writer,
			materialize.WithForm(f.ID),
			materialize.WithMapper(f.Mapper),
			materialize.WithReserver(b.Reserver),
			materialize.WithLifecycleHooks(hooks),
			materialize.WithLogger(logger),
		)
	}
}

// NewEngine initializes a formflow engine over the backend's adapters.
func NewEngine(form string, cfg config.Config, b *Backend, logger *slog.Logger, hooks domain.LifecycleHooks) (*formflow.Engine, error) {
	return formflow.New(form,
		formflow.WithTemplateDir(cfg.TemplateDir),
		formflow.WithFiller(b.Filler),
		formflow.WithWriter(b.Writer),
		formflow.WithReserver(b.Reserver),
		formflow.WithLogger(logger),
		formflow.WithLifecycleHooks(hooks),
	)
}
