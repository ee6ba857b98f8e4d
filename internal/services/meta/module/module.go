// Package module wires meta endpoints into the API using a tiny module
package module

import (
	stdhttp "net/http"
	"time"

	"meridian/internal/modkit"
	"meridian/internal/modkit/httpkit"
	str "meridian/internal/platform/strings"

	metahttp "meridian/internal/services/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(stdhttp.Handler) stdhttp.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, HandlerDeps(deps, m.startedAt))
		if external != nil {
			external(r)
		}
	}
	return m
}

// HandlerDeps builds the meta handler dependencies from shared module deps
func HandlerDeps(deps modkit.Deps, startedAt time.Time) metahttp.Deps {
	return metahttp.Deps{
		ServiceName: "meridian-api",
		Environment: deps.Cfg.MayString("CORE_ENV", "development"),
		StartedAt:   startedAt,
		PostgresURL: deps.Cfg.MayString("SERVICE_PGSQL_DBURL", ""),
		RedisURL:    deps.Cfg.MayString("SERVICE_REDIS_URL", ""),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
