// Package module implements the ingest service module
package module

import (
	stdhttp "net/http"

	"meridian/internal/modkit"
	"meridian/internal/modkit/httpkit"
	str "meridian/internal/platform/strings"
	"meridian/internal/services/ingest/domain"
	ingesthttp "meridian/internal/services/ingest/http"
	"meridian/internal/services/ingest/repo"
	"meridian/internal/services/ingest/service"
)

// Ports exposed by the ingest module
type Ports struct {
	Ingest  domain.IngestPort
	Records domain.RecordsPort
}

// Module implements the ingest service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(stdhttp.Handler) stdhttp.Handler
	ports  Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs an ingest module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingest"),
		modkit.WithPrefix("/ingest"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)
	store := repo.NewManifest(o.ManifestPath)
	svc := service.New(store, service.Config{
		StorageDir:        o.StorageDir,
		MaxBytes:          o.MaxBytes,
		AllowedExtensions: o.AllowedExtensions,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
	}
	m.ports = Ports{
		Ingest:  svc,
		Records: svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ingesthttp.Register(r, m.ports.Ingest)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes satisfies modkit.Module
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

// Name satisfies modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "ingest") }

// Prefix returns the module mount prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
