// Package module implements the normalization service module
package module

import (
	stdhttp "net/http"

	"meridian/internal/modkit"
	"meridian/internal/modkit/httpkit"
	str "meridian/internal/platform/strings"
	"meridian/internal/services/normalization/domain"
	normhttp "meridian/internal/services/normalization/http"
	"meridian/internal/services/normalization/repo"
	"meridian/internal/services/normalization/service"

	ingestdomain "meridian/internal/services/ingest/domain"
)

// Ports exposed by the normalization module
// Records must be injected from the ingest module via modkit.WithPorts
type Ports struct {
	Normalizer domain.NormalizerPort
	Records    ingestdomain.RecordsPort
}

// Module implements the normalization service module
type Module struct {
	deps  modkit.Deps
	name  string
	mws   []func(stdhttp.Handler) stdhttp.Handler
	ports Ports

	register func(httpkit.Router)
}

// New constructs a normalization module with the provided dependencies and options
// the ingest records port must be injected with modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("normalization"),
	}, opts...)...)

	var records ingestdomain.RecordsPort
	if p, ok := b.Ports.(Ports); ok && p.Records != nil {
		records = p.Records
	}
	if records == nil {
		panic("normalization module requires the ingest records port")
	}

	o := FromConfig(deps.Cfg)
	sink := repo.NewSink(o.SilverDir, o.QuarantineDir, o.ReportDir)
	svc := service.New(records, sink, service.Config{MaxErrors: o.MaxErrors})

	m := &Module{
		deps: deps,
		name: b.Name,
		mws:  b.Mw,
	}
	m.ports = Ports{
		Normalizer: svc,
		Records:    records,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		normhttp.Register(r, m.ports.Normalizer)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes satisfies modkit.Module mounting in a group beside the ingest
// routes since both share the /ingest path space
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Group(func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "normalization") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
