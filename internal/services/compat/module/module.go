// Package module implements the compat proxy module
package module

import (
	stdhttp "net/http"
	"time"

	"meridian/internal/modkit"
	"meridian/internal/modkit/httpkit"
	"meridian/internal/platform/config"
	str "meridian/internal/platform/strings"
	compathttp "meridian/internal/services/compat/http"
	"meridian/internal/services/compat/service"
)

// Ports exposed by the compat module
type Ports struct {
	Proxy service.ProxyPort
}

// Options for the compat module
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// FromConfig reads compat options from LEGACY_ prefixed env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LEGACY_")
	timeoutMs := c.MayInt("TIMEOUT_MS", 15000)
	if timeoutMs < 1000 {
		timeoutMs = 1000
	}
	return Options{
		BaseURL: c.MayString("BASE_URL", "http://localhost:8080"),
		Timeout: time.Duration(timeoutMs) * time.Millisecond,
	}
}

// Module implements the compat proxy module
// its routes mount at the API root so legacy paths keep working
type Module struct {
	deps  modkit.Deps
	name  string
	mws   []func(stdhttp.Handler) stdhttp.Handler
	ports Ports

	register func(httpkit.Router)
}

// New constructs a compat module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("compat"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)
	svc := service.New(service.Config{BaseURL: o.BaseURL, Timeout: o.Timeout})

	m := &Module{deps: deps, name: b.Name, mws: b.Mw}
	m.ports = Ports{Proxy: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		compathttp.Register(r, m.ports.Proxy)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes satisfies modkit.Module mounting in a group at the parent router
// so the legacy paths keep their original shape
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
func (m *Module) Name() string { return str.MustString(m.name, "compat") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
