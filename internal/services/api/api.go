// Package api provides the HTTP API for the application
package api

import (
	"time"

	"meridian/internal/platform/config"
	"meridian/internal/platform/logger"
	phttp "meridian/internal/platform/net/http"

	"meridian/internal/modkit"
	"meridian/internal/modkit/httpkit"
	"meridian/internal/modkit/module"

	compatmod "meridian/internal/services/compat/module"
	ingestmod "meridian/internal/services/ingest/module"
	metahttp "meridian/internal/services/meta/http"
	metamod "meridian/internal/services/meta/module"
	normmod "meridian/internal/services/normalization/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// construct ingest first and hand its records port to normalization
	ingest := ingestmod.New(deps)
	recs := module.MustPortsOf[ingestmod.Ports](ingest).Records

	norm := normmod.New(
		deps,
		modkit.WithPorts(normmod.Ports{Records: recs}),
	)

	mods := []module.Module{
		metamod.New(deps),
		ingest,
		norm,
		compatmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			m.MountRoutes(api)
		}
	})

	// unversioned health probe mirrors /api/v1/meta/health
	r.Get("/health", metahttp.HealthHandler(metamod.HandlerDeps(deps, time.Now())))
}
