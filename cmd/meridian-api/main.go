package main

import (
	"context"

	"meridian/internal/platform/config"
	"meridian/internal/platform/logger"
	phttp "meridian/internal/platform/net/http"

	"meridian/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API, modules read their own prefixed keys from root
	api.Mount(
		srv.Router(),
		api.Options{
			Config: root,
			Logger: l,
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
