package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"meridian/internal/platform/config"
	"meridian/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	root := config.New()

	l := logger.Get()
	log := l.With().Str("component", "worker").Logger()

	var (
		fInterval = flag.Duration("interval", 15*time.Second, "heartbeat interval")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if url := root.MayString("SERVICE_REDIS_URL", ""); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			log.Panic().Err(err).Msg("bad SERVICE_REDIS_URL")
		}
		rdb = redis.NewClient(opts)
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}()
	} else {
		log.Warn().Msg("SERVICE_REDIS_URL not configured, heartbeats run without redis")
	}

	log.Info().Dur("interval", *fInterval).Msg("worker started")

	tick := time.NewTicker(*fInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			return
		case <-tick.C:
			beat(ctx, log, rdb)
		}
	}
}

// beat emits a single heartbeat, pinging redis when configured
func beat(ctx context.Context, log logger.Logger, rdb *redis.Client) {
	ev := log.Info().Time("at", time.Now().UTC())
	if rdb != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		start := time.Now()
		if err := rdb.Ping(pctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed")
			ev.Str("redis", "error")
		} else {
			ev.Str("redis", "ok").Dur("redis_latency", time.Since(start))
		}
	}
	ev.Msg("heartbeat")
}
