package main

import (
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/weft-http/weft"
	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/proxy"
)

func main() {
	var (
		addr     = flag.String("addr", env("WEFT_PROXY_ADDR", "0.0.0.0:8070"), "address to listen on")
		entries  = flag.Int("cache", envInt("WEFT_PROXY_CACHE", 0), "response cache capacity, 0 disables caching")
		snapshot = flag.String("cache-snapshot", env("WEFT_PROXY_SNAPSHOT", ""), "path the cache is persisted to across restarts")
		legacy   = flag.Bool("legacy-frames", false, "speak the delimited frame format instead of the binary one")
		debug    = flag.Bool("debug", false, "log connection lifecycle events")
	)
	flag.Parse()

	log := newLogger(*debug)

	cfg := config.Default()
	cfg.Frame.Legacy = *legacy
	cfg.Proxy.CacheEntries = *entries
	cfg.Proxy.CacheSnapshot = *snapshot

	relay := proxy.New(cfg.Proxy, log)
	if err := relay.RestoreSnapshot(); err != nil {
		log.Warn().Err(err).Msg("cache snapshot not restored")
	}

	app := weft.New(relay).
		Tune(cfg).
		Log(log).
		Listen(*addr)

	go stopOnSignal(app, log)

	err := app.Serve()

	if snapErr := relay.Snapshot(); snapErr != nil {
		log.Warn().Err(snapErr).Msg("cache snapshot not persisted")
	}

	if err != nil {
		log.Fatal().Err(err).Msg("proxy failed")
	}
}

func stopOnSignal(app *weft.App, log zerolog.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch

	log.Info().Msg("shutting down")
	app.GracefulStop()
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func envInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}
