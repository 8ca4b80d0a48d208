package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/weft-http/weft"
	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/fileserver"
)

func main() {
	var (
		addr       = flag.String("addr", env("WEFT_ADDR", "0.0.0.0:8080"), "address to listen on")
		root       = flag.String("root", env("WEFT_ROOT", "static"), "directory to serve documents from")
		index      = flag.String("index", env("WEFT_INDEX", "index.html"), "document substituted for /")
		restricted = flag.String("restricted", env("WEFT_RESTRICTED", ""), "comma-separated paths answered with 403")
		legacy     = flag.Bool("legacy-frames", false, "speak the delimited frame format instead of the binary one")
		debug      = flag.Bool("debug", false, "log connection lifecycle events")
	)
	flag.Parse()

	log := newLogger(*debug)

	cfg := config.Default()
	cfg.FS.Root = *root
	cfg.FS.Index = *index
	cfg.Frame.Legacy = *legacy
	if *restricted != "" {
		cfg.FS.Restricted = strings.Split(*restricted, ",")
	}

	app := weft.New(fileserver.New(cfg.FS, fileserver.NewDir(cfg.FS.Root))).
		Tune(cfg).
		Log(log).
		Listen(*addr)

	go stopOnSignal(app, log)

	if err := app.Serve(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
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
