package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/build"
	"github.com/roasbeef/vidlens/internal/catalog"
	"github.com/roasbeef/vidlens/internal/config"
	"github.com/roasbeef/vidlens/internal/enrich"
	"github.com/roasbeef/vidlens/internal/models"
	"github.com/roasbeef/vidlens/internal/search"
	"github.com/roasbeef/vidlens/internal/web"
	"github.com/roasbeef/vidlens/internal/wordstats"
)

// shutdownTimeout bounds the graceful teardown of the web server and the
// actor system.
const shutdownTimeout = 10 * time.Second

var log = build.NewSubLogger("VLND")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flags override the environment.
	var (
		listenAddr = flag.String("listen", cfg.ListenAddr,
			"HTTP/WebSocket listen address")
		apiKey = flag.String("api-key", cfg.APIKey,
			"YouTube Data API key")
		pollInterval = flag.Duration("poll-interval", cfg.PollInterval,
			"Fixed delay between catalog polls per query")
		cacheTTL = flag.Duration("cache-ttl", cfg.CacheTTL,
			"TTL for cached catalog responses")
		lexiconPath = flag.String("lexicon", cfg.LexiconPath,
			"Path to the SentiWordNet lexicon file")
		logLevel = flag.String("log-level", cfg.LogLevel,
			"Log level (trace, debug, info, warn, error)")
		logDir = flag.String("log-dir", cfg.LogDir,
			"Directory for rotating log files (empty disables "+
				"file logging)")
	)
	flag.Parse()

	build.SetLogLevel(*logLevel)
	if *logDir != "" {
		if err := build.SetupFileLogging(*logDir); err != nil {
			return fmt.Errorf("setting up file logging: %w", err)
		}
		defer build.CloseFileLogging()
	}
	ctx := context.Background()

	lexicon, err := enrich.LoadLexiconFile(*lexiconPath)
	if err != nil {
		return fmt.Errorf("loading lexicon: %w", err)
	}
	log.InfoS(ctx, "Lexicon loaded", "path", *lexiconPath,
		"num_senses", lexicon.Len())

	ytClient, err := catalog.NewYouTubeClient(
		*apiKey, catalog.WithCacheTTL(*cacheTTL),
	)
	if err != nil {
		return fmt.Errorf("creating catalog client: %w", err)
	}

	system := actor.NewSystem()

	readingRef := actor.Spawn[enrich.AddReadingStats, []*models.VideoResult](
		system, "reading-calculator", enrich.NewReadingService(),
	)
	sentimentRef := actor.Spawn[enrich.AddSentimentScores, []*models.VideoResult](
		system, "sentiment-calculator",
		enrich.NewSentimentService(lexicon),
	)
	pipeline := enrich.NewPipeline(readingRef, sentimentRef)

	statsRef := actor.Spawn[wordstats.ComputeStats, []wordstats.WordCount](
		system, "word-stats", wordstats.NewService(ytClient),
	)

	fatal := make(chan error, 1)
	supervisor := search.SpawnSupervisor(search.SupervisorConfig{
		System:       system,
		Catalog:      ytClient,
		Enricher:     pipeline,
		PollInterval: *pollInterval,
		Fatal:        fatal,
	})

	webServer := web.NewServer(web.Config{
		Addr:       *listenAddr,
		Supervisor: supervisor,
		Catalog:    ytClient,
		WordStats:  statsRef,
	})

	go func() {
		err := webServer.Start()
		if err != nil && err != http.ErrServerClosed {
			select {
			case fatal <- fmt.Errorf("web server: %w", err):
			default:
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var exitErr error
	select {
	case sig := <-sigCh:
		log.InfoS(ctx, "Signal received, shutting down", "signal", sig)

	case err := <-fatal:
		log.CriticalS(ctx, "Fatal error, shutting down", err)
		exitErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorS(shutdownCtx, "Web server shutdown failed", err)
	}
	if err := system.Shutdown(shutdownCtx); err != nil {
		log.ErrorS(shutdownCtx, "Actor system shutdown failed", err)
	}

	return exitErr
}
