// jumpd runs a jump-detection session against a configured sensor
// source, broadcasts live counts over WebSocket, and persists the
// finalized session to the SQLite store on shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/elynrose/jumpz/config"
	"github.com/elynrose/jumpz/jump"
	"github.com/elynrose/jumpz/source"
	"github.com/elynrose/jumpz/store"
)

var version = "dev"

var (
	configPath string
	flagListen string
	flagMode   string
	flagLevel  int
	flagSource string
	flagReplay string
	flagDB     string
)

func main() {
	cmd := &cobra.Command{
		Use:   "jumpd",
		Short: "Jump detection daemon",
		Long: `jumpd feeds accelerometer and gyroscope samples from a replay
recording or the synthetic generator into the jump detection engine,
serves live counts over WebSocket, and writes the finalized session
to the SQLite store on shutdown.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&flagListen, "listen", "", "WebSocket listen address (overrides config)")
	cmd.Flags().StringVar(&flagMode, "mode", "", "detection mode: simple, enhanced, or hybrid")
	cmd.Flags().IntVar(&flagLevel, "level", 0, "sensitivity level 1-5")
	cmd.Flags().StringVar(&flagSource, "source", "", "sample source: synth or replay")
	cmd.Flags().StringVar(&flagReplay, "replay", "", "CSV recording path (implies --source replay)")
	cmd.Flags().StringVar(&flagDB, "db", "", "SQLite database path")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg)

	log, err := config.SetupLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	mode, err := jump.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("closing store", "err", cerr)
		}
	}()

	src, closeSrc, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	session := jump.NewSession(jump.SessionConfig{
		Source: src,
		Mode:   mode,
		Level:  cfg.Level,
		Logger: log,
	})
	defer session.Dispose()

	h := newHub(log)
	counts, cancelSub := session.Subscribe()
	defer cancelSub()

	router := mux.NewRouter()
	router.HandleFunc("/ws", h.handleWS)
	router.HandleFunc("/count", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, countPayload{Count: session.Count(), Running: session.Running()})
	})
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := &http.Server{Addr: cfg.Listen, Handler: router}

	startedAt := time.Now()
	if err := session.Start(); err != nil {
		return err
	}
	log.Info("session started", "mode", cfg.Mode, "level", cfg.Level,
		"source", cfg.Source, "listen", cfg.Listen)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := src.Run(gctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("source: %w", err)
		}
		// Replay exhausted or cancelled: wind the daemon down.
		cancel()
		return nil
	})

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		strictTicker := time.NewTicker(5 * time.Second)
		defer strictTicker.Stop()
		warned := false
		for {
			select {
			case <-gctx.Done():
				return nil
			case c, ok := <-counts:
				if !ok {
					return nil
				}
				log.Info("jump", "count", c)
				h.broadcast(c)
			case <-strictTicker.C:
				if !warned && session.TooStrict() {
					warned = true
					log.Warn("detector reports too-strict thresholds; consider raising the sensitivity level or using hybrid mode")
				}
			}
		}
	})

	<-gctx.Done()

	session.Stop()
	endedAt := time.Now()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	if serr := server.Shutdown(shutdownCtx); serr != nil {
		log.Warn("http shutdown", "err", serr)
	}
	h.closeAll()

	if err := g.Wait(); err != nil {
		return err
	}

	rec, err := db.InsertSession(context.Background(), store.Record{
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Mode:      cfg.Mode,
		Level:     cfg.Level,
		Jumps:     session.Count(),
	})
	if err != nil {
		return err
	}
	log.Info("session stored", "id", rec.ID, "jumps", rec.Jumps,
		"perMinute", fmt.Sprintf("%.1f", rec.JumpsPerMinute()))
	return nil
}

func applyFlags(cfg *config.Config) {
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	if flagMode != "" {
		cfg.Mode = flagMode
	}
	if flagLevel != 0 {
		cfg.Level = flagLevel
	}
	if flagSource != "" {
		cfg.Source = flagSource
	}
	if flagReplay != "" {
		cfg.Source = "replay"
		cfg.ReplayPath = flagReplay
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
}

// runner is the source side of a session: subscriptions plus a
// blocking Run loop.
type runner interface {
	jump.Source
	Run(ctx context.Context) error
}

func buildSource(cfg config.Config) (runner, func(), error) {
	switch cfg.Source {
	case "replay":
		f, err := os.Open(cfg.ReplayPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening recording: %w", err)
		}
		closeFn := func() {
			if cerr := f.Close(); cerr != nil {
				// Best-effort close.
				_ = cerr
			}
		}
		return source.NewReplay(f, cfg.ReplaySpeed), closeFn, nil
	default:
		return source.NewSynth(), func() {}, nil
	}
}
