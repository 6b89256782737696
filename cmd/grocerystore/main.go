package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ManojM86/GroceryStore-MS/internal/config"
	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
	"github.com/ManojM86/GroceryStore-MS/internal/session"
	"github.com/ManojM86/GroceryStore-MS/internal/web"
)

const shutdownGrace = 10 * time.Second

func main() {
	port := flag.String("port", "", "listen port (overrides GROCERY_HTTP_ADDR)")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	if *port != "" {
		cfg.HTTPAddr = ":" + *port
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("inventory", cfg.InventoryPath).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("starting grocery store")

	// The default inventory is optional: when it cannot be read the shop
	// stays up but blocks actions until a valid file is uploaded.
	var store *inventory.Store
	items, err := inventory.ReadFile(cfg.InventoryPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.InventoryPath).
			Msg("default inventory not loaded; waiting for upload")
	} else {
		store, err = inventory.NewStore()
		must(err)
		must(store.Load(context.Background(), items))
		log.Info().Int("items", len(items)).Msg("inventory loaded")
	}

	sessions := session.NewManager(cfg.SessionCap, cfg.SessionTTL)
	srv, err := web.NewServer(log.Logger, sessions, store)
	must(err)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Warn().Msg("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
