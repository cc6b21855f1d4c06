package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"HandwritingBoard/internal/auth"
	"HandwritingBoard/internal/config"
	"HandwritingBoard/internal/generator"
	"HandwritingBoard/internal/logging"
	inknet "HandwritingBoard/internal/net"
	"HandwritingBoard/internal/state"
	"HandwritingBoard/internal/store"
	"HandwritingBoard/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], config.DefaultPath()))
}

// run returns the process exit code so that deferred cleanup, the log file
// included, happens before the process exits.
func run(args []string, configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	logger, closeLog, err := logging.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	if len(args) > 0 && strings.HasPrefix(args[0], inknet.LinkScheme) {
		logger.Info("starting as pad", "link", args[0])
		ui.RunPad(args[0], logger.With("component", "pad"))
		return 0
	}
	if err := runHost(cfg, logger); err != nil {
		logger.Error("host failed", "error", err)
		return 1
	}
	return 0
}

func runHost(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting as host")

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	provider := auth.New(st, logger.With("component", "auth"))
	if err := provider.Restore(context.Background()); err != nil {
		logger.Warn("session not restored", "error", err)
	}

	gen := newGenerator(cfg.Generator, logger.With("component", "generator"))

	var shareLink string
	var pads *inknet.PeerManager
	if cfg.Pad.Enabled {
		pads = inknet.NewPeerManager(logger.With("component", "pad"))
		srv, err := pads.StartServer(cfg.Pad.Port)
		if err != nil {
			logger.Warn("pad server disabled", "error", err)
			pads = nil
		} else {
			defer func() {
				pads.CloseAll()
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
			shareLink = inknet.ShareLink(inknet.GetOutgoingIP(logger), cfg.Pad.Port)
			if cfg.Pad.Advertise {
				info := []string{"link=" + shareLink, "site=" + state.SiteID()}
				if mdnsServer, err := inknet.Advertise(inknet.PadService, cfg.Pad.Port, info); err != nil {
					logger.Warn("pad advertisement failed", "error", err)
				} else {
					defer mdnsServer.Shutdown()
				}
			}
			logger.Info("pad link ready", "link", shareLink)
		}
	}

	app := ui.NewApp(ui.Deps{
		Config:    cfg,
		Store:     st,
		Auth:      provider,
		Generator: gen,
		ShareLink: shareLink,
		Logger:    logger,
	})
	if pads != nil {
		pads.OnMessage = app.HandlePad
	}
	app.Run()
	return nil
}

// newGenerator builds the generation client. With discovery enabled the LAN
// lookup runs in the background and replaces the configured endpoint when a
// service answers.
func newGenerator(cfg config.GeneratorConfig, logger *slog.Logger) *generator.Client {
	client := generator.New(generator.Config{
		Endpoint:    cfg.Endpoint,
		Timeout:     cfg.Timeout,
		Rate:        cfg.Rate,
		Burst:       cfg.Burst,
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.Timeout,
		Interval:    cfg.Breaker.Interval,
	}, logger)
	if cfg.Discover {
		go func() {
			found, err := generator.Discover(logger)
			if err != nil {
				logger.Warn("generator discovery failed", "error", err, "endpoint", client.Endpoint())
				return
			}
			client.SetEndpoint(found)
		}()
	}
	return client
}
