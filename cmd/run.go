package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"dicepot/api"
	"dicepot/auth"
	"dicepot/bot"
	"dicepot/config"
	"dicepot/database"
	"dicepot/events"
	"dicepot/game"
	"dicepot/infrastructure"
	"dicepot/repository"
	"dicepot/service"
)

// ConfigureLogging applies the configured level and format to the global logger
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// NewEngine builds the round engine from configuration
func NewEngine(cfg *config.Config, dice game.DiceSource) *game.Engine {
	resolver := game.NewResolver(dice, game.DefaultMultiplierTable())
	return game.NewEngine(resolver, game.Policy{RequireGainToCashOut: cfg.CashOutRequireGain})
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting dicepot...")

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), database.PoolOptions{MaxConns: cfg.DatabaseMaxConns})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	if cfg.NATSURL != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSURL)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to initialize event forwarding: %w", err)
		}
		defer natsClient.Close()

		forwarder := infrastructure.NewEventForwarder(natsClient, cfg.NATSSubjectPrefix)
		forwarder.Register(eventBus)
		// Runs before natsClient.Close so queued events are published first
		defer func() {
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := forwarder.Close(drainCtx); err != nil {
				log.Warnf("Event forwarder did not drain: %v", err)
			}
		}()
	}

	engine := NewEngine(cfg, game.NewCryptoDice())
	services := api.Services{
		Users:  service.NewUserService(uowFactory, auth.NewHasher(0)),
		Wallet: service.NewWalletService(uowFactory),
		Games:  service.NewGameService(uowFactory, engine),
		Stats:  service.NewStatsService(uowFactory),
	}

	if cfg.BotEnabled() {
		discordBot, err := bot.New(bot.Config{
			Token:   cfg.DiscordToken,
			GuildID: cfg.DiscordGuildID,
		}, services.Users, services.Games, services.Wallet, services.Stats)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		defer func() {
			if err := discordBot.Close(); err != nil {
				log.Errorf("Error closing Discord bot: %v", err)
			}
		}()
	} else {
		log.Info("DISCORD_TOKEN not set, Discord bot disabled")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	server := api.NewServer(services, tokens, db, cfg.CORSOrigin)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}
