package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"engagement-tracker/internal/commands"
	"engagement-tracker/internal/config"
	"engagement-tracker/internal/moderation"
	"engagement-tracker/internal/repository"
	"engagement-tracker/internal/server"
	"engagement-tracker/internal/service"
	"engagement-tracker/internal/telegram_bot"
	"engagement-tracker/internal/tracking"
)

const defaultConfigPath = "configs/config.yml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	rootCmd := &cobra.Command{
		Use:          "engagement-tracker",
		Short:        "Telegram bot tracking link shares and engagement acknowledgments",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "path to the YAML config file")

	rootCmd.AddCommand(newIssueTokenCmd(&configPath))
	return rootCmd
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(parent context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Restriction audit log (optional)
	var restrictions repository.RestrictionRepository
	var audit moderation.AuditRecorder
	if cfg.Database.Enabled {
		db, err := repository.NewDB(cfg.Database.Type, cfg.Database.URL, cfg.Database.MigrationsPath, logger)
		if err != nil {
			logger.Error("Failed to connect to database", zap.Error(err))
			return err
		}
		defer db.Close()

		restrictions = repository.NewRestrictionRepository(db, logger)
		audit = restrictions
	} else {
		logger.Info("Restriction audit log is disabled")
	}

	sessions := tracking.NewManager(tracking.Scope(cfg.Tracking.SessionScope), cfg.Tracking.ExcludedUsernames)
	logger.Info("Session manager initialized", zap.String("scope", string(sessions.Scope())))

	api, err := telegram_bot.Connect(cfg.Telegram.Token, cfg.Telegram.Debug, logger)
	if err != nil {
		logger.Error("Failed to initialize Telegram bot", zap.Error(err))
		return err
	}
	platform := telegram_bot.NewPlatform(api)

	dispatcher := commands.NewDispatcher(
		sessions,
		moderation.NewAdminGate(platform, logger),
		moderation.NewCoordinator(platform, audit, logger),
		platform,
		commands.Options{
			AdWords:             cfg.Tracking.AdWords,
			SocialHosts:         cfg.Tracking.SocialHosts,
			GateAdTotal:         cfg.Commands.GateAdTotal,
			UserlistPageSize:    cfg.Commands.UserlistPageSize,
			RulesText:           cfg.Commands.RulesText,
			UnauthorizedSticker: cfg.Commands.UnauthorizedSticker,
		},
		logger,
	)
	bot := telegram_bot.NewBot(api, dispatcher, cfg.Telegram.PollTimeoutSeconds, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Start(gctx)
	})

	if cfg.Server.Enabled {
		tokens, err := service.NewTokenService(cfg.Server.JWTSecret, service.DefaultTokenTTL, logger)
		if err != nil {
			return err
		}
		srv := server.NewServer(cfg, sessions, restrictions, tokens, logger)
		g.Go(func() error {
			return srv.Run(gctx, cfg.Server.Port)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		return err
	}

	logger.Info("Application stopped.")
	return nil
}
