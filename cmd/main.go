package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"go.uber.org/zap/zapcore"

	discordclient "rolebot/clients/discord"
	"rolebot/config"
	"rolebot/core/log"
	"rolebot/handlers"
	"rolebot/metrics"
	"rolebot/middleware"
	"rolebot/models"
	"rolebot/services/catalog"
	"rolebot/services/commands"
	"rolebot/usecases/menu"
	"rolebot/usecases/roles"
)

type Options struct {
	Catalog string `long:"catalog" description:"Path to a YAML role catalog (overrides ROLE_CATALOG_PATH)"`
	Debug   bool   `long:"debug" description:"Enable debug logging"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.Debug {
		log.SetLevel(zapcore.DebugLevel)
	}
	defer log.Sync()

	if err := run(opts); err != nil {
		log.Error("❌ Fatal error: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	catalogPath := cfg.RolesConfig.CatalogPath
	if opts.Catalog != "" {
		catalogPath = opts.Catalog
	}
	roleCatalog, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	roleIndex := models.NewRoleIndex(roleCatalog)
	log.Info("✅ Loaded %d role menus with %d emojis", len(roleCatalog.Categories), roleIndex.Len())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackAlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "rolebot",
		LogsURL:     cfg.ServerLogsURL,
	})

	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordClient := discordclient.NewDiscordClient(session)

	reactionRolesUseCase := roles.NewReactionRolesUseCase(discordClient, roleIndex, appMetrics, roles.Options{
		EnsureAttempts: cfg.RolesConfig.EnsureAttempts,
		EnsureInterval: cfg.RolesConfig.EnsureInterval,
	})
	menuPublisher := menu.NewMenuPublisher(discordClient, roleCatalog, appMetrics, cfg.RolesConfig.HistoryLookback)
	commandsService := commands.NewCommandsService(discordClient, menuPublisher, appMetrics, cfg.DiscordConfig.CommandPrefix)

	discordHandler := handlers.NewDiscordEventsHandler(
		session,
		discordClient,
		reactionRolesUseCase,
		commandsService,
		alertMiddleware,
		appMetrics,
		handlers.DiscordEventsHandlerConfig{
			CommandPrefix: cfg.DiscordConfig.CommandPrefix,
			PresenceText:  cfg.DiscordConfig.PresenceText,
			EventWorkers:  cfg.EventWorkers,
		},
	)

	router := mux.NewRouter()
	handlers.NewHealthHandler(registry).SetupEndpoints(router)

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	if err := discordHandler.StartBot(); err != nil {
		return err
	}

	return handleGracefulShutdown(server, discordHandler)
}

func handleGracefulShutdown(server *http.Server, discordHandler *handlers.DiscordEventsHandler) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
		log.Info("🛑 Shutdown signal received, cleaning up...")
	case err := <-serverErr:
		log.Error("❌ Server error: %v", err)
		discordHandler.StopBot()
		return fmt.Errorf("http server failed: %w", err)
	}

	// Stop taking gateway events before draining queued ones
	discordHandler.StopBot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("✅ Server shutdown complete")
	return nil
}
