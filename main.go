package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"promptwizard/core"
	"promptwizard/llm"
	"promptwizard/logging"
	"promptwizard/store"
	"promptwizard/webui"
	"promptwizard/webui/auth"
)

const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	// Service management subcommands (install/uninstall/...) on Windows.
	if HandleServiceCommand(os.Args) {
		return
	}
	if handled, err := RunAsService(); handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "service error: %v\n", err)
			os.Exit(exitError)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	os.Exit(run(ctx))
}

// run starts the application and blocks until ctx is cancelled or the
// server fails. Shared between foreground mode and the service wrapper.
func run(ctx context.Context) int {
	if err := godotenv.Load(); err != nil {
		// Logger isn't up yet.
		fmt.Printf("no .env file loaded: %v\n", err)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "logs/promptwizard.log"
	}

	logger, err := logging.NewLogger(isDevelopment, logFile)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := core.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		return exitError
	}

	if err := core.RunStartupChecks(ctx, cfg, os.Stdout); err != nil {
		logger.Error("startup validation failed", zap.Error(err))
		return exitError
	}

	logger.Info("configuration loaded",
		zap.String("addr", cfg.Addr()),
		zap.String("text_model", cfg.TextModel),
		zap.String("vision_model", cfg.VisionModel),
		zap.String("store", cfg.StoreOwner+"/"+cfg.StoreRepo),
		zap.Duration("ai_timeout", cfg.AITimeout),
		zap.Bool("dev_mode", isDevelopment),
	)

	chat := llm.New(llm.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		TextModel:   cfg.TextModel,
		VisionModel: cfg.VisionModel,
		Temperature: float32(cfg.Temperature),
	})

	contents := store.NewContentsClient(store.ContentsConfig{
		BaseURL: cfg.StoreBaseURL,
		Owner:   cfg.StoreOwner,
		Repo:    cfg.StoreRepo,
		Branch:  cfg.StoreBranch,
		Token:   cfg.StoreToken,
	})
	favorites := store.NewPromptStore(contents, cfg.PromptsPathPrefix, logger)
	accounts := store.NewAccountStore(contents, cfg.AccountsPath, logger)

	authCfg := auth.DefaultConfig()
	authCfg.SessionTTL = cfg.SessionTTL
	authCfg.TrustProxyHeaders = cfg.TrustProxyHeaders
	authMw := auth.NewMiddleware(accounts, authCfg, logger)
	authMw.Sessions().StartCleanupTicker(ctx, cfg.SessionTTL/4)

	serverCfg := webui.DefaultServerConfig()
	serverCfg.Addr = cfg.Addr()
	serverCfg.ReadTimeout = cfg.ReadTimeout
	serverCfg.WriteTimeout = cfg.WriteTimeout
	serverCfg.AITimeout = cfg.AITimeout
	serverCfg.MaxUploadBytes = cfg.MaxUploadBytes
	serverCfg.MaxImageEdge = cfg.MaxImageEdge

	server := webui.NewServer(serverCfg, chat, favorites, authMw, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
			return exitError
		}
		return exitSuccess
	case err := <-errChan:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			return exitError
		}
		return exitSuccess
	}
}
