// Package app wires configuration, the WhatsApp transport, the bot
// processor and the admin HTTP server into a single application with
// a graceful lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cursosjujuy/camila/internal/bot"
	"github.com/cursosjujuy/camila/internal/buildinfo"
	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/config"
	"github.com/cursosjujuy/camila/internal/ctxutil"
	"github.com/cursosjujuy/camila/internal/genai"
	"github.com/cursosjujuy/camila/internal/logger"
	"github.com/cursosjujuy/camila/internal/metrics"
	"github.com/cursosjujuy/camila/internal/ratelimit"
	"github.com/cursosjujuy/camila/internal/sentry"
	"github.com/cursosjujuy/camila/internal/session"
	"github.com/cursosjujuy/camila/internal/wa"
)

// Application holds all components and manages their lifecycle.
type Application struct {
	cfg        *config.Config
	logger     *logger.Logger
	catalog    *catalog.Catalog
	sessions   *session.Store
	responder  genai.Responder
	llmLimiter *ratelimit.LLMRateLimiter
	processor  *bot.Processor
	waClient   *wa.Client
	metrics    *metrics.Metrics
	registry   *prometheus.Registry
	server     *http.Server
	wg         sync.WaitGroup
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(logger.Options{
		Level:               cfg.LogLevel,
		BetterstackToken:    cfg.BetterStackToken,
		BetterstackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "camila")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Set as default logger so package-level slog.*Context() calls pick
	// up chat and message IDs via ContextHandler.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Warn("Error tracking initialization failed")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		// The bot still answers with the fixed replies and the LLM
		// fallback stays off-topic-safe, so this is not fatal.
		log.WithError(err).WithField("path", cfg.CatalogPath).
			Warn("Catalog load failed, running with empty catalog")
	} else {
		log.WithField("courses", cat.Len()).
			WithField("localities", len(cat.Localities())).
			Info("Catalog loaded")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)
	m.SetCatalogCourses(cat.Len())

	sessions := session.NewStore()

	responder, err := genai.New(ctx, genai.Config{
		Provider:    genai.Provider(cfg.LLMProvider),
		APIKey:      cfg.SelectedAPIKey(),
		Model:       cfg.LLMModel,
		CatalogJSON: cat.Raw(),
		Temperature: cfg.LLMTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm responder: %w", err)
	}
	if responder != nil {
		log.WithField("provider", responder.Provider().String()).
			WithField("model", cfg.LLMModel).Info("LLM fallback enabled")
	} else {
		log.Info("LLM fallback disabled, no API key configured")
	}

	llmLimiter := ratelimit.NewLLMRateLimiter(
		float64(cfg.LLMMaxPerHour), config.RateLimiterCleanupInterval, m)

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Registry:       bot.NewDefaultRegistry(cat),
		Catalog:        cat,
		Sessions:       sessions,
		Responder:      responder,
		LLMRateLimiter: llmLimiter,
		Logger:         log,
		Metrics:        m,
		LLMTimeout:     cfg.LLMTimeout,
	})

	app := &Application{
		cfg:        cfg,
		logger:     log,
		catalog:    cat,
		sessions:   sessions,
		responder:  responder,
		llmLimiter: llmLimiter,
		processor:  processor,
		metrics:    m,
		registry:   registry,
	}

	app.waClient = wa.NewClient(wa.Config{
		DBPath:     cfg.WhatsAppDBPath(),
		DeviceName: cfg.DeviceName,
	}, app.handleIncoming, log, m)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	router.GET("/", app.serviceInfo)
	router.GET("/livez", app.livenessCheck)
	router.HEAD("/livez", app.livenessCheck)
	router.GET("/readyz", app.readinessCheck)
	router.HEAD("/readyz", app.readinessCheck)
	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: config.HTTPRead,
		ReadTimeout:       config.HTTPRead,
		WriteTimeout:      config.HTTPWrite,
		IdleTimeout:       config.HTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// handleIncoming is the WhatsApp message callback. It runs one
// conversation turn and sends the reply back on the same chat.
func (a *Application) handleIncoming(ctx context.Context, chatID, messageID, text string) {
	reply := a.processor.Process(ctx, chatID, text)
	if reply == "" {
		return
	}

	// Detach from the connection context so an in-flight reply still
	// goes out when the client starts tearing down, but keep the chat
	// and message IDs for log correlation.
	sendCtx, cancel := context.WithTimeout(ctxutil.PreserveTracing(ctx), config.MessageSend)
	defer cancel()

	if err := a.waClient.Send(sendCtx, chatID, reply); err != nil {
		a.logger.WithError(err).WithField("chat_id", chatID).
			WithField("message_id", messageID).Error("Failed to send reply")
		sentry.CaptureExceptionWithContext(ctx, err)
	}
}

func (a *Application) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "camila",
		"version": buildinfo.Version,
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) getFeatures() map[string]bool {
	return map[string]bool{
		"llm_fallback": a.responder != nil && a.responder.IsEnabled(),
	}
}

func (a *Application) readinessCheck(c *gin.Context) {
	if !a.waClient.IsConnected() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "whatsapp disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"whatsapp": "connected",
		"catalog":  gin.H{"courses": a.catalog.Len()},
		"sessions": a.sessions.Count(),
		"features": a.getFeatures(),
	})
}

// Run connects to WhatsApp, starts the HTTP server and background
// jobs, then blocks until SIGINT/SIGTERM.
//
// Graceful shutdown sequence:
//  1. Cancel context to signal background jobs to stop
//  2. Wait for background jobs to complete
//  3. Close resources in order (HTTP server, WhatsApp client, LLM
//     responder, rate limiter, logger)
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.waClient.Connect(ctx); err != nil {
		return fmt.Errorf("whatsapp: %w", err)
	}

	a.startBackgroundJobs(ctx)
	a.startHTTPServer()

	sig := a.waitForShutdownSignal()
	a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	cancel()

	a.logger.Info("Waiting for background jobs to finish...")
	start := time.Now()
	a.wg.Wait()
	a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("All background jobs completed")

	return a.shutdown()
}

// startBackgroundJobs starts all background goroutines tracked by WaitGroup.
func (a *Application) startBackgroundJobs(ctx context.Context) {
	a.wg.Go(func() {
		a.sweepSessions(ctx)
	})
	a.wg.Go(func() {
		a.logUsage(ctx)
	})
}

// startHTTPServer starts the HTTP server in a goroutine.
func (a *Application) startHTTPServer() {
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server error")
		}
	}()
}

// waitForShutdownSignal blocks until SIGINT/SIGTERM is received.
func (a *Application) waitForShutdownSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

// shutdown performs graceful shutdown of the HTTP server and resources.
// It must be called after background jobs have stopped.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Closing resources...")

	a.waClient.Disconnect()

	if a.responder != nil {
		if err := a.responder.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "llm_responder").Error("Component close error")
		}
	}

	if a.llmLimiter != nil {
		a.llmLimiter.Stop()
	}

	sentry.Flush(config.GracefulShutdown / 2)

	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}

	a.logger.Info("Shutdown complete")
	return nil
}
