package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/aescanero/dago-template/internal/config"
	"github.com/aescanero/dago-template/internal/layout"
	"github.com/aescanero/dago-template/internal/server"
	"github.com/aescanero/dago-template/pkg/metrics"
	"github.com/aescanero/dago-template/pkg/redisstore"
	"github.com/aescanero/dago-template/pkg/template"
	"github.com/aescanero/dago-template/pkg/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

const usage = `usage:
  tmplrender <source> [context-file]   render a template to stdout
  tmplrender serve                     serve stored templates over HTTP

<source> is an http(s) URL, redis:<id> or a file path.
[context-file] is a JSON or YAML object used as variables.`

// redisPrefix selects a template stored in Redis
const redisPrefix = "redis:"

func main() {
	args := os.Args[1:]
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("configuration loaded",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("config", cfg.String()),
	)

	if args[0] == "serve" {
		err = serve(cfg, logger)
	} else if len(args) > 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	} else {
		contextFile := ""
		if len(args) == 2 {
			contextFile = args[1]
		}
		err = render(cfg, logger, args[0], contextFile)
	}

	if err != nil {
		logger.Error("tmplrender failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// render renders a single template to stdout
func render(cfg *config.Config, logger *zap.Logger, source, contextFile string) error {
	vars, err := loadContext(contextFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	opts := []template.Option{
		template.WithLogger(logger),
		template.WithMaxBytes(cfg.MaxTemplateBytes),
	}

	tmpl, err := loadTemplate(ctx, cfg, logger, source, opts)
	if err != nil {
		return err
	}
	if cfg.ExternalIncludeURL != "" {
		tmpl.SetExternalIncludeURL(cfg.ExternalIncludeURL)
	}
	if err := addPredicates(cfg, tmpl); err != nil {
		return err
	}
	tmpl.SetVariables(vars)
	tmpl.SetEventHandlers(logHandlers(logger))

	out, err := tmpl.RenderMarkup()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", source, err)
	}

	if cfg.OutputLayout != "" {
		out, err = applyLayout(cfg.OutputLayout, layout.Page{
			Content:   out,
			Source:    source,
			Variables: vars,
		})
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(os.Stdout, out)
	return err
}

// loadTemplate creates a template from a URL, a Redis id or a file
func loadTemplate(ctx context.Context, cfg *config.Config, logger *zap.Logger, source string, opts []template.Option) (*template.Template, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return template.FromURL(ctx, source, opts...)

	case strings.HasPrefix(source, redisPrefix):
		if !cfg.RedisEnabled() {
			return nil, fmt.Errorf("REDIS_ADDR is required for %s", source)
		}
		client, err := connectRedis(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		defer client.Close()

		doc, err := redisstore.New(client, cfg.RedisKeyPrefix, logger).Load(ctx)
		if err != nil {
			return nil, err
		}
		return template.FromStore(doc, strings.TrimPrefix(source, redisPrefix), opts...)

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}
		if int64(len(data)) > cfg.MaxTemplateBytes {
			return nil, fmt.Errorf("template %s exceeds %d bytes", source, cfg.MaxTemplateBytes)
		}
		return template.FromMarkup(string(data), opts...)
	}
}

// loadContext reads the variables of a render from a JSON or YAML file
func loadContext(path string) (map[string]any, error) {
	vars := map[string]any{}
	if path == "" {
		return vars, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("failed to parse context: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("failed to parse context: %w", err)
		}
	}
	if vars == nil {
		vars = map[string]any{}
	}
	return vars, nil
}

// addPredicates registers the configured CEL predicates in name order
func addPredicates(cfg *config.Config, tmpl *template.Template) error {
	predicates, err := cfg.Predicates()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := tmpl.AddCELTest(name, predicates[name]); err != nil {
			return fmt.Errorf("failed to add predicate %s: %w", name, err)
		}
	}
	return nil
}

// logHandlers is the "log" handler group, which logs common UI events
func logHandlers(logger *zap.Logger) template.HandlerGroups {
	handler := func(ev tree.Event) {
		logger.Info("event dispatched",
			zap.String("kind", ev.Kind),
			zap.String("tag", ev.Target.Tag),
		)
	}
	return template.HandlerGroups{
		"log": {
			"click":  handler,
			"input":  handler,
			"change": handler,
			"submit": handler,
		},
	}
}

// applyLayout wraps rendered markup in the layout file at path
func applyLayout(path string, page layout.Page) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read layout: %w", err)
	}
	return layout.NewEngine().Render(string(data), page)
}

// serve renders templates stored in Redis over HTTP until interrupted
func serve(cfg *config.Config, logger *zap.Logger) error {
	if !cfg.RedisEnabled() {
		return fmt.Errorf("REDIS_ADDR is required in serve mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := connectRedis(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	predicates, err := cfg.Predicates()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	srv := server.New(server.Config{
		Port:        cfg.HTTPPort,
		Predicates:  predicates,
		Gatherer:    registry,
		RedisClient: client,
		TemplateOptions: []template.Option{
			template.WithLogger(logger),
			template.WithMetrics(recorder),
		},
	}, redisstore.New(client, cfg.RedisKeyPrefix, logger), logger)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("tmplrender serving, press Ctrl+C to stop", zap.Int("port", cfg.HTTPPort))
	<-sigChan

	logger.Info("shutdown signal received, stopping server")
	return srv.Stop()
}

// connectRedis creates a Redis client and checks the connection
func connectRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Debug("connected to redis", zap.String("addr", cfg.RedisAddr))
	return client, nil
}

// initLogger initializes the logger. Logs go to stderr so stdout only
// carries rendered markup.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
