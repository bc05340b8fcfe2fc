// Package container provides dependency injection for the receipt-parser
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"uzpay/receipt-parser/internal/config"
	"uzpay/receipt-parser/internal/extractor"
	"uzpay/receipt-parser/internal/fallback"
	"uzpay/receipt-parser/internal/logging"
	"uzpay/receipt-parser/internal/pipeline"
	"uzpay/receipt-parser/internal/resolver"
)

// Container holds all application dependencies. It is immutable after
// creation; components are reached through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    *resolver.YAMLRuleStore
	resolver *resolver.Resolver
	aiClient fallback.Client
	pipeline *pipeline.Pipeline
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Logger first, everything else logs through it.
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("could not resolve timezone: %w", err)
	}

	ruleStore := resolver.NewYAMLRuleStore(cfg.Rules.File, logger)
	res, err := resolver.New(ruleStore, logger)
	if err != nil {
		return nil, fmt.Errorf("could not load mapping rules: %w", err)
	}

	var aiClient fallback.Client
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		client, err := fallback.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("could not create AI client: %w", err)
		}
		aiClient = client
		logger.Info("AI fallback extraction enabled",
			logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		logger.Info("AI fallback extraction disabled")
	}

	cascade := extractor.NewCascade(loc, logger)
	adapter := fallback.NewAdapter(aiClient, loc,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second, logger)
	pipe := pipeline.New(cascade, adapter, res, cfg.Parser.ConfidenceThreshold, logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: "timezone", Value: cfg.Parser.Timezone},
		logging.Field{Key: "threshold", Value: cfg.Parser.ConfidenceThreshold})

	return &Container{
		logger:   logger,
		config:   cfg,
		store:    ruleStore,
		resolver: res,
		aiClient: aiClient,
		pipeline: pipe,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetPipeline returns the fully wired parsing pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetResolver returns the counterparty resolver.
func (c *Container) GetResolver() *resolver.Resolver {
	return c.resolver
}

// GetRuleStore returns the mapping rule store.
func (c *Container) GetRuleStore() *resolver.YAMLRuleStore {
	return c.store
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if closer, ok := c.aiClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	c.logger.Info("Container closed")
	return nil
}
