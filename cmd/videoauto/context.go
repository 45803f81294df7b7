package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"videoauto/internal/config"
	"videoauto/internal/logging"
	"videoauto/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logLevel resolves the effective log level, letting the --log-level flag
// override the configured value.
func (c *commandContext) logLevel(cfg *config.Config) string {
	if c.logLevelFlag != nil {
		if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
			return level
		}
	}
	if cfg != nil {
		return cfg.Logging.Level
	}
	return "info"
}

// newLogger builds the run logger on stderr so command output on stdout
// stays machine-readable. The returned cleanup must run before exit.
func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	format := "console"
	if cfg != nil && cfg.Logging.Format != "" {
		format = cfg.Logging.Format
	}
	return logging.New(logging.Options{
		Level:       c.logLevel(cfg),
		Format:      format,
		OutputPaths: []string{"stderr"},
	})
}

// newRunContext tags the command context with a fresh run identifier so
// log records from one invocation correlate. The identifier is returned
// alongside the context for callers that stamp it onto their logger.
func newRunContext(cmd *cobra.Command) (context.Context, string) {
	id := uuid.NewString()
	return services.WithRunID(cmd.Context(), id), id
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
