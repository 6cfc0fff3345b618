package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tunebridge/internal/config"
	"tunebridge/internal/library"
	"tunebridge/internal/logging"
	"tunebridge/internal/runlock"
	"tunebridge/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	runID      string
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// ensureLogger builds the run logger once and prunes expired run logs.
func (c *commandContext) ensureLogger() (*slog.Logger, string, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.runID = uuid.NewString()
		logger, err := logging.NewFromConfig(cfg, c.runID)
		if err != nil {
			c.loggerErr = err
			return
		}
		logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays,
			logging.RunLogPath(cfg.Paths.LogDir, c.runID))
		c.logger = logger
	})
	return c.logger, c.runID, c.loggerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// exitHint suggests a next step for the error that ended the command.
func exitHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, runlock.ErrLocked):
		return "wait for the other conversion to finish"
	case errors.Is(err, library.ErrEmptyInput), errors.Is(err, library.ErrStructural),
		errors.Is(err, library.ErrNotFound), errors.Is(err, library.ErrNoTracks):
		return services.ClassUser.Hint()
	case errors.Is(err, services.ErrConfiguration), errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrExternalTool),
		errors.Is(err, services.ErrTransient), errors.Is(err, services.ErrTimeout):
		return services.Classify(err).Hint()
	default:
		return ""
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
