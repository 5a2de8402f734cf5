package main

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/handiism/music-manager/internal/config"
	"github.com/handiism/music-manager/internal/logging"
	"github.com/handiism/music-manager/internal/rules"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	logFileFlag  *string

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error

	logger *log.Logger
	closer io.Closer
}

func newCommandContext(configFlag, logLevelFlag, logFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		logFileFlag:  logFileFlag,
	}
}

// ensureSettings loads the settings file once and applies the persistent
// logging flags on top of it.
func (c *commandContext) ensureSettings(cmd *cobra.Command) (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		path := config.DefaultPath()
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		settings, err := config.Load(path)
		if err != nil {
			c.settingsErr = err
			return
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			settings.LogLevel = strings.ToLower(*c.logLevelFlag)
		}
		if flags.Changed("log-file") {
			if settings.LogFile, err = config.ExpandPath(*c.logFileFlag); err != nil {
				c.settingsErr = err
				return
			}
		}
		if err := settings.Validate(); err != nil {
			c.settingsErr = err
			return
		}
		c.settings = settings
	})
	return c.settings, c.settingsErr
}

// ensureLogger builds the logger on first use. Console output goes to the
// command's error stream.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*log.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	settings, err := c.ensureSettings(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(logging.Options{
		Level:   settings.LogLevel,
		File:    settings.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	c.logger, c.closer = logger, closer
	return logger, nil
}

// loadRules reads the rules file given on the command line, then the one in
// the settings, and falls back to the built-in rules.
func (c *commandContext) loadRules(cmd *cobra.Command, path string) (*rules.Set, error) {
	if path == "" {
		settings, err := c.ensureSettings(cmd)
		if err != nil {
			return nil, err
		}
		path = settings.RulesFile
	}
	if path == "" {
		return rules.Default()
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return rules.LoadFile(path)
}

func (c *commandContext) close() {
	if c.closer != nil {
		_ = c.closer.Close()
		c.closer = nil
	}
}
