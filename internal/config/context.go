// Package config holds the runtime shared by birdprep commands for one
// invocation.
package config

import (
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/hedgerow-pam/birdprep/internal/buildinfo"
	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/logger"
)

// Context is created once in main and handed to every command
// constructor. Settings is filled in by the root command before any
// subcommand runs.
type Context struct {
	Settings *conf.Settings
	Viper    *viper.Viper
	Fs       afero.Fs
	Log      logger.Logger
	In       io.Reader
	Out      io.Writer
	Build    *buildinfo.Context

	closer io.Closer
}

// NewContext returns a context bound to the OS filesystem and standard
// streams.
func NewContext() *Context {
	return &Context{
		Settings: &conf.Settings{},
		Viper:    conf.NewViper(),
		Fs:       afero.NewOsFs(),
		Log:      logger.Discard(),
		In:       os.Stdin,
		Out:      os.Stdout,
	}
}

// Paths returns the configured directories resolved against the data root.
func (c *Context) Paths() conf.Paths {
	return c.Settings.Paths.Resolve()
}

// Logger returns the context logger scoped to module.
func (c *Context) Logger(module string) logger.Logger {
	return logger.OrDiscard(c.Log).Module(module)
}

// InitLogging replaces Log according to the settings: JSON to the
// configured file, or text on stderr. Debug forces the debug level.
func (c *Context) InitLogging() error {
	level := logger.ParseLevel(c.Settings.Log.Level)
	if c.Settings.Debug {
		level = logger.LogLevelDebug
	}

	if c.Settings.Log.File != "" {
		fileLogger, err := logger.NewSlogLoggerWithFile(c.Settings.Log.File, level, time.Local)
		if err != nil {
			return err
		}
		c.Log = fileLogger.Module("birdprep")
		c.closer = fileLogger
		return nil
	}

	c.Log = logger.NewConsoleLogger("birdprep", level)
	return nil
}

// Close flushes and closes the log file, if any.
func (c *Context) Close() error {
	if c.Log != nil {
		_ = c.Log.Flush()
	}
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}
