// Package cli implements the cfkit command-line interface.
package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cfkit/cfkit/pkg/buildinfo"
	"github.com/cfkit/cfkit/pkg/cache"
	"github.com/cfkit/cfkit/pkg/cloudflare"
	"github.com/cfkit/cfkit/pkg/config"
	"github.com/cfkit/cfkit/pkg/schema"
)

// appName is the application name used for directories and display.
const appName = "cfkit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg     *config.Config
	noCache bool
}

// New creates a new CLI instance with a default logger.
func New(w *os.File, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cfkit explores and calls the Cloudflare API",
		Long: `cfkit is a CLI companion for the Cloudflare v4 REST API.

It keeps a local cache of the provider's OpenAPI schema for offline
endpoint discovery (search, get, list, info) and issues authenticated
API calls using credentials from the environment.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err == nil {
				if c.cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the schema cache")

	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.apiCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache creates the cache backend selected by flags and config.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr)
	}
	dir := c.cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore creates the schema store on top of the configured cache.
func (c *CLI) newStore(ctx context.Context) (*schema.Store, cache.Cache, error) {
	backend, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	ttl := time.Duration(c.cfg.Cache.TTLHours) * time.Hour
	return schema.NewStore(backend, c.cfg.SchemaURL, ttl, c.Logger), backend, nil
}

// newAPIClient creates the authenticated API client.
func (c *CLI) newAPIClient() *cloudflare.Client {
	baseURL := c.cfg.BaseURL
	if env := os.Getenv(cloudflare.EnvBaseURL); env != "" {
		baseURL = env
	}
	timeout := time.Duration(c.cfg.API.TimeoutSeconds) * time.Second
	return cloudflare.NewClient(baseURL, cloudflare.CredentialsFromEnv(), timeout, c.Logger)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cfkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
