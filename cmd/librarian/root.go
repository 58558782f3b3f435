package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"librarian/pkg/config"
	"librarian/pkg/librarian"
	"librarian/pkg/logger"
	"librarian/pkg/ratelimit"
	"librarian/pkg/wikipedia"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string

	// Populated by PersistentPreRunE for all commands
	cfg *config.Config
	log logger.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Wikipedia lookup tools for LLM agents",
	Long: `Librarian exposes Wikipedia search, summaries, page information and
sectioned content as tools and resources an LLM agent can consume.

All outbound Wikipedia API calls are protected by a token bucket rate
limiter configured from the environment or a config file.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		log, err = logger.New(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.SetLogger(log)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .librarian.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// newLimiter builds the process-wide token bucket from configuration
func newLimiter() (ratelimit.Limiter, error) {
	strategy, err := ratelimit.ParseStrategy(cfg.RateLimit.Strategy)
	if err != nil {
		return nil, err
	}
	return ratelimit.New(ratelimit.Config{
		Capacity:   cfg.RateLimit.Capacity,
		RefillRate: cfg.RateLimit.RefillRate,
		Strategy:   strategy,
		MaxWait:    cfg.RateLimit.MaxWait,
	})
}

// newClientFactory returns a per-language client cache sharing one limiter,
// so the outbound request budget applies process-wide.
func newClientFactory(limiter ratelimit.Limiter) librarian.ClientFactory {
	var mu sync.Mutex
	clients := make(map[string]*wikipedia.Client)

	return func(language string) *wikipedia.Client {
		if language == "" {
			language = cfg.Wikipedia.Language
		}

		mu.Lock()
		defer mu.Unlock()

		if client, ok := clients[language]; ok {
			return client
		}
		client := wikipedia.NewClient(language, limiter, cfg.Wikipedia.RequestTimeout, log)
		client.SetUserAgent(cfg.Wikipedia.UserAgent)
		client.SetMaxRetries(cfg.Wikipedia.MaxRetries)
		clients[language] = client
		return client
	}
}

// buildRegistry wires the Wikipedia tools and resources
func buildRegistry() (*librarian.Registry, error) {
	limiter, err := newLimiter()
	if err != nil {
		return nil, err
	}

	registry := librarian.NewRegistry(log)
	if err := librarian.RegisterWikipediaTools(registry, newClientFactory(limiter)); err != nil {
		return nil, err
	}
	if err := librarian.RegisterWikipediaResources(registry); err != nil {
		return nil, err
	}
	if err := librarian.RegisterPromptResources(registry); err != nil {
		return nil, err
	}
	return registry, nil
}
