// Package cli wires the rates loader, the converter and the calculator into
// cobra commands.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/robotomize/gorates"
	"github.com/robotomize/gorates/internal/config"
	"github.com/robotomize/gorates/internal/logging"
	"github.com/robotomize/gorates/provider"
	"github.com/robotomize/gorates/provider/httputil"
	"github.com/robotomize/gorates/provider/kamkom"
	"github.com/spf13/cobra"
)

// Loader loads a snapshot of the bank rates
type Loader interface {
	Load(ctx context.Context) (gorates.Snapshot, error)
}

// LoaderFactory builds a Loader from the effective configuration
type LoaderFactory func(cfg config.Config) (Loader, error)

type Option func(*app)

// WithLoaderFactory replaces the network loader
func WithLoaderFactory(f LoaderFactory) Option {
	return func(a *app) {
		a.newLoader = f
	}
}

type app struct {
	cfg       config.Config
	verbose   bool
	newLoader LoaderFactory
}

// NewRootCmd returns the gorates command tree. Flags default to cfg.
func NewRootCmd(cfg config.Config, opts ...Option) *cobra.Command {
	a := &app{cfg: cfg, newLoader: NewLoader}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "gorates",
		Short: "Bank currency rates, conversion and a safe calculator",
		Long: `gorates reads the published buy and sell rates of the bank branches,
converts amounts between foreign currencies and roubles and evaluates
arithmetic expressions. Without a subcommand it starts the interactive menu.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.NewLogger(cmd.ErrOrStderr(), a.verbose || a.cfg.Debug)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
		RunE: a.runMenu,
	}

	flags := rootCmd.PersistentFlags()
	flags.DurationVar(&a.cfg.Timeout, "timeout", cfg.Timeout, "timeout of a single page request")
	flags.Uint64Var(&a.cfg.Retries, "retries", cfg.Retries, "extra attempts per mirror on fetch errors")
	flags.StringVar(&a.cfg.Scope, "scope", cfg.Scope, "CSS selector limiting the parsed part of the page")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug records")

	rootCmd.AddCommand(
		a.menuCmd(),
		a.ratesCmd(),
		a.convertCmd(),
		calcCmd(),
	)

	return rootCmd
}

// NewLoader returns a loader over the bank mirrors configured by cfg
func NewLoader(cfg config.Config) (Loader, error) {
	client := httputil.DefaultSourceHTTPClient(
		httputil.WithUserAgent(cfg.UserAgent),
		httputil.WithCharset(cfg.Charset),
	)

	primary, err := mirrorURL(cfg.PrimaryURL, kamkom.PrimaryURL)
	if err != nil {
		return nil, fmt.Errorf("primary url: %w", err)
	}

	fallback, err := mirrorURL(cfg.FallbackURL, kamkom.FallbackURL)
	if err != nil {
		return nil, fmt.Errorf("fallback url: %w", err)
	}

	scope := kamkom.WithScope(cfg.Scope)

	return gorates.New(
		http.DefaultClient,
		gorates.WithSources(
			[]provider.Source{
				kamkom.NewSource(kamkom.NamePrimary, primary, client, scope),
				kamkom.NewSource(kamkom.NameFallback, fallback, client, scope),
			}...,
		),
		gorates.WithRequestTimeout(cfg.Timeout),
		gorates.WithRetryNum(cfg.Retries),
		gorates.WithRetryDuration(positive(cfg.RetryDuration, config.DefaultRetryDuration)),
	), nil
}

func mirrorURL(raw string, fallback url.URL) (url.URL, error) {
	if raw == "" {
		return fallback, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("url.Parse: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return url.URL{}, fmt.Errorf("%q is not an absolute url", raw)
	}

	return *u, nil
}

func positive(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func (a *app) load(ctx context.Context) (gorates.Snapshot, error) {
	loader, err := a.newLoader(a.cfg)
	if err != nil {
		return gorates.Snapshot{}, fmt.Errorf("configure loader: %w", err)
	}

	snapshot, err := loader.Load(ctx)
	if err != nil {
		return gorates.Snapshot{}, fmt.Errorf("load rates: %w", err)
	}

	return snapshot, nil
}
