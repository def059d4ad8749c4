package main

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tradeforge/go-kraken/internal/auth"
	"github.com/tradeforge/go-kraken/internal/config"
	"github.com/tradeforge/go-kraken/internal/kraken"
	"github.com/tradeforge/go-kraken/internal/notify"
)

// app holds the state shared by all subcommands, resolved once in the
// root command's PersistentPreRunE.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	baseURL string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "krakenctl",
		Short:        "Query balances, market data and orders on the Kraken exchange",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			a.cfg = cfg

			if a.baseURL == "" {
				a.baseURL = cfg.BaseURL
			}
			if a.timeout == 0 {
				a.timeout = cfg.HTTPTimeout
			}

			level := zerolog.InfoLevel
			if cfg.LogLevel != "" {
				level, err = zerolog.ParseLevel(cfg.LogLevel)
				if err != nil {
					return errors.Wrapf(err, "parsing %s", config.EnvLogLevel)
				}
			}
			if a.verbose {
				level = zerolog.DebugLevel
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).With().Timestamp().Logger()
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL (default "+kraken.DefaultBaseURL+")")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "HTTP timeout (overrides "+config.EnvHTTPTimeout+")")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newBalanceCmd(a),
		newTickerCmd(a),
		newOHLCCmd(a),
		newOrderCmd(a),
	)
	return cmd
}

// newClient builds the API client. Credentials are attached when
// configured; requireAuth makes their absence an error instead of a
// public-only client.
func (a *app) newClient(requireAuth bool) (*kraken.Client, error) {
	cfg := kraken.Config{
		BaseURL:    a.baseURL,
		HTTPClient: &http.Client{Timeout: a.timeout},
		Logger:     &a.log,
	}

	if a.cfg.HasCredentials() {
		creds, err := auth.NewCredentials(a.cfg.APIKey, a.cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		cfg.Credentials = creds
		// Fingerprint only; the key itself stays out of logs.
		a.log.Debug().Str("api_key", auth.Fingerprint(a.cfg.APIKey)).Msg("using API credentials")
	} else if requireAuth {
		return nil, errors.Errorf("%s and %s must be set", config.EnvAPIKey, config.EnvPrivateKey)
	}

	return kraken.New(cfg), nil
}

func (a *app) notifier() *notify.Slack {
	return notify.NewSlack(a.cfg.SlackWebhook)
}
