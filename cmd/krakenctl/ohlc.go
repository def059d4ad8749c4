package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tradeforge/go-kraken/internal/kraken"
)

const maxPriceChangeWindow = 8 * time.Hour

func newOHLCCmd(a *app) *cobra.Command {
	var (
		interval int
		window   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ohlc PAIR",
		Short: "Show recent price movement for a trading pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient(false)
			if err != nil {
				return err
			}

			if window > maxPriceChangeWindow {
				window = maxPriceChangeWindow
				a.log.Warn().Dur("window", window).Msg("window capped")
			}

			candles, err := client.OHLC(cmd.Context(), args[0], interval)
			if err != nil {
				return err
			}
			if len(candles) == 0 {
				return errors.New("no OHLC data returned")
			}

			change, err := kraken.PriceChange(candles, window)
			if err != nil {
				return err
			}

			latest := candles[len(candles)-1]
			cmd.Printf("Current price: %s (at %s)\n", latest.Close.String(), latest.Time.Format(time.RFC3339))
			cmd.Printf("Change over %s: %s%%\n", window, change.Round(2).String())
			return nil
		},
	}

	cmd.Flags().IntVar(&interval, "interval", 1, "candle width in minutes (1, 5, 15, 30, 60, 240, 1440)")
	cmd.Flags().DurationVar(&window, "window", 4*time.Hour, "price change window (max 8h)")
	return cmd
}
