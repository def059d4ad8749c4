package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTickerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ticker PAIR",
		Short: "Show the current ticker for a trading pair (e.g. XBT/USD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient(false)
			if err != nil {
				return err
			}

			info, err := client.Ticker(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Pair", "Bid", "Ask", "Spread", "Spread %", "24h High", "24h Low", "24h Volume"})
			tw.AppendRow(table.Row{
				info.Pair,
				info.Bid.String(),
				info.Ask.String(),
				info.Spread.String(),
				info.SpreadPercent().Round(4).String(),
				info.High.String(),
				info.Low.String(),
				info.Volume24h.String(),
			})
			tw.Render()
			return nil
		},
	}
}
