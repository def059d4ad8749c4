package main

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tradeforge/go-kraken/internal/kraken"
)

func newBalanceCmd(a *app) *cobra.Command {
	var (
		asset    string
		extended bool
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show account balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient(true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if extended {
				balances, err := client.ExtendedBalances(ctx)
				if err != nil {
					return err
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.AppendHeader(table.Row{"Asset", "Balance", "Hold"})
				for _, code := range sortedKeys(balances) {
					if asset != "" && code != kraken.AssetCode(asset) && code != asset {
						continue
					}
					entry := balances[code]
					tw.AppendRow(table.Row{code, entry.Balance.String(), entry.HoldTrade.String()})
				}
				tw.Render()
				return nil
			}

			balances, err := client.Balances(ctx)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Asset", "Balance"})
			for _, code := range sortedKeys(balances) {
				if asset != "" && code != kraken.AssetCode(asset) && code != asset {
					continue
				}
				tw.AppendRow(table.Row{code, balances[code].String()})
			}
			tw.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "show only this asset (symbol or Kraken code)")
	cmd.Flags().BoolVar(&extended, "extended", false, "include amounts held for open orders (BalanceEx)")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
