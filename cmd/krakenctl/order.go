package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tradeforge/go-kraken/internal/kraken"
)

func newOrderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place, list and cancel orders",
	}
	cmd.AddCommand(newOrderAddCmd(a), newOrderListCmd(a), newOrderCancelCmd(a))
	return cmd
}

func newOrderAddCmd(a *app) *cobra.Command {
	var (
		pair   string
		side   string
		price  string
		volume string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Place a limit order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient(true)
			if err != nil {
				return err
			}

			priceDec, err := decimal.NewFromString(price)
			if err != nil {
				return errors.Wrap(err, "parsing --price")
			}
			volumeDec, err := decimal.NewFromString(volume)
			if err != nil {
				return errors.Wrap(err, "parsing --volume")
			}

			ctx := cmd.Context()
			txid, err := client.AddOrder(ctx, kraken.OrderSpec{
				Pair:   pair,
				Side:   kraken.OrderSide(side),
				Price:  priceDec,
				Volume: volumeDec,
			})
			if err != nil {
				return err
			}

			a.log.Info().Str("txid", txid).Str("pair", pair).Str("side", side).Msg("order placed")
			cmd.Println(txid)

			if slack := a.notifier(); slack.Enabled() {
				msg := fmt.Sprintf("Placed %s order for %s: %s @ %s (txid %s)",
					side, pair, volume, price, txid)
				if err := slack.Send(ctx, msg); err != nil {
					a.log.Warn().Err(err).Msg("slack notification failed")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "trading pair (e.g. XBT/USD)")
	cmd.Flags().StringVar(&side, "side", "", "buy or sell")
	cmd.Flags().StringVar(&price, "price", "", "limit price")
	cmd.Flags().StringVar(&volume, "volume", "", "order volume in the base asset")
	for _, f := range []string{"pair", "side", "price", "volume"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newOrderListCmd(a *app) *cobra.Command {
	var pair string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient(true)
			if err != nil {
				return err
			}

			open, err := client.OpenOrders(cmd.Context(), pair)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"TxID", "Pair", "Side", "Price", "Volume", "Executed", "Status"})
			for _, txid := range sortedKeys(open) {
				order := open[txid]
				tw.AppendRow(table.Row{
					txid,
					order.Descr.Pair,
					order.Descr.Type,
					order.Descr.Price,
					order.Vol,
					order.VolExec,
					order.Status,
				})
			}
			tw.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "filter by trading pair")
	return cmd
}

func newOrderCancelCmd(a *app) *cobra.Command {
	var (
		all  bool
		pair string
	)

	cmd := &cobra.Command{
		Use:   "cancel [TXID]",
		Short: "Cancel an order by transaction ID, or all open orders with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("pass exactly one of TXID or --all")
			}

			client, err := a.newClient(true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if all {
				count, err := client.CancelAll(ctx, pair)
				if err != nil {
					return err
				}
				a.log.Info().Int("count", count).Msg("orders cancelled")
				return nil
			}

			if err := client.CancelOrder(ctx, args[0]); err != nil {
				return err
			}
			a.log.Info().Str("txid", args[0]).Msg("order cancelled")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "cancel every open order")
	cmd.Flags().StringVar(&pair, "pair", "", "restrict --all to one trading pair")
	return cmd
}
