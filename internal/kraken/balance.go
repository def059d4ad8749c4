package kraken

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ExtendedBalance is one asset's entry from the BalanceEx endpoint:
// total balance plus the amount held for open orders.
type ExtendedBalance struct {
	Balance   decimal.Decimal
	HoldTrade decimal.Decimal
}

// Balances calls the private Balance endpoint and returns all asset
// balances, keyed by Kraken asset code.
func (c *Client) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	raw, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/0/private/Balance"})
	if err != nil {
		return nil, err
	}

	var result map[string]string
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(result))
	for asset, amount := range result {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s balance", asset)
		}
		balances[asset] = d
	}
	return balances, nil
}

// ExtendedBalances calls the private BalanceEx endpoint, which also
// reports the amount of each asset held for open orders.
func (c *Client) ExtendedBalances(ctx context.Context) (map[string]ExtendedBalance, error) {
	raw, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/0/private/BalanceEx"})
	if err != nil {
		return nil, err
	}

	var result map[string]struct {
		Balance   string `json:"balance"`
		HoldTrade string `json:"hold_trade"`
	}
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}

	balances := make(map[string]ExtendedBalance, len(result))
	for asset, entry := range result {
		balance, err := decimal.NewFromString(entry.Balance)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s balance", asset)
		}
		hold := decimal.Zero
		if entry.HoldTrade != "" {
			hold, err = decimal.NewFromString(entry.HoldTrade)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s hold", asset)
			}
		}
		balances[asset] = ExtendedBalance{Balance: balance, HoldTrade: hold}
	}
	return balances, nil
}

// AssetBalance returns the balance for one asset code, falling back to
// altCode when the primary is absent. Kraken reports some currencies
// under two codes (USD.F vs ZUSD), so callers pass both.
func (c *Client) AssetBalance(ctx context.Context, code, altCode string) (decimal.Decimal, error) {
	balances, err := c.Balances(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if b, ok := balances[code]; ok {
		return b, nil
	}
	if altCode != "" {
		if b, ok := balances[altCode]; ok {
			return b, nil
		}
	}
	return decimal.Zero, errors.Errorf("no balance entry for %s", code)
}

// AssetCode converts common ticker symbols to Kraken's asset codes.
// Unrecognized symbols pass through uppercased, which is correct for
// most newer listings.
func AssetCode(symbol string) string {
	upper := strings.ToUpper(symbol)
	switch upper {
	case "BTC":
		return "XBT"
	case "DOGE":
		return "XDG"
	case "USD":
		return "ZUSD"
	case "EUR":
		return "ZEUR"
	case "GBP":
		return "ZGBP"
	case "JPY":
		return "ZJPY"
	default:
		return upper
	}
}
