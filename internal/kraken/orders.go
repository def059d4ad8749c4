package kraken

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// OrderSpec describes a limit order to place.
type OrderSpec struct {
	Pair   string
	Side   OrderSide
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// OrderInfo is the status of an order as reported by the exchange.
// Status values: open, closed, canceled, expired, pending, rejected.
type OrderInfo struct {
	Status string `json:"status"`
	Descr  struct {
		Order string `json:"order"`
		Type  string `json:"type"`
		Price string `json:"price"`
		Pair  string `json:"pair"`
	} `json:"descr"`
	Vol     string `json:"vol"`
	VolExec string `json:"vol_exec"`
	Cost    string `json:"cost"`
	Fee     string `json:"fee"`
}

// AddOrder places a limit order and returns its transaction ID.
func (c *Client) AddOrder(ctx context.Context, spec OrderSpec) (string, error) {
	if spec.Side != SideBuy && spec.Side != SideSell {
		return "", errors.Errorf("invalid order side %q", spec.Side)
	}
	if spec.Pair == "" {
		return "", errors.New("order pair is required")
	}
	if !spec.Price.IsPositive() || !spec.Volume.IsPositive() {
		return "", errors.New("order price and volume must be positive")
	}

	raw, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/0/private/AddOrder",
		Body: map[string]any{
			"ordertype": "limit",
			"type":      string(spec.Side),
			"pair":      spec.Pair,
			"price":     spec.Price.String(),
			"volume":    spec.Volume.String(),
		},
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Descr struct {
			Order string `json:"order"`
		} `json:"descr"`
		Txid []string `json:"txid"`
	}
	if err := decodeResult(raw, &result); err != nil {
		return "", err
	}
	if len(result.Txid) == 0 {
		return "", errors.New("no transaction ID returned")
	}
	return result.Txid[0], nil
}

// OpenOrders returns open orders keyed by transaction ID, optionally
// filtered to one pair.
func (c *Client) OpenOrders(ctx context.Context, pair string) (map[string]OrderInfo, error) {
	raw, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/0/private/OpenOrders"})
	if err != nil {
		return nil, err
	}

	var result struct {
		Open map[string]OrderInfo `json:"open"`
	}
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	if pair == "" {
		return result.Open, nil
	}

	filtered := make(map[string]OrderInfo)
	for txid, order := range result.Open {
		if order.Descr.Pair == pair {
			filtered[txid] = order
		}
	}
	return filtered, nil
}

// QueryOrder fetches the status of one order by transaction ID.
func (c *Client) QueryOrder(ctx context.Context, txid string) (*OrderInfo, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/0/private/QueryOrders",
		Body:   map[string]any{"txid": txid},
	})
	if err != nil {
		return nil, err
	}

	var result map[string]OrderInfo
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}
	order, ok := result[txid]
	if !ok {
		return nil, errors.Errorf("order %s not found", txid)
	}
	return &order, nil
}

// EditOrder amends an open order's price and volume. Returns the new
// transaction ID the exchange assigns to the amended order.
func (c *Client) EditOrder(ctx context.Context, txid, pair string, price, volume decimal.Decimal) (string, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/0/private/EditOrder",
		Body: map[string]any{
			"txid":   txid,
			"pair":   pair,
			"price":  price.String(),
			"volume": volume.String(),
		},
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Txid string `json:"txid"`
	}
	if err := decodeResult(raw, &result); err != nil {
		return "", err
	}
	if result.Txid == "" {
		return "", errors.New("no transaction ID returned")
	}
	return result.Txid, nil
}

// CancelOrder cancels one open order.
func (c *Client) CancelOrder(ctx context.Context, txid string) error {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/0/private/CancelOrder",
		Body:   map[string]any{"txid": txid},
	})
	if err != nil {
		return err
	}
	return decodeResult(raw, nil)
}

// CancelAll cancels every open order for a pair (all pairs when empty)
// and returns how many were cancelled. Stops at the first failure.
func (c *Client) CancelAll(ctx context.Context, pair string) (int, error) {
	open, err := c.OpenOrders(ctx, pair)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for txid := range open {
		if err := c.CancelOrder(ctx, txid); err != nil {
			return cancelled, errors.Wrapf(err, "canceling order %s", txid)
		}
		cancelled++
	}
	return cancelled, nil
}
