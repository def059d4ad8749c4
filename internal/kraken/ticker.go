package kraken

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TickerInfo is the current market snapshot for one trading pair.
// Volume24h is quoted in the base asset; VolumeUSD24h multiplies it by
// the bid price.
type TickerInfo struct {
	Pair         string
	Ask          decimal.Decimal
	Bid          decimal.Decimal
	Spread       decimal.Decimal
	High         decimal.Decimal
	Low          decimal.Decimal
	Volume24h    decimal.Decimal
	VolumeUSD24h decimal.Decimal
}

// tickerResult mirrors the public Ticker endpoint's per-pair payload.
// a/b are [price, whole lot volume, lot volume]; h/l/v are [today, last 24h].
type tickerResult struct {
	Ask    []string `json:"a"`
	Bid    []string `json:"b"`
	High   []string `json:"h"`
	Low    []string `json:"l"`
	Volume []string `json:"v"`
}

// Ticker retrieves the current ticker for a pair such as "XBT/USD".
// Public endpoint; works without credentials.
func (c *Client) Ticker(ctx context.Context, pair string) (*TickerInfo, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/0/public/Ticker",
		Query:  url.Values{"pair": {pair}},
	})
	if err != nil {
		return nil, err
	}

	var result map[string]tickerResult
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}

	// The result is keyed by Kraken's internal pair name; with a single
	// pair requested there is exactly one entry.
	var data tickerResult
	found := false
	for _, entry := range result {
		data = entry
		found = true
		break
	}
	if !found {
		return nil, errors.Errorf("pair %s not found in ticker response", pair)
	}
	if len(data.Ask) < 1 || len(data.Bid) < 1 || len(data.High) < 1 || len(data.Low) < 1 || len(data.Volume) < 2 {
		return nil, errors.New("insufficient ticker data")
	}

	ask, err := decimal.NewFromString(data.Ask[0])
	if err != nil {
		return nil, errors.Wrap(err, "parsing ask price")
	}
	bid, err := decimal.NewFromString(data.Bid[0])
	if err != nil {
		return nil, errors.Wrap(err, "parsing bid price")
	}
	high, err := decimal.NewFromString(data.High[0])
	if err != nil {
		return nil, errors.Wrap(err, "parsing high price")
	}
	low, err := decimal.NewFromString(data.Low[0])
	if err != nil {
		return nil, errors.Wrap(err, "parsing low price")
	}
	// v[1] is the rolling 24h window.
	volume, err := decimal.NewFromString(data.Volume[1])
	if err != nil {
		return nil, errors.Wrap(err, "parsing volume")
	}

	return &TickerInfo{
		Pair:         pair,
		Ask:          ask,
		Bid:          bid,
		Spread:       ask.Sub(bid),
		High:         high,
		Low:          low,
		Volume24h:    volume,
		VolumeUSD24h: volume.Mul(bid),
	}, nil
}

// SpreadPercent returns the spread as a percentage of the bid price.
func (t *TickerInfo) SpreadPercent() decimal.Decimal {
	if t.Bid.IsZero() {
		return decimal.Zero
	}
	return t.Spread.Div(t.Bid).Mul(decimal.NewFromInt(100))
}
