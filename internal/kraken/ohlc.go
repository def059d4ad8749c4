package kraken

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Candle is a single OHLC entry.
type Candle struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// OHLC retrieves candles for a pair. Interval is one of Kraken's
// supported candle widths (1, 5, 15, 30, 60, 240, 1440, ... minutes).
// Public endpoint; works without credentials.
func (c *Client) OHLC(ctx context.Context, pair string, intervalMinutes int) ([]Candle, error) {
	raw, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/0/public/OHLC",
		Query: url.Values{
			"pair":     {pair},
			"interval": {strconv.Itoa(intervalMinutes)},
		},
	})
	if err != nil {
		return nil, err
	}

	// The result holds the candle array under the pair name plus a
	// numeric "last" cursor; pick the array entry.
	var result map[string]json.RawMessage
	if err := decodeResult(raw, &result); err != nil {
		return nil, err
	}

	var rows [][]any
	found := false
	for key, entry := range result {
		if key == "last" {
			continue
		}
		if err := json.Unmarshal(entry, &rows); err != nil {
			return nil, errors.Wrap(err, "parsing OHLC rows")
		}
		found = true
		break
	}
	if !found {
		return nil, errors.Errorf("pair %s not found in OHLC response", pair)
	}

	candles := make([]Candle, 0, len(rows))
	for _, row := range rows {
		candle, err := parseCandle(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// parseCandle converts one raw OHLC row:
// [time, open, high, low, close, vwap, volume, count].
func parseCandle(row []any) (Candle, error) {
	if len(row) < 7 {
		return Candle{}, errors.Errorf("OHLC row has %d fields, need 7", len(row))
	}

	ts, ok := row[0].(float64)
	if !ok {
		return Candle{}, errors.Errorf("invalid OHLC timestamp type %T", row[0])
	}

	fields := make([]decimal.Decimal, 4)
	for i, idx := range []int{1, 2, 3, 4} {
		s, ok := row[idx].(string)
		if !ok {
			return Candle{}, errors.Errorf("invalid OHLC price type %T", row[idx])
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Candle{}, errors.Wrap(err, "parsing OHLC price")
		}
		fields[i] = d
	}

	volStr, ok := row[6].(string)
	if !ok {
		return Candle{}, errors.Errorf("invalid OHLC volume type %T", row[6])
	}
	volume, err := decimal.NewFromString(volStr)
	if err != nil {
		return Candle{}, errors.Wrap(err, "parsing OHLC volume")
	}

	return Candle{
		Time:   time.Unix(int64(ts), 0),
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: volume,
	}, nil
}

// PriceChange returns the percentage change between the newest candle's
// close and the close from roughly window ago. Candles are expected in
// the endpoint's chronological order.
func PriceChange(candles []Candle, window time.Duration) (decimal.Decimal, error) {
	if len(candles) < 2 {
		return decimal.Zero, errors.New("not enough candles")
	}

	latest := candles[len(candles)-1]
	cutoff := latest.Time.Add(-window)

	// Walk back to the first candle at or before the cutoff.
	past := candles[0]
	for i := len(candles) - 2; i >= 0; i-- {
		past = candles[i]
		if !past.Time.After(cutoff) {
			break
		}
	}
	if past.Close.IsZero() {
		return decimal.Zero, errors.New("zero reference price")
	}

	return latest.Close.Sub(past.Close).Div(past.Close).Mul(decimal.NewFromInt(100)), nil
}
