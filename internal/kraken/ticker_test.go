package kraken

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickerFixture = `{"error":[],"result":{"XXBTZUSD":{
	"a":["50300.10000","1","1.000"],
	"b":["50300.00000","2","2.000"],
	"h":["51200.00000","51500.00000"],
	"l":["49000.00000","48800.00000"],
	"v":["120.50000000","250.00000000"]
}}}`

func TestTicker(t *testing.T) {
	client, captured, _ := newTestClient(t, false, nil, tickerFixture)

	info, err := client.Ticker(context.Background(), "XBT/USD")
	require.NoError(t, err)

	assert.Equal(t, "/0/public/Ticker", captured.url.Path)
	assert.Equal(t, "XBT/USD", captured.url.Query().Get("pair"))
	assert.Empty(t, captured.header.Get("API-Sign"))

	assert.True(t, info.Ask.Equal(decimal.RequireFromString("50300.1")))
	assert.True(t, info.Bid.Equal(decimal.RequireFromString("50300")))
	assert.True(t, info.Spread.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, info.High.Equal(decimal.RequireFromString("51200")))
	assert.True(t, info.Low.Equal(decimal.RequireFromString("49000")))
	// 24h volume is v[1], USD volume uses the bid price.
	assert.True(t, info.Volume24h.Equal(decimal.RequireFromString("250")))
	assert.True(t, info.VolumeUSD24h.Equal(decimal.RequireFromString("12575000")))
}

func TestTickerSpreadPercent(t *testing.T) {
	info := &TickerInfo{
		Bid:    decimal.RequireFromString("200"),
		Spread: decimal.RequireFromString("1"),
	}
	assert.True(t, info.SpreadPercent().Equal(decimal.RequireFromString("0.5")))

	empty := &TickerInfo{}
	assert.True(t, empty.SpreadPercent().IsZero())
}

func TestTickerInsufficientData(t *testing.T) {
	client, _, _ := newTestClient(t, false, nil,
		`{"error":[],"result":{"XXBTZUSD":{"a":["1"],"b":["1"],"h":["1"],"l":["1"],"v":["1"]}}}`)

	_, err := client.Ticker(context.Background(), "XBT/USD")
	require.Error(t, err)
}

func TestTickerEmptyResult(t *testing.T) {
	client, _, _ := newTestClient(t, false, nil, `{"error":[],"result":{}}`)

	_, err := client.Ticker(context.Background(), "XBT/USD")
	require.Error(t, err)
}
