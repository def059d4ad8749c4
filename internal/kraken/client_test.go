package kraken

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforge/go-kraken/internal/auth"
)

// Key pair from Kraken's REST API documentation example.
const (
	testKey    = "9UA5+IEHP68a8i7pwRRiahubuj14J/LIfs05vhupHyFbT7GWyFs9gXr1"
	testSecret = "kQH5HW/8p1uGOVjbgWA7FunAmGO8lsSUXNsu3eow76sz84Q18fWxnyRzBHCd3pd5nE9qa99HAZtuZuj6F1huXg=="
)

// fixedNonce always returns the same nonce and counts how often it is
// consumed.
type fixedNonce struct {
	value string
	calls int
}

func (f *fixedNonce) Next() string {
	f.calls++
	return f.value
}

type capturedRequest struct {
	method string
	url    *url.URL
	header http.Header
	body   string
}

func newTestClient(t *testing.T, authenticated bool, nonces auth.NonceSource, respond string) (*Client, *capturedRequest, *int) {
	t.Helper()

	captured := &capturedRequest{}
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		body, _ := io.ReadAll(r.Body)
		captured.method = r.Method
		captured.url = r.URL
		captured.header = r.Header.Clone()
		captured.body = string(body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, respond)
	}))
	t.Cleanup(server.Close)

	cfg := Config{BaseURL: server.URL, Nonces: nonces}
	if authenticated {
		creds, err := auth.NewCredentials(testKey, testSecret)
		require.NoError(t, err)
		cfg.Credentials = creds
	}
	return New(cfg), captured, &hits
}

func TestDoSignsPrivateRequest(t *testing.T) {
	nonces := &fixedNonce{value: "1616492376594"}
	client, captured, _ := newTestClient(t, true, nonces, `{"error":[],"result":{}}`)

	require.True(t, client.Authenticated())

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/0/private/Balance",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, nonces.calls)
	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/0/private/Balance", captured.url.Path)
	assert.Equal(t, testKey, captured.header.Get("API-Key"))
	assert.Equal(t, "application/json", captured.header.Get("Content-Type"))
	assert.Equal(t, `{"nonce":"1616492376594"}`, captured.body)

	// Precomputed HMAC-SHA512 for this exact path/nonce/body tuple,
	// derived independently of this codebase.
	assert.Equal(t,
		"nIQSuxvFDn8/AZLI9lNhKmRGRFBmNFwMDugKmtSQG6frJ3HT06eRwAGt40G5kwz6PRsywnaL628Nr8TofSiHrw==",
		captured.header.Get("API-Sign"))
}

func TestDoSignsQueryString(t *testing.T) {
	nonces := &fixedNonce{value: "1616492376594"}
	client, captured, _ := newTestClient(t, true, nonces, `{"error":[],"result":{}}`)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/0/private/TradeBalance",
		Query:  url.Values{"asset": {"XBT"}},
	})
	require.NoError(t, err)

	// The query string travels both in the URL and in the signed payload.
	assert.Equal(t, "asset=XBT", captured.url.RawQuery)
	assert.Equal(t,
		"0iPl0OUTMiDCXUkPbqDh7zjrDKGlXoxFIkNankklaikRCcLu4r5pTX7DPZU7O3cD7FoIrLoG8Pfa/CvTuZF0cQ==",
		captured.header.Get("API-Sign"))
}

func TestDoPublicSkipsSigning(t *testing.T) {
	nonces := &fixedNonce{value: "1616492376594"}
	client, captured, _ := newTestClient(t, false, nonces, `{"error":[],"result":{}}`)
	require.False(t, client.Authenticated())

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/0/public/Time",
	})
	require.NoError(t, err)

	assert.Zero(t, nonces.calls)
	assert.Empty(t, captured.header.Get("API-Key"))
	assert.Empty(t, captured.header.Get("API-Sign"))
	assert.Empty(t, captured.header.Get("Content-Type"))
	assert.Empty(t, captured.body)
}

func TestDoCallerSuppliedNonceWins(t *testing.T) {
	nonces := &fixedNonce{value: "9999999999999"}
	client, captured, _ := newTestClient(t, true, nonces, `{"error":[],"result":{}}`)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/0/private/Balance",
		Nonce:  "1616492376594",
	})
	require.NoError(t, err)

	assert.Zero(t, nonces.calls)
	assert.Equal(t, `{"nonce":"1616492376594"}`, captured.body)
}

func TestDoBodyNonceReused(t *testing.T) {
	nonces := &fixedNonce{value: "9999999999999"}
	client, captured, _ := newTestClient(t, true, nonces, `{"error":[],"result":{}}`)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/0/private/Balance",
		Body:   map[string]any{"nonce": "1616492376594"},
	})
	require.NoError(t, err)

	assert.Zero(t, nonces.calls)
	assert.Equal(t, `{"nonce":"1616492376594"}`, captured.body)
}

func TestDoRejectsNonDecimalNonce(t *testing.T) {
	client, _, hits := newTestClient(t, true, &fixedNonce{value: "1"}, `{"error":[],"result":{}}`)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/0/private/Balance",
		Nonce:  "not-a-number",
	})
	require.Error(t, err)
	assert.Zero(t, *hits)
}

func TestDoSerializationFailsBeforeNetwork(t *testing.T) {
	client, _, hits := newTestClient(t, true, &fixedNonce{value: "1"}, `{"error":[],"result":{}}`)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/0/private/Balance",
		Body:   map[string]any{"bad": func() {}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSerialize))
	assert.Zero(t, *hits)
}

func TestDoNetworkErrorSurfaces(t *testing.T) {
	// Point at a closed server.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close()

	creds, err := auth.NewCredentials(testKey, testSecret)
	require.NoError(t, err)
	client := New(Config{BaseURL: serverURL, Credentials: creds})

	_, err = client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/0/private/Balance",
	})
	require.Error(t, err)
}

func TestIsAuthRejected(t *testing.T) {
	rejected := &APIError{Codes: []string{"EAPI:Invalid signature"}}
	assert.True(t, IsAuthRejected(rejected))
	assert.True(t, IsAuthRejected(errors.Wrap(&APIError{Codes: []string{"EAPI:Invalid nonce"}}, "request")))

	other := &APIError{Codes: []string{"EOrder:Insufficient funds"}}
	assert.False(t, IsAuthRejected(other))
	assert.False(t, IsAuthRejected(errors.New("plain")))
}

func TestDecodeResultErrorEnvelope(t *testing.T) {
	err := decodeResult([]byte(`{"error":["EAPI:Invalid nonce"],"result":null}`), nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"EAPI:Invalid nonce"}, apiErr.Codes)
	assert.True(t, IsAuthRejected(err))
}
