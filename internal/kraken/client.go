// Package kraken is a client for the Kraken exchange REST API. Private
// endpoints are authenticated with the API-Key / API-Sign header scheme
// implemented in the auth package; public endpoints skip signing entirely.
package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tradeforge/go-kraken/internal/auth"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://api.kraken.com"

const defaultTimeout = 15 * time.Second

// ErrSerialize is returned when a request body cannot be encoded as JSON.
// It fails before any network I/O.
var ErrSerialize = errors.New("request body cannot be serialized")

var decimalNonce = regexp.MustCompile(`^[0-9]+$`)

// Config carries the client's collaborators. Zero values get sensible
// defaults; Credentials may be nil for a public-only client.
type Config struct {
	BaseURL     string
	Credentials *auth.Credentials
	HTTPClient  *http.Client
	Nonces      auth.NonceSource
	Logger      *zerolog.Logger
}

// Client issues requests against the Kraken REST API. One round trip per
// call, no retries; all requests under one credential share the nonce
// source so nonces stay strictly increasing.
type Client struct {
	baseURL string
	creds   *auth.Credentials
	httpc   *http.Client
	nonces  auth.NonceSource
	log     zerolog.Logger
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.Nonces == nil {
		cfg.Nonces = auth.NewNonceSource()
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		creds:   cfg.Credentials,
		httpc:   cfg.HTTPClient,
		nonces:  cfg.Nonces,
		log:     log,
	}
}

// Authenticated reports whether the client holds credentials for private
// endpoints.
func (c *Client) Authenticated() bool {
	return c.creds != nil
}

// Request describes one API call. Query is encoded into the URL and, for
// authenticated calls, into the signed payload. Body is JSON-serialized
// once; the exact bytes that are signed are the bytes sent. Nonce
// overrides the generated one when set (it must be a decimal string).
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
	Nonce  string
}

// Do performs a single request and returns the raw response body.
// Interpretation of the body is left to the caller; use decodeResult for
// endpoints wrapped by this package.
//
// When credentials are present a nonce is resolved (explicit Request.Nonce,
// then a caller-supplied body["nonce"], then the client's generator),
// merged into the body, and the API-Key/API-Sign headers are attached.
// Without credentials no nonce is generated or consumed.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	reqURL := c.baseURL + req.Path
	queryStr := ""
	if len(req.Query) > 0 {
		queryStr = req.Query.Encode()
		reqURL += "?" + queryStr
	}

	body := req.Body
	nonce := ""
	if c.creds != nil {
		if body == nil {
			body = map[string]any{}
		}
		var err error
		nonce, err = c.resolveNonce(req.Nonce, body)
		if err != nil {
			return nil, err
		}
		body["nonce"] = nonce
	}

	bodyStr := ""
	if len(body) > 0 {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(ErrSerialize, err.Error())
		}
		bodyStr = string(raw)
	}

	var reader io.Reader
	if bodyStr != "" {
		reader = strings.NewReader(bodyStr)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL, reader)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	httpReq.Header.Set("Accept", "application/json")
	if bodyStr != "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		httpReq.Header.Set("API-Key", c.creds.Key())
		httpReq.Header.Set("API-Sign", c.creds.Sign(req.Path, nonce, queryStr+bodyStr))
	}

	// Method/path/status only. Nonce, payload and signature stay out of logs.
	c.log.Debug().Str("method", req.Method).Str("path", req.Path).Msg("sending request")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	c.log.Debug().Str("path", req.Path).Int("status", resp.StatusCode).Msg("response received")

	return raw, nil
}

// resolveNonce picks the nonce for an authenticated call. Caller-supplied
// nonces take precedence and are trusted for monotonicity, but must at
// least be decimal strings so a typo fails locally instead of as an
// opaque EAPI:Invalid nonce.
func (c *Client) resolveNonce(explicit string, body map[string]any) (string, error) {
	nonce := explicit
	if nonce == "" {
		if v, ok := body["nonce"]; ok {
			nonce = fmt.Sprint(v)
		}
	}
	if nonce == "" {
		return c.nonces.Next(), nil
	}
	if !decimalNonce.MatchString(nonce) {
		return "", errors.Errorf("nonce %q is not a decimal string", nonce)
	}
	return nonce, nil
}
