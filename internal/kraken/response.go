package kraken

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// APIError carries the error codes from Kraken's response envelope,
// e.g. "EAPI:Invalid nonce" or "EOrder:Insufficient funds".
type APIError struct {
	Codes []string
}

func (e *APIError) Error() string {
	return "kraken: " + strings.Join(e.Codes, ", ")
}

// IsAuthRejected reports whether err is an exchange rejection of the
// request's signature, nonce or key. Callers can use this to distinguish
// bad credentials from ordinary API errors; this package never retries
// either way.
func IsAuthRejected(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range apiErr.Codes {
		switch code {
		case "EAPI:Invalid signature", "EAPI:Invalid nonce", "EAPI:Invalid key":
			return true
		}
	}
	return false
}

// decodeResult parses Kraken's {"error":[],"result":...} envelope. A
// non-empty error array becomes an *APIError; otherwise the result is
// unmarshalled into target when one is given.
func decodeResult(raw []byte, target any) error {
	var envelope struct {
		Error  []string        `json:"error"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Wrap(err, "parsing response envelope")
	}
	if len(envelope.Error) > 0 {
		return &APIError{Codes: envelope.Error}
	}
	if target != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, target); err != nil {
			return errors.Wrap(err, "parsing result")
		}
	}
	return nil
}
