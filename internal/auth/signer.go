package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"
)

// ErrInvalidCredential is returned when the private key is not valid base64.
var ErrInvalidCredential = errors.New("private key is not valid base64")

// Credentials holds a Kraken API key pair. The "private key" is a shared
// HMAC secret issued by the exchange, supplied base64-encoded and decoded
// once at construction. The decoded secret never leaves this package.
type Credentials struct {
	key    string
	secret []byte
}

// NewCredentials decodes the base64 private key and returns a credential
// pair usable for signing. Fails with ErrInvalidCredential before any
// request can be made with a malformed key.
func NewCredentials(key, privateKey string) (*Credentials, error) {
	secret, err := base64.StdEncoding.DecodeString(privateKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCredential, err.Error())
	}
	return &Credentials{key: key, secret: secret}, nil
}

// Key returns the public API key, sent as the API-Key header.
func (c *Credentials) Key() string {
	return c.key
}

// Sign computes the API-Sign header value for a private endpoint call:
// HMAC-SHA512 over the signing message with the decoded secret, base64
// standard encoding. Any byte deviation from this procedure is rejected
// by the exchange as an authentication failure.
func (c *Credentials) Sign(path, nonce, payload string) string {
	mac := hmac.New(sha512.New, c.secret)
	mac.Write(SigningMessage(path, nonce, payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SigningMessage builds the bytes covered by the request signature:
// UTF-8 path bytes followed by the raw SHA-256 digest of nonce+payload,
// concatenated without separators. The path excludes host and query
// string; the encoded query string belongs in payload. Payload may be
// empty. Pure function.
func SigningMessage(path, nonce, payload string) []byte {
	sha := sha256.New()
	sha.Write([]byte(nonce + payload))
	return append([]byte(path), sha.Sum(nil)...)
}

// Fingerprint returns a short non-reversible identifier for an API key,
// safe to put in logs. Never log the key itself.
func Fingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:6])
}
