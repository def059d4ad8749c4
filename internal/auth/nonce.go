package auth

import (
	"strconv"
	"sync"
	"time"
)

// NonceSource issues request nonces. The exchange rejects reused or
// decreasing nonces per key pair, so a source shared by all requests
// under one credential must be strictly increasing across calls.
type NonceSource interface {
	Next() string
}

// monotonicNonce issues millisecond-epoch timestamps as decimal strings.
// The mutex serializes concurrent callers; if two calls land in the same
// millisecond the second advances past the first instead of repeating it.
type monotonicNonce struct {
	mu   sync.Mutex
	last int64
}

// NewNonceSource returns the process-wide style monotonic nonce generator.
func NewNonceSource() NonceSource {
	return &monotonicNonce{}
}

func (n *monotonicNonce) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := time.Now().UnixNano() / int64(time.Millisecond)
	if now <= n.last {
		now = n.last + 1
	}
	n.last = now
	return strconv.FormatInt(now, 10)
}
