// Package bybit maintains the authenticated private execution stream: one
// session per connection, supervised by a retry-forever reconnect loop.
package bybit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sign produces the hex HMAC-SHA256 signature the private stream expects on
// the auth request. The signed string is "GET/realtime" followed by the
// expiry in unix milliseconds; expires must lie in the future (the feed
// rejects signatures whose window already passed).
func Sign(secret string, expires int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "GET/realtime%d", expires)
	return hex.EncodeToString(mac.Sum(nil))
}
