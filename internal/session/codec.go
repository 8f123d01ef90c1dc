package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is how long a session cookie stays valid without a new request.
const DefaultTTL = 3 * 24 * time.Hour

// Codec signs and verifies session cookie values. The value format is
// "<expiry_epoch>:<json>.<base64url hmac-sha256>": the payload is checked for
// a valid signature first, then for expiry, before any content is trusted.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), ttl: DefaultTTL, now: time.Now}
}

// TTL returns the session lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode serializes and signs a session with a fresh expiry.
func (c *Codec) Encode(s *Session) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	exp := c.now().Add(c.ttl).Unix()
	payload := strconv.FormatInt(exp, 10) + ":" + string(raw)
	return payload + "." + c.sign(payload), nil
}

// Decode verifies and parses a cookie value. It returns nil on any failure:
// bad signature, expired, malformed payload. Callers treat nil as "no
// session".
func (c *Codec) Decode(value string) *Session {
	// The signature is base64url and cannot contain a dot, so the last dot
	// separates payload from signature even when the JSON contains dots.
	idx := strings.LastIndex(value, ".")
	if idx < 0 {
		return nil
	}
	payload, sig := value[:idx], value[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return nil
	}

	expStr, raw, ok := strings.Cut(payload, ":")
	if !ok {
		return nil
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil || exp < c.now().Unix() {
		return nil
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	return &s
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
