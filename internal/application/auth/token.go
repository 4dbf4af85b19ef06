package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// SessionMaxAge bounds both the admin cookie and the token's own age check.
const SessionMaxAge = 8 * time.Hour

// TokenCodec issues and verifies "<unixMillis>.<hex hmac-sha256(unixMillis)>" tokens.
type TokenCodec struct {
	Secret string
	Now    func() time.Time
}

func (c *TokenCodec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Issue signs the current timestamp.
func (c *TokenCodec) Issue() (string, error) {
	if c.Secret == "" {
		return "", ErrSecretNotConfigured
	}
	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	return ts + "." + c.sign(ts), nil
}

// Verify fails closed on any malformed, expired, future-dated or forged token.
func (c *TokenCodec) Verify(token string, maxAge time.Duration) error {
	if c.Secret == "" {
		return ErrSecretNotConfigured
	}
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return ErrInvalidToken
	}
	issued, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	age := c.now().UnixMilli() - issued
	if age < 0 || age > maxAge.Milliseconds() {
		return ErrInvalidToken
	}
	if !hmac.Equal([]byte(parts[1]), []byte(c.sign(parts[0]))) {
		return ErrInvalidToken
	}
	return nil
}

func (c *TokenCodec) sign(ts string) string {
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte(ts))
	return hex.EncodeToString(mac.Sum(nil))
}
