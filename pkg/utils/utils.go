package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns a cryptographically secure random string of
// the given length drawn from an alphanumeric charset. Used for initial
// user passwords and one-off tokens.
func GenerateRandomString(length int) string {
	if length <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(randomCharset)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic("utils: random source unavailable: " + err.Error())
		}
		sb.WriteByte(randomCharset[n.Int64()])
	}
	return sb.String()
}

// MaskEmail hides most of the local part of an email address so it can be
// logged without exposing the full identity. "maria.lopez@example.com"
// becomes "ma***@example.com". Strings without '@' are masked entirely.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local := email[:at]
	visible := 2
	if len(local) < visible {
		visible = len(local)
	}
	return local[:visible] + "***" + email[at:]
}
