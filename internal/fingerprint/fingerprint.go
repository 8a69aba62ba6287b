// Package fingerprint derives a best-effort client identifier that survives
// the hop from a mobile browser to a freshly installed app.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// Length is the number of hex characters kept from the digest.
const Length = 16

// FromRequest hashes client IP, user agent, accept-language and
// accept-encoding.
func FromRequest(r *http.Request) string {
	return Compute(
		ClientIP(r),
		r.UserAgent(),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
	)
}

func Compute(ip, userAgent, acceptLanguage, acceptEncoding string) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent + "|" + acceptLanguage + "|" + acceptEncoding))
	return hex.EncodeToString(sum[:])[:Length]
}

// IsFingerprint reports whether key has the shape produced by Compute.
func IsFingerprint(key string) bool {
	if len(key) != Length {
		return false
	}
	_, err := hex.DecodeString(key)
	return err == nil
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	return RemoteIP(r)
}

// RemoteIP is the peer address of the connection itself. Unlike ClientIP it
// cannot be set by the caller through headers.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if host == "::1" {
		return "127.0.0.1"
	}
	return host
}
