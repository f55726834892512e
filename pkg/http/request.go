package http

import (
	"net"
	"net/http"
	"strings"
)

// IPConfig lists the proxy networks whose forwarding headers are believed.
type IPConfig struct {
	TrustedProxies []string // CIDR ranges
}

// ExtractClientIP resolves the client address used for login audit records.
// Forwarding headers are honoured only when the direct peer is inside a
// trusted proxy range; anyone else can set X-Forwarded-For to whatever
// they like, so their headers are ignored and RemoteAddr wins.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	peer := remoteIP(r)

	if config == nil || !fromTrustedProxy(peer, config.TrustedProxies) {
		return peer
	}

	// X-Forwarded-For accumulates one hop per proxy; the first valid
	// entry is the original client.
	for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		hop = strings.TrimSpace(hop)
		if net.ParseIP(hop) != nil {
			return hop
		}
	}

	if xri := r.Header.Get("X-Real-IP"); net.ParseIP(xri) != nil {
		return xri
	}

	return peer
}

func remoteIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func fromTrustedProxy(ip string, trusted []string) bool {
	peer := net.ParseIP(ip)
	if peer == nil {
		return false
	}
	for _, cidr := range trusted {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if ipNet.Contains(peer) {
			return true
		}
	}
	return false
}
