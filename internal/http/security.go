package http

import (
	"net/http"
	"net/netip"
	"strings"
)

// Peers in these ranges may set X-Forwarded-For / X-Real-IP.
var trustedProxies = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("::1/128"),
}

func trusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range trustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func peerAddr(remote string) (netip.Addr, string) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr(), ap.Addr().String()
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil {
		return netip.Addr{}, remote
	}
	return addr, addr.String()
}

// extractClientIP keys rate limiting. Forwarding headers are honoured only
// when the direct peer is a trusted proxy.
func extractClientIP(r *http.Request) string {
	addr, peer := peerAddr(r.RemoteAddr)
	if !addr.IsValid() || !trusted(addr) {
		return peer
	}

	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	for _, candidate := range []string{first, r.Header.Get("X-Real-IP")} {
		if fwd, err := netip.ParseAddr(strings.TrimSpace(candidate)); err == nil {
			return fwd.String()
		}
	}
	return peer
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
