package ratelimit

import (
	"net/http/httptest"
	"net/netip"
	"testing"
)

func TestClientIPIgnoresHeadersWithoutTrustedProxy(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "198.51.100.4:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.Header.Set("X-Real-IP", "9.9.9.9")

	var nilResolver *IPResolver
	for name, p := range map[string]*IPResolver{
		"nil":        nilResolver,
		"no proxies": NewIPResolver(nil),
		"other proxy": NewIPResolver([]netip.Prefix{
			netip.MustParsePrefix("10.0.0.0/8"),
		}),
	} {
		if ip := p.ClientIP(r); ip != "198.51.100.4" {
			t.Errorf("%s: ClientIP = %q, want remote addr", name, ip)
		}
	}
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	p := NewIPResolver([]netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.1/32"),
	})

	cases := []struct {
		name string
		xff  string
		want string
	}{
		{"single hop", "203.0.113.7", "203.0.113.7"},
		// Client'ın yazdığı sahte değer solda kalır, proxy'nin eklediği alınır.
		{"spoofed prefix", "1.2.3.4, 203.0.113.7", "203.0.113.7"},
		{"proxy chain", "203.0.113.7, 10.0.0.5", "203.0.113.7"},
		{"garbage hop", "203.0.113.7, not-an-ip", "10.0.0.1"},
		{"no header", "", "10.0.0.1"},
		{"only proxies", "10.0.0.9, 10.0.0.5", "10.0.0.9"},
	}

	for _, c := range cases {
		r := httptest.NewRequest("POST", "/api/auth/login", nil)
		r.RemoteAddr = "10.0.0.1:443"
		if c.xff != "" {
			r.Header.Set("X-Forwarded-For", c.xff)
		}
		if ip := p.ClientIP(r); ip != c.want {
			t.Errorf("%s: ClientIP = %q, want %q", c.name, ip, c.want)
		}
	}
}
