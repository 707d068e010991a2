package ratelimit

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver, rate limit anahtarı olarak kullanılacak client IP'sini bulur.
//
// Forwarding header'ları client tarafından serbestçe yazılabilir; bu yüzden
// sadece bağlantı güvenilir bir proxy'den geliyorsa X-Forwarded-For okunur.
// Zincir sağdan sola yürünür ve güvenilir olmayan ilk adres alınır: en
// sağdaki değerleri bizim proxy'lerimiz eklemiştir, soldakiler client'ındır.
//
// Nil *IPResolver geçerlidir ve her zaman RemoteAddr'ı döner.
type IPResolver struct {
	trusted []netip.Prefix
}

// NewIPResolver, trusted boşsa hiçbir header'a güvenmeyen resolver döner.
func NewIPResolver(trusted []netip.Prefix) *IPResolver {
	return &IPResolver{trusted: trusted}
}

// ClientIP, request'in gerçek client adresini döner.
func (p *IPResolver) ClientIP(r *http.Request) string {
	remote := remoteHost(r.RemoteAddr)
	if p == nil || len(p.trusted) == 0 {
		return remote
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil || !p.isTrusted(addr) {
		return remote
	}

	client := addr.Unmap().String()
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		hopAddr, err := netip.ParseAddr(hop)
		if err != nil {
			// Bozuk değer: bunun solundakilere güvenilemez.
			break
		}
		client = hopAddr.Unmap().String()
		if !p.isTrusted(hopAddr) {
			break
		}
	}
	return client
}

func (p *IPResolver) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
