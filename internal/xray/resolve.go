package xray

import (
	"context"
	"fmt"
	"net"

	"rayconv/internal/config"

	"golang.org/x/net/idna"
)

// Resolver maps a hostname to a literal IP address.
type Resolver func(ctx context.Context, host string) (string, error)

// NewDNSResolver returns a Resolver backed by the system resolver.
// IDN names are converted to their ASCII form before lookup.
func NewDNSResolver(cfg config.ResolverConfig) Resolver {
	r := net.DefaultResolver
	return func(ctx context.Context, host string) (string, error) {
		if host == "" {
			return "", fmt.Errorf("empty hostname")
		}
		if ip := net.ParseIP(host); ip != nil {
			return ip.String(), nil
		}

		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("invalid hostname %q: %w", host, err)
		}

		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		network := "ip"
		if cfg.IPv4Only {
			network = "ip4"
		}
		ips, err := r.LookupIP(ctx, network, ascii)
		if err != nil {
			return "", fmt.Errorf("lookup %s: %w", ascii, err)
		}
		if len(ips) == 0 {
			return "", fmt.Errorf("lookup %s: no addresses", ascii)
		}
		return ips[0].String(), nil
	}
}

// WithOverrides consults table before falling back to next.
func WithOverrides(table map[string]string, next Resolver) Resolver {
	if len(table) == 0 {
		return next
	}
	return func(ctx context.Context, host string) (string, error) {
		if ip, ok := table[host]; ok {
			return ip, nil
		}
		return next(ctx, host)
	}
}
