package xray

import (
	"context"

	"rayconv/internal/config"
	"rayconv/internal/logger"
	"rayconv/internal/xray/parser"
)

// TestConfig is a complete xray configuration that exposes one outbound
// through a local inbound, used to test a single link.
type TestConfig struct {
	Log       LogSettings        `json:"log"`
	Inbounds  []InboundSettings  `json:"inbounds"`
	Outbounds []*parser.Outbound `json:"outbounds"`
	DNS       DNSSettings        `json:"dns"`
}

type LogSettings struct {
	LogLevel string `json:"loglevel"`
}

type InboundSettings struct {
	Tag      string `json:"tag"`
	Port     int    `json:"port"`
	Listen   string `json:"listen"`
	Protocol string `json:"protocol"`
}

type DNSSettings struct {
	Servers []string `json:"servers"`
}

// Assembler wraps parsed outbounds into test configurations.
type Assembler struct {
	cfg     config.TestConfig
	resolve Resolver
}

func NewAssembler(cfg config.TestConfig, resolve Resolver) *Assembler {
	return &Assembler{cfg: cfg, resolve: resolve}
}

// ToOutbound parses a link. It exists so commands go through one entry point.
func ToOutbound(link string) (*parser.Outbound, error) {
	return parser.Parse(link)
}

// Build parses link and wraps the result in a TestConfig listening on port.
// Parse errors are returned unchanged. A failed lookup is not an error: the
// hostname is kept as-is.
func (a *Assembler) Build(ctx context.Context, link string, port int) (*TestConfig, error) {
	out, err := ToOutbound(link)
	if err != nil {
		return nil, err
	}

	host := out.Settings.ServerAddress()
	if a.resolve != nil {
		if ip, err := a.resolve(ctx, host); err == nil {
			logger.Log.Debugf("Resolved %s -> %s", host, ip)
			out = out.WithServerAddress(ip)
		} else {
			logger.Log.Debugf("Keeping unresolved host %s: %v", host, err)
		}
	}

	return &TestConfig{
		Log: LogSettings{LogLevel: a.cfg.LogLevel},
		Inbounds: []InboundSettings{{
			Tag:      a.cfg.InboundTag,
			Port:     port,
			Listen:   a.cfg.Listen,
			Protocol: a.cfg.InboundProtocol,
		}},
		Outbounds: []*parser.Outbound{out},
		DNS:       DNSSettings{Servers: append([]string(nil), a.cfg.DNSServers...)},
	}, nil
}
