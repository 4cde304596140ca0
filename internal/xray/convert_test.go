package xray

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rayconv/internal/config"
	"rayconv/internal/xray/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeResolver(table map[string]string) Resolver {
	return func(_ context.Context, host string) (string, error) {
		if ip, ok := table[host]; ok {
			return ip, nil
		}
		return "", errors.New("no such host")
	}
}

func newTestAssembler(table map[string]string) *Assembler {
	return NewAssembler(config.Default().TestConfig, fakeResolver(table))
}

func TestAssembler_ResolvesServerAddress(t *testing.T) {
	a := newTestAssembler(map[string]string{"h.example.com": "203.0.113.10"})

	tests := []struct {
		name string
		link string
	}{
		{"vless", "vless://uuid@h.example.com:443#n"},
		{"vmess", "vmess://eyJhZGQiOiJoLmV4YW1wbGUuY29tIiwicG9ydCI6IjgwIn0"},
		{"shadowsocks", "ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ@h.example.com:8388"},
		{"trojan", "trojan://pw@h.example.com:443"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc2, err := a.Build(context.Background(), tc.link, 10808)
			require.NoError(t, err)
			require.Len(t, tc2.Outbounds, 1)
			assert.Equal(t, "203.0.113.10", tc2.Outbounds[0].Settings.ServerAddress())
			assert.NotEqual(t, "h.example.com", tc2.Outbounds[0].Settings.ServerAddress())
		})
	}
}

func TestAssembler_UnresolvableKeepsHostname(t *testing.T) {
	a := newTestAssembler(nil)

	tc, err := a.Build(context.Background(), "trojan://pw@nowhere.invalid:443#t", 1080)
	require.NoError(t, err)
	assert.Equal(t, "nowhere.invalid", tc.Outbounds[0].Settings.ServerAddress())
	assert.Equal(t, "t", tc.Outbounds[0].Tag)
}

func TestAssembler_DocumentShape(t *testing.T) {
	a := newTestAssembler(map[string]string{"h.example.com": "198.51.100.1"})

	tc, err := a.Build(context.Background(), "vless://uuid@h.example.com:443?type=ws&security=tls#node", 10808)
	require.NoError(t, err)

	b, err := json.Marshal(tc)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, map[string]any{"loglevel": "warning"}, doc["log"])
	assert.Equal(t, []any{map[string]any{
		"tag":      "socks",
		"port":     float64(10808),
		"listen":   "127.0.0.1",
		"protocol": "socks",
	}}, doc["inbounds"])
	assert.Equal(t, map[string]any{"servers": []any{"8.8.8.8", "1.1.1.1"}}, doc["dns"])

	outbounds := doc["outbounds"].([]any)
	require.Len(t, outbounds, 1)
	ob := outbounds[0].(map[string]any)
	assert.Equal(t, "node", ob["tag"])
	assert.Equal(t, "vless", ob["protocol"])

	// Only the address changes: the ws Host header still names the original host.
	ss := ob["streamSettings"].(map[string]any)
	assert.Equal(t, "h.example.com", ss["wsSettings"].(map[string]any)["headers"].(map[string]any)["Host"])
	assert.Equal(t, "h.example.com", ss["tlsSettings"].(map[string]any)["serverName"])
}

func TestAssembler_DoesNotMutateParseResult(t *testing.T) {
	link := "ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ@h.example.com:8388"
	before, err := ToOutbound(link)
	require.NoError(t, err)

	a := newTestAssembler(map[string]string{"h.example.com": "192.0.2.1"})
	_, err = a.Build(context.Background(), link, 1080)
	require.NoError(t, err)

	after, err := ToOutbound(link)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAssembler_ParseFailures(t *testing.T) {
	a := newTestAssembler(nil)

	tc, err := a.Build(context.Background(), "http://example.com", 1080)
	assert.Nil(t, tc)
	assert.ErrorIs(t, err, parser.ErrUnsupportedScheme)

	tc, err = a.Build(context.Background(), "ss://!!!@h:1", 1080)
	assert.Nil(t, tc)
	assert.ErrorIs(t, err, parser.ErrMalformedLink)
}

func TestAssembler_NilResolver(t *testing.T) {
	a := NewAssembler(config.Default().TestConfig, nil)
	tc, err := a.Build(context.Background(), "trojan://pw@h.example.com:443", 1080)
	require.NoError(t, err)
	assert.Equal(t, "h.example.com", tc.Outbounds[0].Settings.ServerAddress())
}

func TestAssembler_UsesConfig(t *testing.T) {
	cfg := config.Default().TestConfig
	cfg.LogLevel = "debug"
	cfg.Listen = "0.0.0.0"
	cfg.DNSServers = []string{"9.9.9.9"}

	tc, err := NewAssembler(cfg, nil).Build(context.Background(), "trojan://pw@h:443", 2080)
	require.NoError(t, err)
	assert.Equal(t, "debug", tc.Log.LogLevel)
	assert.Equal(t, "0.0.0.0", tc.Inbounds[0].Listen)
	assert.Equal(t, 2080, tc.Inbounds[0].Port)
	assert.Equal(t, []string{"9.9.9.9"}, tc.DNS.Servers)
}
