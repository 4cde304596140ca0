package parser

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadowsocks_UnpaddedUserinfo(t *testing.T) {
	out := mustParse(t, "ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ@example.com:8388")

	assert.Equal(t, "ss-example.com", out.Tag)
	settings := out.Settings.(*ShadowsocksSettings)
	require.Len(t, settings.Servers, 1)
	assert.Equal(t, ShadowsocksServer{
		Address:  "example.com",
		Port:     8388,
		Password: "password",
		Method:   "aes-256-gcm",
	}, settings.Servers[0])
	assert.Equal(t, StreamSettings{Network: "tcp", Security: "none"}, out.StreamSettings)
}

func TestShadowsocks_Userinfo(t *testing.T) {
	tests := []struct {
		name     string
		userinfo string
		method   string
		password string
	}{
		{"padded", "YWVzLTEyOC1nY206cGFzcw==", "aes-128-gcm", "pass"},
		{"percent encoded padding", "YWVzLTEyOC1nY206cGFzcw%3D%3D", "aes-128-gcm", "pass"},
		{"password with colon", base64.RawStdEncoding.EncodeToString([]byte("chacha20-ietf-poly1305:a:b")), "chacha20-ietf-poly1305", "a:b"},
		{"url safe alphabet", base64.RawURLEncoding.EncodeToString([]byte("aes-256-gcm:??>>")), "aes-256-gcm", "??>>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := mustParse(t, "ss://"+tc.userinfo+"@h.example.com:443#Tag%201")
			server := out.Settings.(*ShadowsocksSettings).Servers[0]
			assert.Equal(t, tc.method, server.Method)
			assert.Equal(t, tc.password, server.Password)
			assert.Equal(t, "Tag 1", out.Tag)
		})
	}
}

func TestShadowsocks_IgnoresTransportParams(t *testing.T) {
	out := mustParse(t, "ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ@example.com:8388?type=ws&security=tls&plugin=obfs-local")
	assert.ElementsMatch(t, []string{"network", "security"}, streamKeys(t, out))
	assert.Equal(t, "tcp", out.StreamSettings.Network)
	assert.Equal(t, "none", out.StreamSettings.Security)
}

func TestShadowsocks_Malformed(t *testing.T) {
	tests := map[string]string{
		"bad base64":    "ss://!!!!@example.com:8388",
		"no colon":      "ss://" + base64.StdEncoding.EncodeToString([]byte("nocolon")) + "@example.com:8388",
		"invalid utf-8": "ss://" + base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xfe, ':', 'x'}) + "@example.com:8388",
		"no userinfo":   "ss://example.com:8388",
	}
	for name, link := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := Parse(link)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrMalformedLink)
		})
	}
}
