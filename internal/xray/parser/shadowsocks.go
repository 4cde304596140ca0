package parser

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// parseShadowsocks handles SIP002 links whose userinfo is base64 of
// "method:password". Shadowsocks links carry no transport parameters here.
func parseShadowsocks(raw string) (*Outbound, error) {
	u, err := splitURI(raw)
	if err != nil {
		return nil, malformed(ProtocolShadowsocks, err)
	}
	if u.User == "" {
		return nil, malformed(ProtocolShadowsocks, errors.New("missing userinfo"))
	}

	decoded, err := DecodeBase64(u.User)
	if err != nil {
		return nil, malformed(ProtocolShadowsocks, err)
	}
	if !utf8.ValidString(decoded) {
		return nil, malformed(ProtocolShadowsocks, errors.New("userinfo is not valid utf-8"))
	}
	method, password, ok := strings.Cut(decoded, ":")
	if !ok {
		return nil, malformed(ProtocolShadowsocks, errors.New("userinfo has no method:password separator"))
	}

	return &Outbound{
		Tag:      tagOr(u.Fragment, "ss", u.Host),
		Protocol: ProtocolShadowsocks,
		Settings: &ShadowsocksSettings{
			Servers: []ShadowsocksServer{{
				Address:  u.Host,
				Port:     u.Port,
				Password: password,
				Method:   method,
			}},
		},
		StreamSettings: StreamSettings{Network: "tcp", Security: "none"},
	}, nil
}
