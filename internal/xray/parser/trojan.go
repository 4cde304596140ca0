package parser

import (
	"slices"

	"github.com/samber/lo"
)

func parseTrojan(raw string) (*Outbound, error) {
	u, err := splitURI(raw)
	if err != nil {
		return nil, malformed(ProtocolTrojan, err)
	}
	q := u.Params

	o := &Outbound{
		Tag:      tagOr(u.Fragment, ProtocolTrojan, u.Host),
		Protocol: ProtocolTrojan,
		Settings: &TrojanSettings{
			Servers: []TrojanServer{{
				Address:  u.Host,
				Port:     u.Port,
				Password: u.User,
			}},
		},
		StreamSettings: StreamSettings{
			Network:  q.Get("type", "tcp"),
			Security: q.Get("security", "none"),
		},
	}
	ss := &o.StreamSettings

	// sni > host > address for both tls and reality; no authority tier.
	serverName := lo.CoalesceOrEmpty(q.Get("sni", ""), q.Get("host", ""), u.Host)
	switch ss.Security {
	case "tls":
		ss.TLSSettings = queryTLS(q, serverName)
	case "reality":
		ss.RealitySettings = queryReality(q, serverName)
	}

	// The header block needs an explicit type=tcp; the implied default is
	// not enough.
	if slices.Equal(q["type"], []string{"tcp"}) {
		if ht := q.Get("headerType", "none"); ht != "none" {
			ss.TCPSettings = &TCPSettings{Header: HeaderSettings{Type: ht}}
		}
	}

	return o, nil
}
