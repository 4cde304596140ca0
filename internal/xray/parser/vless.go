package parser

import (
	"encoding/json"
	"strings"

	"github.com/samber/lo"
)

var defaultALPN = []string{"h2", "http/1.1"}

func parseVLESS(raw string) (*Outbound, error) {
	u, err := splitURI(raw)
	if err != nil {
		return nil, malformed(ProtocolVLESS, err)
	}
	q := u.Params

	o := &Outbound{
		Tag:      tagOr(u.Fragment, ProtocolVLESS, u.Host),
		Protocol: ProtocolVLESS,
		Settings: &VLESSSettings{
			Vnext: []VLESSTarget{{
				Address: u.Host,
				Port:    u.Port,
				Users: []VLESSUser{{
					ID:         u.User,
					Encryption: q.Get("encryption", "none"),
					Flow:       q.Get("flow", ""),
				}},
			}},
		},
		StreamSettings: StreamSettings{
			Network:  q.Get("type", "tcp"),
			Security: q.Get("security", "none"),
		},
	}
	ss := &o.StreamSettings

	switch ss.Security {
	case "tls":
		// sni > authority > host > address
		ss.TLSSettings = queryTLS(q, lo.CoalesceOrEmpty(
			q.Get("sni", ""), q.Get("authority", ""), q.Get("host", ""), u.Host,
		))
	case "reality":
		// sni > host > address
		ss.RealitySettings = queryReality(q, lo.CoalesceOrEmpty(
			q.Get("sni", ""), q.Get("host", ""), u.Host,
		))
	}

	switch ss.Network {
	case "ws":
		ws := &WSSettings{Path: q.Get("path", "/"), Headers: map[string]string{}}
		if host := q.Get("host", u.Host); host != "" {
			ws.Headers["Host"] = host
		}
		ss.WSSettings = ws
	case "httpupgrade":
		ss.HTTPUpgradeSettings = &HTTPUpgradeSettings{
			Path: q.Get("path", "/"),
			Host: q.Get("host", u.Host),
		}
	case "xhttp":
		x := &XHTTPSettings{
			Path: q.Get("path", "/"),
			Host: q.Get("host", u.Host),
			Mode: q.Get("mode", "auto"),
		}
		if extra := q.Get("extra", ""); extra != "" {
			var fields map[string]json.RawMessage
			// Not a JSON object: ignored.
			if json.Unmarshal([]byte(extra), &fields) == nil && fields != nil {
				x.Extra = fields
			}
		}
		ss.XHTTPSettings = x
	case "grpc":
		g := &GRPCSettings{
			ServiceName: q.Get("serviceName", ""),
			MultiMode:   q.Get("mode", "gun") == "multi",
		}
		if q.Has("authority") {
			g.Authority = lo.ToPtr(q.Get("authority", ""))
		}
		ss.GRPCSettings = g
	case "tcp":
		if ht := q.Get("headerType", "none"); ht != "none" {
			ss.TCPSettings = &TCPSettings{Header: HeaderSettings{Type: ht}}
		}
	}

	return o, nil
}

// queryTLS builds tlsSettings from link query parameters. The alpn parameter
// may repeat and each value may be a comma separated list.
func queryTLS(q Params, serverName string) *TLSSettings {
	var alpn []string
	for _, v := range q.All("alpn", defaultALPN) {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				alpn = append(alpn, a)
			}
		}
	}
	return &TLSSettings{
		ServerName:  serverName,
		ALPN:        alpn,
		Fingerprint: q.Get("fp", ""),
	}
}

func queryReality(q Params, serverName string) *RealitySettings {
	return &RealitySettings{
		ServerName:  serverName,
		Fingerprint: q.Get("fp", "chrome"),
		PublicKey:   q.Get("pbk", ""),
		ShortID:     q.Get("sid", ""),
		SpiderX:     q.Get("spx", "/"),
	}
}
