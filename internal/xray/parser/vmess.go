package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// vmessField accepts a JSON string, number or bool. Generators disagree on
// whether port/aid are quoted, so every field is read as text.
type vmessField struct {
	Value string
	Set   bool
}

func (f *vmessField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = vmessField{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = vmessField{Value: s, Set: true}
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return fmt.Errorf("unexpected JSON value %s", b)
	default:
		*f = vmessField{Value: string(b), Set: true}
	}
	return nil
}

// Or returns the value when present and non-empty, otherwise def.
func (f vmessField) Or(def string) string {
	if f.Value == "" {
		return def
	}
	return f.Value
}

// Int parses the value as an integer, returning def when absent.
func (f vmessField) Int(def int) (int, error) {
	if !f.Set {
		return def, nil
	}
	v := strings.TrimSpace(f.Value)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	// JSON numbers such as 443.0
	fl, err := strconv.ParseFloat(v, 64)
	if err != nil || fl != float64(int(fl)) {
		return 0, fmt.Errorf("not an integer: %q", f.Value)
	}
	return int(fl), nil
}

type vmessJSON struct {
	Add       vmessField `json:"add"`
	Port      vmessField `json:"port"`
	ID        vmessField `json:"id"`
	Aid       vmessField `json:"aid"`
	Scy       vmessField `json:"scy"`
	Ps        vmessField `json:"ps"`
	Net       vmessField `json:"net"`
	TLS       vmessField `json:"tls"`
	SNI       vmessField `json:"sni"`
	Host      vmessField `json:"host"`
	ALPN      vmessField `json:"alpn"`
	FP        vmessField `json:"fp"`
	Type      vmessField `json:"type"`
	Path      vmessField `json:"path"`
	Mode      vmessField `json:"mode"`
	Authority vmessField `json:"authority"`
}

func parseVMess(raw string) (*Outbound, error) {
	payload, err := DecodeBase64(strings.TrimPrefix(raw, "vmess://"))
	if err != nil {
		return nil, malformed(ProtocolVMess, err)
	}

	var v vmessJSON
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, malformed(ProtocolVMess, err)
	}

	port, err := v.Port.Int(443)
	if err != nil {
		return nil, malformed(ProtocolVMess, fmt.Errorf("port: %w", err))
	}
	// Generators emit "aid": "" for no alterId.
	aid := 0
	if strings.TrimSpace(v.Aid.Value) != "" {
		if aid, err = v.Aid.Int(0); err != nil {
			return nil, malformed(ProtocolVMess, fmt.Errorf("aid: %w", err))
		}
	}

	address := v.Add.Value
	o := &Outbound{
		Tag:      tagOr(Unescape(v.Ps.Value), ProtocolVMess, address),
		Protocol: ProtocolVMess,
		Settings: &VMessSettings{
			Vnext: []VMessTarget{{
				Address: address,
				Port:    port,
				Users: []VMessUser{{
					ID:       v.ID.Value,
					AlterID:  aid,
					Security: v.Scy.Or("auto"),
				}},
			}},
		},
		StreamSettings: StreamSettings{
			Network:  v.Net.Or("tcp"),
			Security: v.TLS.Or("none"),
		},
	}
	ss := &o.StreamSettings

	// Only "tls" produces a security block; other values pass through as-is.
	if v.TLS.Value == "tls" {
		t := &TLSSettings{
			ServerName:  v.SNI.Or(v.Host.Value),
			Fingerprint: v.FP.Value,
		}
		if v.ALPN.Value != "" {
			t.ALPN = strings.Split(v.ALPN.Value, ",")
		}
		ss.TLSSettings = t
	}

	switch ss.Network {
	case "tcp":
		if ht := v.Type.Or("none"); ht != "none" {
			ss.TCPSettings = &TCPSettings{Header: HeaderSettings{Type: ht}}
		}
	case "ws":
		ws := &WSSettings{Path: v.Path.Or("/"), Headers: map[string]string{}}
		if v.Host.Value != "" {
			ws.Headers["Host"] = v.Host.Value
		}
		ss.WSSettings = ws
	case "xhttp":
		ss.XHTTPSettings = &XHTTPSettings{
			Path: v.Path.Or("/"),
			Host: v.Host.Value,
			Mode: v.Mode.Or("auto"),
		}
	case "httpupgrade":
		ss.LegacyHTTPUpgradeSettings = &HTTPUpgradeSettings{
			Path: v.Path.Or("/"),
			Host: v.Host.Value,
		}
	case "grpc":
		authority := v.Authority.Value
		ss.GRPCSettings = &GRPCSettings{
			ServiceName: v.Path.Value,
			Authority:   &authority,
			MultiMode:   v.Mode.Value == "multi",
		}
	case "kcp":
		ss.KCPSettings = &KCPSettings{
			MTU:              1350,
			TTI:              50,
			UplinkCapacity:   5,
			DownlinkCapacity: 20,
			Congestion:       false,
			ReadBufferSize:   2,
			WriteBufferSize:  2,
			Header:           HeaderSettings{Type: v.Type.Or("none")},
			Seed:             v.Path.Value,
		}
	}

	return o, nil
}
