package parser

import (
	"encoding/json"
	"fmt"
)

// Protocol names as they appear in the "protocol" field of an outbound.
const (
	ProtocolVLESS       = "vless"
	ProtocolShadowsocks = "shadowsocks"
	ProtocolVMess       = "vmess"
	ProtocolTrojan      = "trojan"
)

// Outbound is the xray outbound object produced from a single share link.
// It marshals to the exact JSON shape the proxy core expects.
type Outbound struct {
	Tag            string         `json:"tag"`
	Protocol       string         `json:"protocol"`
	Settings       Settings       `json:"settings"`
	StreamSettings StreamSettings `json:"streamSettings"`
}

// Settings is implemented by the protocol specific "settings" objects.
type Settings interface {
	// ServerAddress returns the hostname the outbound connects to.
	ServerAddress() string
	// WithServerAddress returns a copy with the first server address replaced.
	WithServerAddress(addr string) Settings
}

// --- Remote target family (vless, vmess) ---

type VLESSSettings struct {
	Vnext []VLESSTarget `json:"vnext"`
}

type VLESSTarget struct {
	Address string      `json:"address"`
	Port    int         `json:"port"`
	Users   []VLESSUser `json:"users"`
}

type VLESSUser struct {
	ID         string `json:"id"`
	Encryption string `json:"encryption"`
	Flow       string `json:"flow"`
}

func (s *VLESSSettings) ServerAddress() string {
	if len(s.Vnext) == 0 {
		return ""
	}
	return s.Vnext[0].Address
}

func (s *VLESSSettings) WithServerAddress(addr string) Settings {
	cp := &VLESSSettings{Vnext: append([]VLESSTarget(nil), s.Vnext...)}
	if len(cp.Vnext) > 0 {
		cp.Vnext[0].Address = addr
	}
	return cp
}

type VMessSettings struct {
	Vnext []VMessTarget `json:"vnext"`
}

type VMessTarget struct {
	Address string      `json:"address"`
	Port    int         `json:"port"`
	Users   []VMessUser `json:"users"`
}

type VMessUser struct {
	ID       string `json:"id"`
	AlterID  int    `json:"alterId"`
	Security string `json:"security"`
}

func (s *VMessSettings) ServerAddress() string {
	if len(s.Vnext) == 0 {
		return ""
	}
	return s.Vnext[0].Address
}

func (s *VMessSettings) WithServerAddress(addr string) Settings {
	cp := &VMessSettings{Vnext: append([]VMessTarget(nil), s.Vnext...)}
	if len(cp.Vnext) > 0 {
		cp.Vnext[0].Address = addr
	}
	return cp
}

// --- Server family (shadowsocks, trojan) ---

type ShadowsocksSettings struct {
	Servers []ShadowsocksServer `json:"servers"`
}

type ShadowsocksServer struct {
	Address  string `json:"address"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	Method   string `json:"method"`
}

func (s *ShadowsocksSettings) ServerAddress() string {
	if len(s.Servers) == 0 {
		return ""
	}
	return s.Servers[0].Address
}

func (s *ShadowsocksSettings) WithServerAddress(addr string) Settings {
	cp := &ShadowsocksSettings{Servers: append([]ShadowsocksServer(nil), s.Servers...)}
	if len(cp.Servers) > 0 {
		cp.Servers[0].Address = addr
	}
	return cp
}

type TrojanSettings struct {
	Servers []TrojanServer `json:"servers"`
}

type TrojanServer struct {
	Address  string `json:"address"`
	Port     int    `json:"port"`
	Password string `json:"password"`
}

func (s *TrojanSettings) ServerAddress() string {
	if len(s.Servers) == 0 {
		return ""
	}
	return s.Servers[0].Address
}

func (s *TrojanSettings) WithServerAddress(addr string) Settings {
	cp := &TrojanSettings{Servers: append([]TrojanServer(nil), s.Servers...)}
	if len(cp.Servers) > 0 {
		cp.Servers[0].Address = addr
	}
	return cp
}

// --- Stream settings ---

// StreamSettings describes transport framing and security. Network and
// Security are always emitted; at most one security block and one transport
// block are set.
type StreamSettings struct {
	Network  string `json:"network"`
	Security string `json:"security"`

	TLSSettings     *TLSSettings     `json:"tlsSettings,omitempty"`
	RealitySettings *RealitySettings `json:"realitySettings,omitempty"`

	TCPSettings         *TCPSettings         `json:"tcpSettings,omitempty"`
	WSSettings          *WSSettings          `json:"wsSettings,omitempty"`
	GRPCSettings        *GRPCSettings        `json:"grpcSettings,omitempty"`
	HTTPUpgradeSettings *HTTPUpgradeSettings `json:"httpUpgradeSettings,omitempty"`
	// Legacy lower-case key emitted for vmess links. Consumers rely on the
	// exact key, so the two spellings are kept apart.
	LegacyHTTPUpgradeSettings *HTTPUpgradeSettings `json:"httpupgradeSettings,omitempty"`
	XHTTPSettings             *XHTTPSettings       `json:"xhttpSettings,omitempty"`
	KCPSettings               *KCPSettings         `json:"kcpSettings,omitempty"`
}

type TLSSettings struct {
	ServerName  string   `json:"serverName"`
	ALPN        []string `json:"alpn,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

type RealitySettings struct {
	ServerName  string `json:"serverName"`
	Fingerprint string `json:"fingerprint"`
	PublicKey   string `json:"publicKey"`
	ShortID     string `json:"shortId"`
	SpiderX     string `json:"spiderX"`
}

type TCPSettings struct {
	Header HeaderSettings `json:"header"`
}

type HeaderSettings struct {
	Type string `json:"type"`
}

type WSSettings struct {
	Path    string            `json:"path"`
	Headers map[string]string `json:"headers"`
}

type GRPCSettings struct {
	ServiceName string `json:"serviceName"`
	// Authority is nil when the link carries none (vless); vmess always sets it.
	Authority *string `json:"authority,omitempty"`
	MultiMode bool    `json:"multiMode"`
}

type HTTPUpgradeSettings struct {
	Path string `json:"path"`
	Host string `json:"host"`
}

// XHTTPSettings holds the xhttp transport block. Extra carries the keys of
// the link's "extra" JSON object; they override the typed fields on output.
type XHTTPSettings struct {
	Path  string
	Host  string
	Mode  string
	Extra map[string]json.RawMessage
}

func (x XHTTPSettings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 3+len(x.Extra))
	out["path"] = x.Path
	out["host"] = x.Host
	out["mode"] = x.Mode
	for k, v := range x.Extra {
		out[k] = v
	}
	return json.Marshal(out)
}

func (x *XHTTPSettings) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*x = XHTTPSettings{}
	for k, v := range fields {
		var dst *string
		switch k {
		case "path":
			dst = &x.Path
		case "host":
			dst = &x.Host
		case "mode":
			dst = &x.Mode
		}
		if dst != nil && json.Unmarshal(v, dst) == nil {
			continue
		}
		if x.Extra == nil {
			x.Extra = make(map[string]json.RawMessage)
		}
		x.Extra[k] = v
	}
	return nil
}

type KCPSettings struct {
	MTU              int            `json:"mtu"`
	TTI              int            `json:"tti"`
	UplinkCapacity   int            `json:"uplinkCapacity"`
	DownlinkCapacity int            `json:"downlinkCapacity"`
	Congestion       bool           `json:"congestion"`
	ReadBufferSize   int            `json:"readBufferSize"`
	WriteBufferSize  int            `json:"writeBufferSize"`
	Header           HeaderSettings `json:"header"`
	Seed             string         `json:"seed"`
}

// UnmarshalJSON picks the concrete settings type from the protocol field.
func (o *Outbound) UnmarshalJSON(b []byte) error {
	var aux struct {
		Tag            string          `json:"tag"`
		Protocol       string          `json:"protocol"`
		Settings       json.RawMessage `json:"settings"`
		StreamSettings StreamSettings  `json:"streamSettings"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	var settings Settings
	switch aux.Protocol {
	case ProtocolVLESS:
		settings = &VLESSSettings{}
	case ProtocolVMess:
		settings = &VMessSettings{}
	case ProtocolShadowsocks:
		settings = &ShadowsocksSettings{}
	case ProtocolTrojan:
		settings = &TrojanSettings{}
	default:
		return fmt.Errorf("unknown outbound protocol %q", aux.Protocol)
	}
	if len(aux.Settings) > 0 {
		if err := json.Unmarshal(aux.Settings, settings); err != nil {
			return fmt.Errorf("decode %s settings: %w", aux.Protocol, err)
		}
	}

	*o = Outbound{
		Tag:            aux.Tag,
		Protocol:       aux.Protocol,
		Settings:       settings,
		StreamSettings: aux.StreamSettings,
	}
	return nil
}

// WithServerAddress returns a copy of o whose server address is addr.
func (o *Outbound) WithServerAddress(addr string) *Outbound {
	cp := *o
	if o.Settings != nil {
		cp.Settings = o.Settings.WithServerAddress(addr)
	}
	return &cp
}
