package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedScheme means no parser recognized the link prefix.
	ErrUnsupportedScheme = errors.New("unsupported link scheme")
	// ErrMalformedLink means the scheme was recognized but the payload was not.
	ErrMalformedLink = errors.New("malformed link")
)

type schemeParser struct {
	prefix string
	parse  func(string) (*Outbound, error)
}

// Tried in order; the first matching prefix wins.
var schemes = []schemeParser{
	{"vless://", parseVLESS},
	{"ss://", parseShadowsocks},
	{"vmess://", parseVMess},
	{"trojan://", parseTrojan},
}

// Parse converts a share link into an outbound. Unknown prefixes yield
// ErrUnsupportedScheme; bad payloads yield an error wrapping ErrMalformedLink.
func Parse(raw string) (*Outbound, error) {
	raw = FixIllegalUrl(raw)
	for _, s := range schemes {
		if strings.HasPrefix(raw, s.prefix) {
			return s.parse(raw)
		}
	}
	return nil, ErrUnsupportedScheme
}

// Supported reports whether raw starts with a recognized scheme prefix.
func Supported(raw string) bool {
	for _, s := range schemes {
		if strings.HasPrefix(raw, s.prefix) {
			return true
		}
	}
	return false
}

func malformed(scheme string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrMalformedLink, scheme)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedLink, scheme, err)
}
