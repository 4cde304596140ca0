package parser

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
)

// DecodeBase64 decodes standard or URL-safe base64, tolerating missing or
// superfluous padding.
func DecodeBase64(s string) (string, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return string(b), nil
	}

	b, err = base64.URLEncoding.DecodeString(s)
	if err == nil {
		return string(b), nil
	}

	return "", err
}

// FixIllegalUrl cleans up common issues in scraped links.
func FixIllegalUrl(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

// Unescape percent-decodes every valid %XX sequence in s and leaves
// malformed ones as they are. Invalid UTF-8 in the result becomes U+FFFD.
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		b = append(b, s[i])
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

// Params is a multi-valued query parameter lookup. Blank values are dropped
// on construction, so a key given as "sni=" counts as absent.
type Params map[string][]string

// NewParams parses a raw query string. Pairs are separated by '&' only, so
// a ';' stays part of its value; pairs without '=' are dropped.
func NewParams(rawQuery string) Params {
	p := make(Params)
	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = Unescape(strings.ReplaceAll(k, "+", " "))
		v = Unescape(strings.ReplaceAll(v, "+", " "))
		if v != "" {
			p[k] = append(p[k], v)
		}
	}
	return p
}

// Has reports whether key carries at least one value.
func (p Params) Has(key string) bool {
	return len(p[key]) > 0
}

// Get returns the first value of key, or def.
func (p Params) Get(key, def string) string {
	if vs := p[key]; len(vs) > 0 {
		return vs[0]
	}
	return def
}

// All returns every value of key, or def.
func (p Params) All(key string, def []string) []string {
	if vs := p[key]; len(vs) > 0 {
		return append([]string(nil), vs...)
	}
	return def
}

// uriParts is a share link split per URL syntax. The fragment and userinfo
// are cut off before url.Parse, so stray characters in a node name or a
// password cannot fail the link.
type uriParts struct {
	User     string
	Host     string
	Port     int
	Params   Params
	Fragment string
}

func splitURI(raw string) (*uriParts, error) {
	body, fragment, _ := strings.Cut(raw, "#")
	userinfo, body := cutUserinfo(body)
	u, err := url.Parse(body)
	if err != nil {
		return nil, err
	}

	user, _, _ := strings.Cut(userinfo, ":")
	p := &uriParts{
		User:     Unescape(user),
		Host:     strings.ToLower(u.Hostname()),
		Params:   NewParams(u.RawQuery),
		Fragment: Unescape(fragment),
	}
	if port := u.Port(); port != "" {
		p.Port, err = strconv.Atoi(port)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// cutUserinfo removes the userinfo from the authority of a
// "scheme://user@host..." link, returning it along with the remaining link.
func cutUserinfo(link string) (string, string) {
	scheme, rest, ok := strings.Cut(link, "://")
	if !ok {
		return "", link
	}
	end := strings.IndexAny(rest, "/?")
	if end < 0 {
		end = len(rest)
	}
	at := strings.LastIndex(rest[:end], "@")
	if at < 0 {
		return "", link
	}
	return rest[:at], scheme + "://" + rest[at+1:]
}

// tagOr returns name when non-empty, otherwise "<prefix>-<address>".
func tagOr(name, prefix, address string) string {
	if name != "" {
		return name
	}
	return prefix + "-" + address
}
