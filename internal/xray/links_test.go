package xray

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	text := "Fresh nodes:\r\n" +
		"vless://uuid@a.example.com:443?type=ws#A\r\n" +
		"  - trojan://pw@b.example.com:443#B, and more.\n" +
		"http://not-a-proxy.example.com\n" +
		"vless://uuid@a.example.com:443?type=ws#A\n" +
		"(ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ@c.example.com:8388)\n" +
		"socks://u:p@d.example.com:1080\n"

	assert.Equal(t, []string{
		"vless://uuid@a.example.com:443?type=ws#A",
		"trojan://pw@b.example.com:443#B",
		"ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ@c.example.com:8388",
	}, ExtractLinks(text))
}

func TestExtractLinks_Empty(t *testing.T) {
	assert.Empty(t, ExtractLinks(""))
	assert.Empty(t, ExtractLinks("nothing to see here"))
}

func TestDecodeSubscription(t *testing.T) {
	raw := "trojan://pw@b.example.com:443#B\nvless://u@a.example.com:443#A"

	assert.Equal(t, raw, DecodeSubscription(raw))

	encoded := base64.StdEncoding.EncodeToString([]byte(raw))
	assert.Equal(t, raw, DecodeSubscription(encoded))

	// Line-wrapped base64 is joined before decoding.
	wrapped := encoded[:20] + "\n" + encoded[20:]
	assert.Equal(t, raw, DecodeSubscription(wrapped))

	assert.Equal(t, "plain text", DecodeSubscription("plain text"))
}
