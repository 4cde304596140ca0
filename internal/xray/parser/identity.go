package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint identifies the connection an outbound describes. The tag is
// cleared first, so two links differing only in their display name collide.
func (o *Outbound) Fingerprint() string {
	cp := *o
	cp.Tag = ""
	b, err := json.Marshal(&cp)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(b)
	return hex.EncodeToString(hash[:])
}
