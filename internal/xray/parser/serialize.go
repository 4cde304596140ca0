package parser

import "errors"

// ErrLinkNotSupported is returned by ToLink for every outbound.
var ErrLinkNotSupported = errors.New("outbound to link conversion is not supported")

// ToLink converts an outbound back into a share link. Not implemented yet:
// it never fabricates a link and always returns ErrLinkNotSupported.
func ToLink(o *Outbound) (string, error) {
	return "", ErrLinkNotSupported
}
