package xray

import (
	"context"
	"errors"
	"testing"

	"rayconv/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDNSResolver_Literals(t *testing.T) {
	resolve := NewDNSResolver(config.Default().Resolver)

	ip, err := resolve(context.Background(), "192.0.2.7")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.7", ip)

	ip, err = resolve(context.Background(), "2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", ip)

	_, err = resolve(context.Background(), "")
	require.Error(t, err)
}

func TestDNSResolver_Localhost(t *testing.T) {
	resolve := NewDNSResolver(config.Default().Resolver)
	ip, err := resolve(context.Background(), "localhost")
	if err != nil {
		t.Skipf("no local resolver: %v", err)
	}
	assert.Equal(t, "127.0.0.1", ip)
}

func TestDNSResolver_Unresolvable(t *testing.T) {
	resolve := NewDNSResolver(config.Default().Resolver)
	_, err := resolve(context.Background(), "does-not-exist.invalid")
	require.Error(t, err)
}

func TestWithOverrides(t *testing.T) {
	next := func(_ context.Context, host string) (string, error) {
		if host == "fallback.example.com" {
			return "198.51.100.2", nil
		}
		return "", errors.New("nope")
	}
	resolve := WithOverrides(map[string]string{"pinned.example.com": "192.0.2.1"}, next)

	ip, err := resolve(context.Background(), "pinned.example.com")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", ip)

	ip, err = resolve(context.Background(), "fallback.example.com")
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.2", ip)

	_, err = resolve(context.Background(), "other.example.com")
	require.Error(t, err)
}
