package collectors

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Source describes where a batch of links comes from.
type Source struct {
	// Location is a file path, "-" for stdin, or a subscription URL.
	Location string
	// Timeout bounds a remote fetch. Zero means the collector default.
	Timeout time.Duration
	// Proxy is an optional upstream proxy URL for remote fetches.
	Proxy string
}

// Collector reads a source and returns the share links found in it.
type Collector interface {
	Collect(ctx context.Context, src Source) ([]string, error)
}

type Factory func() Collector

var registry = make(map[string]Factory)

func Register(kind string, factory Factory) {
	registry[kind] = factory
}

func Get(kind string) (Collector, error) {
	factory, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("no collector for source kind %q (have %v)", kind, Kinds())
	}
	return factory(), nil
}

// Kinds lists the registered source kinds.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
