package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rayconv/internal/collectors"
	"rayconv/internal/logger"
	"rayconv/internal/xray"
)

const defaultTimeout = 120 * time.Second

// URLCollector downloads a subscription and extracts the links in it.
type URLCollector struct{}

func (c *URLCollector) Collect(ctx context.Context, src collectors.Source) ([]string, error) {
	if src.Location == "" {
		return nil, fmt.Errorf("http source: empty url")
	}

	timeout := defaultTimeout
	if src.Timeout > 0 {
		timeout = src.Timeout
	}
	client := &http.Client{Timeout: timeout}

	if src.Proxy != "" {
		pURL, err := url.Parse(src.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(pURL)}
		logger.Log.Debugf("HTTP Collector using proxy: %s", src.Proxy)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	logger.Log.Debugf("Fetching URL: %s", src.Location)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return xray.ExtractLinks(xray.DecodeSubscription(string(body))), nil
}

func init() {
	collectors.Register("http", func() collectors.Collector {
		return &URLCollector{}
	})
}
