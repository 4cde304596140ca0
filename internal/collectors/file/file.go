package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"rayconv/internal/collectors"
	"rayconv/internal/logger"
	"rayconv/internal/xray"
)

// FileCollector reads links from a local file, or stdin when the location is "-".
type FileCollector struct {
	// Stdin is read for location "-". Nil means os.Stdin.
	Stdin io.Reader
}

func (c *FileCollector) Collect(_ context.Context, src collectors.Source) ([]string, error) {
	if src.Location == "" {
		return nil, fmt.Errorf("file source: empty path")
	}

	var data []byte
	var err error
	if src.Location == "-" {
		in := c.Stdin
		if in == nil {
			in = os.Stdin
		}
		logger.Log.Debug("Reading links from stdin")
		data, err = io.ReadAll(in)
	} else {
		logger.Log.Debugf("Reading links from %s", src.Location)
		data, err = os.ReadFile(src.Location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	return xray.ExtractLinks(xray.DecodeSubscription(string(data))), nil
}

func init() {
	collectors.Register("file", func() collectors.Collector {
		return &FileCollector{}
	})
}
