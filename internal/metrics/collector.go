package metrics

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"rayconv/internal/xray/parser"
)

// Skip reasons reported by a batch run.
const (
	ReasonUnsupported = "Unsupported scheme"
	ReasonMalformed   = "Malformed link"
	ReasonInvalid     = "Rejected by xray"
	ReasonDuplicate   = "Duplicate"
	ReasonOther       = "Other"
)

type Collector struct {
	mu sync.Mutex

	converted  map[string]int // by protocol
	totalOK    int
	skipCounts map[string]int
	totalSkip  int
}

func New() *Collector {
	return &Collector{
		converted:  make(map[string]int),
		skipCounts: make(map[string]int),
	}
}

func (c *Collector) RecordConverted(protocol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.converted[protocol]++
	c.totalOK++
}

// RecordParseFailure categorizes an error returned by the link parser.
func (c *Collector) RecordParseFailure(err error) {
	reason := ReasonOther
	switch {
	case errors.Is(err, parser.ErrUnsupportedScheme):
		reason = ReasonUnsupported
	case errors.Is(err, parser.ErrMalformedLink):
		reason = ReasonMalformed
	}
	c.RecordSkip(reason)
}

func (c *Collector) RecordSkip(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.skipCounts[reason]++
	c.totalSkip++
}

func (c *Collector) Converted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalOK
}

func (c *Collector) Skipped(reason string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skipCounts[reason]
}

func (c *Collector) PrintReport(out io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\n📊 \033[1mBATCH REPORT\033[0m")
	fmt.Fprintln(w, "────────────────────────────────────────")

	fmt.Fprintln(w, "\033[1;36m[ CONVERTED ]\033[0m")
	fmt.Fprintf(w, "  Total:\t%d\n", c.totalOK)
	for _, k := range sortedKeys(c.converted) {
		fmt.Fprintf(w, "  %s:\t%d\n", k, c.converted[k])
	}
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "\033[1;36m[ SKIPPED ]\033[0m")
	fmt.Fprintf(w, "  Total:\t%d\n", c.totalSkip)
	for _, k := range sortedKeys(c.skipCounts) {
		pct := float64(c.skipCounts[k]) / float64(c.totalSkip) * 100
		fmt.Fprintf(w, "  %s:\t%d (%.1f%%)\n", k, c.skipCounts[k], pct)
	}

	w.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
