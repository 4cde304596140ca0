package metrics

import (
	"bytes"
	"fmt"
	"testing"

	"rayconv/internal/xray/parser"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Categorizes(t *testing.T) {
	c := New()
	c.RecordConverted("vless")
	c.RecordConverted("vless")
	c.RecordConverted("trojan")
	c.RecordParseFailure(fmt.Errorf("%w: http", parser.ErrUnsupportedScheme))
	c.RecordParseFailure(fmt.Errorf("%w: bad port", parser.ErrMalformedLink))
	c.RecordParseFailure(fmt.Errorf("boom"))
	c.RecordSkip(ReasonDuplicate)

	assert.Equal(t, 3, c.Converted())
	assert.Equal(t, 1, c.Skipped(ReasonUnsupported))
	assert.Equal(t, 1, c.Skipped(ReasonMalformed))
	assert.Equal(t, 1, c.Skipped(ReasonOther))
	assert.Equal(t, 1, c.Skipped(ReasonDuplicate))
	assert.Equal(t, 0, c.Skipped(ReasonInvalid))
}

func TestCollector_PrintReport(t *testing.T) {
	c := New()
	c.RecordConverted("ss")
	c.RecordSkip(ReasonDuplicate)

	var buf bytes.Buffer
	c.PrintReport(&buf)
	out := buf.String()
	assert.Contains(t, out, "BATCH REPORT")
	assert.Contains(t, out, "ss:")
	assert.Contains(t, out, "Duplicate:")
	assert.Contains(t, out, "(100.0%)")
}
