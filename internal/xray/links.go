package xray

import (
	"bufio"
	"regexp"
	"strings"

	"rayconv/internal/xray/parser"

	"github.com/samber/lo"
)

var regexLink = regexp.MustCompile(`(vmess|vless|trojan|ss)://[a-zA-Z0-9_\-\.\:@\?=&%#+/~,\[\]!$'*;]+`)

// ExtractLinks finds share links of the supported schemes in free text.
// Order of first appearance is kept and duplicates are dropped.
func ExtractLinks(text string) []string {
	var links []string
	text = strings.ReplaceAll(text, "\r\n", "\n")
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		matches := regexLink.FindAllString(line, -1)
		for _, match := range matches {
			clean := strings.TrimRight(match, ".,;)\"'")
			if clean != "" && parser.Supported(clean) {
				links = append(links, clean)
			}
		}
	}
	return lo.Uniq(links)
}

// DecodeSubscription returns body as-is when it already contains links,
// otherwise it tries to base64-decode it.
func DecodeSubscription(body string) string {
	trimmed := strings.TrimSpace(body)
	if strings.Contains(trimmed, "://") {
		return trimmed
	}
	decoded, err := parser.DecodeBase64(strings.Join(strings.Fields(trimmed), ""))
	if err != nil {
		return trimmed
	}
	return decoded
}
