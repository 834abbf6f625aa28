// Package extract pulls anchor targets out of rendered comment HTML.
package extract

import (
	"fmt"
	"regexp"
)

// DefaultPattern matches double-quoted href attributes of anchors
const DefaultPattern = `a href="([^"]+)"`

// Extractor finds URLs in HTML with a single-capture-group pattern
type Extractor struct {
	pattern *regexp.Regexp
}

// New compiles pattern. The pattern must have exactly one capture group,
// which selects the URL.
func New(pattern string) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid link pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("link pattern %q must have exactly one capture group, has %d", pattern, re.NumSubexp())
	}
	return &Extractor{pattern: re}, nil
}

// Default returns an Extractor using DefaultPattern
func Default() *Extractor {
	return &Extractor{pattern: regexp.MustCompile(DefaultPattern)}
}

// URLs returns every captured URL in body, in document order, duplicates kept.
// Malformed HTML is not an error; only the anchor shape is matched.
func (e *Extractor) URLs(body string) []string {
	if body == "" {
		return nil
	}

	matches := e.pattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}
