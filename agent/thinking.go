package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// thinkingExtractor strips private reasoning spans from model output.
// Some models wrap chain-of-thought in paired tags such as <think>…</think>;
// that content is useful for diagnostics but must never reach the shared
// transcript or the user-visible answer.
type thinkingExtractor struct {
	patterns []*regexp.Regexp
}

// newThinkingExtractor compiles one pattern per tag name. Tag names are
// tried in order at extraction time and the first that matches wins.
func newThinkingExtractor(tagNames []string) *thinkingExtractor {
	patterns := make([]*regexp.Regexp, 0, len(tagNames))
	for _, name := range tagNames {
		quoted := regexp.QuoteMeta(name)
		patterns = append(patterns, regexp.MustCompile(fmt.Sprintf(`(?s)<%s>(.*?)</%s>`, quoted, quoted)))
	}
	return &thinkingExtractor{patterns: patterns}
}

// Extract returns the concatenated thinking spans and the content with
// those spans removed. Only the first tag pair that matches anywhere in the
// content is applied; all of its spans are collected.
func (e *thinkingExtractor) Extract(content string) (thinking, visible string) {
	for _, pattern := range e.patterns {
		matches := pattern.FindAllStringSubmatch(content, -1)
		if len(matches) == 0 {
			continue
		}

		spans := make([]string, 0, len(matches))
		for _, m := range matches {
			spans = append(spans, strings.TrimSpace(m[1]))
		}
		visible = strings.TrimSpace(pattern.ReplaceAllString(content, ""))
		return strings.Join(spans, "\n\n"), visible
	}
	return "", content
}
