// Package resources pulls learning resources out of line-oriented web search text.
package resources

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/learning-planner/internal/types"
)

const (
	MaxResources  = 8
	maxTitleRunes = 60
	maxDescRunes  = 150
	ellipsis      = "..."
	titleCutset   = " -•*"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

// Extract returns at most MaxResources resources in first-seen order, one per distinct URL.
// topic is currently unused; results are not filtered by it.
func Extract(searchText, topic string) []types.Resource {
	_ = topic
	out := make([]types.Resource, 0, MaxResources)
	seen := map[string]bool{}
	for _, line := range strings.Split(searchText, "\n") {
		if len(out) >= MaxResources {
			break
		}
		if !strings.Contains(line, "http") {
			continue
		}
		urls := urlRe.FindAllString(line, -1)
		if len(urls) == 0 {
			continue
		}
		title := Title(line)
		desc := truncate(strings.TrimSpace(line), maxDescRunes)
		for _, u := range urls {
			if len(out) >= MaxResources {
				break
			}
			if seen[u] {
				continue
			}
			seen[u] = true
			t := title
			if t == "" {
				t = Domain(u)
			}
			out = append(out, types.Resource{
				URL:         u,
				Type:        Classify(u, line),
				Title:       t,
				Description: desc,
			})
		}
	}
	return out
}

// Classify picks a resource type from the URL host first, then from words on the line.
func Classify(rawURL, line string) types.ResourceType {
	host := strings.ToLower(hostOf(rawURL))
	switch {
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return types.ResourceVideo
	case strings.Contains(host, "github.com"):
		return types.ResourceTool
	}
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "docs"), strings.Contains(l, "documentation"):
		return types.ResourceDocumentation
	case strings.Contains(l, "course"), strings.Contains(l, "tutorial"):
		return types.ResourceArticle
	}
	return types.ResourceArticle
}

// Title is the line with its URLs removed and bullet punctuation trimmed, capped at 60 runes.
// It is empty when the line is nothing but URLs.
func Title(line string) string {
	t := urlRe.ReplaceAllString(line, "")
	t = strings.Trim(strings.TrimSpace(t), titleCutset)
	t = strings.TrimSpace(t)
	return truncate(t, maxTitleRunes)
}

// Domain returns the URL host without a leading "www.". Unparseable input yields "".
func Domain(rawURL string) string {
	return strings.TrimPrefix(strings.ToLower(hostOf(rawURL)), "www.")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + ellipsis
}
