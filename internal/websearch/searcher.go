// Package websearch fetches line-oriented web search text for the tutor.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyQuery = errors.New("websearch: empty query")

// Searcher returns raw search text: one result per line, each line carrying its URL.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Render formats results as "- title url snippet" lines.
func Render(results []Result) string {
	var b strings.Builder
	for _, r := range results {
		line := strings.TrimSpace(fmt.Sprintf("- %s %s %s", oneLine(r.Title), r.URL, oneLine(r.Snippet)))
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

