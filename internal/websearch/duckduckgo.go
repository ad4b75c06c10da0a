package websearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/yungbote/learning-planner/internal/observability"
	"github.com/yungbote/learning-planner/internal/platform/httpx"
)

const (
	defaultDuckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	maxBodyBytes              = 1 << 20
	maxRetryWait              = 5 * time.Second
)

type statusError struct {
	code       int
	retryAfter time.Duration
}

func (e *statusError) Error() string { return fmt.Sprintf("duckduckgo: HTTP %d", e.code) }
func (e *statusError) HTTPStatusCode() int { return e.code }

// DuckDuckGo scrapes the DuckDuckGo HTML endpoint. No API key is needed.
type DuckDuckGo struct {
	endpoint   string
	maxResults int
	timeout    time.Duration
	retryWait  time.Duration
	httpClient *http.Client
	metrics    *observability.Metrics
}

type DuckDuckGoOptions struct {
	Endpoint   string
	MaxResults int
	Timeout    time.Duration
	// RetryWait is the pause before the single retry of a 408/429/5xx. Defaults to 500ms.
	RetryWait  time.Duration
	HTTPClient *http.Client
	Metrics    *observability.Metrics
}

func NewDuckDuckGo(opts DuckDuckGoOptions) *DuckDuckGo {
	d := &DuckDuckGo{
		endpoint:   strings.TrimSpace(opts.Endpoint),
		maxResults: opts.MaxResults,
		timeout:    opts.Timeout,
		retryWait:  opts.RetryWait,
		httpClient: opts.HTTPClient,
		metrics:    opts.Metrics,
	}
	if d.endpoint == "" {
		d.endpoint = defaultDuckDuckGoEndpoint
	}
	if d.maxResults <= 0 {
		d.maxResults = 8
	}
	if d.timeout <= 0 {
		d.timeout = 10 * time.Second
	}
	if d.retryWait <= 0 {
		d.retryWait = 500 * time.Millisecond
	}
	if d.httpClient == nil {
		d.httpClient = &http.Client{}
	}
	return d
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	results, err := d.search(ctx, query)
	if err != nil && httpx.IsRetryableError(err) {
		wait := d.retryWait
		var se *statusError
		if errors.As(err, &se) && se.retryAfter > 0 {
			wait = se.retryAfter
		}
		if serr := httpx.Sleep(ctx, httpx.JitterSleep(wait)); serr == nil {
			results, err = d.search(ctx, query)
		}
	}
	if err != nil {
		d.metrics.IncSearchRequest("duckduckgo", "error")
		return "", err
	}
	d.metrics.IncSearchRequest("duckduckgo", "ok")
	return Render(results), nil
}

func (d *DuckDuckGo) search(ctx context.Context, query string) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	u := d.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; learning-planner/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{
			code:       resp.StatusCode,
			retryAfter: httpx.RetryAfterDuration(resp, 0, maxRetryWait),
		}
	}
	return parseResults(io.LimitReader(resp.Body, maxBodyBytes), d.maxResults)
}

// parseResults walks result blocks: an a.result__a link and an optional .result__snippet.
func parseResults(r io.Reader, max int) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse html: %w", err)
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= max {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if res := extractResult(n); res.URL != "" && res.Title != "" {
				results = append(results, res)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

func extractResult(n *html.Node) Result {
	var res Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				res.URL = resolveRedirect(attr(n, "href"))
				res.Title = textContent(n)
			case hasClass(n, "result__snippet"):
				res.Snippet = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return res
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= tracking links.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
