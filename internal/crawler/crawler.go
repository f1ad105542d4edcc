// Package crawler resolves a submitted team page into its schedule URL and name and
// reads upcoming matches from schedule pages.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/takumi3488/football-ical/internal/logging"
)

const (
	defaultTimeout = 10 * time.Second
	maxPageBytes   = 2 << 20

	teamNameClass = "sc-teamTitle__name"
)

var (
	// ErrUnsupportedURL is returned when a page does not resolve to a team page.
	ErrUnsupportedURL = errors.New("url is not a team page")
	// ErrNoTeamName is returned when a schedule page carries no team name.
	ErrNoTeamName = errors.New("team name not found")
)

var teamBasePattern = regexp.MustCompile(`^(https?://[^/?#]+/[^?#]+/teams?/\d+)`)

// Result is a resolved team.
type Result struct {
	ScheduleURL string
	Name        string
}

// Resolver turns a user-submitted URL into a team.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (Result, error)
}

// Crawler fetches team pages over HTTP.
type Crawler struct {
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Crawler. A nil client gets one with a default timeout.
func New(client *http.Client, logger *slog.Logger) *Crawler {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Crawler{client: client, logger: logger, now: time.Now}
}

// Resolve follows redirects from rawURL, normalises the final address to the team's
// schedule page and reads the team name from it.
func (c *Crawler) Resolve(ctx context.Context, rawURL string) (Result, error) {
	landing, _, err := c.fetch(ctx, rawURL)
	if err != nil {
		return Result{}, err
	}
	schedule, err := ScheduleURL(landing)
	if err != nil {
		return Result{}, err
	}

	_, doc, err := c.fetch(ctx, schedule)
	if err != nil {
		return Result{}, err
	}
	name, err := TeamName(doc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", schedule, err)
	}
	logging.Debug(c.logger, "crawled team page", slog.String("url", schedule), slog.String("name", name))
	return Result{ScheduleURL: schedule, Name: name}, nil
}

// fetch returns the URL the request ended at after redirects and the parsed page.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, *html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return resp.Request.URL.String(), doc, nil
}

// ScheduleURL maps any page under a team to that team's schedule page.
func ScheduleURL(pageURL string) (string, error) {
	m := teamBasePattern.FindStringSubmatch(pageURL)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURL, pageURL)
	}
	return m[1] + "/schedule", nil
}

// TeamName reads the team title from a schedule page, falling back to the document title.
func TeamName(doc *html.Node) (string, error) {
	if n := find(doc, func(n *html.Node) bool { return hasClass(n, teamNameClass) }); n != nil {
		if name := textContent(n); name != "" {
			return name, nil
		}
	}
	if n := find(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "title" }); n != nil {
		if name := textContent(n); name != "" {
			return name, nil
		}
	}
	return "", ErrNoTeamName
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := find(child, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Passthrough resolves every URL to itself, using the URL as the team name.
type Passthrough struct{}

func (Passthrough) Resolve(_ context.Context, rawURL string) (Result, error) {
	return Result{ScheduleURL: rawURL, Name: rawURL}, nil
}
