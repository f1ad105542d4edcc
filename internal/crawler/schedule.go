package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/takumi3488/football-ical/internal/calendar"
	"github.com/takumi3488/football-ical/internal/logging"
)

const (
	scheduleTableID = "scheduleTable"
	cellClass       = "sc-tableGame__data"
	teamLinkClass   = "sc-tableGame__team"
	finishedMarker  = "試合終了"
)

// Matches "7/2（水）19:00". Late kick-offs are written past midnight, e.g. "24:30".
var kickoffPattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})（.）(\d{2}):(\d{2})`)

// Schedule is a team's name and the matches still to be played.
type Schedule struct {
	Name   string
	Events []calendar.Event
}

// Schedule fetches a team schedule page and reads its team name and upcoming matches.
func (c *Crawler) Schedule(ctx context.Context, scheduleURL string) (Schedule, error) {
	_, doc, err := c.fetch(ctx, scheduleURL)
	if err != nil {
		return Schedule{}, err
	}
	name, err := TeamName(doc)
	if err != nil {
		return Schedule{}, fmt.Errorf("%s: %w", scheduleURL, err)
	}
	events := ParseEvents(doc, c.now())
	logging.Debug(c.logger, "crawled schedule",
		slog.String("url", scheduleURL),
		slog.String("name", name),
		slog.Int("events", len(events)),
	)
	return Schedule{Name: name, Events: events}, nil
}

// ParseEvents reads the rows of a schedule table in page order. Finished matches,
// rows without a score cell and rows without a parsable kick-off are skipped.
//
// Rows carry no year. The first row is placed in now's year, and every row that
// would start before the previous one moves into the following year.
func ParseEvents(doc *html.Node, now time.Time) []calendar.Event {
	prev := time.Date(now.In(calendar.Tokyo()).Year(), time.January, 1, 0, 0, 0, 0, calendar.Tokyo())

	var events []calendar.Event
	for _, row := range scheduleRows(doc) {
		score := cell(row, "score")
		if score == nil || strings.Contains(joinedText(score), finishedMarker) {
			continue
		}
		date := cell(row, "date")
		if date == nil {
			continue
		}
		start, ok := kickoff(joinedText(date), prev)
		if !ok {
			continue
		}
		prev = start

		e := calendar.Event{Start: start, Summary: summary(row)}
		if venue := cell(row, "venue"); venue != nil {
			e.Location = firstText(venue)
		}
		if category := cell(row, "category"); category != nil {
			e.Description = firstText(category)
		}
		events = append(events, e)
	}
	return events
}

// kickoff resolves a "M/D（曜）HH:MM" cell against the previous row's start.
func kickoff(text string, prev time.Time) (time.Time, bool) {
	m := kickoffPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])
	if month < 1 || month > 12 || minute > 59 {
		return time.Time{}, false
	}

	year := prev.Year()
	if time.Month(month) < prev.Month() {
		year++
	}
	start, ok := wallClock(year, month, day, hour, minute)
	if !ok {
		return time.Time{}, false
	}
	if start.Before(prev) {
		if start, ok = wallClock(year+1, month, day, hour, minute); !ok {
			return time.Time{}, false
		}
	}
	return start, true
}

// wallClock builds a Tokyo time, rejecting days the month does not have. Hours of
// 24 and later roll into the next day.
func wallClock(year, month, day, hour, minute int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, hour%24, minute, 0, 0, calendar.Tokyo())
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	if hour >= 24 {
		t = t.AddDate(0, 0, hour/24)
	}
	return t, true
}

// summary joins the names of both sides as "home - away".
func summary(row *html.Node) string {
	team := cell(row, "team")
	if team == nil {
		return ""
	}
	var names []string
	for _, link := range findAll(team, func(n *html.Node) bool {
		return hasClass(n, teamLinkClass) && n.Data == "a" && isLastElementChild(n)
	}) {
		for child := link.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.Data == "span" {
				if name := firstText(child); name != "" {
					names = append(names, name)
				}
			}
		}
	}
	return strings.Join(names, " - ")
}

func scheduleRows(doc *html.Node) []*html.Node {
	table := find(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && attr(n, "id") == scheduleTableID })
	if table == nil {
		return nil
	}
	var rows []*html.Node
	for _, t := range elementChildren(table, "table") {
		for _, body := range elementChildren(t, "tbody") {
			rows = append(rows, elementChildren(body, "tr")...)
		}
	}
	return rows
}

// cell finds the first data cell of a row carrying the given modifier, e.g. "date".
func cell(row *html.Node, modifier string) *html.Node {
	want := cellClass + "--" + modifier
	return find(row, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "td" && hasClass(n, cellClass) && hasClass(n, want)
	})
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func elementChildren(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == tag {
			out = append(out, child)
		}
	}
	return out
}

func isLastElementChild(n *html.Node) bool {
	for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// firstText returns the first non-blank text node under n, trimmed.
func firstText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if s := firstText(child); s != "" {
			return s
		}
	}
	return ""
}

// joinedText concatenates every trimmed text node under n.
func joinedText(n *html.Node) string {
	var b strings.Builder
	for _, t := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		b.WriteString(strings.TrimSpace(t.Data))
	}
	return b.String()
}
