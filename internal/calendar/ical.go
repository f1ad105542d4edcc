package calendar

import (
	"bufio"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	prodID       = "-//football-ical//team schedules//EN"
	localLayout  = "20060102T150405"
	utcLayout    = "20060102T150405Z"
	maxLineBytes = 75
)

// Write renders events as a VCALENDAR with an Asia/Tokyo VTIMEZONE and one VEVENT
// per event. stamp becomes every event's DTSTAMP. Lines end in CRLF and are folded
// at 75 octets.
func Write(w io.Writer, events []Event, stamp time.Time) error {
	lw := &lineWriter{w: bufio.NewWriter(w)}

	lw.line("BEGIN:VCALENDAR")
	lw.line("VERSION:2.0")
	lw.line("PRODID:" + prodID)
	lw.line("CALSCALE:GREGORIAN")
	lw.line("X-WR-TIMEZONE:" + TZID)
	lw.line("BEGIN:VTIMEZONE")
	lw.line("TZID:" + TZID)
	lw.line("BEGIN:STANDARD")
	lw.line("DTSTART:19700101T000000")
	lw.line("TZOFFSETFROM:+0900")
	lw.line("TZOFFSETTO:+0900")
	lw.line("TZNAME:JST")
	lw.line("END:STANDARD")
	lw.line("END:VTIMEZONE")

	dtstamp := stamp.UTC().Format(utcLayout)
	for _, e := range events {
		lw.line("BEGIN:VEVENT")
		lw.line("UID:" + e.UID())
		lw.line("DTSTAMP:" + dtstamp)
		lw.line("DTSTART;TZID=" + TZID + ":" + e.Start.In(tokyo).Format(localLayout))
		lw.line("DTEND;TZID=" + TZID + ":" + e.End().In(tokyo).Format(localLayout))
		lw.line("SUMMARY:" + escapeText(e.Summary))
		if e.Location != "" {
			lw.line("LOCATION:" + escapeText(e.Location))
		}
		lw.line("DESCRIPTION:" + escapeText(e.Description))
		lw.line("END:VEVENT")
	}
	lw.line("END:VCALENDAR")

	if lw.err != nil {
		return lw.err
	}
	return lw.w.Flush()
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// lineWriter keeps the first write error and ignores later lines.
type lineWriter struct {
	w   *bufio.Writer
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	for _, part := range fold(s) {
		if _, err := lw.w.WriteString(part + "\r\n"); err != nil {
			lw.err = err
			return
		}
	}
}

// fold splits s into content lines of at most 75 octets without cutting a UTF-8
// sequence. Continuation lines start with a single space, which counts toward the limit.
func fold(s string) []string {
	if len(s) <= maxLineBytes {
		return []string{s}
	}
	var parts []string
	limit := maxLineBytes
	prefix := ""
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		parts = append(parts, prefix+s[:cut])
		s = s[cut:]
		prefix = " "
		limit = maxLineBytes - 1
	}
	return append(parts, prefix+s)
}
