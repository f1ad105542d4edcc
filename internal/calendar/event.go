// Package calendar holds scheduled matches and renders them as an iCalendar feed.
package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"time"
)

const (
	// TZID names the zone every event's wall-clock time is expressed in.
	TZID = "Asia/Tokyo"
	// EventLength is the assumed length of a match.
	EventLength = 2 * time.Hour

	uidDomain = "football-ical"
)

// Tokyo has had no daylight saving since 1951, so a fixed +09:00 zone matches the
// VTIMEZONE block without depending on the host's tzdata.
var tokyo = time.FixedZone("JST", 9*60*60)

// Tokyo returns the location event times are built in.
func Tokyo() *time.Location { return tokyo }

// Event is one scheduled match. Location is empty when the venue is unknown.
type Event struct {
	Start       time.Time
	Summary     string
	Location    string
	Description string
}

// End is Start plus EventLength.
func (e Event) End() time.Time {
	return e.Start.Add(EventLength)
}

// UID identifies the event across feed rebuilds. Two teams listing the same match
// produce the same UID.
func (e Event) UID() string {
	h := sha1.New()
	h.Write([]byte(e.Start.In(tokyo).Format(time.RFC3339)))
	h.Write([]byte{0})
	h.Write([]byte(e.Summary))
	h.Write([]byte{0})
	h.Write([]byte(e.Location))
	return hex.EncodeToString(h.Sum(nil))[:20] + "@" + uidDomain
}

func (e Event) key() [4]string {
	return [4]string{e.Start.In(tokyo).Format(time.RFC3339), e.Summary, e.Location, e.Description}
}

// Merge joins event lists, drops exact duplicates and orders the result by start
// time, then summary.
func Merge(lists ...[]Event) []Event {
	seen := make(map[[4]string]struct{})
	var out []Event
	for _, list := range lists {
		for _, e := range list {
			k := e.key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Summary < out[j].Summary
	})
	return out
}
