// Package render draws the team list view from a store snapshot.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/takumi3488/football-ical/internal/cache"
	"github.com/takumi3488/football-ical/internal/syncstore"
)

const (
	LabelFailed  = "failed to load"
	LabelLoading = "loading..."
)

// Table writes snap as the team list. A failed load replaces the whole list; an
// absent or loading entry renders the loading label.
func Table(w io.Writer, snap syncstore.Snapshot) error {
	switch snap.Status {
	case cache.StatusError:
		_, err := fmt.Fprintln(w, LabelFailed)
		return err
	case cache.StatusReady:
	default:
		_, err := fmt.Fprintln(w, LabelLoading)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENABLED\tID\tNAME\tURL")
	for _, team := range snap.Data {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", Checkbox(team.Enabled), team.ID, team.Name, team.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if footer := Footer(snap); footer != "" {
		_, err := fmt.Fprintln(w, footer)
		return err
	}
	return nil
}

// Checkbox renders an enabled flag.
func Checkbox(enabled bool) string {
	if enabled {
		return "[x]"
	}
	return "[ ]"
}

// Footer describes pending sync work, empty when the list is settled.
func Footer(snap syncstore.Snapshot) string {
	switch {
	case snap.Mutating > 0:
		return fmt.Sprintf("(saving %d change(s)...)", snap.Mutating)
	case snap.Validating:
		return "(refreshing...)"
	default:
		return ""
	}
}
