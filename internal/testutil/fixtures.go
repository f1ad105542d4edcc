package testutil

import (
	"fmt"

	"github.com/takumi3488/football-ical/internal/domain/teams"
)

// SampleTeam returns a minimal team fixture with the provided id.
func SampleTeam(id int64, enabled bool) teams.Team {
	return teams.Team{
		ID:      id,
		URL:     fmt.Sprintf("https://example.com/teams/%d", id),
		Name:    fmt.Sprintf("Team %d", id),
		Enabled: enabled,
	}
}

// SampleCollection builds a collection of disabled teams with ids 1..n.
func SampleCollection(n int) teams.Collection {
	out := make(teams.Collection, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, SampleTeam(int64(i), false))
	}
	return out
}
