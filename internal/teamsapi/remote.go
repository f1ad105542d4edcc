package teamsapi

import (
	"context"

	"github.com/takumi3488/football-ical/internal/domain/teams"
)

// Remote is the server contract consumed by the collection store.
// Response bodies of Create and FlipStatus are not relied upon; callers re-fetch the list.
type Remote interface {
	ListTeams(ctx context.Context) (teams.Collection, error)
	CreateTeam(ctx context.Context, url string) error
	FlipStatus(ctx context.Context, id int64, enabled bool) error
}

// Operation names used for logging and metrics.
const (
	OpList   = "list"
	OpCreate = "create"
	OpFlip   = "flip"
	OpHealth = "health"
)
