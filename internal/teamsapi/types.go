package teamsapi

type createTeamRequest struct {
	URL string `json:"url"`
}

type flipStatusRequest struct {
	Enabled bool `json:"enabled"`
}
