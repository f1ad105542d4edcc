package teams

// Team is a registered source page whose schedule is tracked.
// ID is assigned by the server and URL is fixed at creation; Enabled is the only
// field that changes afterwards.
type Team struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Collection is the server-ordered list of teams. Order is never changed locally.
type Collection []Team

// Clone returns a copy that shares no backing array with c. A nil collection stays nil.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Equal reports whether both collections hold the same teams in the same order.
func (c Collection) Equal(other Collection) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Find returns the team with the given id.
func (c Collection) Find(id int64) (Team, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// WithEnabled returns a copy of c with the team's Enabled flag set to enabled.
// The second result is false when no team has the id; the copy is then unchanged.
func (c Collection) WithEnabled(id int64, enabled bool) (Collection, bool) {
	out := c.Clone()
	for i := range out {
		if out[i].ID == id {
			out[i].Enabled = enabled
			return out, true
		}
	}
	return out, false
}

// Toggled returns a copy of c with the team's Enabled flag negated.
func (c Collection) Toggled(id int64) (Collection, bool) {
	t, ok := c.Find(id)
	if !ok {
		return c.Clone(), false
	}
	return c.WithEnabled(id, !t.Enabled)
}
