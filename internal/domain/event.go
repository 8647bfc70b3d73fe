package domain

import "time"

type Event struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsTeamEvent bool      `json:"is_team_event"`
	TeamSizeMin int       `json:"team_size_min"`
	TeamSizeMax int       `json:"team_size_max"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FitsTeamSize reports whether a team of the given total size (leader
// included) is allowed for this event.
func (e Event) FitsTeamSize(size int) bool {
	return size >= e.TeamSizeMin && size <= e.TeamSizeMax
}
