package domain

import "time"

// Registration binds a team leader and optional members to one event.
// IsVerified is tri-state: nil is pending, true verified by an admin,
// false rejected.
type Registration struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	TeamLeaderID uint      `json:"team_leader_id"`
	TeamLeader   User      `json:"team_leader"`
	TeamMembers  []User    `json:"team_members"`
	IsVerified   *bool     `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TeamSize is the member count plus the leader.
func (r Registration) TeamSize() int {
	return len(r.TeamMembers) + 1
}

// Includes reports whether the user is the leader or a member.
func (r Registration) Includes(userID uint) bool {
	if r.TeamLeaderID == userID {
		return true
	}
	for _, m := range r.TeamMembers {
		if m.ID == userID {
			return true
		}
	}
	return false
}
