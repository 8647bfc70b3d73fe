package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsTeamEvent bool   `json:"is_team_event"`
	TeamSizeMin int    `json:"team_size_min"`
	TeamSizeMax int    `json:"team_size_max"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.TeamSizeMin, validation.Required, validation.Min(1)),
		validation.Field(&req.TeamSizeMax, validation.Required, validation.Min(1)),
	)
}

type UpdateEventRequest struct {
	CreateEventRequest
}
