package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRegistrationRequest struct {
	EventID       uint   `json:"event_id"`
	TeamMemberIDs []uint `json:"team_member_ids"`
}

func (req *CreateRegistrationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
	)
}

type ConfirmPaymentRequest struct {
	SessionID string `json:"session_id"`
}

func (req *ConfirmPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SessionID, validation.Required),
	)
}
