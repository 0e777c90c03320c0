package models

import "time"

// Contact holds the delivery addresses for one recipient. Empty fields
// mean the user has no address for that channel.
type Contact struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	DeviceToken string    `json:"deviceToken,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UpsertContactRequest struct {
	UserID      string `json:"userId" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,e164"`
	DeviceToken string `json:"deviceToken,omitempty"`
}
