package dto

import (
	"time"
)

// RegisterPatientRequest is accepted from both the JSON API and the
// registration form. ID is optional; one is generated when empty.
type RegisterPatientRequest struct {
	ID            string `json:"id,omitempty" validate:"omitempty,max=128"`
	FullName      string `json:"fullName" validate:"required,max=255"`
	DateOfBirth   string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	ContactNumber string `json:"contactNumber,omitempty" validate:"omitempty,max=32"`
	Address       string `json:"address,omitempty" validate:"omitempty,max=1024"`
	Gender        string `json:"gender" validate:"required,oneof=male female other"`
}

// PatientResponse represents a stored patient record in responses
type PatientResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	DateOfBirth   string    `json:"dateOfBirth"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	Address       string    `json:"address,omitempty"`
	Gender        string    `json:"gender"`
	RegisteredAt  time.Time `json:"registeredAt"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
	Search   string            `json:"search,omitempty"`
}
