package converter

import (
	"strings"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:            patient.ID,
		FullName:      patient.FullName,
		DateOfBirth:   patient.DateOfBirth,
		ContactNumber: deref(patient.ContactNumber),
		Address:       deref(patient.Address),
		Gender:        patient.Gender,
		RegisteredAt:  patient.RegisteredAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

// RegisterRequestToEntity trims input; empty optional fields become NULL.
func RegisterRequestToEntity(req *dto.RegisterPatientRequest) *entity.Patient {
	return &entity.Patient{
		ID:            strings.TrimSpace(req.ID),
		FullName:      strings.TrimSpace(req.FullName),
		DateOfBirth:   strings.TrimSpace(req.DateOfBirth),
		ContactNumber: optional(req.ContactNumber),
		Address:       optional(req.Address),
		Gender:        strings.TrimSpace(req.Gender),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
