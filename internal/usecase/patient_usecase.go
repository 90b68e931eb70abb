package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"patient-portal/internal/converter"
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
	"patient-portal/internal/domain/repository"
	"patient-portal/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrDuplicatePatient   = errors.New("a patient with this id already exists")
	ErrInvalidFullName    = errors.New("full name must not be blank")
	ErrInvalidDateOfBirth = errors.New("invalid date of birth format, use YYYY-MM-DD")
	ErrInvalidGender      = errors.New("gender must be one of: male, female, other")
	ErrEmptyQuery         = errors.New("please enter a SQL query")
)

const patientIDPrefix = "patient_"

type PatientUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context, search string) (*dto.PatientListResponse, error)
	ExecuteRawQuery(ctx context.Context, req *dto.RawQueryRequest) (*dto.RawQueryResponse, error)
	Status() entity.ConnectionStatus
}

type patientUsecase struct {
	log         *logrus.Logger
	patientRepo repository.PatientRepository
}

func NewPatientUsecase(log *logrus.Logger, patientRepo repository.PatientRepository) PatientUsecase {
	return &patientUsecase{
		log:         log,
		patientRepo: patientRepo,
	}
}

// RegisterPatient stores a new record. The caller's id is kept when given,
// otherwise a fresh one is generated.
func (u *patientUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	patient := converter.RegisterRequestToEntity(req)

	if patient.FullName == "" {
		return nil, ErrInvalidFullName
	}

	if _, err := time.Parse(entity.DateOfBirthLayout, patient.DateOfBirth); err != nil {
		return nil, ErrInvalidDateOfBirth
	}

	switch patient.Gender {
	case entity.GenderMale, entity.GenderFemale, entity.GenderOther:
	default:
		return nil, ErrInvalidGender
	}

	if patient.ID == "" {
		patient.ID = patientIDPrefix + uuid.NewString()
	}

	stored, err := u.patientRepo.RegisterPatient(ctx, patient)
	if err != nil {
		u.log.Warnf("Failed to register patient: %+v", err)
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicatePatient, err)
		}
		return nil, err
	}

	return converter.PatientToResponse(stored), nil
}

// ListPatients returns all records, most recent first, keeping those where
// any field contains search, case-insensitively.
func (u *patientUsecase) ListPatients(ctx context.Context, search string) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.GetAllPatients(ctx)
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	search = strings.TrimSpace(search)
	filtered := patients
	if search != "" {
		filtered = make([]entity.Patient, 0, len(patients))
		for _, patient := range patients {
			if matchesSearch(&patient, search) {
				filtered = append(filtered, patient)
			}
		}
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(filtered),
		Total:    len(filtered),
		Search:   search,
	}, nil
}

func (u *patientUsecase) ExecuteRawQuery(ctx context.Context, req *dto.RawQueryRequest) (*dto.RawQueryResponse, error) {
	sql := strings.TrimSpace(req.SQL)
	if sql == "" {
		return nil, ErrEmptyQuery
	}

	result, err := u.patientRepo.ExecuteRawQuery(ctx, sql)
	if err != nil {
		u.log.Warnf("Raw SQL query execution error: %+v", err)
		return nil, err
	}

	return converter.RawResultToResponse(result), nil
}

func (u *patientUsecase) Status() entity.ConnectionStatus {
	return u.patientRepo.Status()
}

func matchesSearch(patient *entity.Patient, search string) bool {
	term := strings.ToLower(search)
	fields := []string{
		patient.ID,
		patient.FullName,
		patient.DateOfBirth,
		patient.Gender,
	}
	if patient.ContactNumber != nil {
		fields = append(fields, *patient.ContactNumber)
	}
	if patient.Address != nil {
		fields = append(fields, *patient.Address)
	}
	if !patient.RegisteredAt.IsZero() {
		fields = append(fields, patient.RegisteredAt.Format(time.RFC3339))
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
