package repository

import (
	"context"

	"patient-portal/internal/domain/entity"
)

// PatientRepository is the single point of access to persisted patient data.
// Every data operation lazily initializes the connection at most once.
type PatientRepository interface {
	Initialize(ctx context.Context) error
	RegisterPatient(ctx context.Context, patient *entity.Patient) (*entity.Patient, error)
	GetAllPatients(ctx context.Context) ([]entity.Patient, error)
	ExecuteRawQuery(ctx context.Context, sql string) (*entity.RawResult, error)
	Status() entity.ConnectionStatus
	Close() error
}
