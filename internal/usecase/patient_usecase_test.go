package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
	"patient-portal/internal/domain/repository"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	registerFn func(ctx context.Context, patient *entity.Patient) (*entity.Patient, error)
	listFn     func(ctx context.Context) ([]entity.Patient, error)
	queryFn    func(ctx context.Context, sql string) (*entity.RawResult, error)
	status     entity.ConnectionStatus
}

func (f *fakeRepository) Initialize(ctx context.Context) error { return nil }

func (f *fakeRepository) RegisterPatient(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
	return f.registerFn(ctx, patient)
}

func (f *fakeRepository) GetAllPatients(ctx context.Context) ([]entity.Patient, error) {
	return f.listFn(ctx)
}

func (f *fakeRepository) ExecuteRawQuery(ctx context.Context, sql string) (*entity.RawResult, error) {
	return f.queryFn(ctx, sql)
}

func (f *fakeRepository) Status() entity.ConnectionStatus { return f.status }

func (f *fakeRepository) Close() error { return nil }

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func echoRegister(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
	stored := *patient
	stored.RegisteredAt = time.Now()
	return &stored, nil
}

func validRequest() *dto.RegisterPatientRequest {
	return &dto.RegisterPatientRequest{
		FullName:    "Jane Doe",
		DateOfBirth: "1990-01-01",
		Gender:      "female",
	}
}

func TestRegisterPatient_GeneratesID(t *testing.T) {
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{registerFn: echoRegister})

	first, err := u.RegisterPatient(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := u.RegisterPatient(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.ID, "patient_"))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Jane Doe", first.FullName)
}

func TestRegisterPatient_KeepsCallerID(t *testing.T) {
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{registerFn: echoRegister})

	req := validRequest()
	req.ID = "p1"
	resp, err := u.RegisterPatient(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "p1", resp.ID)
}

func TestRegisterPatient_RejectsInvalidInput(t *testing.T) {
	called := false
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{
		registerFn: func(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
			called = true
			return patient, nil
		},
	})

	req := validRequest()
	req.DateOfBirth = "1990-13-45"
	_, err := u.RegisterPatient(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDateOfBirth)

	req = validRequest()
	req.Gender = "unknown"
	_, err = u.RegisterPatient(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidGender)

	req = validRequest()
	req.Gender = "Male"
	_, err = u.RegisterPatient(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidGender)

	for _, name := range []string{"", "   ", "\t\n"} {
		req = validRequest()
		req.FullName = name
		_, err = u.RegisterPatient(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidFullName, "name %q", name)
	}

	assert.False(t, called)
}

func TestRegisterPatient_Duplicate(t *testing.T) {
	unique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{
		registerFn: func(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
			return nil, unique
		},
	})

	_, err := u.RegisterPatient(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDuplicatePatient)
}

func TestRegisterPatient_PropagatesRepositoryError(t *testing.T) {
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{
		registerFn: func(ctx context.Context, patient *entity.Patient) (*entity.Patient, error) {
			return nil, repository.ErrNotReady
		},
	})

	_, err := u.RegisterPatient(context.Background(), validRequest())
	assert.ErrorIs(t, err, repository.ErrNotReady)
	assert.NotErrorIs(t, err, ErrDuplicatePatient)
}

func TestListPatients_Search(t *testing.T) {
	contact := "555-0101"
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{
		listFn: func(ctx context.Context) ([]entity.Patient, error) {
			return []entity.Patient{
				{ID: "p2", FullName: "John Smith", DateOfBirth: "1985-05-05", Gender: "male"},
				{ID: "p1", FullName: "Jane Doe", DateOfBirth: "1990-01-01", Gender: "female", ContactNumber: &contact},
			}, nil
		},
	})

	all, err := u.ListPatients(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, "p2", all.Patients[0].ID)

	byName, err := u.ListPatients(context.Background(), "  JANE ")
	require.NoError(t, err)
	require.Len(t, byName.Patients, 1)
	assert.Equal(t, "p1", byName.Patients[0].ID)
	assert.Equal(t, "JANE", byName.Search)

	byContact, err := u.ListPatients(context.Background(), "0101")
	require.NoError(t, err)
	assert.Equal(t, 1, byContact.Total)

	none, err := u.ListPatients(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, none.Patients)
}

func TestListPatients_Error(t *testing.T) {
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{
		listFn: func(ctx context.Context) ([]entity.Patient, error) {
			return nil, repository.ErrNotReady
		},
	})

	_, err := u.ListPatients(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrNotReady)
}

func TestExecuteRawQuery(t *testing.T) {
	var received string
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{
		queryFn: func(ctx context.Context, sql string) (*entity.RawResult, error) {
			received = sql
			return &entity.RawResult{Rows: []map[string]interface{}{}, Command: "DELETE", RowCount: 2, Mutated: true}, nil
		},
	})

	resp, err := u.ExecuteRawQuery(context.Background(), &dto.RawQueryRequest{SQL: "  DELETE FROM patients  "})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM patients", received)
	assert.True(t, resp.DataChanged)
	assert.Equal(t, "Command: DELETE\nRows affected: 2", resp.Output)
}

func TestExecuteRawQuery_EmptyAndFailure(t *testing.T) {
	engineErr := errors.New(`near "SELEC": syntax error`)
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{
		queryFn: func(ctx context.Context, sql string) (*entity.RawResult, error) {
			return nil, engineErr
		},
	})

	_, err := u.ExecuteRawQuery(context.Background(), &dto.RawQueryRequest{SQL: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = u.ExecuteRawQuery(context.Background(), &dto.RawQueryRequest{SQL: "SELEC 1"})
	assert.Equal(t, engineErr, err)
}

func TestStatus(t *testing.T) {
	status := entity.ConnectionStatus{State: entity.ConnectionFailed, Engine: "sqlite", Error: "boom"}
	u := NewPatientUsecase(newTestLogger(), &fakeRepository{status: status})
	assert.Equal(t, status, u.Status())
}
