package converter

import (
	"testing"
	"time"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestToEntity(t *testing.T) {
	patient := RegisterRequestToEntity(&dto.RegisterPatientRequest{
		FullName:      "  Jane Doe ",
		DateOfBirth:   "1990-01-01",
		ContactNumber: "   ",
		Address:       " 1 Main St ",
		Gender:        " female ",
	})

	assert.Equal(t, "Jane Doe", patient.FullName)
	assert.Nil(t, patient.ContactNumber)
	require.NotNil(t, patient.Address)
	assert.Equal(t, "1 Main St", *patient.Address)
	assert.Equal(t, entity.GenderFemale, patient.Gender)
}

func TestPatientToResponse(t *testing.T) {
	assert.Nil(t, PatientToResponse(nil))

	registered := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	contact := "555"
	response := PatientToResponse(&entity.Patient{ID: "p1", FullName: "Jane", ContactNumber: &contact, RegisteredAt: registered})

	assert.Equal(t, "p1", response.ID)
	assert.Equal(t, "555", response.ContactNumber)
	assert.Equal(t, "", response.Address)
	assert.Equal(t, registered, response.RegisteredAt)
}

func TestRawResultToResponse(t *testing.T) {
	response := RawResultToResponse(&entity.RawResult{
		Rows:     []map[string]interface{}{{"id": []byte("p1"), "n": int64(2)}},
		Command:  "SELECT",
		RowCount: 1,
	})
	require.Len(t, response.Rows, 1)
	assert.Equal(t, "p1", response.Rows[0]["id"])
	assert.Equal(t, int64(2), response.Rows[0]["n"])
	assert.Contains(t, response.Output, `"id": "p1"`)

	response = RawResultToResponse(&entity.RawResult{Rows: []map[string]interface{}{}, Command: "DELETE", RowCount: 3, Mutated: true})
	assert.Equal(t, "Command: DELETE\nRows affected: 3", response.Output)
	assert.True(t, response.DataChanged)

	response = RawResultToResponse(&entity.RawResult{})
	assert.Equal(t, "Query executed successfully with no specific rows returned.", response.Output)

	assert.Nil(t, RawResultToResponse(nil))
}
