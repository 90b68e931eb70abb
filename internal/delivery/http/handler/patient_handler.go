package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/response"
	"patient-portal/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
	refresher      LocalRefresher
	instanceID     string
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator, refresher LocalRefresher, instanceID string) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
		refresher:      refresher,
		instanceID:     instanceID,
	}
}

func (h *PatientHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidFullName),
			errors.Is(err, usecase.ErrInvalidDateOfBirth),
			errors.Is(err, usecase.ErrInvalidGender):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrDuplicatePatient):
			response.Error(w, http.StatusConflict, "Patient already exists", err.Error())
		case isUnavailable(err):
			response.Error(w, http.StatusServiceUnavailable, "Database is not available", err.Error())
		default:
			response.InternalServerError(w, "Failed to register patient")
		}
		return
	}

	h.refresher.RefreshLocal(r.Context())

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.ListPatients(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.Error(w, statusFor(err), "Failed to get patients", err.Error())
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

// ExecuteQuery runs arbitrary SQL. Engine errors come back verbatim.
func (h *PatientHandler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req dto.RawQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.patientUsecase.ExecuteRawQuery(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyQuery):
			response.Error(w, http.StatusBadRequest, "Please enter a SQL query.", err.Error())
		case isUnavailable(err):
			response.Error(w, http.StatusServiceUnavailable, "Database is not available", err.Error())
		default:
			response.Error(w, http.StatusBadRequest, "SQL Error", err.Error())
		}
		return
	}

	if result.DataChanged {
		h.refresher.RefreshLocal(r.Context())
	}

	response.Success(w, http.StatusOK, "Query executed successfully", result)
}

func (h *PatientHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.patientUsecase.Status()
	health := dto.HealthResponse{
		Status:   "ok",
		Database: string(status.State),
		Engine:   status.Engine,
		Error:    status.Error,
		Instance: h.instanceID,
	}

	if status.State != entity.ConnectionReady {
		health.Status = "unavailable"
		response.JSON(w, http.StatusServiceUnavailable, health)
		return
	}

	response.JSON(w, http.StatusOK, health)
}
