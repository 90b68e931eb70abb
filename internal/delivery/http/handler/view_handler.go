package handler

import (
	"errors"
	"net/http"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/delivery/view"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ViewHandler struct {
	controller     *view.Controller
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
}

func NewViewHandler(controller *view.Controller, patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator, log *logrus.Logger) *ViewHandler {
	return &ViewHandler{
		controller:     controller,
		patientUsecase: patientUsecase,
		validator:      validator,
		log:            log,
	}
}

func (h *ViewHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/records/"+view.RouteRegister, http.StatusFound)
}

func (h *ViewHandler) Show(w http.ResponseWriter, r *http.Request) {
	route, ok := view.NormalizeRoute(mux.Vars(r)["route"])
	if !ok {
		http.Redirect(w, r, "/records/"+route, http.StatusFound)
		return
	}

	data := h.controller.Page(r.Context(), route, r.URL.Query().Get("search"))
	h.render(w, http.StatusOK, data)
}

// SubmitRegistration handles the HTML registration form and re-renders the
// register view with the outcome.
func (h *ViewHandler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := h.controller.Page(r.Context(), view.RouteRegister, "")
		data.Flash = &view.Flash{Kind: "error", Message: "Invalid form submission"}
		h.render(w, http.StatusBadRequest, data)
		return
	}

	req := dto.RegisterPatientRequest{
		FullName:      r.PostForm.Get("fullName"),
		DateOfBirth:   r.PostForm.Get("dateOfBirth"),
		ContactNumber: r.PostForm.Get("contactNumber"),
		Address:       r.PostForm.Get("address"),
		Gender:        r.PostForm.Get("gender"),
	}

	if err := h.validator.Validate(&req); err != nil {
		data := h.controller.Page(r.Context(), view.RouteRegister, "")
		data.Form = req
		data.Errors = h.validator.FormatValidationErrors(err)
		h.render(w, http.StatusBadRequest, data)
		return
	}

	_, err := h.patientUsecase.RegisterPatient(r.Context(), &req)
	data := h.controller.Page(r.Context(), view.RouteRegister, "")
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, usecase.ErrDuplicatePatient) {
			status = http.StatusConflict
		} else if errors.Is(err, usecase.ErrInvalidFullName) ||
			errors.Is(err, usecase.ErrInvalidDateOfBirth) ||
			errors.Is(err, usecase.ErrInvalidGender) {
			status = http.StatusBadRequest
		}
		data.Form = req
		data.Flash = &view.Flash{Kind: "error", Message: "Failed to register patient: " + err.Error()}
		h.render(w, status, data)
		return
	}

	h.controller.RefreshLocal(r.Context())

	data.Flash = &view.Flash{Kind: "success", Message: "Patient registered successfully!"}
	h.render(w, http.StatusOK, data)
}

func (h *ViewHandler) render(w http.ResponseWriter, status int, data view.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.controller.Render(w, data); err != nil {
		h.log.Errorf("Failed to render %s view: %+v", data.Route, err)
	}
}
