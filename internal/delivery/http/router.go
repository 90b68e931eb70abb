package http

import (
	"net/http"

	"patient-portal/internal/delivery/http/handler"
	"patient-portal/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	patientHandler   *handler.PatientHandler
	viewHandler      *handler.ViewHandler
	liveHandler      *handler.LiveHandler
	corsMiddleware   *middleware.CORSMiddleware
	loggerMiddleware *middleware.LoggerMiddleware
}

func NewRouter(
	patientHandler *handler.PatientHandler,
	viewHandler *handler.ViewHandler,
	liveHandler *handler.LiveHandler,
	corsMiddleware *middleware.CORSMiddleware,
	loggerMiddleware *middleware.LoggerMiddleware,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		patientHandler:   patientHandler,
		viewHandler:      viewHandler,
		liveHandler:      liveHandler,
		corsMiddleware:   corsMiddleware,
		loggerMiddleware: loggerMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Views
	r.router.HandleFunc("/", r.viewHandler.Index).Methods(http.MethodGet)
	r.router.HandleFunc("/records/register", r.viewHandler.SubmitRegistration).Methods(http.MethodPost)
	r.router.HandleFunc("/records/{route}", r.viewHandler.Show).Methods(http.MethodGet)
	r.router.HandleFunc("/records", r.viewHandler.Index).Methods(http.MethodGet)

	// Live updates
	r.router.HandleFunc("/ws", r.liveHandler.Connect).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.patientHandler.Health).Methods(http.MethodGet)

	// Patient records
	api.HandleFunc("/patients", r.patientHandler.RegisterPatient).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	api.HandleFunc("/query", r.patientHandler.ExecuteQuery).Methods(http.MethodPost, http.MethodOptions)

	r.router.Use(r.loggerMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}
