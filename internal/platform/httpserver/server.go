package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	applicationservice "creditapp/contexts/lending/application-service"
	apperrors "creditapp/contexts/lending/application-service/domain/errors"
	apphttp "creditapp/contexts/lending/application-service/transport/http"
	offerservice "creditapp/contexts/lending/offer-service"
	offererrors "creditapp/contexts/lending/offer-service/domain/errors"
	offerhttp "creditapp/contexts/lending/offer-service/transport/http"
	realtimegateway "creditapp/contexts/lending/realtime-gateway"

	_ "creditapp/internal/platform/httpserver/docs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	applications applicationservice.Module
	offers       offerservice.Module
	gateway      realtimegateway.Module
}

func New(
	applications applicationservice.Module,
	offers offerservice.Module,
	gateway realtimegateway.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		applications: applications,
		offers:       offers,
		gateway:      gateway,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("/metrics", promhttp.Handler())

	s.mux.HandleFunc("POST /api/borrower/applications", s.handleSubmitApplication)
	s.mux.HandleFunc("GET /api/borrower/applications/{application_id}", s.handleGetApplication)
	s.mux.HandleFunc("PATCH /api/borrower/applications/{application_id}/status", s.handleChangeStatus)
	s.mux.HandleFunc("GET /api/borrower/applications/{application_id}/offers", s.handleListOffers)
	s.mux.HandleFunc("GET /api/borrower/applications/{application_id}/offers/insights", s.handleOfferInsights)
	s.mux.HandleFunc("POST /api/borrower/applications/{application_id}/offers/{offer_id}/select", s.handleSelectOffer)

	s.mux.HandleFunc("POST /api/bank/applications/{application_id}/offers", s.handleCalculateOffer)
	s.mux.HandleFunc("POST /api/internal/offers/{offer_id}/expire", s.handleExpireOffer)

	s.mux.Handle("GET /ws/bank/{bank_id}/applications", s.gateway.Handler)
}

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	borrowerID := r.Header.Get("X-User-Id")
	if borrowerID == "" {
		writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req apphttp.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApplicationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.applications.Handler.SubmitApplicationHandler(r.Context(), borrowerID, req)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	borrowerID := r.Header.Get("X-User-Id")
	if borrowerID == "" {
		writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	applicationID := r.PathValue("application_id")
	resp, err := s.applications.Handler.GetApplicationHandler(r.Context(), borrowerID, applicationID)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req apphttp.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApplicationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	applicationID := r.PathValue("application_id")
	resp, err := s.applications.Handler.ChangeStatusHandler(r.Context(), applicationID, req)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	borrowerID := r.Header.Get("X-User-Id")
	if borrowerID == "" {
		writeOfferError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	applicationID := r.PathValue("application_id")
	resp, err := s.offers.Handler.ListOffersHandler(r.Context(), borrowerID, applicationID)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOfferInsights(w http.ResponseWriter, r *http.Request) {
	borrowerID := r.Header.Get("X-User-Id")
	if borrowerID == "" {
		writeOfferError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	applicationID := r.PathValue("application_id")
	resp, err := s.offers.Handler.OfferInsightsHandler(r.Context(), borrowerID, applicationID)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelectOffer(w http.ResponseWriter, r *http.Request) {
	borrowerID := r.Header.Get("X-User-Id")
	if borrowerID == "" {
		writeOfferError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	applicationID := r.PathValue("application_id")
	offerID := r.PathValue("offer_id")
	resp, err := s.offers.Handler.SelectOfferHandler(r.Context(), borrowerID, applicationID, offerID)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCalculateOffer(w http.ResponseWriter, r *http.Request) {
	bankID := r.Header.Get("X-Bank-Id")
	if bankID == "" {
		writeOfferError(w, http.StatusUnauthorized, "missing_bank", "X-Bank-Id header is required")
		return
	}

	var req offerhttp.CalculateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	applicationID := r.PathValue("application_id")
	resp, err := s.offers.Handler.CalculateOfferHandler(r.Context(), bankID, applicationID, req)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleExpireOffer(w http.ResponseWriter, r *http.Request) {
	offerID := r.PathValue("offer_id")
	resp, err := s.offers.Handler.ExpireOfferHandler(r.Context(), offerID)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeApplicationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrApplicationNotFound):
		writeApplicationError(w, http.StatusNotFound, "application_not_found", err.Error())
	case errors.Is(err, apperrors.ErrNotApplicationOwner):
		writeApplicationError(w, http.StatusForbidden, "not_application_owner", err.Error())
	case errors.Is(err, apperrors.ErrInvalidTransition):
		writeApplicationError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, apperrors.ErrVersionConflict):
		writeApplicationError(w, http.StatusConflict, "version_conflict", err.Error())
	case errors.Is(err, apperrors.ErrInvalidSubmission):
		writeApplicationError(w, http.StatusBadRequest, "invalid_submission", err.Error())
	default:
		writeApplicationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeOfferDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, offererrors.ErrOfferNotFound):
		writeOfferError(w, http.StatusNotFound, "offer_not_found", err.Error())
	case errors.Is(err, offererrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrApplicationNotFound):
		writeOfferError(w, http.StatusNotFound, "application_not_found", err.Error())
	case errors.Is(err, offererrors.ErrNotApplicationOwner):
		writeOfferError(w, http.StatusForbidden, "not_application_owner", err.Error())
	case errors.Is(err, offererrors.ErrOfferExpired):
		writeOfferError(w, http.StatusGone, "offer_expired", err.Error())
	case errors.Is(err, offererrors.ErrOfferNotSelectable):
		writeOfferError(w, http.StatusConflict, "offer_not_selectable", err.Error())
	case errors.Is(err, offererrors.ErrOfferNotExpirable):
		writeOfferError(w, http.StatusConflict, "offer_not_expirable", err.Error())
	case errors.Is(err, offererrors.ErrInvalidOfferRequest):
		writeOfferError(w, http.StatusBadRequest, "invalid_offer_request", err.Error())
	default:
		writeOfferError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeApplicationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, apphttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeOfferError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, offerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
