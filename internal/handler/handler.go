package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dan9191/cash-coach/internal/config"
	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/Dan9191/cash-coach/internal/middleware"
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/Dan9191/cash-coach/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// CoachService is the part of service.Service the HTTP layer uses
type CoachService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	Forecast(ctx context.Context, accountID string) (models.ForecastResult, error)
	ApplyPlan(ctx context.Context, accountID string, bills []models.CashFlowEvent) (models.PlanResult, error)
	UndoPlan(ctx context.Context, accountID string) (models.PlanResult, error)
	DelayBill(ctx context.Context, accountID string, bills []models.CashFlowEvent, index int) (models.PlanResult, error)
	SplitBill(ctx context.Context, accountID string, bills []models.CashFlowEvent, index int) (models.PlanResult, error)
	Categorize(texts []string) []string
}

type Handler struct {
	svc CoachService
	log *logrus.Logger
}

func NewHandler(svc CoachService, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// NewRouter wires public and protected routes
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(h.log))

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	authRouter.HandleFunc("/forecast", h.ForecastByBody).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}/forecast", h.Forecast).Methods("GET")
	authRouter.HandleFunc("/accounts/{id}/plan", h.ApplyPlan).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}/plan/undo", h.UndoPlan).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}/bills/delay", h.DelayBill).Methods("POST")
	authRouter.HandleFunc("/accounts/{id}/bills/split", h.SplitBill).Methods("POST")
	authRouter.HandleFunc("/categorize", h.Categorize).Methods("POST")
	return r
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithField("status", status).Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps service errors onto HTTP statuses
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNoPlanSnapshot):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, forecast.ErrBillIndex):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.WithField("request_id", middleware.RequestID(r.Context())).Errorf("Request failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into v. An empty body is allowed when optional.
func decode(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	return err
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles customer authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req, false); err != nil || req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ListAccounts lists the caller's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		h.log.Errorf("Failed to list accounts: %v", err)
		h.writeError(w, http.StatusBadGateway, "account provider unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request, accountID string) {
	result, err := h.svc.Forecast(r.Context(), accountID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Forecast returns the forecast for the account in the path
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	h.forecast(w, r, mux.Vars(r)["id"])
}

// ForecastByBody returns the forecast for {"account_id": ...}
func (h *Handler) ForecastByBody(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID string `json:"account_id"`
	}
	if err := decode(r, &req, false); err != nil || req.AccountID == "" {
		h.writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	h.forecast(w, r, req.AccountID)
}

type billsRequest struct {
	Bills []models.CashFlowEvent `json:"bills"`
	Index *int                   `json:"index,omitempty"`
}

// ApplyPlan applies the Stay-Positive Plan to the posted bills, or to the
// account's upcoming bills when the body is empty
func (h *Handler) ApplyPlan(w http.ResponseWriter, r *http.Request) {
	var req billsRequest
	if err := decode(r, &req, true); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.ApplyPlan(r.Context(), mux.Vars(r)["id"], req.Bills)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// UndoPlan restores the bills from before the last plan
func (h *Handler) UndoPlan(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.UndoPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type billAction func(ctx context.Context, accountID string, bills []models.CashFlowEvent, index int) (models.PlanResult, error)

func (h *Handler) billAction(w http.ResponseWriter, r *http.Request, action billAction) {
	var req billsRequest
	if err := decode(r, &req, false); err != nil || req.Index == nil || len(req.Bills) == 0 {
		h.writeError(w, http.StatusBadRequest, "bills and index are required")
		return
	}
	result, err := action(r.Context(), mux.Vars(r)["id"], req.Bills, *req.Index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// DelayBill pushes one bill back a week
func (h *Handler) DelayBill(w http.ResponseWriter, r *http.Request) {
	h.billAction(w, r, h.svc.DelayBill)
}

// SplitBill splits one bill into two halves
func (h *Handler) SplitBill(w http.ResponseWriter, r *http.Request) {
	h.billAction(w, r, h.svc.SplitBill)
}

// Categorize labels free-text descriptions
func (h *Handler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Texts []string `json:"texts"`
	}
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"labels": h.svc.Categorize(req.Texts)})
}
