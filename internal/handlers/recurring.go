package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/middleware"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/internal/response"
)

type recurringService interface {
	CreateRecurring(ctx context.Context, uid string, req dto.CreateRecurringRequest) (*models.RecurringTransaction, error)
	ListRecurring(ctx context.Context, uid string) ([]models.RecurringTransaction, error)
	SetActive(ctx context.Context, uid, recurringID string, active bool) error
	DeleteRecurring(ctx context.Context, uid, recurringID string) error
	Sweep(ctx context.Context, uid string) (dto.SweepResult, error)
	ListPendingConfirmations(ctx context.Context, uid string) ([]models.IncomeConfirmation, error)
	ResolveConfirmation(ctx context.Context, uid, confirmationID string, confirmed bool) (*models.IncomeConfirmation, error)
}

type recurringHandlers struct {
	ResponseHandler response.ResponseHandler
	RecurringSvc    recurringService
}

func NewRecurringHandlers(deps *Deps) *recurringHandlers {
	return &recurringHandlers{
		ResponseHandler: deps.ResponseHandler,
		RecurringSvc:    deps.RecurringSvc,
	}
}

func (h *recurringHandlers) RecurringRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateRecurring)
	r.Get("/", h.ListRecurring)
	r.Post("/sweep", h.Sweep) // must be before /{recurringId}
	r.Patch("/{recurringId}", h.SetActive)
	r.Delete("/{recurringId}", h.DeleteRecurring)
	return r
}

func (h *recurringHandlers) ConfirmationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPendingConfirmations)
	r.Post("/{confirmationId}/resolve", h.ResolveConfirmation)
	return r
}

func (h *recurringHandlers) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	rec, err := h.RecurringSvc.CreateRecurring(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, rec)
}

func (h *recurringHandlers) ListRecurring(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	recs, err := h.RecurringSvc.ListRecurring(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, recs)
}

// Sweep is the manual trigger for the recurrence engine; the scheduled
// job in cmd/sweep runs the same service path.
func (h *recurringHandlers) Sweep(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	result, err := h.RecurringSvc.Sweep(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *recurringHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	recurringID := chi.URLParam(r, "recurringId")
	var req dto.SetRecurringActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.RecurringSvc.SetActive(r.Context(), uid, recurringID, req.IsActive); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *recurringHandlers) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	recurringID := chi.URLParam(r, "recurringId")
	uid := middleware.UID(r.Context())
	if err := h.RecurringSvc.DeleteRecurring(r.Context(), uid, recurringID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *recurringHandlers) ListPendingConfirmations(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	confs, err := h.RecurringSvc.ListPendingConfirmations(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, confs)
}

func (h *recurringHandlers) ResolveConfirmation(w http.ResponseWriter, r *http.Request) {
	confirmationID := chi.URLParam(r, "confirmationId")
	var req dto.ResolveConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	c, err := h.RecurringSvc.ResolveConfirmation(r.Context(), uid, confirmationID, req.Confirmed)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, c)
}
