package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/middleware"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/internal/response"
	"github.com/granaflow/grana-backend/internal/services"
)

type budgetService interface {
	CreateBudget(ctx context.Context, uid string, req dto.CreateBudgetRequest) (*models.Budget, error)
	ListWithSpending(ctx context.Context, uid string, year, month int) ([]models.BudgetWithSpending, error)
	DeleteBudget(ctx context.Context, uid, budgetID string) error
}

type budgetHandlers struct {
	ResponseHandler response.ResponseHandler
	BudgetSvc       budgetService
}

func NewBudgetHandlers(deps *Deps) *budgetHandlers {
	return &budgetHandlers{
		ResponseHandler: deps.ResponseHandler,
		BudgetSvc:       deps.BudgetSvc,
	}
}

func (h *budgetHandlers) BudgetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateBudget)
	r.Get("/", h.ListBudgets)
	r.Delete("/{budgetId}", h.DeleteBudget)
	return r
}

func (h *budgetHandlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	b, err := h.BudgetSvc.CreateBudget(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, b)
}

// ListBudgets returns the month's budgets with spending figures plus the
// overall summary. Defaults to the current month.
func (h *budgetHandlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	year, month, err := yearMonthParams(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	budgets, err := h.BudgetSvc.ListWithSpending(r.Context(), uid, year, month)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"budgets": budgets,
		"summary": services.ComputeSummary(budgets),
	})
}

func (h *budgetHandlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	budgetID := chi.URLParam(r, "budgetId")
	uid := middleware.UID(r.Context())
	if err := h.BudgetSvc.DeleteBudget(r.Context(), uid, budgetID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func yearMonthParams(r *http.Request) (int, int, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, errs.NewValidationError("year must be an integer")
		}
		year = y
	}
	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, errs.NewValidationError("month must be an integer")
		}
		month = m
	}
	return year, month, nil
}
