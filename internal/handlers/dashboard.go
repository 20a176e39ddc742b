package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/middleware"
	"github.com/granaflow/grana-backend/internal/response"
)

type dashboardService interface {
	GetSummary(ctx context.Context, uid string, year, month int) (dto.DashboardSummary, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.GetSummary)
	return r
}

func (h *dashboardHandlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	year, month, err := yearMonthParams(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	summary, err := h.DashboardSvc.GetSummary(r.Context(), uid, year, month)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccessWithWarnings(w, r, http.StatusOK, summary, summary.Warnings)
}
