package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/granaflow/grana-backend/internal/handlers"
	"github.com/granaflow/grana-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	txh := handlers.NewTransactionHandlers(deps)
	bh := handlers.NewBudgetHandlers(deps)
	gh := handlers.NewGoalHandlers(deps)
	rh := handlers.NewRecurringHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)
	uh := handlers.NewUserHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewMiddleware(deps.Firebase).FirebaseAuth)

		r.Mount("/transactions", txh.TransactionRoutes())
		r.Mount("/budgets", bh.BudgetRoutes())
		r.Mount("/goals", gh.GoalRoutes())
		r.Mount("/recurring", rh.RecurringRoutes())
		r.Mount("/confirmations", rh.ConfirmationRoutes())
		r.Mount("/dashboard", dh.DashboardRoutes())
		r.Mount("/users", uh.UserRoutes())
	})

	return r
}
