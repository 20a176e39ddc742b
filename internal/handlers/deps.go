package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/granaflow/grana-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	TransactionSvc  transactionService
	BudgetSvc       budgetService
	GoalSvc         goalService
	RecurringSvc    recurringService
	DashboardSvc    dashboardService
	UserSvc         userService
}
