package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/granaflow/grana-backend/internal/bootstrap"
	"github.com/granaflow/grana-backend/internal/config"
	"github.com/granaflow/grana-backend/internal/handlers"
	"github.com/granaflow/grana-backend/internal/response"
	"github.com/granaflow/grana-backend/internal/router"
	"github.com/granaflow/grana-backend/internal/services"
	"github.com/granaflow/grana-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	tstore := store.NewTransactionStore(bs.Firestore)
	bstore := store.NewBudgetStore(bs.Firestore)
	gstore := store.NewGoalStore(bs.Firestore)
	rstore := store.NewRecurringStore(bs.Firestore)
	cstore := store.NewConfirmationStore(bs.Firestore)
	ustore := store.NewUserStore(bs.Firestore)
	astore := store.NewAvatarStore(bs.Storage, cfg.AvatarBucket)

	// services
	tserv := services.NewTransactionService(tstore)
	bserv := services.NewBudgetService(bstore, tstore)
	gserv := services.NewGoalService(gstore)
	rserv := services.NewRecurringService(rstore, cstore)
	dserv := services.NewDashboardService(bserv, gserv, tstore)
	userv := services.NewUserService(ustore, astore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.TransactionSvc = tserv
	deps.BudgetSvc = bserv
	deps.GoalSvc = gserv
	deps.RecurringSvc = rserv
	deps.DashboardSvc = dserv
	deps.UserSvc = userv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
