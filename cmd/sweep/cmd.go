// The sweep job runs the recurrence engine once over every user and exits.
// Deployed as a scheduled Cloud Run job; the API's POST /recurring/sweep
// covers the manual path.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/granaflow/grana-backend/internal/bootstrap"
	"github.com/granaflow/grana-backend/internal/config"
	"github.com/granaflow/grana-backend/internal/services"
	"github.com/granaflow/grana-backend/internal/store"
	"github.com/granaflow/grana-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ustore := store.NewUserStore(bs.Firestore)
	rstore := store.NewRecurringStore(bs.Firestore)
	cstore := store.NewConfirmationStore(bs.Firestore)
	rserv := services.NewRecurringService(rstore, cstore)

	ctx := logger.ToContext(context.Background(), bs.Log)

	uids, err := ustore.ListUIDs(ctx)
	exitOnError("failed to list users", err, bs.Log)

	var fired, failed int
	for _, uid := range uids {
		result, err := rserv.Sweep(ctx, uid)
		if err != nil {
			bs.Log.Error("sweep failed for user", "uid", uid, "error", err)
			failed++
			continue
		}
		fired += result.Fired
		failed += result.Failed
	}
	bs.Log.Info("sweep run complete", "users", len(uids), "fired", fired, "failed", failed)
}
