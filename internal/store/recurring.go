package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
)

type recurringStore struct {
	client *firestore.Client
}

func NewRecurringStore(client *firestore.Client) *recurringStore {
	return &recurringStore{client: client}
}

func (s *recurringStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("recurring_transactions")
}

func (s *recurringStore) transactions(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

func (s *recurringStore) confirmations(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("income_confirmations")
}

func (s *recurringStore) Create(ctx context.Context, uid string, rec *models.RecurringTransaction) error {
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	_, err := s.collection(uid).Doc(rec.RecurringID).Create(ctx, rec)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) Get(ctx context.Context, uid, recurringID string) (*models.RecurringTransaction, error) {
	doc, err := s.collection(uid).Doc(recurringID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("recurring transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get recurring transaction", err)
	}
	var rec models.RecurringTransaction
	if err := doc.DataTo(&rec); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse recurring transaction data", err)
	}
	return &rec, nil
}

func (s *recurringStore) List(ctx context.Context, uid string) ([]models.RecurringTransaction, error) {
	docs, err := s.collection(uid).OrderBy("nextExecutionDate", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list recurring transactions", err)
	}
	return parseRecurringDocs(docs)
}

// ListDue returns the active definitions whose next execution date is on or
// before asOf (YYYY-MM-DD). End-date filtering stays in the engine.
func (s *recurringStore) ListDue(ctx context.Context, uid, asOf string) ([]models.RecurringTransaction, error) {
	docs, err := s.collection(uid).
		Where("isActive", "==", true).
		Where("nextExecutionDate", "<=", asOf).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list due recurring transactions", err)
	}
	return parseRecurringDocs(docs)
}

func parseRecurringDocs(docs []*firestore.DocumentSnapshot) ([]models.RecurringTransaction, error) {
	recs := make([]models.RecurringTransaction, 0, len(docs))
	for _, d := range docs {
		var rec models.RecurringTransaction
		if err := d.DataTo(&rec); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse recurring transaction data", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *recurringStore) SetActive(ctx context.Context, uid, recurringID string, active bool) error {
	_, err := s.collection(uid).Doc(recurringID).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: active},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("recurring transaction not found")
		}
		return errs.NewDatabaseError("update", "failed to update recurring transaction", err)
	}
	return nil
}

func (s *recurringStore) Delete(ctx context.Context, uid, recurringID string) error {
	if _, err := s.Get(ctx, uid, recurringID); err != nil {
		return err
	}
	_, err := s.collection(uid).Doc(recurringID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete recurring transaction", err)
	}
	return nil
}

// Fire executes one occurrence atomically: create the generated transaction,
// optionally create a pending income confirmation, and advance the
// recurrence's next execution date. If anything fails nothing is applied, so
// the occurrence is retried on the next sweep instead of being skipped.
func (s *recurringStore) Fire(ctx context.Context, uid string, t *models.Transaction, conf *models.IncomeConfirmation, recurringID, nextDate string) error {
	recRef := s.collection(uid).Doc(recurringID)
	txRef := s.transactions(uid).Doc(t.TransactionID)
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(recRef); err != nil {
			return err
		}
		if err := tx.Create(txRef, t); err != nil {
			return err
		}
		if conf != nil {
			conf.CreatedAt = now
			if err := tx.Create(s.confirmations(uid).Doc(conf.ConfirmationID), conf); err != nil {
				return err
			}
		}
		return tx.Update(recRef, []firestore.Update{
			{Path: "nextExecutionDate", Value: nextDate},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("recurring transaction not found")
		}
		return errs.NewConflictError("fire", "occurrence could not be recorded; next execution date unchanged")
	}
	return nil
}
