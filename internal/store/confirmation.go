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

type confirmationStore struct {
	client *firestore.Client
}

func NewConfirmationStore(client *firestore.Client) *confirmationStore {
	return &confirmationStore{client: client}
}

func (s *confirmationStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("income_confirmations")
}

func (s *confirmationStore) transactions(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

func (s *confirmationStore) Get(ctx context.Context, uid, confirmationID string) (*models.IncomeConfirmation, error) {
	doc, err := s.collection(uid).Doc(confirmationID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("confirmation not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get confirmation", err)
	}
	var c models.IncomeConfirmation
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse confirmation data", err)
	}
	return &c, nil
}

func (s *confirmationStore) ListPending(ctx context.Context, uid string) ([]models.IncomeConfirmation, error) {
	docs, err := s.collection(uid).
		Where("status", "==", models.ConfirmationStatusPending).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list pending confirmations", err)
	}
	confs := make([]models.IncomeConfirmation, 0, len(docs))
	for _, d := range docs {
		var c models.IncomeConfirmation
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse confirmation data", err)
		}
		confs = append(confs, c)
	}
	return confs, nil
}

// Resolve settles a pending confirmation in one Firestore transaction.
// Cancelling deletes the linked transaction and marks the confirmation
// cancelled together; neither step is ever visible without the other.
func (s *confirmationStore) Resolve(ctx context.Context, uid, confirmationID string, confirmed bool) (*models.IncomeConfirmation, error) {
	confRef := s.collection(uid).Doc(confirmationID)
	now := time.Now()
	var resolved models.IncomeConfirmation

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(confRef)
		if err != nil {
			return err
		}
		var c models.IncomeConfirmation
		if err := snap.DataTo(&c); err != nil {
			return err
		}
		if c.Status != models.ConfirmationStatusPending {
			return errs.NewAlreadyExistsError("confirmation already resolved")
		}

		newStatus := models.ConfirmationStatusConfirmed
		if !confirmed {
			newStatus = models.ConfirmationStatusCancelled
			txRef := s.transactions(uid).Doc(c.TransactionID)
			if _, err := tx.Get(txRef); err != nil {
				// Linked transaction vanished; report it rather than
				// silently cancelling.
				return err
			}
			if err := tx.Delete(txRef); err != nil {
				return err
			}
		}
		if err := tx.Update(confRef, []firestore.Update{
			{Path: "status", Value: newStatus},
			{Path: "resolvedAt", Value: now},
		}); err != nil {
			return err
		}
		c.Status = newStatus
		c.ResolvedAt = &now
		resolved = c
		return nil
	})
	if err != nil {
		switch {
		case status.Code(err) == codes.NotFound:
			return nil, errs.NewNotFoundError("confirmation or linked transaction not found")
		default:
			if ae, ok := err.(*errs.AlreadyExistsError); ok {
				return nil, ae
			}
			return nil, errs.NewConflictError("resolve", "confirmation could not be resolved; retry")
		}
	}
	return &resolved, nil
}
