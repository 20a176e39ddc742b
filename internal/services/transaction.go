package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/errs"
	"github.com/granaflow/grana-backend/internal/models"
	"github.com/granaflow/grana-backend/pkg/logger"
)

const maxTransactionPage = 500

type transactionTSStore interface {
	Create(ctx context.Context, uid string, t *models.Transaction) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery) ([]models.Transaction, error)
	Delete(ctx context.Context, uid, transactionID string) error
}

type transactionService struct {
	store transactionTSStore
}

func NewTransactionService(store transactionTSStore) *transactionService {
	return &transactionService{store: store}
}

func (s *transactionService) CreateTransaction(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	if err := validateRequired("description", req.Description); err != nil {
		return nil, err
	}
	if err := validateRequired("category", req.Category); err != nil {
		return nil, err
	}
	if err := validateTransactionType(req.Type); err != nil {
		return nil, err
	}
	if err := validateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if err := validateEntryDate("date", req.Date, time.Now()); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		TransactionID: uuid.New().String(),
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      req.Category,
		Date:          req.Date,
		Notes:         req.Notes,
		Source:        models.TransactionSourceManual,
	}
	if err := s.store.Create(ctx, uid, t); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("transaction created", "type", t.Type, "category", t.Category)
	return t, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, uid string, req dto.ListTransactionsRequest) ([]models.Transaction, error) {
	if req.Type != nil {
		if err := validateTransactionType(*req.Type); err != nil {
			return nil, err
		}
	}
	if req.DateFrom != nil {
		if _, err := parseDate("from", *req.DateFrom); err != nil {
			return nil, err
		}
	}
	if req.DateTo != nil {
		if _, err := parseDate("to", *req.DateTo); err != nil {
			return nil, err
		}
	}
	limit := req.Limit
	if limit <= 0 || limit > maxTransactionPage {
		limit = maxTransactionPage
	}
	return s.store.Query(ctx, uid, dto.TransactionQuery{
		Type:     req.Type,
		Category: req.Category,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Limit:    limit,
	})
}

func (s *transactionService) DeleteTransaction(ctx context.Context, uid, transactionID string) error {
	if transactionID == "" {
		return errs.NewValidationError("transactionId is required")
	}
	return s.store.Delete(ctx, uid, transactionID)
}
