package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
)

type TransactionRepository interface {
	Insert(ctx context.Context, txn *db_models.Transaction) error
	FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*db_models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]db_models.Transaction, error)
	CancelPending(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

func (t *transactionRepository) Insert(ctx context.Context, txn *db_models.Transaction) error {
	return t.db.WithContext(ctx).Create(txn).Error
}

func (t *transactionRepository) FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := t.db.WithContext(ctx).First(&txn, "payment_id = ?", paymentID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (t *transactionRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := t.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&txn).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (t *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]db_models.Transaction, error) {
	var txns []db_models.Transaction
	err := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// CancelPending flips a transaction to cancelled only while it is still
// pending, so a settle racing with a user cancel cannot both win.
func (t *transactionRepository) CancelPending(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	res := t.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, db_models.TxnStatusPending).
		Update("status", db_models.TxnStatusCancelled)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}
