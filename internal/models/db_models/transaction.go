package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionType string

const (
	TxnTypePurchase       TransactionType = "purchase"
	TxnTypeVideoDeduction TransactionType = "video_deduction"
	TxnTypeRefund         TransactionType = "refund"
	TxnTypeBonus          TransactionType = "bonus"
)

type TransactionStatus string

const (
	TxnStatusPending   TransactionStatus = "pending"
	TxnStatusCompleted TransactionStatus = "completed"
	TxnStatusFailed    TransactionStatus = "failed"
	TxnStatusCancelled TransactionStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMomo         PaymentMethod = "momo"
	PaymentMethodZaloPay      PaymentMethod = "zalopay"
	PaymentMethodCard         PaymentMethod = "card"
)

// Transaction is an append-mostly ledger entry. Only purchases pass through
// pending; deductions and refunds are written already completed in the same
// request that caused them.
type Transaction struct {
	BaseModel
	UserID uuid.UUID         `gorm:"type:uuid;index"`
	Type   TransactionType   `gorm:"index"`
	Status TransactionStatus `gorm:"index"`

	// Signed delta: positive for purchase/refund/bonus, negative for
	// video_deduction. Sum of completed deltas per user should equal the
	// profile balance.
	Credits int64

	AmountVND     *int64
	PaymentMethod PaymentMethod

	// External order code used to correlate gateway webhooks; idempotency
	// across duplicate deliveries hangs off this key. Unique when set so an
	// order-code collision fails at checkout instead of settling the wrong
	// row later; deductions and refunds leave it empty.
	PaymentID string `gorm:"uniqueIndex:idx_transactions_payment_id,where:payment_id <> ''"`

	VideoID     *uuid.UUID `gorm:"type:uuid;index"`
	Description string

	// Raw receipts, webhook payloads, failure reasons, etc.
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	CompletedAt *int64
}
