package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	payos "github.com/payOSHQ/payos-lib-golang"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
	"taovideo/internal/models/request_models"
	"taovideo/internal/models/response_models"
	"taovideo/internal/providers/payosgw"
	"taovideo/internal/repositories"
	"taovideo/pkg/utils"
)

const (
	// Gateway status codes carried in webhook data.code.
	payCodeSuccess   = "00"
	payCodeCancelled = "02"

	// Custom top-up bounds in VND (1 VND = 1 credit).
	minCustomAmountVND int64 = 30_000
	maxCustomAmountVND int64 = 20_000_000
)

type PaymentServiceInterface interface {
	CreateCheckout(ctx context.Context, userID uuid.UUID, req request_models.CreateCheckoutRequest) (*response_models.CreateCheckoutResponse, error)

	// HandleWebhook reconciles one gateway delivery against the ledger.
	// Returns ErrInvalidSignature, ErrTransactionNotFound,
	// ErrAlreadyProcessed (duplicate delivery, ack without mutation) or a
	// persistence error.
	HandleWebhook(ctx context.Context, body payos.WebhookType) error

	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]response_models.TransactionResponse, error)
	CancelTransaction(ctx context.Context, userID uuid.UUID, transactionID uuid.UUID) error
}

type paymentService struct {
	db          *gorm.DB
	gateway     payosgw.Gateway
	txnRepo     repositories.TransactionRepository
	profileRepo repositories.ProfileRepository
	packageRepo repositories.PackageRepository
	cfg         payosgw.Config
	log         *zap.Logger
}

func NewPaymentService(
	db *gorm.DB,
	gateway payosgw.Gateway,
	txnRepo repositories.TransactionRepository,
	profileRepo repositories.ProfileRepository,
	packageRepo repositories.PackageRepository,
	cfg payosgw.Config,
	log *zap.Logger,
) PaymentServiceInterface {
	return &paymentService{
		db:          db,
		gateway:     gateway,
		txnRepo:     txnRepo,
		profileRepo: profileRepo,
		packageRepo: packageRepo,
		cfg:         cfg,
		log:         log.Named("payment"),
	}
}

func (p *paymentService) CreateCheckout(ctx context.Context, userID uuid.UUID, req request_models.CreateCheckoutRequest) (*response_models.CreateCheckoutResponse, error) {
	var (
		credits     int64
		priceVND    int64
		packageName string
		packageID   string
	)

	switch {
	case req.CustomAmount > 0:
		if req.CustomAmount < minCustomAmountVND || req.CustomAmount > maxCustomAmountVND {
			return nil, fmt.Errorf("%w: amount must be between %d and %d VND",
				utils.ErrInvalidAmount, minCustomAmountVND, maxCustomAmountVND)
		}
		credits = req.CustomAmount
		priceVND = req.CustomAmount
		packageName = "Goi Tuy Chinh" // custom top-up; no special chars for the gateway
		packageID = "custom"
	case req.PackageID != "":
		pkgID, err := uuid.Parse(req.PackageID)
		if err != nil {
			return nil, utils.ErrPackageNotFound
		}
		pkg, err := p.packageRepo.FindByID(ctx, pkgID)
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			return nil, utils.ErrPackageNotFound
		}
		credits = pkg.Credits
		priceVND = pkg.PriceVND
		packageName = pkg.NameEn
		packageID = pkg.ID.String()
	default:
		return nil, fmt.Errorf("%w: package_id or custom_amount is required", utils.ErrInvalidPayload)
	}

	// 6-digit order code; the unique correlation key for the webhook.
	orderCode := time.Now().UnixMilli() % 1_000_000
	amountVND := priceVND

	txn := &db_models.Transaction{
		UserID:        userID,
		Type:          db_models.TxnTypePurchase,
		Status:        db_models.TxnStatusPending,
		Credits:       credits,
		AmountVND:     &amountVND,
		PaymentMethod: db_models.PaymentMethodBankTransfer,
		PaymentID:     strconv.FormatInt(orderCode, 10),
		Description:   "Nap credits",
		Metadata: jsonRaw(map[string]any{
			"package_id":   packageID,
			"package_name": packageName,
			"order_code":   orderCode,
			"is_custom":    req.CustomAmount > 0,
		}),
	}

	if err := p.txnRepo.Insert(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	link, err := p.gateway.CreatePaymentLink(payos.CheckoutRequestType{
		OrderCode:   orderCode,
		Amount:      int(priceVND),
		Description: fmt.Sprintf("DH%d", orderCode),
		Items: []payos.Item{{
			Name:     packageName,
			Price:    int(priceVND),
			Quantity: 1,
		}},
		ReturnUrl: p.cfg.ReturnURL,
		CancelUrl: p.cfg.CancelURL,
	})
	if err != nil {
		_ = p.db.WithContext(ctx).Model(txn).
			Update("status", db_models.TxnStatusFailed).Error
		return nil, fmt.Errorf("payos create link: %w", err)
	}

	// Snapshot the gateway response for traceability.
	_ = p.db.WithContext(ctx).Model(txn).
		Update("metadata", mergeMetadata(txn.Metadata, map[string]any{
			"payment_link_id": link.PaymentLinkId,
			"checkout_url":    link.CheckoutUrl,
		})).Error

	return &response_models.CreateCheckoutResponse{
		OrderCode:     orderCode,
		AmountVND:     priceVND,
		Credits:       credits,
		CheckoutURL:   link.CheckoutUrl,
		TransactionID: txn.ID.String(),
	}, nil
}

func (p *paymentService) HandleWebhook(ctx context.Context, body payos.WebhookType) error {
	// 1. Authenticate: the signature check is the sole authenticity gate.
	data, err := p.gateway.VerifyWebhook(body)
	if err != nil {
		p.log.Warn("webhook signature verification failed", zap.Error(err))
		return utils.ErrInvalidSignature
	}

	// 2. Correlate by external order code.
	orderCode := strconv.FormatInt(data.OrderCode, 10)
	txn, err := p.txnRepo.FindByPaymentID(ctx, orderCode)
	if err != nil {
		return err
	}
	if txn == nil {
		p.log.Warn("webhook for unknown transaction", zap.String("order_code", orderCode))
		return utils.ErrTransactionNotFound
	}

	// 3. Idempotency guard: a completed transaction is acked untouched.
	if txn.Status == db_models.TxnStatusCompleted {
		p.log.Info("duplicate webhook for completed transaction",
			zap.String("transaction_id", txn.ID.String()),
			zap.String("order_code", orderCode))
		return utils.ErrAlreadyProcessed
	}

	if data.Code == payCodeSuccess {
		return p.settlePurchase(ctx, txn, data)
	}

	return p.recordFailure(ctx, txn, data)
}

// settlePurchase applies the purchase exactly once: the conditional flip of
// the pending transaction and the balance increment commit together, so a
// concurrent duplicate delivery loses on RowsAffected instead of
// double-crediting.
func (p *paymentService) settlePurchase(ctx context.Context, txn *db_models.Transaction, data *payos.WebhookDataType) error {
	now := time.Now().Unix()
	meta := mergeMetadata(txn.Metadata, map[string]any{
		"payment_link_id":     data.PaymentLinkId,
		"webhook_received_at": utils.NowRFC3339VN(),
	})

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.Transaction{}).
			Where("id = ? AND status = ?", txn.ID, db_models.TxnStatusPending).
			Updates(map[string]interface{}{
				"status":       db_models.TxnStatusCompleted,
				"completed_at": now,
				"metadata":     meta,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrAlreadyProcessed
		}

		credit := tx.Model(&db_models.Profile{}).
			Where("user_id = ?", txn.UserID).
			Update("credits", gorm.Expr("credits + ?", txn.Credits))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return utils.ErrProfileNotFound
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrAlreadyProcessed) || errors.Is(err, utils.ErrProfileNotFound) {
			return err
		}
		p.log.Error("failed to settle purchase",
			zap.String("transaction_id", txn.ID.String()),
			zap.Error(err))
		return err
	}

	p.log.Info("payment settled",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("user_id", txn.UserID.String()),
		zap.Int64("credits", txn.Credits))

	return nil
}

func (p *paymentService) recordFailure(ctx context.Context, txn *db_models.Transaction, data *payos.WebhookDataType) error {
	status := db_models.TxnStatusFailed
	if data.Code == payCodeCancelled {
		status = db_models.TxnStatusCancelled
	}

	reason := data.Desc
	if reason == "" {
		reason = "Payment failed"
	}

	err := p.db.WithContext(ctx).Model(&db_models.Transaction{}).
		Where("id = ? AND status = ?", txn.ID, db_models.TxnStatusPending).
		Updates(map[string]interface{}{
			"status": status,
			"metadata": mergeMetadata(txn.Metadata, map[string]any{
				"payment_link_id":     data.PaymentLinkId,
				"webhook_received_at": utils.NowRFC3339VN(),
				"failure_reason":      reason,
			}),
			"updated_at": time.Now().Unix(),
		}).Error
	if err != nil {
		p.log.Error("failed to record payment failure",
			zap.String("transaction_id", txn.ID.String()),
			zap.Error(err))
		return err
	}

	p.log.Info("payment failure recorded",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("gateway_code", data.Code),
		zap.String("status", string(status)))

	return nil
}

func (p *paymentService) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	profile, err := p.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		return 0, utils.ErrProfileNotFound
	}
	return profile.Credits, nil
}

func (p *paymentService) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]response_models.TransactionResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	txns, err := p.txnRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, response_models.TransactionResponse{
			ID:          txn.ID.String(),
			Type:        string(txn.Type),
			Status:      string(txn.Status),
			Credits:     txn.Credits,
			AmountVND:   txn.AmountVND,
			PaymentID:   txn.PaymentID,
			Description: txn.Description,
			CreatedAt:   txn.CreatedAt,
			CompletedAt: txn.CompletedAt,
		})
	}

	return out, nil
}

func (p *paymentService) CancelTransaction(ctx context.Context, userID uuid.UUID, transactionID uuid.UUID) error {
	cancelled, err := p.txnRepo.CancelPending(ctx, transactionID, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !cancelled {
		// Either the transaction does not exist, belongs to someone else,
		// or already left pending.
		return utils.ErrTransactionNotFound
	}
	return nil
}
