package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	payos "github.com/payOSHQ/payos-lib-golang"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"taovideo/internal/models/db_models"
	"taovideo/internal/providers/videoapi"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&db_models.Profile{},
		&db_models.Video{},
		&db_models.Transaction{},
		&db_models.VideoPricing{},
		&db_models.CreditPackage{},
	))

	return db
}

// fakeGateway lets webhook tests control verification outcomes instead of
// computing real checksums.
type fakeGateway struct {
	verifyData *payos.WebhookDataType
	verifyErr  error

	linkResp *payos.CheckoutResponseDataType
	linkErr  error
	linkReqs []payos.CheckoutRequestType
}

func (f *fakeGateway) CreatePaymentLink(req payos.CheckoutRequestType) (*payos.CheckoutResponseDataType, error) {
	f.linkReqs = append(f.linkReqs, req)
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	if f.linkResp != nil {
		return f.linkResp, nil
	}
	return &payos.CheckoutResponseDataType{
		CheckoutUrl:   "https://pay.example.com/checkout",
		PaymentLinkId: "link-123",
	}, nil
}

func (f *fakeGateway) VerifyWebhook(body payos.WebhookType) (*payos.WebhookDataType, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyData, nil
}

// fakeVideoProvider records CreateTask calls and serves canned task records.
type fakeVideoProvider struct {
	taskID    string
	createErr error
	created   []videoapi.TaskInput

	record   *videoapi.TaskRecord
	queryErr error
}

func (f *fakeVideoProvider) CreateTask(ctx context.Context, model string, input videoapi.TaskInput) (string, error) {
	f.created = append(f.created, input)
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.taskID == "" {
		return "task-abc", nil
	}
	return f.taskID, nil
}

func (f *fakeVideoProvider) QueryTask(ctx context.Context, taskID string) (*videoapi.TaskRecord, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.record, nil
}

// fakeStorage records deletions.
type fakeStorage struct {
	deleted   []string
	deleteErr error
}

func (f *fakeStorage) DeleteObject(ctx context.Context, bucket string, path string) error {
	f.deleted = append(f.deleted, bucket+"/"+path)
	return f.deleteErr
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
