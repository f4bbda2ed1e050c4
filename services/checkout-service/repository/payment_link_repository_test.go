package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/repository"
)

// ---- mocks ----

type fakePutItem struct {
	input *dynamodb.PutItemInput
	err   error
}

func (f *fakePutItem) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.input = in
	return &dynamodb.PutItemOutput{}, f.err
}

func sampleRecord() *models.PaymentLinkRecord {
	return &models.PaymentLinkRecord{
		PK:        "SESSION#abc",
		SK:        "PAYMENT_LINK#2026-01-02T03:04:05Z#id",
		SessionID: "abc",
		URL:       "https://buy.stripe.com/test_1",
		ItemCount: 2,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// ---- dynamodb ----

func TestDynamoPut_MarshalsKeys(t *testing.T) {
	api := &fakePutItem{}
	repo := repository.NewDynamoPaymentLinkRepository(api, "GroceryAppTable")

	require.NoError(t, repo.Put(context.Background(), sampleRecord()))

	require.NotNil(t, api.input)
	assert.Equal(t, "GroceryAppTable", *api.input.TableName)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "SESSION#abc"}, api.input.Item["PK"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "PAYMENT_LINK#2026-01-02T03:04:05Z#id"}, api.input.Item["SK"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "https://buy.stripe.com/test_1"}, api.input.Item["PaymentLinkURL"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "2"}, api.input.Item["ItemCount"])
}

func TestDynamoPut_Error(t *testing.T) {
	repo := repository.NewDynamoPaymentLinkRepository(&fakePutItem{err: errors.New("throttled")}, "t")

	err := repo.Put(context.Background(), sampleRecord())

	assert.ErrorContains(t, err, "throttled")
}

// ---- gorm ----

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGormPut_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentLinkRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payment_link_records"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Put(context.Background(), sampleRecord())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPut_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentLinkRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payment_link_records"`)).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Put(context.Background(), sampleRecord())

	assert.ErrorContains(t, err, "duplicate key")
}
