package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"gorm.io/gorm"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
)

// PaymentLinkRepository stores created payment links. Writes are best effort
// from the caller's point of view.
type PaymentLinkRepository interface {
	Put(ctx context.Context, record *models.PaymentLinkRecord) error
}

// PutItemAPI is the subset of the DynamoDB client the adapter uses.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoPaymentLinkRepository writes records into a single PK/SK table.
type DynamoPaymentLinkRepository struct {
	client PutItemAPI
	table  string
}

func NewDynamoPaymentLinkRepository(client PutItemAPI, table string) *DynamoPaymentLinkRepository {
	return &DynamoPaymentLinkRepository{client: client, table: table}
}

func (d *DynamoPaymentLinkRepository) Put(ctx context.Context, record *models.PaymentLinkRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal payment link record: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

type gormPaymentLinkRepo struct {
	db *gorm.DB
}

func NewGormPaymentLinkRepository(db *gorm.DB) PaymentLinkRepository {
	return &gormPaymentLinkRepo{db: db}
}

func (r *gormPaymentLinkRepo) Put(ctx context.Context, record *models.PaymentLinkRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
