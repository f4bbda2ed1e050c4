package seeder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/tools/seed-catalog/seeder"
)

const productList = `[
  {"productId":"p-1","category":"fruit","createdDate":"2024-01-01","description":"Crisp","modifiedDate":"2024-02-01",
   "name":"Apples","package":{"height":1,"length":2,"weight":3,"width":4},"pictures":["https://img/a.png"],"price":120,"tags":["fresh"]},
  {"productId":"p-2","name":"Milk","price":250}
]`

// ---- mocks ----

type mockWriter struct {
	products   []models.CatalogEntry
	prices     []int64
	currencies []string
	failOn     string
	priceErr   error
}

func (m *mockWriter) CreateProduct(_ context.Context, e models.CatalogEntry) (string, error) {
	if e.Name == m.failOn {
		return "", errors.New("stripe down")
	}
	m.products = append(m.products, e)
	return "prod_" + e.ProductID, nil
}

func (m *mockWriter) CreatePrice(_ context.Context, _ string, amount int64, currency string) (string, error) {
	if m.priceErr != nil {
		return "", m.priceErr
	}
	m.prices = append(m.prices, amount)
	m.currencies = append(m.currencies, currency)
	return "price_x", nil
}

type mockS3 struct {
	bucket, key string
	data        []byte
	err         error
}

func (m *mockS3) ReadObject(_ context.Context, bucket, key string) ([]byte, error) {
	m.bucket, m.key = bucket, key
	return m.data, m.err
}

// ---- tests ----

func TestLoad_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product_list.json")
	require.NoError(t, os.WriteFile(path, []byte(productList), 0o600))

	entries, err := seeder.Load(context.Background(), path, nil)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Apples", entries[0].Name)
	assert.Equal(t, int64(120), entries[0].Price)
	assert.Equal(t, []string{"fresh"}, entries[0].Tags)
	assert.Equal(t, 4.0, entries[0].Package.Width)
}

func TestLoad_S3(t *testing.T) {
	s3 := &mockS3{data: []byte(productList)}

	entries, err := seeder.Load(context.Background(), "s3://grocery-uploads/catalog/product_list.json", s3)

	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "grocery-uploads", s3.bucket)
	assert.Equal(t, "catalog/product_list.json", s3.key)
}

func TestLoad_Errors(t *testing.T) {
	_, err := seeder.Load(context.Background(), "s3://bucket-only", &mockS3{})
	assert.Error(t, err)

	_, err = seeder.Load(context.Background(), "s3://b/k", nil)
	assert.Error(t, err)

	_, err = seeder.Load(context.Background(), "s3://b/k", &mockS3{data: []byte("not json")})
	assert.ErrorContains(t, err, "decode product list")

	_, err = seeder.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.ErrorContains(t, err, "read product list")
}

func TestRun_CreatesProductsAndPrices(t *testing.T) {
	w := &mockWriter{}
	entries := []models.CatalogEntry{{ProductID: "1", Name: "Apples", Price: 120}, {ProductID: "2", Name: "Milk", Price: 250}}

	sum := seeder.New(w, "USD", zap.NewNop()).Run(context.Background(), entries)

	assert.Equal(t, 2, sum.Created)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, []int64{120, 250}, w.prices)
	assert.Equal(t, []string{"usd", "usd"}, w.currencies)
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	w := &mockWriter{failOn: "Apples"}
	entries := []models.CatalogEntry{
		{ProductID: "1", Name: "Apples", Price: 120},
		{ProductID: "2", Name: "", Price: 100},
		{ProductID: "3", Name: "Salt", Price: 0},
		{ProductID: "4", Name: "Milk", Price: 250},
	}

	sum := seeder.New(w, "", zap.NewNop()).Run(context.Background(), entries)

	assert.Equal(t, 1, sum.Created)
	assert.Equal(t, 3, sum.Failed)
	assert.Len(t, sum.Errors, 3)
	require.Len(t, w.products, 1)
	assert.Equal(t, "Milk", w.products[0].Name)
}

func TestRun_PriceFailureCounts(t *testing.T) {
	w := &mockWriter{priceErr: errors.New("bad currency")}

	sum := seeder.New(w, "usd", zap.NewNop()).Run(context.Background(), []models.CatalogEntry{{ProductID: "1", Name: "Apples", Price: 1}})

	assert.Equal(t, 0, sum.Created)
	assert.Equal(t, 1, sum.Failed)
}
