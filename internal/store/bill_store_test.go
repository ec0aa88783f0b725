package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akapur/autosplit/internal/domain"
)

func TestBillStoreCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	bills := NewBillStore(d)
	ctx := context.Background()

	group, _ := seedGroupWithBill(t, d)

	total := decimal.RequireFromString("310.00")
	bill := &domain.Bill{
		GroupID: group.ID,
		RawText: "Pizza Large 250.00\nCoke 60.00\nTotal 310.00",
		Total:   decimal.NullDecimal{Decimal: total, Valid: true},
		ScanKey: "scan_1.jpg",
		Items: []*domain.Item{
			{Description: "Pizza Large", Price: decimal.RequireFromString("250.00")},
			{Description: "Coke", Price: decimal.RequireFromString("60.00")},
		},
	}
	require.NoError(t, bills.Create(ctx, bill))
	assert.NotEmpty(t, bill.ID)
	assert.NotEmpty(t, bill.Items[0].ID)

	got, err := bills.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, group.ID, got.GroupID)
	assert.True(t, got.Total.Valid)
	assert.True(t, got.Total.Decimal.Equal(total))
	require.Len(t, got.Items, 2)
	// Items come back in insertion order.
	assert.Equal(t, "Pizza Large", got.Items[0].Description)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, "Coke", got.Items[1].Description)
}

func TestBillStoreNullTotal(t *testing.T) {
	d := openTestDB(t)
	bills := NewBillStore(d)
	ctx := context.Background()

	group, _ := seedGroupWithBill(t, d)

	bill := &domain.Bill{GroupID: group.ID, RawText: "unreadable"}
	require.NoError(t, bills.Create(ctx, bill))

	got, err := bills.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.False(t, got.Total.Valid)
}

func TestBillStoreGetByIDNotFound(t *testing.T) {
	d := openTestDB(t)
	bills := NewBillStore(d)

	got, err := bills.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBillStoreCountByGroup(t *testing.T) {
	d := openTestDB(t)
	bills := NewBillStore(d)
	ctx := context.Background()

	group, _ := seedGroupWithBill(t, d, "10.00")

	count, err := bills.CountByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, bills.Create(ctx, &domain.Bill{GroupID: group.ID}))
	count, err = bills.CountByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
