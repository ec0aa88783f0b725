package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/akapur/autosplit/internal/db"
	"github.com/akapur/autosplit/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// seedGroupWithBill creates a group with two members and one bill with the
// given item prices, returning the group and bill for further assertions.
func seedGroupWithBill(t *testing.T, d *sql.DB, prices ...string) (*domain.Group, *domain.Bill) {
	t.Helper()
	ctx := context.Background()

	group, err := NewGroupStore(d).Create(ctx, "Flat 4B", []MemberInput{
		{Name: "Asha", UPIID: "asha@upi"},
		{Name: "Rohan", VenmoID: "rohan-v"},
	})
	require.NoError(t, err)

	bill := &domain.Bill{GroupID: group.ID, RawText: "receipt text"}
	for _, p := range prices {
		bill.Items = append(bill.Items, &domain.Item{
			Description: "Item " + p,
			Price:       decimal.RequireFromString(p),
		})
	}
	require.NoError(t, NewBillStore(d).Create(ctx, bill))
	return group, bill
}
