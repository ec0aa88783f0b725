package service

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akapur/autosplit/internal/db"
	"github.com/akapur/autosplit/internal/domain"
	"github.com/akapur/autosplit/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func seedGroupWithBill(t *testing.T, d *sql.DB, prices ...string) (*domain.Group, *domain.Bill) {
	t.Helper()
	ctx := context.Background()

	group, err := store.NewGroupStore(d).Create(ctx, "Flat 4B", []store.MemberInput{
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
	require.NoError(t, store.NewBillStore(d).Create(ctx, bill))
	return group, bill
}

// testDeps bundles the real sqlite-backed stores the service tests share.
type testDeps struct {
	db          *sql.DB
	groups      *store.GroupStore
	bills       *store.BillStore
	items       *store.ItemStore
	assignments *store.AssignmentStore
}

func share(s string) domain.ShareValue {
	return domain.ShareValue{Value: decimal.RequireFromString(s)}
}

func TestSplitServiceAssignItems_EqualSplit(t *testing.T) {
	d := openTestDB(t)
	group, bill := seedGroupWithBill(t, d, "100.00")
	svc := NewSplitService(store.NewItemStore(d), store.NewAssignmentStore(d), slog.Default())
	ctx := context.Background()

	rows, err := svc.AssignItems(ctx, []AssignmentEntry{
		{ItemID: bill.Items[0].ID, MemberID: group.Members[0].ID, Share: share("0")},
		{ItemID: bill.Items[0].ID, MemberID: group.Members[1].ID, Share: share("0")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "50.00", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "50.00", rows[1].Amount.StringFixed(2))
}

func TestSplitServiceAssignItems_FractionResidualToFirst(t *testing.T) {
	d := openTestDB(t)
	group, bill := seedGroupWithBill(t, d, "100.00")
	svc := NewSplitService(store.NewItemStore(d), store.NewAssignmentStore(d), slog.Default())
	ctx := context.Background()

	// Fractions sum to 0.95; the first member absorbs the residual.
	rows, err := svc.AssignItems(ctx, []AssignmentEntry{
		{ItemID: bill.Items[0].ID, MemberID: group.Members[0].ID, Share: share("0.5")},
		{ItemID: bill.Items[0].ID, MemberID: group.Members[1].ID, Share: share("0.25")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	sum := rows[0].Amount.Add(rows[1].Amount)
	assert.True(t, sum.Equal(decimal.RequireFromString("100.00")), "got sum %s", sum)
	assert.Equal(t, "75.00", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "25.00", rows[1].Amount.StringFixed(2))
}

func TestSplitServiceAssignItems_ReplacesPriorAssignments(t *testing.T) {
	d := openTestDB(t)
	group, bill := seedGroupWithBill(t, d, "60.00")
	itemStore := store.NewItemStore(d)
	assignStore := store.NewAssignmentStore(d)
	svc := NewSplitService(itemStore, assignStore, slog.Default())
	ctx := context.Background()

	_, err := svc.AssignItems(ctx, []AssignmentEntry{
		{ItemID: bill.Items[0].ID, MemberID: group.Members[0].ID, Share: share("0")},
		{ItemID: bill.Items[0].ID, MemberID: group.Members[1].ID, Share: share("0")},
	})
	require.NoError(t, err)

	// Reassign the whole item to a single member.
	rows, err := svc.AssignItems(ctx, []AssignmentEntry{
		{ItemID: bill.Items[0].ID, MemberID: group.Members[1].ID, Share: share("0")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "60.00", rows[0].Amount.StringFixed(2))

	persisted, err := assignStore.ListByItem(ctx, bill.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, group.Members[1].ID, persisted[0].MemberID)
}

func TestSplitServiceAssignItems_SkipsUnknownItem(t *testing.T) {
	d := openTestDB(t)
	group, bill := seedGroupWithBill(t, d, "40.00")
	svc := NewSplitService(store.NewItemStore(d), store.NewAssignmentStore(d), slog.Default())
	ctx := context.Background()

	rows, err := svc.AssignItems(ctx, []AssignmentEntry{
		{ItemID: "deleted-item", MemberID: group.Members[0].ID, Share: share("0")},
		{ItemID: bill.Items[0].ID, MemberID: group.Members[0].ID, Share: share("0")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, bill.Items[0].ID, rows[0].ItemID)
}

func TestSplitServiceAssignItems_EmptyBatch(t *testing.T) {
	d := openTestDB(t)
	svc := NewSplitService(store.NewItemStore(d), store.NewAssignmentStore(d), slog.Default())

	rows, err := svc.AssignItems(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSplitServiceAssignItems_ValidationErrors(t *testing.T) {
	d := openTestDB(t)
	group, bill := seedGroupWithBill(t, d, "40.00")
	svc := NewSplitService(store.NewItemStore(d), store.NewAssignmentStore(d), slog.Default())
	ctx := context.Background()

	tests := []struct {
		name    string
		entries []AssignmentEntry
		index   int
	}{
		{
			name: "missing item id",
			entries: []AssignmentEntry{
				{ItemID: "", MemberID: group.Members[0].ID, Share: share("0")},
			},
			index: 0,
		},
		{
			name: "missing member id",
			entries: []AssignmentEntry{
				{ItemID: bill.Items[0].ID, MemberID: group.Members[0].ID, Share: share("0")},
				{ItemID: bill.Items[0].ID, MemberID: " ", Share: share("0")},
			},
			index: 1,
		},
		{
			name: "invalid share",
			entries: []AssignmentEntry{
				{ItemID: bill.Items[0].ID, MemberID: group.Members[0].ID, Share: domain.ShareValue{Invalid: true}},
			},
			index: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssignItems(ctx, tt.entries)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.index, verr.Index)
		})
	}
}
