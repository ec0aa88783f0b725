package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akapur/autosplit/internal/store"
)

func newGroupService(t *testing.T) (*GroupService, *SplitService, *testDeps) {
	t.Helper()
	d := openTestDB(t)
	deps := &testDeps{
		db:          d,
		groups:      store.NewGroupStore(d),
		bills:       store.NewBillStore(d),
		items:       store.NewItemStore(d),
		assignments: store.NewAssignmentStore(d),
	}
	groupSvc := NewGroupService(deps.groups, deps.bills, deps.assignments, slog.Default())
	splitSvc := NewSplitService(deps.items, deps.assignments, slog.Default())
	return groupSvc, splitSvc, deps
}

func TestGroupServiceCreateGroup(t *testing.T) {
	svc, _, _ := newGroupService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Goa Trip", []store.MemberInput{
		{Name: "Asha", UPIID: "asha@upi"},
		{Name: "Rohan"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Goa Trip", group.Name)
	require.Len(t, group.Members, 2)
	assert.Equal(t, "asha@upi", group.Members[0].UPIID)
}

func TestGroupServiceCreateGroup_DefaultName(t *testing.T) {
	svc, _, _ := newGroupService(t)

	group, err := svc.CreateGroup(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "My Group", group.Name)
}

func TestGroupServiceGetGroup_NotFound(t *testing.T) {
	svc, _, _ := newGroupService(t)

	group, err := svc.GetGroup(context.Background(), "no-such-group")
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestGroupServiceSummary(t *testing.T) {
	svc, splitSvc, deps := newGroupService(t)
	ctx := context.Background()

	group, bill := seedGroupWithBill(t, deps.db, "100.00", "40.00")

	_, err := splitSvc.AssignItems(ctx, []AssignmentEntry{
		{ItemID: bill.Items[0].ID, MemberID: group.Members[0].ID, Share: share("0.7")},
		{ItemID: bill.Items[0].ID, MemberID: group.Members[1].ID, Share: share("0.3")},
		{ItemID: bill.Items[1].ID, MemberID: group.Members[1].ID, Share: share("0")},
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.BillCount)
	require.Len(t, summary.Members, 2)
	assert.Equal(t, "Asha", summary.Members[0].Name)
	assert.Equal(t, "70.00", summary.Members[0].TotalOwed.StringFixed(2))
	assert.Equal(t, "70.00", summary.Members[1].TotalOwed.StringFixed(2))
}

func TestGroupServiceSummary_UnassignedMembersOweZero(t *testing.T) {
	svc, _, deps := newGroupService(t)
	ctx := context.Background()

	group, _ := seedGroupWithBill(t, deps.db, "25.00")

	summary, err := svc.Summary(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, summary.Members, 2)
	for _, m := range summary.Members {
		assert.True(t, m.TotalOwed.IsZero(), "member %s owes %s", m.Name, m.TotalOwed)
	}
}

func TestGroupServiceSummary_GroupNotFound(t *testing.T) {
	svc, _, _ := newGroupService(t)

	summary, err := svc.Summary(context.Background(), "no-such-group")
	require.NoError(t, err)
	assert.Nil(t, summary)
}
