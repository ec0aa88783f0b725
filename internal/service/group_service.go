package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/akapur/autosplit/internal/domain"
	"github.com/akapur/autosplit/internal/store"
)

// groupRepository is the subset of store.GroupStore the services require.
type groupRepository interface {
	Create(ctx context.Context, name string, members []store.MemberInput) (*domain.Group, error)
	GetByID(ctx context.Context, id string) (*domain.Group, error)
}

type billCounter interface {
	CountByGroup(ctx context.Context, groupID string) (int, error)
}

type groupAssignmentLister interface {
	ListByGroup(ctx context.Context, groupID string) ([]store.MemberAmount, error)
}

type GroupService struct {
	groups      groupRepository
	bills       billCounter
	assignments groupAssignmentLister
	logger      *slog.Logger
}

func NewGroupService(groups groupRepository, bills billCounter, assignments groupAssignmentLister, logger *slog.Logger) *GroupService {
	return &GroupService{
		groups:      groups,
		bills:       bills,
		assignments: assignments,
		logger:      logger,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, name string, members []store.MemberInput) (*domain.Group, error) {
	if name == "" {
		name = "My Group"
	}
	return s.groups.Create(ctx, name, members)
}

func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	return s.groups.GetByID(ctx, groupID)
}

// MemberSummary is one member's total owed across every bill in the group.
type MemberSummary struct {
	MemberID  string
	Name      string
	TotalOwed decimal.Decimal
}

type GroupSummary struct {
	Members   []MemberSummary
	BillCount int
}

// Summary aggregates assignment amounts per member across all bills of the
// group. The amounts were normalized to sum to each item's price, so the
// member totals of a fully assigned bill sum to the bill total. Returns nil
// when the group does not exist.
func (s *GroupService) Summary(ctx context.Context, groupID string) (*GroupSummary, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, nil
	}

	amounts, err := s.assignments.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	totals := make(map[string]decimal.Decimal, len(group.Members))
	for _, ma := range amounts {
		totals[ma.MemberID] = totals[ma.MemberID].Add(ma.Amount)
	}

	billCount, err := s.bills.CountByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bills: %w", err)
	}

	summary := &GroupSummary{BillCount: billCount}
	for _, m := range group.Members {
		summary.Members = append(summary.Members, MemberSummary{
			MemberID:  m.ID,
			Name:      m.Name,
			TotalOwed: totals[m.ID].Round(2),
		})
	}
	return summary, nil
}
