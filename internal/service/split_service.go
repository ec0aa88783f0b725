package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akapur/autosplit/internal/domain"
	"github.com/akapur/autosplit/internal/split"
	"github.com/akapur/autosplit/internal/store"
)

// itemRepository is the subset of store.ItemStore that SplitService requires.
type itemRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)
}

// assignmentRepository is the subset of store.AssignmentStore that
// SplitService requires.
type assignmentRepository interface {
	ReplaceBatch(ctx context.Context, batch []store.ItemAssignments) error
}

// SplitService orchestrates assignment batches: it validates the batch,
// groups entries by item, normalizes each item's shares into amounts, and
// replaces the item's persisted assignments.
type SplitService struct {
	items       itemRepository
	assignments assignmentRepository
	logger      *slog.Logger
}

func NewSplitService(items itemRepository, assignments assignmentRepository, logger *slog.Logger) *SplitService {
	return &SplitService{
		items:       items,
		assignments: assignments,
		logger:      logger,
	}
}

// AssignmentEntry is one submitted (item, member, share) tuple. Share is the
// raw mode-ambiguous value; its interpretation is inferred per item.
type AssignmentEntry struct {
	ItemID   string
	MemberID string
	Share    domain.ShareValue
}

// AssignItems processes one assignment batch and returns the resulting rows
// in submission order.
//
// A malformed entry fails the whole batch with a *ValidationError and touches
// nothing. An entry referencing an item that no longer exists is skipped with
// a warning rather than failing the batch: stale item references are routine
// when a bill is edited while someone assigns shares. All replacements across
// the batch commit in a single transaction.
func (s *SplitService) AssignItems(ctx context.Context, entries []AssignmentEntry) ([]*domain.Assignment, error) {
	results := []*domain.Assignment{}
	if len(entries) == 0 {
		return results, nil
	}

	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	// Group by item, preserving submission order both across groups and
	// within each group: position decides who absorbs the rounding residual.
	order := make([]string, 0, len(entries))
	groups := make(map[string][]AssignmentEntry)
	for _, e := range entries {
		if _, seen := groups[e.ItemID]; !seen {
			order = append(order, e.ItemID)
		}
		groups[e.ItemID] = append(groups[e.ItemID], e)
	}

	var batch []store.ItemAssignments
	for _, itemID := range order {
		group := groups[itemID]

		item, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up item %s: %w", itemID, err)
		}
		if item == nil {
			s.logger.Warn("skipping assignments for unknown item", "item_id", itemID, "entries", len(group))
			continue
		}

		shares := make([]decimal.Decimal, len(group))
		for i, e := range group {
			shares[i] = e.Share.Value
		}
		amounts := split.Normalize(item.Price, shares)

		rows := make([]*domain.Assignment, len(group))
		for i, e := range group {
			rows[i] = &domain.Assignment{
				ItemID:   itemID,
				MemberID: e.MemberID,
				Amount:   amounts[i],
			}
		}

		batch = append(batch, store.ItemAssignments{ItemID: itemID, Rows: rows})
		results = append(results, rows...)
	}

	if len(batch) > 0 {
		if err := s.assignments.ReplaceBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to replace assignments: %w", err)
		}
	}

	return results, nil
}

func validateEntries(entries []AssignmentEntry) error {
	for i, e := range entries {
		switch {
		case strings.TrimSpace(e.ItemID) == "":
			return &ValidationError{Index: i, Reason: "item_id is required"}
		case strings.TrimSpace(e.MemberID) == "":
			return &ValidationError{Index: i, Reason: "member_id is required"}
		case e.Share.Invalid:
			return &ValidationError{Index: i, Reason: "share must be numeric"}
		}
	}
	return nil
}
