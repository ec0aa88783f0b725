package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akapur/autosplit/internal/domain"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

// ItemAssignments is the full replacement set of assignment rows for one item.
type ItemAssignments struct {
	ItemID string
	Rows   []*domain.Assignment
}

// ReplaceBatch atomically replaces the assignment rows for every item in the
// batch: existing rows for each item are deleted and the new rows inserted
// inside a single transaction, so a failure partway leaves no item with
// missing or doubled assignments. Missing row IDs are populated.
func (s *AssignmentStore) ReplaceBatch(ctx context.Context, batch []ItemAssignments) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ia := range batch {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM item_assignments WHERE item_id = ?", ia.ItemID,
		); err != nil {
			return fmt.Errorf("failed to clear assignments for item %s: %w", ia.ItemID, err)
		}

		for _, row := range ia.Rows {
			if row.ID == "" {
				row.ID = uuid.New().String()
			}
			row.ItemID = ia.ItemID
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO item_assignments (id, item_id, member_id, amount) VALUES (?, ?, ?, ?)",
				row.ID, row.ItemID, row.MemberID, row.Amount,
			); err != nil {
				return fmt.Errorf("failed to insert assignment for item %s: %w", ia.ItemID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListByItem returns the assignment rows for one item in insertion order.
func (s *AssignmentStore) ListByItem(ctx context.Context, itemID string) ([]*domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, item_id, member_id, amount FROM item_assignments WHERE item_id = ? ORDER BY rowid", itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		a := &domain.Assignment{}
		if err := rows.Scan(&a.ID, &a.ItemID, &a.MemberID, &a.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// MemberAmount is one assignment amount attributed to a member, used for
// group-level aggregation.
type MemberAmount struct {
	MemberID string
	Amount   decimal.Decimal
}

// ListByGroup returns every assignment amount across all bills of a group.
// Summation is left to the caller so amounts stay in exact decimal form.
func (s *AssignmentStore) ListByGroup(ctx context.Context, groupID string) ([]MemberAmount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.member_id, a.amount
		FROM item_assignments a
		JOIN items i ON i.id = a.item_id
		JOIN bills b ON b.id = i.bill_id
		WHERE b.group_id = ?
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group assignments: %w", err)
	}
	defer rows.Close()

	var amounts []MemberAmount
	for rows.Next() {
		var ma MemberAmount
		if err := rows.Scan(&ma.MemberID, &ma.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan group assignment: %w", err)
		}
		amounts = append(amounts, ma)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group assignments: %w", err)
	}

	return amounts, nil
}
