package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/akapur/autosplit/internal/domain"
)

type BillStore struct {
	db *sql.DB
}

func NewBillStore(db *sql.DB) *BillStore {
	return &BillStore{db: db}
}

// Create inserts the bill and its items in one transaction, populating any
// missing IDs.
func (s *BillStore) Create(ctx context.Context, bill *domain.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO bills (id, group_id, raw_text, total, scan_key, mime_type) VALUES (?, ?, ?, ?, ?, ?)",
		bill.ID, bill.GroupID, bill.RawText, bill.Total, bill.ScanKey, bill.MimeType,
	); err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for _, item := range bill.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.BillID = bill.ID
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO items (id, bill_id, description, price) VALUES (?, ?, ?, ?)",
			item.ID, item.BillID, item.Description, item.Price,
		); err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID returns the bill with its items, or nil if it does not exist.
func (s *BillStore) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	bill := &domain.Bill{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, raw_text, total, scan_key, mime_type, created_at FROM bills WHERE id = ?", id,
	).Scan(&bill.ID, &bill.GroupID, &bill.RawText, &bill.Total, &bill.ScanKey, &bill.MimeType, &bill.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, description, price FROM items WHERE bill_id = ? ORDER BY rowid", id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &domain.Item{}
		if err := rows.Scan(&item.ID, &item.BillID, &item.Description, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return bill, nil
}

// CountByGroup returns the number of bills recorded for a group.
func (s *BillStore) CountByGroup(ctx context.Context, groupID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bills WHERE group_id = ?", groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return count, nil
}
