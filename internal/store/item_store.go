package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akapur/autosplit/internal/domain"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// GetByID returns the item, or nil if it does not exist.
func (s *ItemStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	item := &domain.Item{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, bill_id, description, price FROM items WHERE id = ?", id,
	).Scan(&item.ID, &item.BillID, &item.Description, &item.Price)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}
