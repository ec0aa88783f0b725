package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/akapur/autosplit/internal/domain"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

// MemberInput is the caller-supplied part of a member row.
type MemberInput struct {
	Name    string
	UPIID   string
	VenmoID string
}

// Create inserts a group and its initial members in one transaction.
func (s *GroupStore) Create(ctx context.Context, name string, members []MemberInput) (*domain.Group, error) {
	groupID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO groups (id, name) VALUES (?, ?)", groupID, name,
	); err != nil {
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}

	for _, m := range members {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO members (id, group_id, name, upi_id, venmo_id) VALUES (?, ?, ?, ?, ?)",
			uuid.New().String(), groupID, m.Name, m.UPIID, m.VenmoID,
		); err != nil {
			return nil, fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetByID(ctx, groupID)
}

// GetByID returns the group with its members, or nil if it does not exist.
func (s *GroupStore) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	group := &domain.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ?", id,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, name, upi_id, venmo_id, created_at FROM members
		WHERE group_id = ? ORDER BY created_at, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		member := &domain.Member{}
		if err := rows.Scan(&member.ID, &member.GroupID, &member.Name,
			&member.UPIID, &member.VenmoID, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		group.Members = append(group.Members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return group, nil
}
