package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/garrison/internal/fault"
	"github.com/example/garrison/internal/ports/secondary"
)

// Ensure IdentityRepository implements the interface
var _ secondary.IdentityDirectory = (*IdentityRepository)(nil)

// IdentityRepository implements secondary.IdentityDirectory with SQLite.
type IdentityRepository struct {
	db *sql.DB
}

// NewIdentityRepository creates a new SQLite identity repository.
func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Character retrieves a character by id.
func (r *IdentityRepository) Character(ctx context.Context, id string) (*secondary.CharacterRecord, error) {
	record := &secondary.CharacterRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, faction FROM characters WHERE id = ?", id,
	).Scan(&record.ID, &record.UserID, &record.Name, &record.Faction)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("character %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return record, nil
}

// User retrieves a user by id.
func (r *IdentityRepository) User(ctx context.Context, id string) (*secondary.UserRecord, error) {
	record := &secondary.UserRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM users WHERE id = ?", id,
	).Scan(&record.ID, &record.Name)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return record, nil
}
