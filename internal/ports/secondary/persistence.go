// Package secondary defines the secondary ports (driven adapters) for the
// garrison core: persistence, the static catalog, and identity resolution.
// The core drives these interfaces; it never reaches around them.
package secondary

import (
	"context"

	"github.com/example/garrison/internal/core/garrison"
)

// GarrisonStore persists garrison aggregates with all-or-nothing
// semantics. The aggregate is loaded as a value, transformed, and saved
// whole; Save detects concurrent modification through the aggregate's
// version and fails with a Conflict rather than merging.
type GarrisonStore interface {
	// Load retrieves a garrison by id. Fails with NotFound when absent.
	Load(ctx context.Context, id string) (*garrison.Garrison, error)

	// LoadByCharacter retrieves the garrison owned by a character.
	// Fails with NotFound when the character has none.
	LoadByCharacter(ctx context.Context, characterID string) (*garrison.Garrison, error)

	// NameTaken reports whether any garrison already uses the name.
	NameTaken(ctx context.Context, name string) (bool, error)

	// Create persists a new garrison at version 1.
	Create(ctx context.Context, g *garrison.Garrison) error

	// Save replaces the stored aggregate if the version still matches,
	// then bumps the version. Fails with Conflict on a stale version.
	Save(ctx context.Context, g *garrison.Garrison) error
}

// CharacterRecord is a character as resolved from the identity directory.
type CharacterRecord struct {
	ID      string
	UserID  string
	Name    string
	Faction string
}

// UserRecord is an account as resolved from the identity directory.
type UserRecord struct {
	ID   string
	Name string
}

// IdentityDirectory resolves characters and users. Read-only; used only
// to validate faction and zone compatibility at garrison creation.
type IdentityDirectory interface {
	// Character retrieves a character by id. Fails with NotFound when absent.
	Character(ctx context.Context, id string) (*CharacterRecord, error)

	// User retrieves a user by id. Fails with NotFound when absent.
	User(ctx context.Context, id string) (*UserRecord, error)
}
