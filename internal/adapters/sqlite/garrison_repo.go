// Package sqlite contains SQLite implementations of the secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/garrison/internal/core/garrison"
	"github.com/example/garrison/internal/fault"
	"github.com/example/garrison/internal/ports/secondary"
)

// Ensure GarrisonRepository implements the interface
var _ secondary.GarrisonStore = (*GarrisonRepository)(nil)

// GarrisonRepository implements secondary.GarrisonStore with SQLite.
// The aggregate is stored across five tables but always read and
// written whole: Save replaces every child row inside one transaction
// guarded by the garrison's version.
type GarrisonRepository struct {
	db *sql.DB
}

// NewGarrisonRepository creates a new SQLite garrison repository.
func NewGarrisonRepository(db *sql.DB) *GarrisonRepository {
	return &GarrisonRepository{db: db}
}

// Load retrieves a garrison aggregate by id.
func (r *GarrisonRepository) Load(ctx context.Context, id string) (*garrison.Garrison, error) {
	return r.loadWhere(ctx, "id = ?", id)
}

// LoadByCharacter retrieves the garrison owned by a character.
func (r *GarrisonRepository) LoadByCharacter(ctx context.Context, characterID string) (*garrison.Garrison, error) {
	g, err := r.loadWhere(ctx, "character_id = ?", characterID)
	if fault.IsKind(err, fault.KindNotFound) {
		return nil, fault.NotFound("character %s has no garrison", characterID)
	}
	return g, err
}

// NameTaken reports whether any garrison already uses the name.
func (r *GarrisonRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM garrisons WHERE name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check garrison name: %w", err)
	}
	return count > 0, nil
}

// Create persists a new garrison aggregate.
func (r *GarrisonRepository) Create(ctx context.Context, g *garrison.Garrison) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO garrisons (id, character_id, name, zone_code, gold, wood, food, plot,
			gold_last_update, wood_last_update, food_last_update, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.CharacterID, g.Name, g.ZoneCode,
		g.Resources.Gold, g.Resources.Wood, g.Resources.Food, g.Resources.Plot,
		nullTime(g.Clocks.Gold), nullTime(g.Clocks.Wood), nullTime(g.Clocks.Food),
		g.Version, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create garrison: %w", err)
	}

	if err := insertChildren(ctx, tx, g); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit garrison: %w", err)
	}
	return nil
}

// Save replaces the stored aggregate if the version still matches, then
// bumps the version. Fails with Conflict on a stale version.
func (r *GarrisonRepository) Save(ctx context.Context, g *garrison.Garrison) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE garrisons SET gold = ?, wood = ?, food = ?, plot = ?,
			gold_last_update = ?, wood_last_update = ?, food_last_update = ?,
			version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		g.Resources.Gold, g.Resources.Wood, g.Resources.Food, g.Resources.Plot,
		nullTime(g.Clocks.Gold), nullTime(g.Clocks.Wood), nullTime(g.Clocks.Food),
		g.UpdatedAt, g.ID, g.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save garrison: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save garrison: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM garrisons WHERE id = ?", g.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to save garrison: %w", err)
		}
		if exists == 0 {
			return fault.NotFound("garrison %s not found", g.ID)
		}
		return fault.Conflict("garrison %s was modified concurrently", g.ID)
	}

	// Children are replaced wholesale; the aggregate is small and the
	// version check already fences concurrent writers.
	for _, table := range []string{"assignments", "constructions", "garrison_units", "garrison_buildings"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE garrison_id = ?", table), g.ID,
		); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertChildren(ctx, tx, g); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit garrison: %w", err)
	}
	g.Version++
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, g *garrison.Garrison) error {
	for _, b := range g.Buildings {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO garrison_buildings (id, garrison_id, code) VALUES (?, ?, ?)",
			b.ID, g.ID, b.Code,
		); err != nil {
			return fmt.Errorf("failed to insert building: %w", err)
		}
		for _, c := range b.Constructions {
			var impType sql.NullString
			var impLevel sql.NullInt64
			if c.Improvement != nil {
				impType = sql.NullString{String: string(c.Improvement.Type), Valid: true}
				impLevel = sql.NullInt64{Int64: int64(c.Improvement.Level), Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO constructions (id, garrison_id, building_id, begin_date, end_date,
					workforce, improvement_type, improvement_level)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				c.ID, g.ID, b.ID, c.Begin, c.End, c.Workforce, impType, impLevel,
			); err != nil {
				return fmt.Errorf("failed to insert construction: %w", err)
			}
		}
	}

	for _, u := range g.Units {
		unitID := g.ID + ":" + u.Code
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO garrison_units (id, garrison_id, code, quantity) VALUES (?, ?, ?, ?)",
			unitID, g.ID, u.Code, u.Quantity,
		); err != nil {
			return fmt.Errorf("failed to insert unit: %w", err)
		}
		for _, a := range u.Assignments {
			var buildingID sql.NullString
			if a.BuildingID != "" {
				buildingID = sql.NullString{String: a.BuildingID, Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO assignments (id, garrison_id, unit_id, building_id, quantity, type, end_date)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				a.ID, g.ID, unitID, buildingID, a.Quantity, string(a.Type), a.End,
			); err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}
		}
	}
	return nil
}

func (r *GarrisonRepository) loadWhere(ctx context.Context, where, arg string) (*garrison.Garrison, error) {
	var (
		g                              garrison.Garrison
		goldClock, woodClock, foodClock sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, character_id, name, zone_code, gold, wood, food, plot,
			gold_last_update, wood_last_update, food_last_update, version, created_at, updated_at
		 FROM garrisons WHERE `+where,
		arg,
	).Scan(&g.ID, &g.CharacterID, &g.Name, &g.ZoneCode,
		&g.Resources.Gold, &g.Resources.Wood, &g.Resources.Food, &g.Resources.Plot,
		&goldClock, &woodClock, &foodClock, &g.Version, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("garrison not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load garrison: %w", err)
	}

	if goldClock.Valid {
		t := goldClock.Time
		g.Clocks.Gold = &t
	}
	if woodClock.Valid {
		t := woodClock.Time
		g.Clocks.Wood = &t
	}
	if foodClock.Valid {
		t := foodClock.Time
		g.Clocks.Food = &t
	}

	if err := r.loadBuildings(ctx, &g); err != nil {
		return nil, err
	}
	if err := r.loadUnits(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GarrisonRepository) loadBuildings(ctx context.Context, g *garrison.Garrison) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, code FROM garrison_buildings WHERE garrison_id = ? ORDER BY rowid", g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load buildings: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var b garrison.Building
		if err := rows.Scan(&b.ID, &b.Code); err != nil {
			return fmt.Errorf("failed to scan building: %w", err)
		}
		index[b.ID] = len(g.Buildings)
		g.Buildings = append(g.Buildings, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load buildings: %w", err)
	}

	crows, err := r.db.QueryContext(ctx,
		`SELECT id, building_id, begin_date, end_date, workforce, improvement_type, improvement_level
		 FROM constructions WHERE garrison_id = ? ORDER BY begin_date, rowid`, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load constructions: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var (
			c          garrison.Construction
			buildingID string
			impType    sql.NullString
			impLevel   sql.NullInt64
		)
		if err := crows.Scan(&c.ID, &buildingID, &c.Begin, &c.End, &c.Workforce, &impType, &impLevel); err != nil {
			return fmt.Errorf("failed to scan construction: %w", err)
		}
		if impType.Valid {
			c.Improvement = &garrison.Improvement{
				Type:  garrison.ImprovementType(impType.String),
				Level: int(impLevel.Int64),
			}
		}
		i, ok := index[buildingID]
		if !ok {
			return fmt.Errorf("construction %s references unknown building %s", c.ID, buildingID)
		}
		g.Buildings[i].Constructions = append(g.Buildings[i].Constructions, c)
	}
	return crows.Err()
}

func (r *GarrisonRepository) loadUnits(ctx context.Context, g *garrison.Garrison) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, code, quantity FROM garrison_units WHERE garrison_id = ? ORDER BY rowid", g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load units: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var u garrison.Unit
		var unitID string
		if err := rows.Scan(&unitID, &u.Code, &u.Quantity); err != nil {
			return fmt.Errorf("failed to scan unit: %w", err)
		}
		index[unitID] = len(g.Units)
		g.Units = append(g.Units, u)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load units: %w", err)
	}

	arows, err := r.db.QueryContext(ctx,
		`SELECT id, unit_id, building_id, quantity, type, end_date
		 FROM assignments WHERE garrison_id = ? ORDER BY end_date, rowid`, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load assignments: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		var (
			a          garrison.Assignment
			unitID     string
			buildingID sql.NullString
			atype      string
			end        time.Time
		)
		if err := arows.Scan(&a.ID, &unitID, &buildingID, &a.Quantity, &atype, &end); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.BuildingID = buildingID.String
		a.Type = garrison.AssignmentType(atype)
		a.End = end
		i, ok := index[unitID]
		if !ok {
			return fmt.Errorf("assignment %s references unknown unit %s", a.ID, unitID)
		}
		g.Units[i].Assignments = append(g.Units[i].Assignments, a)
	}
	return arows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
