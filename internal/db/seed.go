package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: two
// users, three characters across both factions, and one established
// garrison mid-game so harvest accrual has something to chew on.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339)

	users := []struct{ id, name string }{
		{"USER-001", "looney"},
		{"USER-002", "grimjaw"},
	}
	for _, u := range users {
		if _, err := database.Exec(
			"INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)",
			u.id, u.name, stamp,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	characters := []struct{ id, userID, name, faction string }{
		{"CHAR-001", "USER-001", "Thrall", "horde"},
		{"CHAR-002", "USER-001", "Jaina", "alliance"},
		{"CHAR-003", "USER-002", "Rexxar", "horde"},
	}
	for _, c := range characters {
		if _, err := database.Exec(
			"INSERT INTO characters (id, user_id, name, faction, created_at) VALUES (?, ?, ?, ?, ?)",
			c.id, c.userID, c.name, c.faction, stamp,
		); err != nil {
			return fmt.Errorf("seed characters: %w", err)
		}
	}

	// One established garrison: finished goldmine with two harvesters on
	// a running clock, a town hall still under construction.
	founded := now.Add(-2 * time.Hour)
	clockStart := now.Add(-30 * time.Minute)
	if _, err := database.Exec(
		`INSERT INTO garrisons (id, character_id, name, zone_code, gold, wood, food, plot,
			gold_last_update, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"GAR-001", "CHAR-001", "Stonewatch", "greenhollow",
		525, 270, 3, 27,
		clockStart.Format(time.RFC3339), 1,
		founded.Format(time.RFC3339), clockStart.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("seed garrisons: %w", err)
	}

	buildings := []struct{ id, code string }{
		{"BLD-001", "goldmine"},
		{"BLD-002", "townhall"},
	}
	for _, b := range buildings {
		if _, err := database.Exec(
			"INSERT INTO garrison_buildings (id, garrison_id, code) VALUES (?, ?, ?)",
			b.id, "GAR-001", b.code,
		); err != nil {
			return fmt.Errorf("seed buildings: %w", err)
		}
	}

	constructions := []struct {
		id, buildingID       string
		begin, end           time.Time
		workforce            int
		improvementType      sql.NullString
		improvementLevel     sql.NullInt64
	}{
		{"CON-001", "BLD-001", founded, founded.Add(60 * time.Second), 2, sql.NullString{}, sql.NullInt64{}},
		{"CON-002", "BLD-002", now.Add(-1 * time.Minute), now.Add(119 * time.Second), 1, sql.NullString{}, sql.NullInt64{}},
	}
	for _, c := range constructions {
		if _, err := database.Exec(
			`INSERT INTO constructions (id, garrison_id, building_id, begin_date, end_date,
				workforce, improvement_type, improvement_level)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.id, "GAR-001", c.buildingID,
			c.begin.Format(time.RFC3339), c.end.Format(time.RFC3339),
			c.workforce, c.improvementType, c.improvementLevel,
		); err != nil {
			return fmt.Errorf("seed constructions: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO garrison_units (id, garrison_id, code, quantity) VALUES (?, ?, ?, ?)",
		"UNIT-001", "GAR-001", "peasant", 3,
	); err != nil {
		return fmt.Errorf("seed units: %w", err)
	}

	assignments := []struct {
		id, buildingID, atype string
		quantity              int
		end                   time.Time
	}{
		{"ASG-001", "BLD-001", "harvest", 2, time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"ASG-002", "BLD-002", "construction", 1, now.Add(119 * time.Second)},
	}
	for _, a := range assignments {
		if _, err := database.Exec(
			`INSERT INTO assignments (id, garrison_id, unit_id, building_id, quantity, type, end_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.id, "GAR-001", "UNIT-001", a.buildingID, a.quantity, a.atype,
			a.end.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("seed assignments: %w", err)
		}
	}

	return nil
}
