// Package garrison contains the aggregate model for one player's base:
// resources, buildings with their construction history, units with their
// assignments, and the pure functions that derive current state from
// stored end dates. Completion is never driven by timers; it is always
// a comparison between a stored end date and the caller's clock.
package garrison

import (
	"time"

	"github.com/example/garrison/internal/core/resource"
)

// HarvestHorizon is the sentinel end date carried by harvest assignments.
// Harvest assignments are standing commitments, not timers; they persist
// until explicitly unassigned.
var HarvestHorizon = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

// ImprovementType distinguishes the two kinds of building improvement.
type ImprovementType string

const (
	ImprovementUpgrade   ImprovementType = "upgrade"
	ImprovementExtension ImprovementType = "extension"
)

// AssignmentType classifies what a batch of units is committed to.
type AssignmentType string

const (
	// AssignmentInstantiation is a training slot for one unit in a batch.
	AssignmentInstantiation AssignmentType = "instantiation"
	// AssignmentConstruction commits workforce to a building site until
	// the construction's end date.
	AssignmentConstruction AssignmentType = "construction"
	// AssignmentHarvest is a standing commitment to a harvest building.
	AssignmentHarvest AssignmentType = "harvest"
)

// Garrison is the aggregate root. It exclusively owns its buildings,
// units, and assignments; cross-aggregate references (character, zone,
// catalog entries) are by immutable code or id only.
type Garrison struct {
	ID          string
	CharacterID string
	Name        string
	ZoneCode    string

	Resources resource.Amounts
	Clocks    resource.Clocks

	Buildings []Building
	Units     []Unit

	// Version is the optimistic-concurrency sequence bumped on every save.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Building is one owned building instance. Its first construction is the
// instantiation; every later entry is an improvement tagged with a level.
type Building struct {
	ID            string
	Code          string
	Constructions []Construction
}

// Improvement tags a construction as an upgrade or extension to a level.
type Improvement struct {
	Type  ImprovementType
	Level int
}

// Construction is one scheduled piece of building work. Once its end date
// has passed it is a historical record and is never re-entered.
type Construction struct {
	ID          string
	Begin       time.Time
	End         time.Time
	Workforce   int
	Improvement *Improvement
}

// Finished reports whether the construction's end date has passed.
func (c Construction) Finished(now time.Time) bool {
	return !c.End.After(now)
}

// Unit is a cohort of one unit type. Quantity counts every owned unit,
// including those still in training; idle availability is always derived.
type Unit struct {
	Code        string
	Quantity    int
	Assignments []Assignment
}

// Assignment commits part of a unit cohort to training, construction
// work, or harvesting.
type Assignment struct {
	ID         string
	BuildingID string
	Quantity   int
	Type       AssignmentType
	End        time.Time
}

// Expired reports whether a time-bound assignment has released its units.
// Harvest assignments never expire.
func (a Assignment) Expired(now time.Time) bool {
	if a.Type == AssignmentHarvest {
		return false
	}
	return !a.End.After(now)
}

// Idle returns how many units of the cohort are neither training,
// building, nor harvesting: quantity minus unexpired assignment
// quantities. This is the single availability rule used everywhere.
func (u Unit) Idle(now time.Time) int {
	idle := u.Quantity
	for _, a := range u.Assignments {
		if !a.Expired(now) {
			idle -= a.Quantity
		}
	}
	if idle < 0 {
		return 0
	}
	return idle
}

// Busy reports whether any construction on the building is still running.
// A busy building accepts no new improvement and no harvest assignment.
func (b Building) Busy(now time.Time) bool {
	for _, c := range b.Constructions {
		if !c.Finished(now) {
			return true
		}
	}
	return false
}

// Instantiated reports whether the building's instantiation construction
// has finished.
func (b Building) Instantiated(now time.Time) bool {
	for _, c := range b.Constructions {
		if c.Improvement == nil {
			return c.Finished(now)
		}
	}
	return false
}

// Level derives the building's effective level for an improvement type:
// the highest finished improvement of that type. Level is never stored.
func (b Building) Level(t ImprovementType, now time.Time) int {
	level := 0
	for _, c := range b.Constructions {
		if c.Improvement != nil && c.Improvement.Type == t && c.Finished(now) && c.Improvement.Level > level {
			level = c.Improvement.Level
		}
	}
	return level
}

// PendingLevel returns the highest improvement level of the given type
// regardless of completion. A busy building rejects new improvements, so
// for idle buildings this equals Level.
func (b Building) PendingLevel(t ImprovementType) int {
	level := 0
	for _, c := range b.Constructions {
		if c.Improvement != nil && c.Improvement.Type == t && c.Improvement.Level > level {
			level = c.Improvement.Level
		}
	}
	return level
}

// Construction returns the construction with the given id, or nil.
func (b *Building) Construction(id string) *Construction {
	for i := range b.Constructions {
		if b.Constructions[i].ID == id {
			return &b.Constructions[i]
		}
	}
	return nil
}

// RemoveConstruction deletes the construction with the given id.
func (b *Building) RemoveConstruction(id string) {
	for i := range b.Constructions {
		if b.Constructions[i].ID == id {
			b.Constructions = append(b.Constructions[:i], b.Constructions[i+1:]...)
			return
		}
	}
}

// Building returns the building with the given id, or nil.
func (g *Garrison) Building(id string) *Building {
	for i := range g.Buildings {
		if g.Buildings[i].ID == id {
			return &g.Buildings[i]
		}
	}
	return nil
}

// BuildingByCode returns the first building with the given catalog code,
// or nil.
func (g *Garrison) BuildingByCode(code string) *Building {
	for i := range g.Buildings {
		if g.Buildings[i].Code == code {
			return &g.Buildings[i]
		}
	}
	return nil
}

// RemoveBuilding deletes the building with the given id and every
// assignment that pointed at it.
func (g *Garrison) RemoveBuilding(id string) {
	for i := range g.Buildings {
		if g.Buildings[i].ID == id {
			g.Buildings = append(g.Buildings[:i], g.Buildings[i+1:]...)
			break
		}
	}
	for ui := range g.Units {
		u := &g.Units[ui]
		kept := u.Assignments[:0]
		for _, a := range u.Assignments {
			if a.BuildingID != id {
				kept = append(kept, a)
			}
		}
		u.Assignments = kept
	}
}

// Unit returns the cohort with the given code, or nil.
func (g *Garrison) Unit(code string) *Unit {
	for i := range g.Units {
		if g.Units[i].Code == code {
			return &g.Units[i]
		}
	}
	return nil
}

// EnsureUnit returns the cohort with the given code, creating an empty
// one if the garrison owns none yet.
func (g *Garrison) EnsureUnit(code string) *Unit {
	if u := g.Unit(code); u != nil {
		return u
	}
	g.Units = append(g.Units, Unit{Code: code})
	return &g.Units[len(g.Units)-1]
}

// HarvestWorkforce sums the harvest assignment quantities committed to
// one building across every unit cohort.
func (g *Garrison) HarvestWorkforce(buildingID string) int {
	total := 0
	for _, u := range g.Units {
		for _, a := range u.Assignments {
			if a.Type == AssignmentHarvest && a.BuildingID == buildingID {
				total += a.Quantity
			}
		}
	}
	return total
}

// ReleaseConstructionWorkforce removes the construction-type assignment
// matching a building and end date. Cancelled construction workforce is
// matched by identical end date.
func (g *Garrison) ReleaseConstructionWorkforce(buildingID string, end time.Time) {
	for ui := range g.Units {
		u := &g.Units[ui]
		for i := range u.Assignments {
			a := u.Assignments[i]
			if a.Type == AssignmentConstruction && a.BuildingID == buildingID && a.End.Equal(end) {
				u.Assignments = append(u.Assignments[:i], u.Assignments[i+1:]...)
				return
			}
		}
	}
}
