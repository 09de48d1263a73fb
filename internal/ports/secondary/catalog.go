package secondary

import (
	"time"

	"github.com/example/garrison/internal/core/building"
	"github.com/example/garrison/internal/core/requirement"
	"github.com/example/garrison/internal/core/resource"
)

// Catalog is the read-only static game-data lookup service. Definitions
// are immutable for the process lifetime and are never cached inside
// aggregates; every operation resolves codes at execution time.
type Catalog interface {
	// Building retrieves a building definition by code.
	Building(code string) (*BuildingDef, bool)

	// Unit retrieves a unit definition by code.
	Unit(code string) (*UnitDef, bool)

	// Zone retrieves a zone definition by code.
	Zone(code string) (*ZoneDef, bool)

	// Buildings lists every building definition.
	Buildings() []BuildingDef

	// Units lists every unit definition.
	Units() []UnitDef

	// WorkerUnit returns the unit code that staffs construction sites.
	WorkerUnit() string

	// Tuning returns the numeric tuning: scaling factors, starting
	// resources, and the starter cohort.
	Tuning() Tuning
}

// BuildingDef is the static definition of one building type.
type BuildingDef struct {
	Code          string
	Name          string
	Instantiation InstantiationDef
	Upgrades      []UpgradeDef
	Extension     *ExtensionDef
	Harvest       *HarvestDef
}

// InstantiationDef describes the initial construction of a building.
type InstantiationDef struct {
	Cost         resource.Amounts
	Duration     time.Duration
	MinWorkforce int
	Requirements []requirement.Requirement
}

// UpgradeDef declares one reachable upgrade level and its prerequisites.
type UpgradeDef struct {
	Level        int
	Requirements []requirement.Requirement
}

// ExtensionDef bounds how far a building can be extended.
type ExtensionDef struct {
	MaxLevel     int
	Requirements []requirement.Requirement
}

// HarvestDef describes a building's harvest capability. MaxWorkforce
// zero marks a gift building: Amount is a one-time yield credited when
// a construction is scheduled, not a per-worker-per-minute rate.
type HarvestDef struct {
	Resource     resource.Kind
	Amount       float64
	MaxWorkforce int
}

// Gift reports whether the building yields once instead of accruing.
func (d *BuildingDef) Gift() bool {
	return d.Harvest != nil && d.Harvest.MaxWorkforce == 0
}

// MaxUpgradeLevel returns the highest upgrade level the catalog defines.
func (d *BuildingDef) MaxUpgradeLevel() int {
	max := 0
	for _, u := range d.Upgrades {
		if u.Level > max {
			max = u.Level
		}
	}
	return max
}

// Upgrade returns the upgrade definition for a level, or nil.
func (d *BuildingDef) Upgrade(level int) *UpgradeDef {
	for i := range d.Upgrades {
		if d.Upgrades[i].Level == level {
			return &d.Upgrades[i]
		}
	}
	return nil
}

// UnitDef is the static definition of one unit type.
type UnitDef struct {
	Code         string
	Name         string
	Cost         resource.Amounts
	Duration     time.Duration
	Requirements []requirement.Requirement
}

// ZoneDef is the static definition of one map zone.
type ZoneDef struct {
	Code    string
	Name    string
	Faction string
}

// StarterUnit is one cohort seeded into a fresh garrison.
type StarterUnit struct {
	Code     string
	Quantity int
}

// Tuning groups the numeric knobs of the simulation.
type Tuning struct {
	Factors           building.Factors
	StartingResources resource.Amounts
	StarterUnits      []StarterUnit
}
