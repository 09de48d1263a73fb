// Package primary defines the primary ports (driving adapters) for the
// garrison core: one operation per player action, each taking a plain
// payload of identifiers and quantities and returning the refreshed
// garrison view or a typed failure.
package primary

import "context"

// GarrisonService defines the primary port for garrison operations.
// Every mutating operation brings the resource ledger up to date before
// validating, and persists the aggregate atomically.
type GarrisonService interface {
	// CreateGarrison founds a new garrison for a character in a zone.
	CreateGarrison(ctx context.Context, req CreateGarrisonRequest) (*Garrison, error)

	// GetGarrison retrieves a garrison by id with accrual applied.
	GetGarrison(ctx context.Context, garrisonID string) (*Garrison, error)

	// GetGarrisonByCharacter retrieves a character's garrison with
	// accrual applied.
	GetGarrisonByCharacter(ctx context.Context, characterID string) (*Garrison, error)

	// AddBuilding schedules the construction of a new building.
	AddBuilding(ctx context.Context, req AddBuildingRequest) (*Garrison, error)

	// CancelConstruction cancels a running construction. Cancelling an
	// instantiation removes the building; cancelling an improvement
	// refunds its cost and keeps the previous level.
	CancelConstruction(ctx context.Context, req CancelConstructionRequest) (*Garrison, error)

	// UpgradeBuilding schedules the next upgrade level.
	UpgradeBuilding(ctx context.Context, req ImproveBuildingRequest) (*Garrison, error)

	// ExtendBuilding schedules the next extension level.
	ExtendBuilding(ctx context.Context, req ImproveBuildingRequest) (*Garrison, error)

	// AddUnit trains a batch of units sequentially.
	AddUnit(ctx context.Context, req AddUnitRequest) (*Garrison, error)

	// AssignUnit commits idle units to harvest a building.
	AssignUnit(ctx context.Context, req AssignUnitRequest) (*Garrison, error)

	// UnassignUnit withdraws harvest workers from a building.
	UnassignUnit(ctx context.Context, req AssignUnitRequest) (*Garrison, error)
}

// CreateGarrisonRequest contains parameters for founding a garrison.
type CreateGarrisonRequest struct {
	CharacterID string
	Name        string
	ZoneCode    string
}

// AddBuildingRequest contains parameters for constructing a building.
type AddBuildingRequest struct {
	GarrisonID string
	Code       string
	Workforce  int
}

// CancelConstructionRequest identifies the construction to cancel.
type CancelConstructionRequest struct {
	GarrisonID     string
	BuildingID     string
	ConstructionID string
}

// ImproveBuildingRequest contains parameters for upgrading or extending.
type ImproveBuildingRequest struct {
	GarrisonID string
	BuildingID string
	Workforce  int
}

// AddUnitRequest contains parameters for training a unit batch.
type AddUnitRequest struct {
	GarrisonID string
	Code       string
	Quantity   int
}

// AssignUnitRequest contains parameters for (un)assigning harvesters.
type AssignUnitRequest struct {
	GarrisonID string
	BuildingID string
	Code       string
	Quantity   int
}

// Garrison is the aggregate view at the port boundary.
type Garrison struct {
	ID          string
	CharacterID string
	Name        string
	ZoneCode    string
	Resources   Resources
	Buildings   []Building
	Units       []Unit
	Version     int64
	CreatedAt   string
	UpdatedAt   string
}

// Resources is the ledger view. Timestamps are RFC3339, empty when the
// corresponding harvest clock is unset.
type Resources struct {
	Gold           int64
	Wood           int64
	Food           int64
	Plot           int64
	GoldLastUpdate string
	WoodLastUpdate string
	FoodLastUpdate string
}

// Building is one owned building at the port boundary. Levels are the
// effective (finished) levels at query time.
type Building struct {
	ID             string
	Code           string
	UpgradeLevel   int
	ExtensionLevel int
	Busy           bool
	Constructions  []Construction
}

// Construction is one scheduled or historical construction entry.
type Construction struct {
	ID              string
	BeginDate       string
	EndDate         string
	Workforce       int
	ImprovementType string // empty for the instantiation
	Level           int
	Finished        bool
}

// Unit is one cohort at the port boundary. Idle is derived at query time.
type Unit struct {
	Code        string
	Quantity    int
	Idle        int
	Assignments []Assignment
}

// Assignment is one standing or time-bound unit commitment.
type Assignment struct {
	ID         string
	BuildingID string
	Quantity   int
	Type       string
	EndDate    string // empty for harvest assignments (standing commitment)
}
