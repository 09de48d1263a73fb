package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/garrison/internal/core/building"
	"github.com/example/garrison/internal/core/garrison"
	"github.com/example/garrison/internal/core/requirement"
	"github.com/example/garrison/internal/core/resource"
	"github.com/example/garrison/internal/fault"
	"github.com/example/garrison/internal/ports/primary"
	"github.com/example/garrison/internal/ports/secondary"
)

// Ensure the mocks implement their interfaces
var _ secondary.GarrisonStore = (*mockGarrisonStore)(nil)
var _ secondary.Catalog = (*mockCatalog)(nil)
var _ secondary.IdentityDirectory = (*mockIdentityDirectory)(nil)

// mockGarrisonStore implements secondary.GarrisonStore for testing.
// Load returns a deep copy so a failed mutation never leaks into the
// stored state, mirroring the all-or-nothing save of the real adapter.
type mockGarrisonStore struct {
	garrisons map[string]*garrison.Garrison
	saveCount int
	createErr error
	loadErr   error
	saveErr   error
}

func newMockGarrisonStore() *mockGarrisonStore {
	return &mockGarrisonStore{
		garrisons: make(map[string]*garrison.Garrison),
	}
}

func (m *mockGarrisonStore) Load(ctx context.Context, id string) (*garrison.Garrison, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	g, ok := m.garrisons[id]
	if !ok {
		return nil, fault.NotFound("garrison %s not found", id)
	}
	return cloneGarrison(g), nil
}

func (m *mockGarrisonStore) LoadByCharacter(ctx context.Context, characterID string) (*garrison.Garrison, error) {
	for _, g := range m.garrisons {
		if g.CharacterID == characterID {
			return cloneGarrison(g), nil
		}
	}
	return nil, fault.NotFound("character %s has no garrison", characterID)
}

func (m *mockGarrisonStore) NameTaken(ctx context.Context, name string) (bool, error) {
	for _, g := range m.garrisons {
		if g.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGarrisonStore) Create(ctx context.Context, g *garrison.Garrison) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.garrisons[g.ID] = cloneGarrison(g)
	return nil
}

func (m *mockGarrisonStore) Save(ctx context.Context, g *garrison.Garrison) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	stored, ok := m.garrisons[g.ID]
	if !ok {
		return fault.NotFound("garrison %s not found", g.ID)
	}
	if stored.Version != g.Version {
		return fault.Conflict("garrison %s was modified concurrently", g.ID)
	}
	g.Version++
	m.garrisons[g.ID] = cloneGarrison(g)
	m.saveCount++
	return nil
}

// stored returns the persisted aggregate for direct assertions.
func (m *mockGarrisonStore) stored(id string) *garrison.Garrison {
	return m.garrisons[id]
}

func cloneGarrison(g *garrison.Garrison) *garrison.Garrison {
	out := *g
	out.Buildings = make([]garrison.Building, len(g.Buildings))
	for i, b := range g.Buildings {
		out.Buildings[i] = b
		out.Buildings[i].Constructions = append([]garrison.Construction(nil), b.Constructions...)
	}
	out.Units = make([]garrison.Unit, len(g.Units))
	for i, u := range g.Units {
		out.Units[i] = u
		out.Units[i].Assignments = append([]garrison.Assignment(nil), u.Assignments...)
	}
	if g.Clocks.Gold != nil {
		t := *g.Clocks.Gold
		out.Clocks.Gold = &t
	}
	if g.Clocks.Wood != nil {
		t := *g.Clocks.Wood
		out.Clocks.Wood = &t
	}
	if g.Clocks.Food != nil {
		t := *g.Clocks.Food
		out.Clocks.Food = &t
	}
	return &out
}

// mockCatalog implements secondary.Catalog with a small fixed game:
// a worker unit, free and faction-locked zones, plain, harvest, gift,
// and requirement-gated buildings.
type mockCatalog struct {
	buildings map[string]*secondary.BuildingDef
	units     map[string]*secondary.UnitDef
	zones     map[string]*secondary.ZoneDef
	tuning    secondary.Tuning
}

func newMockCatalog() *mockCatalog {
	c := &mockCatalog{
		buildings: make(map[string]*secondary.BuildingDef),
		units:     make(map[string]*secondary.UnitDef),
		zones:     make(map[string]*secondary.ZoneDef),
		tuning: secondary.Tuning{
			Factors: building.DefaultFactors,
			StartingResources: resource.Amounts{
				Gold: 625, Wood: 320, Food: 3, Plot: 32,
			},
			StarterUnits: []secondary.StarterUnit{{Code: "peasant", Quantity: 3}},
		},
	}

	c.buildings["townhall"] = &secondary.BuildingDef{
		Code: "townhall",
		Name: "Town Hall",
		Instantiation: secondary.InstantiationDef{
			Cost:         resource.Amounts{Gold: 200, Wood: 100, Plot: 10},
			Duration:     120 * time.Second,
			MinWorkforce: 1,
		},
		Upgrades: []secondary.UpgradeDef{{Level: 1}, {Level: 2}},
	}
	c.buildings["goldmine"] = &secondary.BuildingDef{
		Code: "goldmine",
		Name: "Gold Mine",
		Instantiation: secondary.InstantiationDef{
			Cost:         resource.Amounts{Gold: 100, Wood: 50, Plot: 5},
			Duration:     60 * time.Second,
			MinWorkforce: 2,
		},
		Upgrades: []secondary.UpgradeDef{
			{Level: 1},
			{Level: 2, Requirements: []requirement.Requirement{{Code: "townhall", UpgradeLevel: 1}}},
		},
		Extension: &secondary.ExtensionDef{MaxLevel: 2},
		Harvest:   &secondary.HarvestDef{Resource: resource.Gold, Amount: 1.5, MaxWorkforce: 4},
	}
	c.buildings["sawmill"] = &secondary.BuildingDef{
		Code: "sawmill",
		Name: "Sawmill",
		Instantiation: secondary.InstantiationDef{
			Cost:         resource.Amounts{Gold: 60, Wood: 30, Plot: 4},
			Duration:     45 * time.Second,
			MinWorkforce: 1,
			Requirements: []requirement.Requirement{{Code: "townhall"}},
		},
		Harvest: &secondary.HarvestDef{Resource: resource.Wood, Amount: 1.0, MaxWorkforce: 3},
	}
	c.buildings["shrine"] = &secondary.BuildingDef{
		Code: "shrine",
		Name: "Shrine",
		Instantiation: secondary.InstantiationDef{
			Cost:     resource.Amounts{Gold: 20, Wood: 10, Plot: 2},
			Duration: 30 * time.Second,
		},
		Harvest: &secondary.HarvestDef{Resource: resource.Gold, Amount: 50},
	}

	c.units["peasant"] = &secondary.UnitDef{
		Code:     "peasant",
		Name:     "Peasant",
		Cost:     resource.Amounts{Gold: 25, Food: 1},
		Duration: 30 * time.Second,
	}
	c.units["militia"] = &secondary.UnitDef{
		Code:         "militia",
		Name:         "Militia",
		Cost:         resource.Amounts{Gold: 40, Food: 1},
		Duration:     45 * time.Second,
		Requirements: []requirement.Requirement{{Code: "townhall"}},
	}

	c.zones["greenhollow"] = &secondary.ZoneDef{Code: "greenhollow", Name: "Greenhollow"}
	c.zones["ironmarch"] = &secondary.ZoneDef{Code: "ironmarch", Name: "Ironmarch", Faction: "horde"}

	return c
}

func (m *mockCatalog) Building(code string) (*secondary.BuildingDef, bool) {
	d, ok := m.buildings[code]
	return d, ok
}

func (m *mockCatalog) Unit(code string) (*secondary.UnitDef, bool) {
	d, ok := m.units[code]
	return d, ok
}

func (m *mockCatalog) Zone(code string) (*secondary.ZoneDef, bool) {
	d, ok := m.zones[code]
	return d, ok
}

func (m *mockCatalog) Buildings() []secondary.BuildingDef {
	var out []secondary.BuildingDef
	for _, d := range m.buildings {
		out = append(out, *d)
	}
	return out
}

func (m *mockCatalog) Units() []secondary.UnitDef {
	var out []secondary.UnitDef
	for _, d := range m.units {
		out = append(out, *d)
	}
	return out
}

func (m *mockCatalog) WorkerUnit() string { return "peasant" }

func (m *mockCatalog) Tuning() secondary.Tuning { return m.tuning }

// mockIdentityDirectory implements secondary.IdentityDirectory for testing.
type mockIdentityDirectory struct {
	characters map[string]*secondary.CharacterRecord
	users      map[string]*secondary.UserRecord
}

func newMockIdentityDirectory() *mockIdentityDirectory {
	return &mockIdentityDirectory{
		characters: map[string]*secondary.CharacterRecord{
			"CHAR-001": {ID: "CHAR-001", UserID: "USER-001", Name: "Thrall", Faction: "horde"},
			"CHAR-002": {ID: "CHAR-002", UserID: "USER-001", Name: "Jaina", Faction: "alliance"},
		},
		users: map[string]*secondary.UserRecord{
			"USER-001": {ID: "USER-001", Name: "player-one"},
		},
	}
}

func (m *mockIdentityDirectory) Character(ctx context.Context, id string) (*secondary.CharacterRecord, error) {
	c, ok := m.characters[id]
	if !ok {
		return nil, fault.NotFound("character %s not found", id)
	}
	return c, nil
}

func (m *mockIdentityDirectory) User(ctx context.Context, id string) (*secondary.UserRecord, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fault.NotFound("user %s not found", id)
	}
	return u, nil
}

// fixture bundles a service with a controllable clock and deterministic
// sequential ids.
type fixture struct {
	svc      *GarrisonServiceImpl
	store    *mockGarrisonStore
	catalog  *mockCatalog
	identity *mockIdentityDirectory
	now      time.Time
}

var fixtureEpoch = time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		store:    newMockGarrisonStore(),
		catalog:  newMockCatalog(),
		identity: newMockIdentityDirectory(),
		now:      fixtureEpoch,
	}
	seq := 0
	f.svc = NewGarrisonService(f.store, f.catalog, f.identity)
	f.svc.now = func() time.Time { return f.now }
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return f
}

// advance moves the fixture clock forward.
func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// found creates a garrison for CHAR-001 and returns its id.
func (f *fixture) found(t testingT, ctx context.Context) string {
	t.Helper()
	g, err := f.svc.CreateGarrison(ctx, primary.CreateGarrisonRequest{
		CharacterID: "CHAR-001",
		Name:        "Stonewatch",
		ZoneCode:    "greenhollow",
	})
	if err != nil {
		t.Fatalf("CreateGarrison failed: %v", err)
	}
	return g.ID
}

// testingT is the subset of *testing.T the helpers need.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// mustKind fails the test unless err carries the expected fault kind.
func mustKind(t testingT, err error, kind fault.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := fault.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s: %v", kind, got, err)
	}
}
