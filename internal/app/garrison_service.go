// Package app implements the primary ports by wiring the pure core
// logic to the secondary ports. Every mutating operation follows the
// same pipeline: lock the garrison, load, accrue, validate, mutate,
// save once. All derived values are computed and all preconditions
// checked before the first in-memory mutation, so a failure never
// leaves a partially applied aggregate.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/garrison/internal/core/garrison"
	"github.com/example/garrison/internal/core/requirement"
	"github.com/example/garrison/internal/core/resource"
	"github.com/example/garrison/internal/fault"
	"github.com/example/garrison/internal/ports/primary"
	"github.com/example/garrison/internal/ports/secondary"
)

// GarrisonServiceImpl implements the GarrisonService interface.
type GarrisonServiceImpl struct {
	store    secondary.GarrisonStore
	catalog  secondary.Catalog
	identity secondary.IdentityDirectory
	locks    *garrisonLocks

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

// NewGarrisonService creates a new GarrisonService with injected
// dependencies.
func NewGarrisonService(
	store secondary.GarrisonStore,
	catalog secondary.Catalog,
	identity secondary.IdentityDirectory,
) *GarrisonServiceImpl {
	return &GarrisonServiceImpl{
		store:    store,
		catalog:  catalog,
		identity: identity,
		locks:    newGarrisonLocks(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateGarrison founds a new garrison for a character in a zone.
func (s *GarrisonServiceImpl) CreateGarrison(ctx context.Context, req primary.CreateGarrisonRequest) (*primary.Garrison, error) {
	if req.CharacterID == "" {
		return nil, fault.InvalidArgument("character id is required")
	}
	if req.Name == "" {
		return nil, fault.InvalidArgument("garrison name is required")
	}
	if req.ZoneCode == "" {
		return nil, fault.InvalidArgument("zone code is required")
	}

	character, err := s.identity.Character(ctx, req.CharacterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.identity.User(ctx, character.UserID); err != nil {
		return nil, err
	}

	zone, ok := s.catalog.Zone(req.ZoneCode)
	if !ok {
		return nil, fault.NotFound("zone %s not found", req.ZoneCode)
	}
	if zone.Faction != "" && zone.Faction != character.Faction {
		return nil, fault.PreconditionFailed(
			"faction %s cannot settle in zone %s", character.Faction, zone.Code)
	}

	if _, err := s.store.LoadByCharacter(ctx, req.CharacterID); err == nil {
		return nil, fault.Conflict("character %s already owns a garrison", req.CharacterID)
	} else if !fault.IsKind(err, fault.KindNotFound) {
		return nil, fmt.Errorf("check existing garrison: %w", err)
	}

	taken, err := s.store.NameTaken(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check garrison name: %w", err)
	}
	if taken {
		return nil, fault.Conflict("garrison name %q is already taken", req.Name)
	}

	now := s.now()
	tuning := s.catalog.Tuning()
	g := &garrison.Garrison{
		ID:          s.newID(),
		CharacterID: req.CharacterID,
		Name:        req.Name,
		ZoneCode:    req.ZoneCode,
		Resources:   tuning.StartingResources,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, starter := range tuning.StarterUnits {
		g.Units = append(g.Units, garrison.Unit{Code: starter.Code, Quantity: starter.Quantity})
	}

	if err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	return s.view(g, now), nil
}

// GetGarrison retrieves a garrison by id with accrual applied.
func (s *GarrisonServiceImpl) GetGarrison(ctx context.Context, garrisonID string) (*primary.Garrison, error) {
	return s.withGarrison(ctx, garrisonID, nil)
}

// GetGarrisonByCharacter retrieves a character's garrison with accrual
// applied.
func (s *GarrisonServiceImpl) GetGarrisonByCharacter(ctx context.Context, characterID string) (*primary.Garrison, error) {
	if characterID == "" {
		return nil, fault.InvalidArgument("character id is required")
	}
	g, err := s.store.LoadByCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return s.withGarrison(ctx, g.ID, nil)
}

// withGarrison runs one operation under the garrison's lock: load,
// accrue, apply, save. A nil mutation is a refreshing read. When the
// mutation fails nothing is persisted; accrual is recomputed on the
// next access since the stored clocks are untouched.
func (s *GarrisonServiceImpl) withGarrison(ctx context.Context, garrisonID string, mutation func(g *garrison.Garrison, now time.Time) error) (*primary.Garrison, error) {
	if garrisonID == "" {
		return nil, fault.InvalidArgument("garrison id is required")
	}

	release := s.locks.Acquire(garrisonID)
	defer release()

	g, err := s.store.Load(ctx, garrisonID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	gains := garrison.Accrue(g, s.harvestSources(g), now)

	if mutation != nil {
		if err := mutation(g, now); err != nil {
			return nil, err
		}
	}

	if mutation != nil || len(gains) > 0 {
		g.UpdatedAt = now
		if err := s.store.Save(ctx, g); err != nil {
			return nil, err
		}
	}
	return s.view(g, now), nil
}

// harvestSources resolves each owned building code to its catalog
// harvest capability for the accrual engine.
func (s *GarrisonServiceImpl) harvestSources(g *garrison.Garrison) map[string]garrison.HarvestSource {
	sources := make(map[string]garrison.HarvestSource)
	for _, b := range g.Buildings {
		if _, seen := sources[b.Code]; seen {
			continue
		}
		def, ok := s.catalog.Building(b.Code)
		if !ok || def.Harvest == nil {
			continue
		}
		sources[b.Code] = garrison.HarvestSource{
			Resource:        def.Harvest.Resource,
			PerWorkerMinute: def.Harvest.Amount,
			MaxWorkforce:    def.Harvest.MaxWorkforce,
		}
	}
	return sources
}

// requirementState derives the validator's view of one owned building.
func requirementState(g *garrison.Garrison, now time.Time) func(code string) requirement.BuildingState {
	return func(code string) requirement.BuildingState {
		b := g.BuildingByCode(code)
		if b == nil {
			return requirement.BuildingState{}
		}
		return requirement.BuildingState{
			Owned:        true,
			Instantiated: b.Instantiated(now),
			UpgradeLevel: b.Level(garrison.ImprovementUpgrade, now),
		}
	}
}

// clearOrphanClocks drops each harvest clock with no remaining harvest
// assignment anywhere in the garrison for its resource kind. Several
// buildings can feed one kind, so the scan crosses all of them.
func (s *GarrisonServiceImpl) clearOrphanClocks(g *garrison.Garrison) {
	for _, kind := range resource.Kinds() {
		if !kind.Harvestable() || g.Clocks.Get(kind) == nil {
			continue
		}
		if !s.kindHarvested(g, kind) {
			g.Clocks.Clear(kind)
		}
	}
}

// kindHarvested reports whether any standing harvest assignment feeds
// the given resource kind.
func (s *GarrisonServiceImpl) kindHarvested(g *garrison.Garrison, kind resource.Kind) bool {
	for _, u := range g.Units {
		for _, a := range u.Assignments {
			if a.Type != garrison.AssignmentHarvest {
				continue
			}
			b := g.Building(a.BuildingID)
			if b == nil {
				continue
			}
			def, ok := s.catalog.Building(b.Code)
			if !ok || def.Harvest == nil || def.Harvest.MaxWorkforce == 0 {
				continue
			}
			if def.Harvest.Resource == kind {
				return true
			}
		}
	}
	return false
}

// view maps the aggregate to the port boundary representation.
func (s *GarrisonServiceImpl) view(g *garrison.Garrison, now time.Time) *primary.Garrison {
	out := &primary.Garrison{
		ID:          g.ID,
		CharacterID: g.CharacterID,
		Name:        g.Name,
		ZoneCode:    g.ZoneCode,
		Resources: primary.Resources{
			Gold:           g.Resources.Gold,
			Wood:           g.Resources.Wood,
			Food:           g.Resources.Food,
			Plot:           g.Resources.Plot,
			GoldLastUpdate: clockString(g.Clocks.Gold),
			WoodLastUpdate: clockString(g.Clocks.Wood),
			FoodLastUpdate: clockString(g.Clocks.Food),
		},
		Version:   g.Version,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
		UpdatedAt: g.UpdatedAt.Format(time.RFC3339),
	}

	for _, b := range g.Buildings {
		view := primary.Building{
			ID:             b.ID,
			Code:           b.Code,
			UpgradeLevel:   b.Level(garrison.ImprovementUpgrade, now),
			ExtensionLevel: b.Level(garrison.ImprovementExtension, now),
			Busy:           b.Busy(now),
		}
		for _, c := range b.Constructions {
			cv := primary.Construction{
				ID:        c.ID,
				BeginDate: c.Begin.Format(time.RFC3339),
				EndDate:   c.End.Format(time.RFC3339),
				Workforce: c.Workforce,
				Finished:  c.Finished(now),
			}
			if c.Improvement != nil {
				cv.ImprovementType = string(c.Improvement.Type)
				cv.Level = c.Improvement.Level
			}
			view.Constructions = append(view.Constructions, cv)
		}
		out.Buildings = append(out.Buildings, view)
	}

	for _, u := range g.Units {
		uv := primary.Unit{
			Code:     u.Code,
			Quantity: u.Quantity,
			Idle:     u.Idle(now),
		}
		for _, a := range u.Assignments {
			av := primary.Assignment{
				ID:         a.ID,
				BuildingID: a.BuildingID,
				Quantity:   a.Quantity,
				Type:       string(a.Type),
			}
			if a.Type != garrison.AssignmentHarvest {
				av.EndDate = a.End.Format(time.RFC3339)
			}
			uv.Assignments = append(uv.Assignments, av)
		}
		out.Units = append(out.Units, uv)
	}

	return out
}

func clockString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Ensure GarrisonServiceImpl implements the interface
var _ primary.GarrisonService = (*GarrisonServiceImpl)(nil)
