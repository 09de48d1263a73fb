package app

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/example/garrison/internal/fault"
	"github.com/example/garrison/internal/ports/primary"
)

func TestAddBuilding(t *testing.T) {
	ctx := context.Background()

	t.Run("charges the cost and schedules the construction", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id,
			Code:       "goldmine",
			Workforce:  2,
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		if g.Resources.Gold != 525 || g.Resources.Wood != 270 || g.Resources.Food != 3 || g.Resources.Plot != 27 {
			t.Errorf("unexpected ledger after charge: %+v", g.Resources)
		}
		if len(g.Buildings) != 1 {
			t.Fatalf("expected 1 building, got %d", len(g.Buildings))
		}
		b := g.Buildings[0]
		if b.Code != "goldmine" || !b.Busy {
			t.Errorf("unexpected building state: %+v", b)
		}
		if len(b.Constructions) != 1 {
			t.Fatalf("expected 1 construction, got %d", len(b.Constructions))
		}
		c := b.Constructions[0]
		wantEnd := f.now.Add(60 * time.Second).Format(time.RFC3339)
		if c.EndDate != wantEnd {
			t.Errorf("expected end %s, got %s", wantEnd, c.EndDate)
		}
		if c.ImprovementType != "" || c.Finished {
			t.Errorf("instantiation should be a running plain construction: %+v", c)
		}
		if g.Units[0].Idle != 1 {
			t.Errorf("2 of 3 peasants should be committed, idle = %d", g.Units[0].Idle)
		}
		if len(g.Units[0].Assignments) != 1 || g.Units[0].Assignments[0].Type != "construction" {
			t.Errorf("expected one construction assignment: %+v", g.Units[0].Assignments)
		}
	})

	t.Run("extra workers above the minimum shorten the duration", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id,
			Code:       "goldmine",
			Workforce:  4,
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		want := time.Duration(float64(60*time.Second) * math.Pow(0.97, 2))
		wantEnd := f.now.Add(want).Format(time.RFC3339)
		if got := g.Buildings[0].Constructions[0].EndDate; got != wantEnd {
			t.Errorf("expected end %s, got %s", wantEnd, got)
		}
	})

	t.Run("completion is derived once the end date passes", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		if _, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "goldmine", Workforce: 2,
		}); err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		f.advance(61 * time.Second)
		g, err := f.svc.GetGarrison(ctx, id)
		if err != nil {
			t.Fatalf("GetGarrison failed: %v", err)
		}
		b := g.Buildings[0]
		if b.Busy || !b.Constructions[0].Finished {
			t.Errorf("construction should be finished: %+v", b)
		}
		if g.Units[0].Idle != 3 {
			t.Errorf("committed workforce should be free again, idle = %d", g.Units[0].Idle)
		}
	})

	t.Run("a gift building credits its yield immediately", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id,
			Code:       "shrine",
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		// 625 - 20 cost + 50 gift
		if g.Resources.Gold != 655 {
			t.Errorf("expected 655 gold, got %d", g.Resources.Gold)
		}
		if g.Resources.GoldLastUpdate != "" {
			t.Error("a gift building must not start a harvest clock")
		}
		if g.Units[0].Idle != 3 {
			t.Errorf("a zero-workforce site must not commit workers, idle = %d", g.Units[0].Idle)
		}
	})

	t.Run("rejects an unknown code", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		_, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "wizard-tower", Workforce: 1,
		})
		mustKind(t, err, fault.KindNotFound)
	})

	t.Run("rejects workforce outside the static bounds", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		for _, wf := range []int{1, 5} {
			_, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
				GarrisonID: id, Code: "goldmine", Workforce: wf,
			})
			mustKind(t, err, fault.KindPreconditionFailed)
		}
	})

	t.Run("rejects when idle workers are insufficient", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		if _, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "goldmine", Workforce: 2,
		}); err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		// only 1 peasant left idle
		_, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "townhall", Workforce: 2,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})

	t.Run("rejects when resources are insufficient and leaves the ledger untouched", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		f.store.stored(id).Resources.Gold = 10
		_, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "goldmine", Workforce: 2,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
		if got := f.store.stored(id).Resources.Gold; got != 10 {
			t.Errorf("failed operation must not touch the ledger, gold = %d", got)
		}
	})

	t.Run("rejects when a required building is missing", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		_, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "sawmill", Workforce: 1,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})

	t.Run("a required building must be fully constructed", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		if _, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "townhall", Workforce: 1,
		}); err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		_, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "sawmill", Workforce: 1,
		})
		mustKind(t, err, fault.KindPreconditionFailed)

		f.advance(121 * time.Second)
		if _, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "sawmill", Workforce: 1,
		}); err != nil {
			t.Fatalf("AddBuilding after requirement met failed: %v", err)
		}
	})
}

func TestUpgradeBuilding(t *testing.T) {
	ctx := context.Background()

	t.Run("charges the scaled cost and schedules the scaled duration", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		buildingID := buildGoldmine(t, ctx, f, id)
		before := currentResources(t, ctx, f, id)

		g, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		})
		if err != nil {
			t.Fatalf("UpgradeBuilding failed: %v", err)
		}
		// base 100g/50w/5p scaled by 1.3/1.3/1.1 and floored
		if before.Gold-g.Resources.Gold != 130 || before.Wood-g.Resources.Wood != 65 || before.Plot-g.Resources.Plot != 5 {
			t.Errorf("unexpected upgrade charge: before %+v after %+v", before, g.Resources)
		}
		b := g.Buildings[0]
		if len(b.Constructions) != 2 {
			t.Fatalf("expected 2 constructions, got %d", len(b.Constructions))
		}
		c := b.Constructions[1]
		if c.ImprovementType != "upgrade" || c.Level != 1 {
			t.Errorf("unexpected improvement tag: %+v", c)
		}
		// base 60s scaled by 1.3
		wantEnd := f.now.Add(78 * time.Second).Format(time.RFC3339)
		if c.EndDate != wantEnd {
			t.Errorf("expected end %s, got %s", wantEnd, c.EndDate)
		}
		if b.UpgradeLevel != 0 {
			t.Errorf("level must stay 0 until the upgrade finishes, got %d", b.UpgradeLevel)
		}
	})

	t.Run("the level appears once the upgrade finishes", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		buildingID := buildGoldmine(t, ctx, f, id)
		if _, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		}); err != nil {
			t.Fatalf("UpgradeBuilding failed: %v", err)
		}
		f.advance(79 * time.Second)
		g, err := f.svc.GetGarrison(ctx, id)
		if err != nil {
			t.Fatalf("GetGarrison failed: %v", err)
		}
		if g.Buildings[0].UpgradeLevel != 1 {
			t.Errorf("expected upgrade level 1, got %d", g.Buildings[0].UpgradeLevel)
		}
	})

	t.Run("rejects a building whose instantiation has not finished", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "goldmine", Workforce: 2,
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		_, err = f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: g.Buildings[0].ID, Workforce: 2,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})

	t.Run("rejects a busy building with a conflict", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		buildingID := buildGoldmine(t, ctx, f, id)
		if _, err := f.svc.ExtendBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		}); err != nil {
			t.Fatalf("ExtendBuilding failed: %v", err)
		}
		_, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		})
		mustKind(t, err, fault.KindConflict)
	})

	t.Run("rejects an upgrade past the highest defined level", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		buildingID := buildShrine(t, ctx, f, id)
		_, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})

	t.Run("a gated upgrade level requires its prerequisite", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		buildingID := buildGoldmine(t, ctx, f, id)
		if _, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		}); err != nil {
			t.Fatalf("UpgradeBuilding to 1 failed: %v", err)
		}
		f.advance(79 * time.Second)
		// level 2 requires townhall upgrade level 1, which is absent
		_, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})

	t.Run("rejects an unknown building", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		_, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: "BLD-404", Workforce: 1,
		})
		mustKind(t, err, fault.KindNotFound)
	})
}

func TestExtendBuilding(t *testing.T) {
	ctx := context.Background()

	t.Run("extends with the same cost scaling as upgrades", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		buildingID := buildGoldmine(t, ctx, f, id)
		before := currentResources(t, ctx, f, id)

		g, err := f.svc.ExtendBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		})
		if err != nil {
			t.Fatalf("ExtendBuilding failed: %v", err)
		}
		if before.Gold-g.Resources.Gold != 130 || before.Wood-g.Resources.Wood != 65 || before.Plot-g.Resources.Plot != 5 {
			t.Errorf("unexpected extension charge: before %+v after %+v", before, g.Resources)
		}
		c := g.Buildings[0].Constructions[1]
		if c.ImprovementType != "extension" || c.Level != 1 {
			t.Errorf("unexpected improvement tag: %+v", c)
		}

		f.advance(79 * time.Second)
		refreshed, err := f.svc.GetGarrison(ctx, id)
		if err != nil {
			t.Fatalf("GetGarrison failed: %v", err)
		}
		if refreshed.Buildings[0].ExtensionLevel != 1 || refreshed.Buildings[0].UpgradeLevel != 0 {
			t.Errorf("extension and upgrade levels must advance independently: %+v", refreshed.Buildings[0])
		}
	})

	t.Run("rejects an extension on a building without one", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "townhall", Workforce: 1,
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		f.advance(121 * time.Second)
		_, err = f.svc.ExtendBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: g.Buildings[0].ID, Workforce: 1,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})
}

func TestCancelConstruction(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling an instantiation removes the building and refunds the cost", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "goldmine", Workforce: 2,
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		b := g.Buildings[0]
		g, err = f.svc.CancelConstruction(ctx, primary.CancelConstructionRequest{
			GarrisonID: id, BuildingID: b.ID, ConstructionID: b.Constructions[0].ID,
		})
		if err != nil {
			t.Fatalf("CancelConstruction failed: %v", err)
		}
		if g.Resources.Gold != 625 || g.Resources.Wood != 320 || g.Resources.Plot != 32 {
			t.Errorf("refund should restore the ledger: %+v", g.Resources)
		}
		if len(g.Buildings) != 0 {
			t.Errorf("cancelled building should be gone, got %d", len(g.Buildings))
		}
		if g.Units[0].Idle != 3 {
			t.Errorf("committed workforce should be released, idle = %d", g.Units[0].Idle)
		}
	})

	t.Run("cancelling an improvement refunds its scaled cost and keeps the building", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		buildingID := buildGoldmine(t, ctx, f, id)
		before := currentResources(t, ctx, f, id)
		g, err := f.svc.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
			GarrisonID: id, BuildingID: buildingID, Workforce: 2,
		})
		if err != nil {
			t.Fatalf("UpgradeBuilding failed: %v", err)
		}
		g, err = f.svc.CancelConstruction(ctx, primary.CancelConstructionRequest{
			GarrisonID: id, BuildingID: buildingID, ConstructionID: g.Buildings[0].Constructions[1].ID,
		})
		if err != nil {
			t.Fatalf("CancelConstruction failed: %v", err)
		}
		if g.Resources.Gold != before.Gold || g.Resources.Wood != before.Wood || g.Resources.Plot != before.Plot {
			t.Errorf("refund should restore the ledger: before %+v after %+v", before, g.Resources)
		}
		b := g.Buildings[0]
		if len(b.Constructions) != 1 || b.Busy {
			t.Errorf("improvement should be gone and the building idle: %+v", b)
		}
		if g.Units[0].Idle != 3 {
			t.Errorf("committed workforce should be released, idle = %d", g.Units[0].Idle)
		}
	})

	t.Run("a finished construction cannot be cancelled", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "goldmine", Workforce: 2,
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		f.advance(61 * time.Second)
		_, err = f.svc.CancelConstruction(ctx, primary.CancelConstructionRequest{
			GarrisonID: id, BuildingID: g.Buildings[0].ID, ConstructionID: g.Buildings[0].Constructions[0].ID,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})

	t.Run("cancelling a gift construction takes the yield back", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "shrine",
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		g, err = f.svc.CancelConstruction(ctx, primary.CancelConstructionRequest{
			GarrisonID: id, BuildingID: g.Buildings[0].ID, ConstructionID: g.Buildings[0].Constructions[0].ID,
		})
		if err != nil {
			t.Fatalf("CancelConstruction failed: %v", err)
		}
		if g.Resources.Gold != 625 || g.Resources.Wood != 320 || g.Resources.Plot != 32 {
			t.Errorf("gift and cost should both be reversed: %+v", g.Resources)
		}
	})

	t.Run("a spent gift yield blocks the cancellation", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "shrine",
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		// the credited 50 gold has been spent elsewhere
		f.store.stored(id).Resources.Gold = 30
		_, err = f.svc.CancelConstruction(ctx, primary.CancelConstructionRequest{
			GarrisonID: id, BuildingID: g.Buildings[0].ID, ConstructionID: g.Buildings[0].Constructions[0].ID,
		})
		mustKind(t, err, fault.KindPreconditionFailed)
	})

	t.Run("rejects unknown building and construction ids", func(t *testing.T) {
		f := newFixture()
		id := f.found(t, ctx)
		g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
			GarrisonID: id, Code: "goldmine", Workforce: 2,
		})
		if err != nil {
			t.Fatalf("AddBuilding failed: %v", err)
		}
		_, err = f.svc.CancelConstruction(ctx, primary.CancelConstructionRequest{
			GarrisonID: id, BuildingID: "BLD-404", ConstructionID: "CON-404",
		})
		mustKind(t, err, fault.KindNotFound)
		_, err = f.svc.CancelConstruction(ctx, primary.CancelConstructionRequest{
			GarrisonID: id, BuildingID: g.Buildings[0].ID, ConstructionID: "CON-404",
		})
		mustKind(t, err, fault.KindNotFound)
	})
}

// buildShrine constructs the gift shrine and advances past its completion.
func buildShrine(t *testing.T, ctx context.Context, f *fixture, garrisonID string) string {
	t.Helper()
	g, err := f.svc.AddBuilding(ctx, primary.AddBuildingRequest{
		GarrisonID: garrisonID,
		Code:       "shrine",
	})
	if err != nil {
		t.Fatalf("AddBuilding failed: %v", err)
	}
	f.advance(31 * time.Second)
	return g.Buildings[len(g.Buildings)-1].ID
}
