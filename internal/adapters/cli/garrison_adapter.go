// Package cli provides thin CLI adapters that translate between CLI
// concerns and application services. Adapters handle output formatting
// but delegate all game logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/garrison/internal/ports/primary"
)

// GarrisonAdapter is a thin adapter that translates CLI operations to
// GarrisonService calls. It depends only on the service interface,
// enabling easy testing with mocks.
type GarrisonAdapter struct {
	service primary.GarrisonService
	out     io.Writer
}

// NewGarrisonAdapter creates a new GarrisonAdapter with the given service.
func NewGarrisonAdapter(service primary.GarrisonService, out io.Writer) *GarrisonAdapter {
	return &GarrisonAdapter{
		service: service,
		out:     out,
	}
}

// Create founds a new garrison and prints a confirmation.
func (a *GarrisonAdapter) Create(ctx context.Context, characterID, name, zone string) error {
	g, err := a.service.CreateGarrison(ctx, primary.CreateGarrisonRequest{
		CharacterID: characterID,
		Name:        name,
		ZoneCode:    zone,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Founded garrison %s (%s) in %s\n", g.Name, g.ID, g.ZoneCode)
	a.printResources(g.Resources)
	return nil
}

// Show prints the full garrison status: ledger, buildings with their
// running constructions, and unit cohorts with their commitments.
func (a *GarrisonAdapter) Show(ctx context.Context, garrisonID string) error {
	g, err := a.service.GetGarrison(ctx, garrisonID)
	if err != nil {
		return err
	}
	a.printGarrison(g)
	return nil
}

// ShowByCharacter prints the garrison owned by a character.
func (a *GarrisonAdapter) ShowByCharacter(ctx context.Context, characterID string) error {
	g, err := a.service.GetGarrisonByCharacter(ctx, characterID)
	if err != nil {
		return err
	}
	a.printGarrison(g)
	return nil
}

// AddBuilding schedules a construction and prints the updated status.
func (a *GarrisonAdapter) AddBuilding(ctx context.Context, garrisonID, code string, workforce int) error {
	g, err := a.service.AddBuilding(ctx, primary.AddBuildingRequest{
		GarrisonID: garrisonID,
		Code:       code,
		Workforce:  workforce,
	})
	if err != nil {
		return err
	}

	b := g.Buildings[len(g.Buildings)-1]
	c := b.Constructions[len(b.Constructions)-1]
	fmt.Fprintf(a.out, "✓ Construction of %s started, finishes at %s\n", code, c.EndDate)
	a.printResources(g.Resources)
	return nil
}

// Upgrade schedules the next upgrade level of a building.
func (a *GarrisonAdapter) Upgrade(ctx context.Context, garrisonID, buildingID string, workforce int) error {
	g, err := a.service.UpgradeBuilding(ctx, primary.ImproveBuildingRequest{
		GarrisonID: garrisonID,
		BuildingID: buildingID,
		Workforce:  workforce,
	})
	if err != nil {
		return err
	}
	a.printImprovement(g, buildingID, "Upgrade")
	return nil
}

// Extend schedules the next extension level of a building.
func (a *GarrisonAdapter) Extend(ctx context.Context, garrisonID, buildingID string, workforce int) error {
	g, err := a.service.ExtendBuilding(ctx, primary.ImproveBuildingRequest{
		GarrisonID: garrisonID,
		BuildingID: buildingID,
		Workforce:  workforce,
	})
	if err != nil {
		return err
	}
	a.printImprovement(g, buildingID, "Extension")
	return nil
}

// Cancel cancels a running construction.
func (a *GarrisonAdapter) Cancel(ctx context.Context, garrisonID, buildingID, constructionID string) error {
	g, err := a.service.CancelConstruction(ctx, primary.CancelConstructionRequest{
		GarrisonID:     garrisonID,
		BuildingID:     buildingID,
		ConstructionID: constructionID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Construction %s cancelled\n", constructionID)
	a.printResources(g.Resources)
	return nil
}

// Train queues a batch of units for sequential training.
func (a *GarrisonAdapter) Train(ctx context.Context, garrisonID, code string, quantity int) error {
	g, err := a.service.AddUnit(ctx, primary.AddUnitRequest{
		GarrisonID: garrisonID,
		Code:       code,
		Quantity:   quantity,
	})
	if err != nil {
		return err
	}

	var last string
	for _, u := range g.Units {
		if u.Code != code {
			continue
		}
		for _, as := range u.Assignments {
			if as.Type == "instantiation" && as.EndDate > last {
				last = as.EndDate
			}
		}
	}
	fmt.Fprintf(a.out, "✓ Training %d %s, last recruit ready at %s\n", quantity, code, last)
	a.printResources(g.Resources)
	return nil
}

// Assign commits idle units to harvest at a building.
func (a *GarrisonAdapter) Assign(ctx context.Context, garrisonID, buildingID, code string, quantity int) error {
	g, err := a.service.AssignUnit(ctx, primary.AssignUnitRequest{
		GarrisonID: garrisonID,
		BuildingID: buildingID,
		Code:       code,
		Quantity:   quantity,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Assigned %d %s to harvest\n", quantity, code)
	a.printUnits(g)
	return nil
}

// Unassign withdraws harvest workers from a building.
func (a *GarrisonAdapter) Unassign(ctx context.Context, garrisonID, buildingID, code string, quantity int) error {
	g, err := a.service.UnassignUnit(ctx, primary.AssignUnitRequest{
		GarrisonID: garrisonID,
		BuildingID: buildingID,
		Code:       code,
		Quantity:   quantity,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Withdrew %d %s\n", quantity, code)
	a.printUnits(g)
	return nil
}

func (a *GarrisonAdapter) printGarrison(g *primary.Garrison) {
	title := color.New(color.Bold).Sprint(g.Name)
	fmt.Fprintf(a.out, "\n%s (%s) in %s\n", title, g.ID, g.ZoneCode)
	a.printResources(g.Resources)

	if len(g.Buildings) > 0 {
		fmt.Fprintln(a.out, "\nBuildings:")
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tCODE\tUPGRADE\tEXTENSION\tSTATE")
		for _, b := range g.Buildings {
			state := color.New(color.FgHiGreen).Sprint("ready")
			if b.Busy {
				state = color.New(color.FgYellow).Sprint("building")
			}
			fmt.Fprintf(w, "  %s\t%s\t%d\t%d\t%s\n", b.ID, b.Code, b.UpgradeLevel, b.ExtensionLevel, state)
		}
		w.Flush()

		for _, b := range g.Buildings {
			for _, c := range b.Constructions {
				if c.Finished {
					continue
				}
				label := "construction"
				if c.ImprovementType != "" {
					label = fmt.Sprintf("%s to level %d", c.ImprovementType, c.Level)
				}
				fmt.Fprintf(a.out, "    %s: %s finishes at %s (%d workers)\n", b.Code, label, c.EndDate, c.Workforce)
			}
		}
	}

	a.printUnits(g)
}

func (a *GarrisonAdapter) printResources(r primary.Resources) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  Gold\t%d%s\n", r.Gold, clockSuffix(r.GoldLastUpdate))
	fmt.Fprintf(w, "  Wood\t%d%s\n", r.Wood, clockSuffix(r.WoodLastUpdate))
	fmt.Fprintf(w, "  Food\t%d%s\n", r.Food, clockSuffix(r.FoodLastUpdate))
	fmt.Fprintf(w, "  Plot\t%d\n", r.Plot)
	w.Flush()
}

func (a *GarrisonAdapter) printUnits(g *primary.Garrison) {
	if len(g.Units) == 0 {
		return
	}
	fmt.Fprintln(a.out, "\nUnits:")
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  CODE\tQUANTITY\tIDLE")
	for _, u := range g.Units {
		fmt.Fprintf(w, "  %s\t%d\t%d\n", u.Code, u.Quantity, u.Idle)
	}
	w.Flush()
	for _, u := range g.Units {
		for _, as := range u.Assignments {
			switch as.Type {
			case "harvest":
				fmt.Fprintf(a.out, "    %d %s harvesting at %s\n", as.Quantity, u.Code, as.BuildingID)
			case "construction":
				fmt.Fprintf(a.out, "    %d %s building %s until %s\n", as.Quantity, u.Code, as.BuildingID, as.EndDate)
			case "instantiation":
				fmt.Fprintf(a.out, "    %d %s in training until %s\n", as.Quantity, u.Code, as.EndDate)
			}
		}
	}
}

func (a *GarrisonAdapter) printImprovement(g *primary.Garrison, buildingID, label string) {
	for _, b := range g.Buildings {
		if b.ID != buildingID {
			continue
		}
		c := b.Constructions[len(b.Constructions)-1]
		fmt.Fprintf(a.out, "✓ %s of %s to level %d started, finishes at %s\n", label, b.Code, c.Level, c.EndDate)
	}
	a.printResources(g.Resources)
}

func clockSuffix(clock string) string {
	if clock == "" {
		return ""
	}
	return fmt.Sprintf("\t(harvesting since %s)", clock)
}
