package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/core/resource"
	"github.com/example/garrison/internal/wire"
)

// CatalogCmd returns the catalog inspection command
func CatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the static game catalog",
	}

	cmd.AddCommand(catalogBuildingsCmd())
	cmd.AddCommand(catalogUnitsCmd())
	cmd.AddCommand(catalogZonesCmd())
	return cmd
}

func catalogBuildingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buildings",
		Short: "List building definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tCOST\tDURATION\tWORKFORCE\tHARVEST")
			for _, b := range wire.Catalog().Buildings() {
				harvest := "-"
				if b.Harvest != nil {
					if b.Gift() {
						harvest = fmt.Sprintf("%s %s", color.New(color.FgHiMagenta).Sprint("gift"), b.Harvest.Resource)
					} else {
						harvest = fmt.Sprintf("%s %.1f/worker/min", b.Harvest.Resource, b.Harvest.Amount)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					b.Code, b.Name, formatAmounts(b.Instantiation.Cost),
					b.Instantiation.Duration, b.Instantiation.MinWorkforce, harvest)
			}
			return w.Flush()
		},
	}
}

func catalogUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List unit definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tCOST\tDURATION")
			for _, u := range wire.Catalog().Units() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Code, u.Name, formatAmounts(u.Cost), u.Duration)
			}
			return w.Flush()
		},
	}
}

func catalogZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List zone definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tFACTION")
			for _, z := range wire.Catalog().Zones() {
				faction := z.Faction
				if faction == "" {
					faction = "any"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", z.Code, z.Name, faction)
			}
			return w.Flush()
		},
	}
}

func formatAmounts(a resource.Amounts) string {
	parts := make([]string, 0, 4)
	for _, k := range resource.Kinds() {
		if v := a.Get(k); v > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", v, k))
		}
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, ", ")
}
