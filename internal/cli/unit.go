package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/wire"
)

// UnitCmd returns the unit management command
func UnitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Train units and manage harvest assignments",
	}

	cmd.AddCommand(unitTrainCmd())
	cmd.AddCommand(unitAssignCmd())
	cmd.AddCommand(unitUnassignCmd())
	return cmd
}

func unitTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train [code]",
		Short: "Train a batch of units sequentially",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			garrisonID, err := resolveGarrison(cmd)
			if err != nil {
				return err
			}
			quantity, _ := cmd.Flags().GetInt("quantity")
			return wire.GarrisonAdapter().Train(cmd.Context(), garrisonID, args[0], quantity)
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	cmd.Flags().Int("quantity", 1, "Number of units to train")
	return cmd
}

func unitAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign [building-id] [code]",
		Short: "Commit idle units to harvest at a building",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			garrisonID, err := resolveGarrison(cmd)
			if err != nil {
				return err
			}
			quantity, _ := cmd.Flags().GetInt("quantity")
			return wire.GarrisonAdapter().Assign(cmd.Context(), garrisonID, args[0], args[1], quantity)
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	cmd.Flags().Int("quantity", 1, "Number of units to assign")
	return cmd
}

func unitUnassignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unassign [building-id] [code]",
		Short: "Withdraw harvest workers from a building",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			garrisonID, err := resolveGarrison(cmd)
			if err != nil {
				return err
			}
			quantity, _ := cmd.Flags().GetInt("quantity")
			return wire.GarrisonAdapter().Unassign(cmd.Context(), garrisonID, args[0], args[1], quantity)
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	cmd.Flags().Int("quantity", 1, "Number of units to withdraw")
	return cmd
}
