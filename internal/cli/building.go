package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/wire"
)

// BuildingCmd returns the building management command
func BuildingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "building",
		Short: "Construct, improve, and cancel buildings",
	}

	cmd.AddCommand(buildingAddCmd())
	cmd.AddCommand(buildingUpgradeCmd())
	cmd.AddCommand(buildingExtendCmd())
	cmd.AddCommand(buildingCancelCmd())
	return cmd
}

func buildingAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [code]",
		Short: "Start construction of a new building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			garrisonID, err := resolveGarrison(cmd)
			if err != nil {
				return err
			}
			workforce, _ := cmd.Flags().GetInt("workforce")
			return wire.GarrisonAdapter().AddBuilding(cmd.Context(), garrisonID, args[0], workforce)
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	cmd.Flags().Int("workforce", 0, "Workers to commit to the construction")
	return cmd
}

func buildingUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade [building-id]",
		Short: "Start the next upgrade level of a building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			garrisonID, err := resolveGarrison(cmd)
			if err != nil {
				return err
			}
			workforce, _ := cmd.Flags().GetInt("workforce")
			return wire.GarrisonAdapter().Upgrade(cmd.Context(), garrisonID, args[0], workforce)
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	cmd.Flags().Int("workforce", 0, "Workers to commit to the upgrade")
	return cmd
}

func buildingExtendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extend [building-id]",
		Short: "Start the next extension level of a building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			garrisonID, err := resolveGarrison(cmd)
			if err != nil {
				return err
			}
			workforce, _ := cmd.Flags().GetInt("workforce")
			return wire.GarrisonAdapter().Extend(cmd.Context(), garrisonID, args[0], workforce)
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	cmd.Flags().Int("workforce", 0, "Workers to commit to the extension")
	return cmd
}

func buildingCancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel [building-id] [construction-id]",
		Short: "Cancel a running construction and refund its cost",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			garrisonID, err := resolveGarrison(cmd)
			if err != nil {
				return err
			}
			return wire.GarrisonAdapter().Cancel(cmd.Context(), garrisonID, args[0], args[1])
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	return cmd
}
