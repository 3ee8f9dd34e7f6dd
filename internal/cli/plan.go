package cli

import (
	"fmt"

	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/spf13/cobra"
)

type planCmd struct {
	billsPath string
	delay     int
	split     int
}

// NewPlanCmd applies the Stay-Positive Plan, or a single bill action, to a
// bills file
func NewPlanCmd() *cobra.Command {
	pc := &planCmd{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Apply the Stay-Positive Plan to bills and print the result",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.billsPath, "bills", "", "JSON file of bills, - for stdin")
	cmd.Flags().IntVar(&pc.delay, "delay", -1, "Only delay the bill at this index by a week")
	cmd.Flags().IntVar(&pc.split, "split", -1, "Only split the bill at this index into two halves")

	_ = cmd.MarkFlagRequired("bills")
	cmd.MarkFlagsMutuallyExclusive("delay", "split")

	return cmd
}

func (pc *planCmd) run(cmd *cobra.Command, _ []string) error {
	bills, err := readEvents(cmd, pc.billsPath)
	if err != nil {
		return err
	}

	var out []models.CashFlowEvent
	switch {
	case cmd.Flags().Changed("delay"):
		out, err = forecast.DelayBill(bills, pc.delay)
	case cmd.Flags().Changed("split"):
		out, err = forecast.SplitBill(bills, pc.split)
	default:
		out = forecast.ApplyPlan(bills)
	}
	if err != nil {
		return fmt.Errorf("failed to update bills: %w", err)
	}
	return printJSON(cmd, out)
}
