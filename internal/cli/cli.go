// Package cli holds the cashcoach commands that run the forecast engine on
// local JSON files.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the cashcoach command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cashcoach",
		Short:         "Forecast balances and plan bills from local event files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewForecastCmd(), NewPlanCmd(), NewCategorizeCmd())
	return root
}

// readEvents loads a JSON array of events from path, or stdin for "-"
func readEvents(cmd *cobra.Command, path string) ([]models.CashFlowEvent, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	var events []models.CashFlowEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events from %s: %w", path, err)
	}
	return events, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
