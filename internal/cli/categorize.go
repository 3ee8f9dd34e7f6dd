package cli

import (
	"fmt"

	"github.com/Dan9191/cash-coach/internal/forecast"
	"github.com/spf13/cobra"
)

// NewCategorizeCmd prints one category label per argument
func NewCategorizeCmd() *cobra.Command {
	var taxonomy string
	cmd := &cobra.Command{
		Use:   "categorize TEXT...",
		Short: "Label transaction descriptions with a spending category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, err := forecast.TaxonomyByName(taxonomy)
			if err != nil {
				return err
			}
			for _, text := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tax.Categorize(text), text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&taxonomy, "taxonomy", "full", "Category taxonomy: full or lite")
	return cmd
}
