// Command squadgen generates synthetic candidate catalogs and verifies
// existing ones against the optimization engine.
//
// Usage:
//
//	squadgen generate --out catalog.json --seed 42
//	squadgen check --file catalog.json --budget 100
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/internal/squadgen"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "squadgen",
		Short: "Synthetic catalog generator and checker",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(checkCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var (
		out    string
		params squadgen.Params
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic catalog snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := squadgen.WriteFile(out, params); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "catalog.json", "Output file path")
	cmd.Flags().Int64Var(&params.Seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&params.Groups, "groups", 0, "Group count (0 for default)")
	cmd.Flags().IntVar(&params.Goalkeepers, "goalkeepers", 0, "Goalkeeper count (0 for default)")
	cmd.Flags().IntVar(&params.Defenders, "defenders", 0, "Defender count (0 for default)")
	cmd.Flags().IntVar(&params.Midfielders, "midfielders", 0, "Midfielder count (0 for default)")
	cmd.Flags().IntVar(&params.Forwards, "forwards", 0, "Forward count (0 for default)")
	return cmd
}

func checkCmd() *cobra.Command {
	var (
		file       string
		budget     float64
		formations []string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the engine over a catalog and verify its results",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := make([]model.Formation, 0, len(formations))
			for _, raw := range formations {
				f, err := model.ParseFormation(raw)
				if err != nil {
					return fmt.Errorf("invalid formation %q: %w", raw, err)
				}
				fs = append(fs, f)
			}

			report, err := squadgen.Check(cmd.Context(), file, budget, fs)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "catalog size: %d\nchecked: %d\ninfeasible: %d\n",
				report.CatalogSize, report.Checked, report.Infeasible)
			for _, p := range report.Problems {
				fmt.Fprintf(cmd.OutOrStdout(), "problem: %s\n", p)
			}
			if !report.Ok() {
				return fmt.Errorf("%d problem(s) found", len(report.Problems))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "catalog.json", "Catalog file path")
	cmd.Flags().Float64Var(&budget, "budget", 100.0, "Budget for check runs")
	cmd.Flags().StringSliceVar(&formations, "formations", []string{"3-4-3", "4-4-2", "5-4-1"}, "Formations to check")
	return cmd
}
