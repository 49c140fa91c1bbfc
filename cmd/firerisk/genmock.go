package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

func genmockCmd() *cobra.Command {
	var (
		days  int
		start string
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "genmock",
		Short: "Write synthetic tabular series for every location",
		Long: "Generates a deterministic dry-season-shaped risk series per location and " +
			"writes it as Risco_<location>.xlsx, so the report can be exercised without datasets.",
		RunE: runE(func(cmd *cobra.Command, a *app) error {
			from, err := time.Parse(domain.RiskDateLayout, start)
			if err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			for i, loc := range a.locations {
				series := mockSeries(from, days, seed+uint64(i))
				path, err := a.store.WriteSeries(cmd.Context(), loc, series)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d rows\n", loc.Name, path, len(series))
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 60, "number of daily rows per location")
	cmd.Flags().StringVar(&start, "start", "2025-07-01", "first date (YYYY-MM-DD)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

// mockSeries builds a smooth seasonal curve with day-to-day noise, rounded
// like extracted values and kept inside [0, 1.2).
func mockSeries(from time.Time, days int, seed uint64) domain.RiskSeries {
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
	series := make(domain.RiskSeries, 0, max(days, 0))
	for d := range max(days, 0) {
		season := 0.55 + 0.4*math.Sin(math.Pi*float64(d)/float64(max(days, 2)))
		v := season + (rng.Float64()-0.5)*0.25
		v = math.Max(0, math.Min(1.19, v))
		series = append(series, domain.Observation{
			Date: from.AddDate(0, 0, d),
			Risk: domain.RoundRisk(v),
		})
	}
	return series
}
