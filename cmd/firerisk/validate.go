package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

const riskUpperBound = 1.20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the tabular series and the computed indicator of every location",
		RunE: runE(func(cmd *cobra.Command, a *app) error {
			files := &phase{name: "Phase 1: Tabular Files"}
			integrity := &phase{name: "Phase 2: Series Integrity"}
			indicator := &phase{name: "Phase 3: Indicator Invariants"}

			rows := 0
			for _, loc := range a.locations {
				series, err := a.store.ReadSeries(cmd.Context(), loc)
				if err != nil {
					files.errorf("%s: %v", loc.Name, err)
					continue
				}
				if len(series) == 0 {
					files.errorf("%s: no rows", loc.Name)
					continue
				}
				rows += len(series)
				checkSeries(integrity, loc.Name, series)
				checkIndicator(indicator, domain.Analyze(loc.Name, series))
			}

			if !printPhases(cmd.OutOrStdout(), rows, files, integrity, indicator) {
				return errors.New("validation failed")
			}
			return nil
		}),
	}
}

func printPhases(w io.Writer, rows int, phases ...*phase) bool {
	fmt.Fprintln(w, "=== Fire Risk Data Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-36s %s\n", p.name, status)
	}
	fmt.Fprintf(w, "\nRows: %d\n", rows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
	} else {
		fmt.Fprintln(w, "\nValidation FAILED.")
	}
	return allPassed
}

// checkSeries flags duplicate dates and risk values outside the tier range.
func checkSeries(p *phase, name string, series domain.RiskSeries) {
	seen := make(map[string]bool, len(series))
	for _, o := range series {
		day := o.Date.Format(domain.RiskDateLayout)
		if seen[day] {
			p.errorf("%s %s: duplicate date", name, day)
		}
		seen[day] = true

		if math.IsNaN(o.Risk) || o.Risk < 0 || o.Risk >= riskUpperBound {
			p.errorf("%s %s: fire_risk %.2f outside [0, %.2f)", name, day, o.Risk, riskUpperBound)
		}
	}
}

// checkIndicator re-verifies the indicator against properties it must hold
// for any input.
func checkIndicator(p *phase, a domain.Analysis) {
	defined := 0
	for i, pt := range a.Points {
		day := pt.Date.Format(domain.RiskDateLayout)

		if pt.VR7.Valid != pt.Indicator.Valid {
			p.errorf("%s %s: vr7 defined=%t but ictr14 defined=%t", a.Location, day, pt.VR7.Valid, pt.Indicator.Valid)
		}
		if !pt.Indicator.Valid {
			continue
		}
		defined++
		if pt.Indicator.Value < 0 {
			p.errorf("%s %s: negative ictr14 %.4f", a.Location, day, pt.Indicator.Value)
		}
		if i > 0 && a.Points[i-1].Indicator.Valid && pt.Risk > a.Points[i-1].Risk && pt.Indicator.Value < pt.VR7.Value {
			p.errorf("%s %s: ictr14 %.4f below vr7 %.4f on a rising day", a.Location, day, pt.Indicator.Value, pt.VR7.Value)
		}
	}

	if want := max(0, len(a.Points)-domain.SmoothingWindow+1); defined != want {
		p.errorf("%s: %d defined ictr14 values, want %d", a.Location, defined, want)
	}
}
