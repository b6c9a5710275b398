package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/validate"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Build the dataset and check it against the cleaning rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			ds, err := a.pipeline.Build(cmd.Context())
			if err != nil {
				return err
			}
			if !writeValidation(cmd.OutOrStdout(), ds, validate.Run(ds)) {
				return errors.New("validation failed")
			}
			return nil
		},
	}
}

func writeValidation(w io.Writer, ds *domain.Dataset, phases []*validate.Phase) bool {
	fmt.Fprintln(w, "=== Climate Report Data Validation ===")
	fmt.Fprintln(w)
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.Passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.Errors))
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.Name, status)
	}

	s := ds.Summary()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d co2, %d emissions, %d sea level, %d coastlines (%d joined)\n",
		s["co2"], s["emissions"], s["sea_level"], s["coastlines"], s["geo_coastlines"])

	for _, p := range phases {
		if p.Passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.Name)
		for i, e := range p.Errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if validate.AllPassed(phases) {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}
