package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-report/internal/domain"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the top emitters for a year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, err := cmd.Flags().GetInt("year")
			if err != nil {
				return fmt.Errorf("failed to get year flag: %w", err)
			}
			n, err := cmd.Flags().GetInt("n")
			if err != nil {
				return fmt.Errorf("failed to get n flag: %w", err)
			}

			a, err := newApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.close()

			ds, err := a.pipeline.Build(cmd.Context())
			if err != nil {
				return err
			}
			if n <= 0 {
				n = a.cfg.TopN
			}
			if year == 0 {
				_, year = domain.YearRange(domain.ChartableEmissions(ds.Emissions))
			}

			writeSummary(cmd.OutOrStdout(), year, domain.TopEmitters(ds.Emissions, year, n))
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "year to rank (default: latest year in the data)")
	cmd.Flags().Int("n", 0, "number of emitters to show (default: TOP_N)")
	return cmd
}

func writeSummary(w io.Writer, year int, top []domain.EmissionRecord) {
	fmt.Fprintf(w, "Top %d emitters in %d (Mt CO2 equivalent)\n", len(top), year)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader([]string{"Rank", "Country", "Code", "ISO", "Emissions"})
	for i, r := range top {
		iso := "-"
		if r.NumericCode != domain.UnresolvedCode {
			iso = strconv.Itoa(r.NumericCode)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.Country,
			r.Code,
			iso,
			strconv.FormatFloat(r.Emissions, 'f', 2, 64),
		})
	}
	table.Render()
}
