package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/climate-report/internal/adapter/xlsx"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cleaned tables to an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("failed to get out flag: %w", err)
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
			if err := xlsx.SaveAs(out, ds); err != nil {
				return err
			}
			a.logger.Info("workbook written", "path", out)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "climate-report.xlsx", "output workbook")
	return cmd
}
