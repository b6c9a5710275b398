package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build the dataset and write the report page to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("failed to get out flag: %w", err)
			}

			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			page, err := newPage(a)
			if err != nil {
				return err
			}
			ds, err := a.build(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := page.Render(&buf, ds); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.metrics.PageRenders.Inc()
			a.logger.Info("report written", "path", out, "bytes", buf.Len())
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "report.html", "output HTML file")
	return cmd
}
