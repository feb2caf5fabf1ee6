package cmd

import (
	"fmt"
	"os"

	"github.com/EO-DataHub/eodhp-record-services/internal/importer"
	"github.com/EO-DataHub/eodhp-record-services/internal/recordclient"
	"github.com/spf13/cobra"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Create one record per row of a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commonSetUp()
		ctx := commandContext()
		out := cmd.OutOrStdout()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		client := newRecordClient()
		state := recordclient.NewState(client)
		pipeline := importer.NewPipeline(client, state, appCfg.Import)

		if err := pipeline.Select(ctx, data); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		fmt.Fprintln(out, renderRows(pipeline.Preview()))
		fmt.Fprintf(out, "Previewing %d of %d rows\n", len(pipeline.Preview()), len(pipeline.Rows()))
		if importDryRun {
			return nil
		}

		result, err := pipeline.Submit(ctx)
		if err != nil {
			return err
		}

		if result.Failed > 0 {
			fmt.Fprintln(out, errorStyle.Render(result.Status))
			for _, rowErr := range result.Errors {
				fmt.Fprintln(out, errorStyle.Render(rowErr.Error()))
			}
			return fmt.Errorf("%d of %d rows failed", result.Failed, result.Failed+result.Succeeded)
		}

		fmt.Fprintln(out, okStyle.Render(result.Status))
		fmt.Fprintln(out, renderRecords(state.Records(), nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "only parse and preview the spreadsheet")
}
