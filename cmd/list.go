package cmd

import (
	"fmt"

	"github.com/EO-DataHub/eodhp-record-services/internal/recordclient"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/spf13/cobra"
)

var (
	listLevel  string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records from the record API",
	RunE: func(cmd *cobra.Command, args []string) error {
		commonSetUp()
		ctx := commandContext()
		if err := validateLevel(listLevel); err != nil {
			return err
		}

		state := recordclient.NewState(newRecordClient())
		if err := state.Load(ctx, listLevel); err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		state.SetSearch(listSearch)

		visible := state.Visible()
		fmt.Fprintln(cmd.OutOrStdout(), renderRecords(visible, nil))
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d records\n", len(visible), len(state.Records()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listLevel, "level", "", "only list records with this level (Intern, Junior, Senior)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "only list records whose name or position contains this text")
}

func newRecordClient() *recordclient.Client {
	return recordclient.NewClient(appCfg.Client.BaseURL, appCfg.Client.Timeout)
}

func validateLevel(level string) error {
	if level == "" || models.Level(level).Valid() {
		return nil
	}
	return fmt.Errorf("unknown level %q, expected one of %v", level, models.Levels)
}
