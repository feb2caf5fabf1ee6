package cmd

import (
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-record-services/internal/recordclient"
	"github.com/spf13/cobra"
)

var (
	deleteBySearch bool
	deleteBulk     bool
	deleteLevel    string
	deleteSearch   string
)

var deleteCmd = &cobra.Command{
	Use:   "delete [ids...]",
	Short: "Delete records by id, or every record matching a search",
	Args: func(cmd *cobra.Command, args []string) error {
		if deleteBySearch && len(args) > 0 {
			return errors.New("ids cannot be combined with --selected-by-search")
		}
		if !deleteBySearch && len(args) == 0 {
			return errors.New("at least one id or --selected-by-search is required")
		}
		return validateLevel(deleteLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		commonSetUp()
		ctx := commandContext()
		out := cmd.OutOrStdout()

		state := recordclient.NewState(newRecordClient())
		level := ""
		if deleteBySearch {
			level = deleteLevel
		}
		if err := state.Load(ctx, level); err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}

		if deleteBySearch {
			state.SetSearch(deleteSearch)
			state.ToggleSelectAll(state.Visible())
		} else {
			for _, id := range args {
				if !state.ToggleSelection(id) {
					fmt.Fprintln(out, errorStyle.Render("Unknown record "+id))
				}
			}
		}

		selected := state.Selected()
		if len(selected) == 0 {
			fmt.Fprintln(out, "Nothing to delete")
			return nil
		}

		if deleteBulk {
			deleted, err := state.DeleteSelectedBulk(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("Deleted %d of %d records", deleted, len(selected))))
			return nil
		}

		outcome := state.DeleteSelected(ctx)
		fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("Deleted %d of %d records", len(outcome.Deleted), len(selected))))
		for id, err := range outcome.Failed {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("Failed to delete %s: %v", id, err)))
		}
		if len(outcome.Failed) > 0 {
			return fmt.Errorf("%d records could not be deleted", len(outcome.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteBySearch, "selected-by-search", false, "select every record matching --level and --search")
	deleteCmd.Flags().StringVar(&deleteLevel, "level", "", "level filter used with --selected-by-search")
	deleteCmd.Flags().StringVar(&deleteSearch, "search", "", "search text used with --selected-by-search")
	deleteCmd.Flags().BoolVar(&deleteBulk, "bulk", false, "delete with a single bulk request")
}
