package cmd

import (
	"github.com/EO-DataHub/eodhp-record-services/internal/events"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Publish a synced event for every stored record so consumers can rebuild their view",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()
		ctx := commandContext()

		recordDB := openRecordDB(ctx)
		defer recordDB.Close(ctx)

		// Initialize event publisher
		publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event publisher")
		}
		defer publisher.Close()

		records, err := recordDB.GetRecords(ctx, "")
		if err != nil {
			log.Fatal().Err(err).Msg("Error fetching records")
		}

		log.Info().Int("record_count", len(records)).Msg("Starting reconciliation process...")

		failed := 0
		for i := range records {
			record := records[i]
			if err := publisher.Publish(ctx, events.NewRecordEvent(models.ActionSynced, &record)); err != nil {
				log.Error().Err(err).Str("record_id", record.ID.Hex()).Msg("Failed to publish record")
				failed++
			}
		}

		log.Info().Int("failed", failed).Msg("Record publishing process completed.")
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
